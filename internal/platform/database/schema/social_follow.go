// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialFollowEdgeTable represents one direction of a follow relationship.
// The same shape backs both 'social.following' and 'social.follower'.
type SocialFollowEdgeTable struct {
	Table      string
	OwnerID    string
	OtherID    string
	FollowedAt string
}

// SocialFollowing lists, per actor, the users that actor follows.
var SocialFollowing = SocialFollowEdgeTable{
	Table:      "social.following",
	OwnerID:    "actorid",
	OtherID:    "targetid",
	FollowedAt: "followedat",
}

// SocialFollower lists, per user, the actors following that user.
var SocialFollower = SocialFollowEdgeTable{
	Table:      "social.follower",
	OwnerID:    "targetid",
	OtherID:    "actorid",
	FollowedAt: "followedat",
}
