// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialHaikuLikeTable represents the 'social.haikulike' table
type SocialHaikuLikeTable struct {
	Table   string
	ActorID string
	HaikuID string
	LikedAt string
}

// SocialHaikuLike is the schema definition for social.haikulike
var SocialHaikuLike = SocialHaikuLikeTable{
	Table:   "social.haikulike",
	ActorID: "actorid",
	HaikuID: "haikuid",
	LikedAt: "likedat",
}
