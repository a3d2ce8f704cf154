// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ContentHaikuTable represents the 'content.haiku' table
type ContentHaikuTable struct {
	Table     string
	ID        string
	OwnerID   string
	Content   string
	Theme     string
	IsAI      string
	IsPublic  string
	IsSaved   string
	LikeCount string
	LikedBy   string
	CreatedAt string
}

// ContentHaiku is the schema definition for content.haiku
var ContentHaiku = ContentHaikuTable{
	Table:     "content.haiku",
	ID:        "id",
	OwnerID:   "ownerid",
	Content:   "content",
	Theme:     "theme",
	IsAI:      "isai",
	IsPublic:  "ispublic",
	IsSaved:   "issaved",
	LikeCount: "likecount",
	LikedBy:   "likedby",
	CreatedAt: "createdat",
}
