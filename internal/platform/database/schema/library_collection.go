// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryCollectionTable represents the 'library.collection' table
type LibraryCollectionTable struct {
	Table         string
	ID            string
	OwnerID       string
	Name          string
	Description   string
	IsPublic      string
	ItemCount     string
	NextOrder     string
	FollowerCount string
	CreatedAt     string
	UpdatedAt     string
}

// LibraryCollection is the schema definition for library.collection
var LibraryCollection = LibraryCollectionTable{
	Table:         "library.collection",
	ID:            "id",
	OwnerID:       "ownerid",
	Name:          "name",
	Description:   "description",
	IsPublic:      "ispublic",
	ItemCount:     "itemcount",
	NextOrder:     "nextorder",
	FollowerCount: "followercount",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// LibraryCollectionItemTable represents the 'library.collectionitem' table
type LibraryCollectionItemTable struct {
	Table        string
	CollectionID string
	HaikuID      string
	SortOrder    string
	AddedAt      string
}

// LibraryCollectionItem is the schema definition for library.collectionitem
var LibraryCollectionItem = LibraryCollectionItemTable{
	Table:        "library.collectionitem",
	CollectionID: "collectionid",
	HaikuID:      "haikuid",
	SortOrder:    "sortorder",
	AddedAt:      "addedat",
}
