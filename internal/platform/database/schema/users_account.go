// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	DisplayName    string
	Username       string
	Bio            string
	Website        string
	Twitter        string
	Instagram      string
	TotalHaikus    string
	TotalLikes     string
	TotalFollowers string
	TotalFollowing string
	CreatedAt      string
	UpdatedAt      string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          "users.account",
	ID:             "id",
	DisplayName:    "displayname",
	Username:       "username",
	Bio:            "bio",
	Website:        "website",
	Twitter:        "twitter",
	Instagram:      "instagram",
	TotalHaikus:    "totalhaikus",
	TotalLikes:     "totallikes",
	TotalFollowers: "totalfollowers",
	TotalFollowing: "totalfollowing",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.DisplayName, t.Username, t.Bio, t.Website, t.Twitter, t.Instagram,
		t.TotalHaikus, t.TotalLikes, t.TotalFollowers, t.TotalFollowing,
		t.CreatedAt, t.UpdatedAt,
	}
}
