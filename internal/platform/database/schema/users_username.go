// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserUsernameTable represents the 'users.username' reservation table
type UserUsernameTable struct {
	Table     string
	Username  string
	OwnerID   string
	CreatedAt string
}

// UserUsername is the schema definition for users.username
var UserUsername = UserUsernameTable{
	Table:     "users.username",
	Username:  "username",
	OwnerID:   "ownerid",
	CreatedAt: "createdat",
}
