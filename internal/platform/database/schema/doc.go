// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the Kigo document store.
//
// Each table is described by a struct of column names so SQL built with
// fmt.Sprintf stays in sync with the migrations under data/migrations.
package schema
