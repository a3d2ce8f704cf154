// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package txn declares the unit-of-work contract shared by every document
// store implementation.
//
// A service that must keep several records consistent calls
// [Transactor.RunInTransaction] once and performs all of its reads and writes
// through repositories using the context handed to fn. Repositories discover
// the active transaction from that context; the service never sees it.
package txn

import "context"

// Func is the body of a transaction. Returning a non-nil error rolls back
// every write performed through ctx.
type Func func(ctx context.Context) error

// Transactor runs fn atomically with conflict detection. Implementations may
// invoke fn more than once when a concurrent writer forces a retry, so fn must
// not have side effects outside the store.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn Func) error
}
