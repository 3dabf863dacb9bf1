// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package track implements debug-mode bookkeeping for shared pointer cells.
//
// Nothing here is needed for correct programs. It exists to make the two
// preconditions Go cannot check statically observable at run time:
//
//   - A non-atomic cell must never be touched by a goroutine other than the
//     one that allocated it (owner check).
//   - Every cell must eventually see its final drop (leak tracking).
//
// # Overview
//
// When either check is enabled, each new cell is registered with:
//   - Kind: the pointer kind name ("RcK", "ArcK", "ArcTK")
//   - Type: the contained value's type name
//   - Owner: the allocating goroutine ID (non-atomic kinds only)
//   - Stack: an allocation-site hash into internal/depot
//
// The final drop unregisters the cell. A cell that becomes unreachable
// while still registered was leaked: its cleanup logs it and counts it.
//
// # Performance
//
// With both checks disabled (the default) every hook is a single atomic
// load and a branch. Enabling owner checks costs one runtime.Stack call
// per non-atomic operation; use it in tests, not production.
//
// # Thread Safety
//
// All functions are safe for concurrent use. Reset is NOT, and is meant
// for test setup only.
package track
