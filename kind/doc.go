// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kind defines the pointer-kind contract and its three
// reference-counting implementations.
//
// A kind is a reference-counting strategy that can hold a value of any type
// without naming that type in its own definition. Every kind owns exactly
// one Carrier: a single erased pointer to a counted cell. Because the
// carrier's layout never depends on the contained type, one kind type works
// for all T, while the wrapper above it (sharedptr.SharedPointer) carries T
// in its own type and hands the matching *Type descriptor to every call.
//
// # Kinds
//
//   - RcK: non-atomic counter. Cheapest; must stay on one goroutine.
//   - ArcK: atomic counter with the two-word header of a classic atomic
//     allocation (strong + weak). The weak word is inert: weak references
//     are not supported.
//   - ArcTK: lean atomic counter with a one-word header.
//
// # Contract
//
// All operations except New and FromBox require the caller to pass the
// same *Type that constructed the instance. Passing another descriptor is
// undefined behaviour; the contract documents it, it does not check it.
//
// # Cell Layout
//
//	counts [words]int64   // 1 word for RcK/ArcTK, 2 for ArcK
//	value  unsafe.Pointer // -> inline value, or the adopted *T
//	v      T              // inline value (absent for FromBox cells)
//
// The typed handle for a cell is *cell[T]: one machine word, exactly like
// Carrier. TypeOf asserts this at compile time for every instantiation.
//
// # Thread Safety
//
// RcK provides none. ArcK and ArcTK allow concurrent Clone/Drop/Deref of
// the same cell from any number of goroutines; exactly one goroutine
// observes the count reaching zero and releases the value. StrongCount is
// advisory and may be stale when it returns.
package kind
