// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import "unsafe"

// Kind is the contract every reference-counting strategy implements.
//
// K is the implementing type itself; methods use value receivers and
// return the resulting instance, so a kind is a plain one-word value that
// the generic wrapper stores inline and dispatches to statically.
//
// Every method taking t requires the descriptor the instance was built
// with. AsPtr, Deref, GetMut, StrongCount and Clone never consult it and
// accept nil.
type Kind[K any] interface {
	// New allocates a cell holding a copy of *v with count 1.
	New(t *Type, v unsafe.Pointer) K

	// FromBox adopts the heap value boxed without copying it. The caller
	// must not use boxed directly afterwards.
	FromBox(t *Type, boxed unsafe.Pointer) K

	// AsPtr returns the address of the contained value. Two instances
	// share a cell iff their AsPtr results are equal.
	AsPtr(t *Type) unsafe.Pointer

	// Deref returns the address of the contained value for reading.
	Deref(t *Type) unsafe.Pointer

	// TryUnwrap moves the value into *dst and consumes the instance if it
	// is the only owner. Otherwise it returns the instance unchanged and
	// false.
	TryUnwrap(t *Type, dst unsafe.Pointer) (K, bool)

	// GetMut returns the address of the value for writing if the instance
	// is the only owner, nil otherwise.
	GetMut(t *Type) unsafe.Pointer

	// MakeMut returns a uniquely owned instance and the writable address
	// of its value. A shared value is first duplicated into a new cell and
	// this instance's share of the old cell is dropped.
	MakeMut(t *Type) (K, unsafe.Pointer)

	// StrongCount returns the number of owners. It is advisory for atomic
	// kinds.
	StrongCount(t *Type) int

	// Clone adds an owner and returns the new instance.
	Clone(t *Type) K

	// Drop removes this owner. The last drop releases the value.
	Drop(t *Type)

	// Carrier exposes the erased cell handle.
	Carrier() Carrier

	// String returns the kind name.
	String() string
}

// Concurrent is implemented by kinds whose counters are atomic. Functions
// that hand a pointer to another goroutine constrain K on it, so a
// non-atomic pointer cannot be passed there.
type Concurrent[K any] interface {
	Kind[K]

	// Concurrent is a marker; it does nothing.
	Concurrent()
}

// Words returns the number of counter words a kind's cells carry.
func Words[K Kind[K]]() int {
	var k K
	switch any(k).(type) {
	case ArcK:
		return arcWords
	default:
		return 1
	}
}

// IsConcurrent reports whether K implements Concurrent.
func IsConcurrent[K Kind[K]]() bool {
	var k K
	_, ok := any(k).(interface{ Concurrent() })
	return ok
}

// Name returns the kind name of K, e.g. "ArcTK".
func Name[K Kind[K]]() string {
	var k K
	return k.String()
}

var (
	_ Kind[RcK]         = RcK{}
	_ Concurrent[ArcK]  = ArcK{}
	_ Concurrent[ArcTK] = ArcTK{}
)
