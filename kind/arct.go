// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"sync/atomic"
	"unsafe"
)

const arcTName = "ArcTK"

// ArcTK is the lean atomic kind: one atomic counter, no weak counter.
// Semantics match ArcK; cells are one word smaller.
type ArcTK struct {
	c Carrier
}

// New implements Kind.
func (ArcTK) New(t *Type, v unsafe.Pointer) ArcTK {
	c := t.Alloc(1, v)
	*c.Counter(0) = 1
	c.Track(arcTName, t, false)
	return ArcTK{c: c}
}

// FromBox implements Kind.
func (ArcTK) FromBox(t *Type, boxed unsafe.Pointer) ArcTK {
	c := t.Adopt(1, boxed)
	*c.Counter(0) = 1
	c.Track(arcTName, t, false)
	return ArcTK{c: c}
}

// AsPtr implements Kind.
func (k ArcTK) AsPtr(*Type) unsafe.Pointer {
	return k.c.Value(1)
}

// Deref implements Kind.
func (k ArcTK) Deref(*Type) unsafe.Pointer {
	return k.c.Value(1)
}

// TryUnwrap implements Kind.
func (k ArcTK) TryUnwrap(t *Type, dst unsafe.Pointer) (ArcTK, bool) {
	if !atomic.CompareAndSwapInt64(k.c.Counter(0), 1, 0) {
		return k, false
	}
	k.c.MoveOut(1, t, dst)
	return ArcTK{}, true
}

// GetMut implements Kind.
func (k ArcTK) GetMut(*Type) unsafe.Pointer {
	if atomic.LoadInt64(k.c.Counter(0)) != 1 {
		return nil
	}
	return k.c.Value(1)
}

// MakeMut implements Kind.
func (k ArcTK) MakeMut(t *Type) (ArcTK, unsafe.Pointer) {
	if atomic.LoadInt64(k.c.Counter(0)) == 1 {
		return k, k.c.Value(1)
	}

	c := t.Duplicate(1, k.c.Value(1))
	*c.Counter(0) = 1
	c.Track(arcTName, t, false)
	k.Drop(t)
	return ArcTK{c: c}, c.Value(1)
}

// StrongCount implements Kind.
func (k ArcTK) StrongCount(*Type) int {
	return int(atomic.LoadInt64(k.c.Counter(0)))
}

// Clone implements Kind.
func (k ArcTK) Clone(*Type) ArcTK {
	atomicInc(k.c.Counter(0), arcTName)
	return k
}

// Drop implements Kind.
func (k ArcTK) Drop(t *Type) {
	if atomicDec(k.c.Counter(0), arcTName) {
		k.c.Detach(1, t)
	}
}

// Carrier implements Kind.
func (k ArcTK) Carrier() Carrier {
	return k.c
}

// String implements Kind.
func (ArcTK) String() string {
	return arcTName
}

// Concurrent implements Concurrent.
func (ArcTK) Concurrent() {}
