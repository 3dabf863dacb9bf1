// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"math"
	"sync/atomic"
	"unsafe"
)

const (
	arcName  = "ArcK"
	arcWords = 2
)

// ArcK is the standard atomic kind. Its header has a strong counter and a
// weak counter, like a classic atomic allocation. Weak references are not
// supported: the weak word is set to one at allocation and never changes,
// but uniqueness checks still consult it.
//
// Thread Safety: Clone, Drop, Deref and StrongCount may run concurrently on
// instances sharing a cell. Exactly one Drop observes zero.
type ArcK struct {
	c Carrier
}

// New implements Kind.
func (ArcK) New(t *Type, v unsafe.Pointer) ArcK {
	c := t.Alloc(arcWords, v)
	*c.Counter(0) = 1
	*c.Counter(1) = 1
	c.Track(arcName, t, false)
	return ArcK{c: c}
}

// FromBox implements Kind.
func (ArcK) FromBox(t *Type, boxed unsafe.Pointer) ArcK {
	c := t.Adopt(arcWords, boxed)
	*c.Counter(0) = 1
	*c.Counter(1) = 1
	c.Track(arcName, t, false)
	return ArcK{c: c}
}

// AsPtr implements Kind.
func (k ArcK) AsPtr(*Type) unsafe.Pointer {
	return k.c.Value(arcWords)
}

// Deref implements Kind.
func (k ArcK) Deref(*Type) unsafe.Pointer {
	return k.c.Value(arcWords)
}

// TryUnwrap implements Kind.
func (k ArcK) TryUnwrap(t *Type, dst unsafe.Pointer) (ArcK, bool) {
	if atomic.LoadInt64(k.c.Counter(1)) != 1 {
		return k, false
	}
	if !atomic.CompareAndSwapInt64(k.c.Counter(0), 1, 0) {
		return k, false
	}
	k.c.MoveOut(arcWords, t, dst)
	return ArcK{}, true
}

// GetMut implements Kind.
func (k ArcK) GetMut(*Type) unsafe.Pointer {
	if !k.unique() {
		return nil
	}
	return k.c.Value(arcWords)
}

// MakeMut implements Kind.
func (k ArcK) MakeMut(t *Type) (ArcK, unsafe.Pointer) {
	if k.unique() {
		return k, k.c.Value(arcWords)
	}

	c := t.Duplicate(arcWords, k.c.Value(arcWords))
	*c.Counter(0) = 1
	*c.Counter(1) = 1
	c.Track(arcName, t, false)
	k.Drop(t)
	return ArcK{c: c}, c.Value(arcWords)
}

// StrongCount implements Kind.
func (k ArcK) StrongCount(*Type) int {
	return int(atomic.LoadInt64(k.c.Counter(0)))
}

// Clone implements Kind.
func (k ArcK) Clone(*Type) ArcK {
	atomicInc(k.c.Counter(0), arcName)
	return k
}

// Drop implements Kind.
func (k ArcK) Drop(t *Type) {
	if atomicDec(k.c.Counter(0), arcName) {
		k.c.Detach(arcWords, t)
	}
}

// Carrier implements Kind.
func (k ArcK) Carrier() Carrier {
	return k.c
}

// String implements Kind.
func (ArcK) String() string {
	return arcName
}

// Concurrent implements Concurrent.
func (ArcK) Concurrent() {}

func (k ArcK) unique() bool {
	return atomic.LoadInt64(k.c.Counter(0)) == 1 &&
		atomic.LoadInt64(k.c.Counter(1)) == 1
}

// atomicInc adds an owner. A previous value of zero means the cell was
// already released; a negative one means the counter wrapped.
func atomicInc(n *int64, name string) {
	if v := atomic.AddInt64(n, 1); v <= 1 || v == math.MaxInt64 {
		badCount(name, "Clone", v)
	}
}

// atomicDec removes an owner and reports whether it was the last one.
func atomicDec(n *int64, name string) bool {
	v := atomic.AddInt64(n, -1)
	if v < 0 {
		badCount(name, "Drop", v)
	}
	return v == 0
}
