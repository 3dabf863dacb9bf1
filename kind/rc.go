// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"math"
	"unsafe"
)

const rcName = "RcK"

// RcK is the non-atomic kind: a plain counter in a one-word header.
//
// Performance: Clone and Drop are an ordinary increment and decrement.
//
// Thread Safety: None. Every instance sharing a cell must stay on the
// goroutine that created it. Debug tracking (owner checks) reports
// violations; without it they are undefined behaviour.
type RcK struct {
	c Carrier
}

// New implements Kind.
func (RcK) New(t *Type, v unsafe.Pointer) RcK {
	c := t.Alloc(1, v)
	*c.Counter(0) = 1
	c.Track(rcName, t, true)
	return RcK{c: c}
}

// FromBox implements Kind.
func (RcK) FromBox(t *Type, boxed unsafe.Pointer) RcK {
	c := t.Adopt(1, boxed)
	*c.Counter(0) = 1
	c.Track(rcName, t, true)
	return RcK{c: c}
}

// AsPtr implements Kind.
func (k RcK) AsPtr(*Type) unsafe.Pointer {
	return k.c.Value(1)
}

// Deref implements Kind.
func (k RcK) Deref(*Type) unsafe.Pointer {
	k.c.CheckOwner("Deref")
	return k.c.Value(1)
}

// TryUnwrap implements Kind.
func (k RcK) TryUnwrap(t *Type, dst unsafe.Pointer) (RcK, bool) {
	k.c.CheckOwner("TryUnwrap")
	n := k.c.Counter(0)
	if *n != 1 {
		return k, false
	}
	*n = 0
	k.c.MoveOut(1, t, dst)
	return RcK{}, true
}

// GetMut implements Kind.
func (k RcK) GetMut(*Type) unsafe.Pointer {
	k.c.CheckOwner("GetMut")
	if *k.c.Counter(0) != 1 {
		return nil
	}
	return k.c.Value(1)
}

// MakeMut implements Kind.
func (k RcK) MakeMut(t *Type) (RcK, unsafe.Pointer) {
	k.c.CheckOwner("MakeMut")
	if *k.c.Counter(0) == 1 {
		return k, k.c.Value(1)
	}

	c := t.Duplicate(1, k.c.Value(1))
	*c.Counter(0) = 1
	c.Track(rcName, t, true)
	k.Drop(t)
	return RcK{c: c}, c.Value(1)
}

// StrongCount implements Kind.
func (k RcK) StrongCount(*Type) int {
	k.c.CheckOwner("StrongCount")
	return int(*k.c.Counter(0))
}

// Clone implements Kind.
func (k RcK) Clone(*Type) RcK {
	k.c.CheckOwner("Clone")
	n := k.c.Counter(0)
	if *n <= 0 || *n == math.MaxInt64 {
		badCount(rcName, "Clone", *n)
	}
	*n++
	return k
}

// Drop implements Kind.
func (k RcK) Drop(t *Type) {
	k.c.CheckOwner("Drop")
	n := k.c.Counter(0)
	*n--
	switch {
	case *n < 0:
		badCount(rcName, "Drop", *n)
	case *n == 0:
		k.c.Detach(1, t)
	}
}

// Carrier implements Kind.
func (k RcK) Carrier() Carrier {
	return k.c
}

// String implements Kind.
func (RcK) String() string {
	return rcName
}
