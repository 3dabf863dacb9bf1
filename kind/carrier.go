// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"unsafe"

	"github.com/kolkov/sharedptr/internal/track"
)

// Carrier is the erased, one-word stand-in for a typed cell handle.
//
// For every T a kind is ever used with, Carrier has the size and alignment
// of *cell[T] (asserted in TypeOf). The zero Carrier refers to no cell.
type Carrier struct {
	p unsafe.Pointer
}

// head1 is the prefix of a cell with one counter word.
type head1 struct {
	counts [1]int64
	value  unsafe.Pointer
}

// head2 is the prefix of a cell with two counter words.
type head2 struct {
	counts [2]int64
	value  unsafe.Pointer
}

// cell1 and cell2 are the typed allocations behind a Carrier. The inline
// value v is used by New; FromBox allocates only the head.
type cell1[T any] struct {
	head1
	v T
}

type cell2[T any] struct {
	head2
	v T
}

// IsNil reports whether c refers to no cell.
func (c Carrier) IsNil() bool {
	return c.p == nil
}

// Pointer returns the cell address.
func (c Carrier) Pointer() unsafe.Pointer {
	return c.p
}

// Counter returns the i-th counter word (0 or 1) of the cell.
//
// Word 1 exists only in two-word cells.
func (c Carrier) Counter(i int) *int64 {
	if i == 0 {
		return &(*head1)(c.p).counts[0]
	}
	return &(*head2)(c.p).counts[1]
}

// Value returns the address of the contained value of a cell with the
// given number of counter words, or nil once the value has been released.
func (c Carrier) Value(words int) unsafe.Pointer {
	if words == 1 {
		return (*head1)(c.p).value
	}
	return (*head2)(c.p).value
}

func (c Carrier) setValue(words int, v unsafe.Pointer) {
	if words == 1 {
		(*head1)(c.p).value = v
		return
	}
	(*head2)(c.p).value = v
}

// Detach releases the contained value of a cell whose count just reached
// zero: the cell forgets the value, debug tracking forgets the cell, and
// the value's release hook runs.
//
// Kinds call this exactly once, from the operation that observed zero.
func (c Carrier) Detach(words int, t *Type) {
	v := c.Value(words)
	c.setValue(words, nil)
	c.untrack()
	t.Release(v)
}

// MoveOut moves the contained value into *dst and detaches the cell
// without running the release hook: ownership passes to the caller.
func (c Carrier) MoveOut(words int, t *Type, dst unsafe.Pointer) {
	v := c.Value(words)
	t.Move(dst, v)
	c.setValue(words, nil)
	c.untrack()
}

// Track registers the cell with debug tracking when it is enabled.
//
// owned requests owner-goroutine checks (non-atomic kinds).
func (c Carrier) Track(kind string, t *Type, owned bool) {
	if track.Enabled() {
		// Skip Track and the kind constructor so the allocation is
		// attributed to whoever asked for the pointer.
		track.Register(c.p, kind, t.Name(), owned, 2)
	}
}

// CheckOwner performs the debug-mode owner check for op.
func (c Carrier) CheckOwner(op string) {
	if track.Enabled() {
		track.CheckOwner(c.p, op)
	}
}

func (c Carrier) untrack() {
	if track.Enabled() {
		track.Unregister(c.p)
	}
}
