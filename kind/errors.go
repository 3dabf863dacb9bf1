// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"errors"
	"fmt"
)

// ErrRefCount is the sentinel matched by every *RefCountError.
var ErrRefCount = errors.New("kind: invalid reference count")

// ErrNotCloneable is wrapped by the panic value of Type.Duplicate when the
// value has a release hook (Releaser or io.Closer) but is not a Cloner. A
// plain copy would leave two cells releasing the same resource.
var ErrNotCloneable = errors.New("kind: releasable value is not a Cloner")

// RefCountError reports a corrupted counter: an increment from zero
// (use after final drop), a decrement below zero (double drop) or an
// overflow.
//
// These are precondition violations, not recoverable outcomes. Kinds panic
// with this error so that misuse is loud instead of silently undefined.
//
// Thread Safety: Immutable after creation, safe for concurrent use.
type RefCountError struct {
	Kind  string // Kind name, e.g. "ArcK"
	Op    string // Operation that observed the count
	Count int64  // Count after the operation
}

// Error implements the error interface.
func (e *RefCountError) Error() string {
	return fmt.Sprintf("kind: %s.%s observed invalid reference count %d", e.Kind, e.Op, e.Count)
}

// Is reports whether target is ErrRefCount.
func (e *RefCountError) Is(target error) bool {
	return target == ErrRefCount
}

func badCount(kind, op string, n int64) {
	panic(&RefCountError{Kind: kind, Op: op, Count: n})
}
