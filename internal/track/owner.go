// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/kolkov/sharedptr/internal/goid"
)

// OwnerError reports a non-atomic cell used from a goroutine other than
// the one that allocated it.
type OwnerError struct {
	Op        string
	Kind      string
	Type      string
	Cell      uintptr
	Owner     int64
	Goroutine int64
}

func (e *OwnerError) Error() string {
	return fmt.Sprintf("sharedptr: %s on %s[%s] cell %s by goroutine %d, owned by goroutine %d",
		e.Op, e.Kind, e.Type, formatAddr(e.Cell), e.Goroutine, e.Owner)
}

// CheckOwner verifies the calling goroutine owns cell.
//
// Untracked cells and cells without a recorded owner pass. On a mismatch
// the violation is counted and logged, or panics with *OwnerError when
// PanicOnViolation is set.
func CheckOwner(cell unsafe.Pointer, op string) {
	if !opts.Load().CheckOwner {
		return
	}

	//nolint:gosec // G103: address is used only as a map key
	v, ok := cells.Load(uintptr(cell))
	if !ok {
		return
	}
	rec := v.(*Record)
	if rec.Owner == 0 {
		return
	}

	gid := goid.Current()
	if gid == rec.Owner {
		return
	}

	violations.Add(1)

	err := &OwnerError{
		Op:        op,
		Kind:      rec.Kind,
		Type:      rec.Type,
		Cell:      rec.Cell,
		Owner:     rec.Owner,
		Goroutine: gid,
	}

	logger.Load().LogAttrs(context.Background(), slog.LevelError,
		"sharedptr: non-atomic pointer used across goroutines",
		slog.String("op", op),
		slog.String("kind", rec.Kind),
		slog.String("type", rec.Type),
		slog.String("cell", formatAddr(rec.Cell)),
		slog.Int64("owner", rec.Owner),
		slog.Int64("goroutine", gid),
	)

	if opts.Load().PanicOnViolation {
		panic(err)
	}
}

func formatAddr(addr uintptr) string {
	return fmt.Sprintf("0x%016x", addr)
}
