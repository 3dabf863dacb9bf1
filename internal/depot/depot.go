// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package depot stores allocation-site stack traces for leak reports.
//
// Every cell allocated while leak tracking is on records the stack that
// created it. Most programs allocate from a handful of call sites, so the
// depot deduplicates identical stacks and hands out a 64-bit hash instead.
//
// Design:
//   - Fixed-size stack traces (MaxFrames frames)
//   - Hash-based deduplication (FNV-1a over the program counters)
//   - Global sync.Map storage
//
// Usage:
//
//	hash := depot.Capture(1)
//	...
//	fmt.Print(depot.Get(hash).Format())
package depot

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
)

// MaxFrames is the maximum number of stack frames captured per allocation.
const MaxFrames = 8

// StackTrace is a captured, fixed-size stack trace.
type StackTrace struct {
	PC [MaxFrames]uintptr
}

// stacks maps uint64 hash -> *StackTrace.
var stacks sync.Map

// Capture records the caller's stack and returns its hash.
//
// skip is the number of frames above Capture's caller to omit, so a
// constructor can attribute the allocation to its own caller.
//
// Returns 0 if no stack is available.
//
// Thread Safety: Safe for concurrent calls from multiple goroutines.
func Capture(skip int) uint64 {
	var pcs [MaxFrames]uintptr
	// Skip runtime.Callers and Capture itself.
	n := runtime.Callers(2+skip, pcs[:])
	if n == 0 {
		return 0
	}

	hash := hashStack(pcs[:n])
	if _, exists := stacks.Load(hash); exists {
		return hash
	}

	stacks.Store(hash, &StackTrace{PC: pcs})

	return hash
}

// Get retrieves a stack trace by hash, or nil if unknown.
func Get(hash uint64) *StackTrace {
	if hash == 0 {
		return nil
	}

	val, ok := stacks.Load(hash)
	if !ok {
		return nil
	}

	return val.(*StackTrace)
}

func hashStack(pcs []uintptr) uint64 {
	h := fnv.New64a()

	var b [8]byte
	for _, pc := range pcs {
		binary.LittleEndian.PutUint64(b[:], uint64(pc))
		_, _ = h.Write(b[:]) // hash.Hash never returns an error.
	}

	return h.Sum64()
}

// Format renders the trace one frame per two lines:
//
//	main.worker()
//	    /path/to/file.go:45
//
// Runtime frames are skipped.
func (st *StackTrace) Format() string {
	if st == nil {
		return "  <unknown>\n"
	}

	frames := runtime.CallersFrames(st.PC[:])

	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}

		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d\n", frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}

	return buf.String()
}

// Reset clears the depot.
//
// Thread Safety: NOT safe for concurrent calls. Test setup only.
func Reset() {
	stacks = sync.Map{}
}

// Len returns the number of unique stacks stored.
func Len() int {
	n := 0
	stacks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
