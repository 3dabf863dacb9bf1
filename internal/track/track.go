// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/kolkov/sharedptr/internal/depot"
	"github.com/kolkov/sharedptr/internal/goid"
)

// Options configures debug tracking.
//
// The zero value disables everything.
type Options struct {
	// CheckOwner enables owner-goroutine checks for non-atomic cells.
	CheckOwner bool

	// TrackLeaks records every cell with its allocation stack until its
	// final drop.
	TrackLeaks bool

	// PanicOnViolation turns an owner violation into a panic carrying
	// *OwnerError instead of a log line.
	PanicOnViolation bool

	// Logger receives violation and leak records. nil keeps the current logger.
	Logger *slog.Logger
}

// Record describes one live, tracked cell.
type Record struct {
	Seq     uint64
	Cell    uintptr
	Kind    string
	Type    string
	Owner   int64 // 0 when the kind is atomic
	Stack   uint64
	Created time.Time
}

// Stats holds tracking counters since the last Reset.
type Stats struct {
	Allocated  uint64
	Released   uint64
	Live       int
	Collected  uint64 // cells reclaimed by the GC without a final drop
	Violations uint64
}

var (
	opts    atomic.Pointer[Options]
	enabled atomic.Bool
	logger  atomic.Pointer[slog.Logger]

	// cells maps uintptr (cell address) -> *Record.
	cells sync.Map

	seq        atomic.Uint64
	allocated  atomic.Uint64
	released   atomic.Uint64
	collected  atomic.Uint64
	violations atomic.Uint64
)

func init() {
	opts.Store(&Options{})
	logger.Store(slog.New(slog.DiscardHandler))
}

// Configure replaces the tracking options.
//
// Cells allocated before tracking was enabled are never registered and
// are ignored by every check.
func Configure(o Options) {
	if o.Logger != nil {
		logger.Store(o.Logger)
	}
	o.Logger = nil
	opts.Store(&o)
	enabled.Store(o.CheckOwner || o.TrackLeaks)
}

// Current returns the active options.
func Current() Options {
	o := *opts.Load()
	o.Logger = logger.Load()
	return o
}

// SetLogger installs the logger used for violations and leaks.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// Logger returns the installed logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// Enabled reports whether any tracking is active.
//
//go:nosplit
func Enabled() bool {
	return enabled.Load()
}

// ParseEnv parses a comma separated list such as "owner,leaks,panic"
// (the SHAREDPTR_DEBUG format). Unknown words are ignored; "all" enables
// owner and leak checks.
func ParseEnv(v string) Options {
	var o Options
	for _, w := range strings.Split(v, ",") {
		switch strings.ToLower(strings.TrimSpace(w)) {
		case "owner":
			o.CheckOwner = true
		case "leaks", "leak":
			o.TrackLeaks = true
		case "panic":
			o.PanicOnViolation = true
		case "all", "1", "true":
			o.CheckOwner = true
			o.TrackLeaks = true
		}
	}
	return o
}

// Register records a freshly allocated cell.
//
// owned marks a non-atomic cell whose owner goroutine must be checked.
// The cell's allocation stack is attributed to the caller skip frames up.
//
// Must be called only when Enabled() is true.
func Register(cell unsafe.Pointer, kind, typ string, owned bool, skip int) {
	o := opts.Load()

	rec := &Record{
		Seq:  seq.Add(1),
		Kind: kind,
		Type: typ,
	}
	//nolint:gosec // G103: address is used only as a map key and for reports
	rec.Cell = uintptr(cell)
	rec.Created = time.Now()
	if owned && o.CheckOwner {
		rec.Owner = goid.Current()
	}
	if o.TrackLeaks {
		rec.Stack = depot.Capture(skip + 1)
	}

	cells.Store(rec.Cell, rec)
	allocated.Add(1)

	if o.TrackLeaks {
		runtime.AddCleanup((*byte)(cell), collect, rec)
	}
}

// Unregister forgets a cell after its final drop or a successful move-out.
func Unregister(cell unsafe.Pointer) {
	//nolint:gosec // G103: address is used only as a map key
	if _, ok := cells.LoadAndDelete(uintptr(cell)); ok {
		released.Add(1)
	}
}

// collect runs after a tracked cell became unreachable. If its record is
// still registered nobody performed its final drop. A newer cell at the
// same address has a different record and is left alone.
func collect(rec *Record) {
	if !cells.CompareAndDelete(rec.Cell, rec) {
		return
	}
	collected.Add(1)
	logger.Load().LogAttrs(context.Background(), slog.LevelWarn,
		"sharedptr: cell collected without final drop",
		slog.String("kind", rec.Kind),
		slog.String("type", rec.Type),
		slog.String("cell", formatAddr(rec.Cell)),
	)
}

// Live returns the tracked cells that have not seen their final drop,
// oldest first.
func Live() []Record {
	var out []Record
	cells.Range(func(_, v any) bool {
		out = append(out, *v.(*Record))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Snapshot returns the current counters.
func Snapshot() Stats {
	n := 0
	cells.Range(func(_, _ any) bool {
		n++
		return true
	})
	return Stats{
		Allocated:  allocated.Load(),
		Released:   released.Load(),
		Live:       n,
		Collected:  collected.Load(),
		Violations: violations.Load(),
	}
}

// Reset drops every record and zeroes the counters.
//
// Counters are not reset atomically with the records; call it from test
// setup, not while pointers are being created elsewhere.
func Reset() {
	cells.Clear()
	allocated.Store(0)
	released.Store(0)
	collected.Store(0)
	violations.Store(0)
}
