// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bench defines the pointer micro-benchmark workloads shared by
// the package benchmarks and the sharedptr bench command.
package bench

import (
	"testing"

	"github.com/kolkov/sharedptr"
	"github.com/kolkov/sharedptr/kind"
)

const (
	// DerefLimit is the number of dereferences per deref iteration.
	DerefLimit = 200_000

	// CloneLimit is the number of owners created and dropped per
	// clone iteration.
	CloneLimit = 100_000
)

// Workload is one benchmark for one kind.
type Workload struct {
	Name string
	Kind string
	Run  func(b *testing.B)
}

// Result is a finished workload measurement.
type Result struct {
	Name        string  `json:"name" yaml:"name"`
	Kind        string  `json:"kind" yaml:"kind"`
	Iterations  int     `json:"iterations" yaml:"iterations"`
	NsPerOp     int64   `json:"ns_per_op" yaml:"ns_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op" yaml:"allocs_per_op"`
	BytesPerOp  int64   `json:"bytes_per_op" yaml:"bytes_per_op"`
	NsPerElem   float64 `json:"ns_per_elem" yaml:"ns_per_elem"`
}

// sink keeps dereferenced values observable so loops are not elided.
var sink int

// Workloads returns every workload for every built-in kind, in a stable
// order: grouped by workload, then RcK, ArcK, ArcTK.
func Workloads() []Workload {
	var out []Workload
	for _, w := range []struct {
		name string
		rc   func(*testing.B)
		arc  func(*testing.B)
		arct func(*testing.B)
	}{
		{"deref", Deref[sharedptr.RcK], Deref[sharedptr.ArcK], Deref[sharedptr.ArcTK]},
		{"clone-drop", CloneDrop[sharedptr.RcK], CloneDrop[sharedptr.ArcK], CloneDrop[sharedptr.ArcTK]},
		{"new-drop", NewDrop[sharedptr.RcK], NewDrop[sharedptr.ArcK], NewDrop[sharedptr.ArcTK]},
		{"make-mut", MakeMut[sharedptr.RcK], MakeMut[sharedptr.ArcK], MakeMut[sharedptr.ArcTK]},
	} {
		out = append(out,
			Workload{Name: w.name, Kind: kind.Name[sharedptr.RcK](), Run: w.rc},
			Workload{Name: w.name, Kind: kind.Name[sharedptr.ArcK](), Run: w.arc},
			Workload{Name: w.name, Kind: kind.Name[sharedptr.ArcTK](), Run: w.arct},
		)
	}
	return out
}

// Measure runs w with testing.Benchmark.
func Measure(w Workload) Result {
	r := testing.Benchmark(w.Run)
	res := Result{
		Name:        w.Name,
		Kind:        w.Kind,
		Iterations:  r.N,
		NsPerOp:     r.NsPerOp(),
		AllocsPerOp: r.AllocsPerOp(),
		BytesPerOp:  r.AllocedBytesPerOp(),
	}
	if per := perIteration(w.Name); per > 0 {
		res.NsPerElem = float64(r.NsPerOp()) / float64(per)
	}
	return res
}

func perIteration(name string) int {
	switch name {
	case "deref":
		return DerefLimit
	case "clone-drop":
		return CloneLimit
	default:
		return 1
	}
}

// Deref allocates one pointer and dereferences it DerefLimit times.
func Deref[K kind.Kind[K]](b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := sharedptr.New[int, K](42)
		for j := 0; j < DerefLimit; j++ {
			sink += *p.Deref()
		}
		p.Drop()
	}
}

// CloneDrop fills a slice with CloneLimit owners of one value and then
// drops them all.
func CloneDrop[K kind.Kind[K]](b *testing.B) {
	owners := make([]sharedptr.SharedPointer[int, K], CloneLimit)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := sharedptr.New[int, K](42)
		for j := range owners {
			owners[j] = p.Clone()
		}
		for j := range owners {
			owners[j].Drop()
		}
		p.Drop()
	}
}

// NewDrop allocates and releases one pointer.
func NewDrop[K kind.Kind[K]](b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := sharedptr.New[int, K](i)
		p.Drop()
	}
}

// MakeMut clones a pointer and makes the clone unique, which copies the
// value into a new allocation.
func MakeMut[K kind.Kind[K]](b *testing.B) {
	p := sharedptr.New[[4]int, K]([4]int{1, 2, 3, 4})
	defer p.Drop()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		q := p.Clone()
		q.MakeMut()[0] = i
		q.Drop()
	}
}
