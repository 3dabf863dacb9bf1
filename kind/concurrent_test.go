// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/sharedptr/internal/track"
)

type counted struct {
	n *atomic.Int32
}

func (c counted) Release() { c.n.Add(1) }

func TestConcurrentCloneDrop(t *testing.T) {
	t.Run("ArcK", testConcurrentCloneDrop[ArcK])
	t.Run("ArcTK", testConcurrentCloneDrop[ArcTK])
}

func testConcurrentCloneDrop[K Concurrent[K]](t *testing.T) {
	const (
		goroutines = 16
		iterations = 2000
	)

	var n atomic.Int32
	k, ty := newOf[K](counted{n: &n})

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				c := k.Clone(ty)
				_ = (*counted)(c.Deref(ty)).n
				c.Drop(ty)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, k.StrongCount(ty))
	assert.Zero(t, n.Load())

	k.Drop(ty)
	assert.Equal(t, int32(1), n.Load())
}

func TestConcurrentLastDrop(t *testing.T) {
	t.Run("ArcK", testConcurrentLastDrop[ArcK])
	t.Run("ArcTK", testConcurrentLastDrop[ArcTK])
}

// Every goroutine holds one share and drops it; exactly one of them must
// release the value.
func testConcurrentLastDrop[K Concurrent[K]](t *testing.T) {
	const (
		rounds = 200
		owners = 8
	)

	for range rounds {
		var n atomic.Int32
		k, ty := newOf[K](counted{n: &n})

		shares := make([]K, owners)
		shares[0] = k
		for i := 1; i < owners; i++ {
			shares[i] = k.Clone(ty)
		}

		var (
			start sync.WaitGroup
			done  sync.WaitGroup
		)
		start.Add(1)
		for _, s := range shares {
			done.Add(1)
			go func(s K) {
				defer done.Done()
				start.Wait()
				s.Drop(ty)
			}(s)
		}
		start.Done()
		done.Wait()

		require.Equal(t, int32(1), n.Load())
	}
}

func TestConcurrentTryUnwrap(t *testing.T) {
	t.Run("ArcK", testConcurrentTryUnwrap[ArcK])
	t.Run("ArcTK", testConcurrentTryUnwrap[ArcTK])
}

// Two owners race: one drops, the other retries TryUnwrap until it wins.
// The value is moved out exactly once and never released.
func testConcurrentTryUnwrap[K Concurrent[K]](t *testing.T) {
	var n atomic.Int32
	k, ty := newOf[K](counted{n: &n})
	c := k.Clone(ty)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Drop(ty)
	}()

	var out counted
	for {
		var ok bool
		if k, ok = k.TryUnwrap(ty, unsafe.Pointer(&out)); ok {
			break
		}
	}
	<-done

	assert.Same(t, &n, out.n)
	assert.Zero(t, n.Load())
}

func TestRcOwnerCheck(t *testing.T) {
	prev := track.Current()
	track.Configure(track.Options{CheckOwner: true, PanicOnViolation: true})
	track.Reset()
	t.Cleanup(func() {
		track.Configure(prev)
		track.Reset()
	})

	k, ty := newOf[RcK](5)

	// Same goroutine: fine.
	require.NotPanics(t, func() { _ = k.Deref(ty) })

	got := make(chan any, 1)
	go func() {
		got <- catch(func() { k.Clone(ty) })
	}()

	r := <-got
	err, ok := r.(*track.OwnerError)
	require.True(t, ok, "want *track.OwnerError, got %v", r)
	assert.Equal(t, "Clone", err.Op)
	assert.Equal(t, "RcK", err.Kind)
	assert.Equal(t, "int", err.Type)

	// Atomic kinds are never owner-checked.
	a, aty := newOf[ArcTK](5)
	go func() {
		got <- catch(func() { a.Clone(aty).Drop(aty) })
	}()
	assert.Nil(t, <-got)

	k.Drop(ty)
	a.Drop(aty)
}
