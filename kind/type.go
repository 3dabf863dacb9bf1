// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"unsafe"

	"github.com/kolkov/sharedptr/internal/track"
)

// Cloner is implemented by values that need a deep copy when a shared
// value is made mutable. Without it the copy is a Go assignment.
type Cloner[T any] interface {
	Clone() T
}

// Releaser is implemented by values that own resources. Release runs once,
// when the last owner drops the value. A value implementing io.Closer but
// not Releaser is closed instead.
type Releaser interface {
	Release()
}

// NoShare is a zero-size marker. A type that contains a NoShare anywhere
// in its structure (fields, elements, pointees) is never reported as safe
// to share across goroutines, even inside an atomic kind.
type NoShare struct{}

func (NoShare) noShare() {}

type notShareable interface {
	noShare()
}

// Type is the erased descriptor of a contained value type: its identity
// plus the per-type operations a kind cannot perform on its own (allocate,
// duplicate, move, release).
//
// Obtain one with TypeOf. Descriptors are cached and immutable.
type Type struct {
	rtype     reflect.Type
	name      string
	size      uintptr
	align     uintptr
	shareable bool

	alloc     func(words int, v unsafe.Pointer) Carrier
	adopt     func(words int, boxed unsafe.Pointer) Carrier
	duplicate func(words int, v unsafe.Pointer) Carrier
	move      func(dst, src unsafe.Pointer)
	release   func(v unsafe.Pointer)
}

// types maps reflect.Type -> *Type.
var types sync.Map

// TypeOf returns the descriptor for T.
//
// The first call per T builds the descriptor; later calls are a single
// sync.Map lookup.
func TypeOf[T any]() *Type {
	rt := reflect.TypeFor[T]()
	if t, ok := types.Load(rt); ok {
		return t.(*Type)
	}

	t, _ := types.LoadOrStore(rt, newType[T](rt))
	return t.(*Type)
}

func newType[T any](rt reflect.Type) *Type {
	// The carrier stands in for *cell1[T] and *cell2[T]. A mismatch in size
	// or alignment would make every reinterpretation below undefined, so
	// it must not compile. Pointer types have constant size even when T is
	// a type parameter.
	var (
		_ [unsafe.Sizeof(Carrier{}) - unsafe.Sizeof((*cell1[T])(nil))]struct{}
		_ [unsafe.Sizeof((*cell1[T])(nil)) - unsafe.Sizeof(Carrier{})]struct{}
		_ [unsafe.Sizeof(Carrier{}) - unsafe.Sizeof((*cell2[T])(nil))]struct{}
		_ [unsafe.Sizeof((*cell2[T])(nil)) - unsafe.Sizeof(Carrier{})]struct{}
		_ [unsafe.Alignof(Carrier{}) - unsafe.Alignof((*cell1[T])(nil))]struct{}
		_ [unsafe.Alignof((*cell1[T])(nil)) - unsafe.Alignof(Carrier{})]struct{}
		_ [unsafe.Alignof(Carrier{}) - unsafe.Alignof((*cell2[T])(nil))]struct{}
		_ [unsafe.Alignof((*cell2[T])(nil)) - unsafe.Alignof(Carrier{})]struct{}
	)

	var zero T
	hooked := hasHook(rt)

	return &Type{
		rtype:     rt,
		name:      rt.String(),
		size:      unsafe.Sizeof(zero),
		align:     unsafe.Alignof(zero),
		shareable: shareable(rt, make(map[reflect.Type]bool)),

		alloc: func(words int, v unsafe.Pointer) Carrier {
			return allocCell[T](words, *(*T)(v))
		},
		adopt: func(words int, boxed unsafe.Pointer) Carrier {
			if words == 1 {
				h := &head1{value: boxed}
				return Carrier{p: unsafe.Pointer(h)}
			}
			h := &head2{value: boxed}
			return Carrier{p: unsafe.Pointer(h)}
		},
		duplicate: func(words int, v unsafe.Pointer) Carrier {
			x := *(*T)(v)
			dup, ok := cloneValue(x)
			if !ok && hooked && releasable(any(x), any(&x)) {
				panic(fmt.Errorf("%w: %s", ErrNotCloneable, rt))
			}
			return allocCell[T](words, dup)
		},
		move: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
			*(*T)(src) = zero
		},
		release: releaseFunc[T](hooked),
	}
}

// allocCell allocates an inline cell holding v. Counters start at zero;
// the kind sets them.
func allocCell[T any](words int, v T) Carrier {
	if words == 1 {
		c := &cell1[T]{v: v}
		c.value = unsafe.Pointer(&c.v)
		return Carrier{p: unsafe.Pointer(c)}
	}
	c := &cell2[T]{v: v}
	c.value = unsafe.Pointer(&c.v)
	return Carrier{p: unsafe.Pointer(c)}
}

// cloneValue duplicates v for copy-on-write. It reports false when T is
// not a Cloner and the result is a plain copy.
func cloneValue[T any](v T) (T, bool) {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone(), true
	}
	if c, ok := any(&v).(Cloner[T]); ok {
		return c.Clone(), true
	}
	return v, false
}

var (
	releaserType     = reflect.TypeFor[Releaser]()
	closerType       = reflect.TypeFor[io.Closer]()
	notShareableType = reflect.TypeFor[notShareable]()
)

// hasHook reports whether values of rt may carry a release hook. Interface
// types are decided per value.
func hasHook(rt reflect.Type) bool {
	return rt.Kind() == reflect.Interface ||
		rt.Implements(releaserType) || rt.Implements(closerType) ||
		reflect.PointerTo(rt).Implements(releaserType) || reflect.PointerTo(rt).Implements(closerType)
}

// releaseFunc builds the end-of-life operation for T: run the value's
// release hook (if any), then zero it so whatever it references can be
// collected even if a stale handle survives.
func releaseFunc[T any](hooked bool) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) {
		if p == nil {
			return
		}
		v := (*T)(p)
		if hooked {
			runHook(any(*v), any(v))
		}
		var zero T
		*v = zero
	}
}

func runHook(val, ptr any) {
	for _, x := range [...]any{val, ptr} {
		if isNilPointer(x) {
			continue
		}
		switch r := x.(type) {
		case Releaser:
			r.Release()
			return
		case io.Closer:
			if err := r.Close(); err != nil {
				track.Logger().LogAttrs(context.Background(), slog.LevelWarn,
					"sharedptr: close on final drop failed",
					slog.String("type", reflect.TypeOf(x).String()),
					slog.Any("error", err),
				)
			}
			return
		}
	}
}

// releasable reports whether runHook would release something for this
// value.
func releasable(val, ptr any) bool {
	for _, x := range [...]any{val, ptr} {
		if isNilPointer(x) {
			continue
		}
		switch x.(type) {
		case Releaser, io.Closer:
			return true
		}
	}
	return false
}

func isNilPointer(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// shareable reports whether rt is free of NoShare anywhere in its
// structure. seen breaks cycles through recursive types.
func shareable(rt reflect.Type, seen map[reflect.Type]bool) bool {
	if ok, visited := seen[rt]; visited {
		return ok
	}
	// Optimistic for cycles: a recursive type is non-shareable only if
	// some finite part of it is.
	seen[rt] = true

	ok := true
	switch {
	case rt.Implements(notShareableType):
		ok = false
	default:
		switch rt.Kind() {
		case reflect.Struct:
			for i := 0; i < rt.NumField(); i++ {
				if !shareable(rt.Field(i).Type, seen) {
					ok = false
					break
				}
			}
		case reflect.Array, reflect.Slice, reflect.Pointer, reflect.Chan:
			ok = shareable(rt.Elem(), seen)
		case reflect.Map:
			ok = shareable(rt.Key(), seen) && shareable(rt.Elem(), seen)
		}
	}

	seen[rt] = ok
	return ok
}

// Name returns the Go type name, e.g. "int" or "*main.Image".
func (t *Type) Name() string { return t.name }

// Size returns unsafe.Sizeof of the value type.
func (t *Type) Size() uintptr { return t.size }

// Align returns unsafe.Alignof of the value type.
func (t *Type) Align() uintptr { return t.align }

// Reflect returns the reflect.Type of the value type.
func (t *Type) Reflect() reflect.Type { return t.rtype }

// Shareable reports whether values of this type may be shared across
// goroutines, i.e. the type contains no NoShare marker.
func (t *Type) Shareable() bool { return t.shareable }

// Alloc allocates a cell with words counter words (1 or 2) holding a copy
// of *v. Counters are zero.
func (t *Type) Alloc(words int, v unsafe.Pointer) Carrier { return t.alloc(words, v) }

// Adopt allocates a head-only cell that takes ownership of the heap value
// boxed, without copying it. Counters are zero.
func (t *Type) Adopt(words int, boxed unsafe.Pointer) Carrier { return t.adopt(words, boxed) }

// Duplicate allocates a new cell holding a clone of *v (see Cloner).
//
// Panics with an error wrapping ErrNotCloneable if *v has a release hook
// but is not a Cloner.
func (t *Type) Duplicate(words int, v unsafe.Pointer) Carrier { return t.duplicate(words, v) }

// Move copies *src into *dst and zeroes *src.
func (t *Type) Move(dst, src unsafe.Pointer) { t.move(dst, src) }

// Release runs the value's release hook and zeroes it. nil is ignored.
func (t *Type) Release(v unsafe.Pointer) { t.release(v) }
