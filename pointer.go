package sharedptr

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/kolkov/sharedptr/kind"
)

var (
	// ErrDropped is the panic value for any use of a pointer after its
	// Drop (or a successful TryUnwrap).
	ErrDropped = errors.New("sharedptr: use of dropped pointer")

	// ErrNotShareable is wrapped by the panic value of Share when the value
	// type opted out of cross-goroutine sharing with NoShare.
	ErrNotShareable = errors.New("sharedptr: value type is not shareable")

	// ErrNilBox is the panic value of FromBox(nil).
	ErrNilBox = errors.New("sharedptr: FromBox of nil pointer")

	// ErrNotCloneable is wrapped by the panic value of MakeMut on a shared
	// value that implements Releaser or io.Closer but not Cloner.
	ErrNotCloneable = kind.ErrNotCloneable
)

// Kinds and value hooks, re-exported so callers need only this package.
type (
	// RcK is the non-atomic kind. See kind.RcK.
	RcK = kind.RcK

	// ArcK is the standard atomic kind. See kind.ArcK.
	ArcK = kind.ArcK

	// ArcTK is the lean atomic kind. See kind.ArcTK.
	ArcTK = kind.ArcTK

	// NoShare, embedded in a value type, makes every pointer to it report
	// Shareable() == false and makes Share panic.
	NoShare = kind.NoShare

	// Cloner values are deep-copied by MakeMut.
	Cloner[T any] = kind.Cloner[T]

	// Releaser values are released once, on the final Drop.
	Releaser = kind.Releaser
)

// Defaulter is implemented by value types whose default is not the Go
// zero value. See Default.
type Defaulter[T any] interface {
	Default() T
}

// SharedPointer is a reference-counted pointer to a T whose counting
// strategy K is chosen by the caller: RcK, ArcK or ArcTK.
//
// A SharedPointer is a handle. Copying the struct does not add an owner;
// Clone does. Each owner must be dropped exactly once with Drop. The zero
// SharedPointer owns nothing and panics with ErrDropped on use.
//
// Data structures written once against K work with every kind:
//
//	type Stack[T any, K kind.Kind[K]] struct {
//		head sharedptr.SharedPointer[node[T, K], K]
//	}
//
// Thread Safety: as K. With RcK all owners of a value must stay on one
// goroutine. With ArcK and ArcTK owners may live on any goroutine, and
// Deref is safe concurrently with Clone and Drop; mutation through
// GetMut or MakeMut is only possible for the sole owner.
type SharedPointer[T any, K kind.Kind[K]] struct {
	k K
}

// Rc, Arc and ArcT name a pointer of a fixed kind.
type (
	Rc[T any]   = SharedPointer[T, RcK]
	Arc[T any]  = SharedPointer[T, ArcK]
	ArcT[T any] = SharedPointer[T, ArcTK]
)

// New returns a pointer owning a copy of v, with a strong count of one.
//
// Performance: one allocation holding the counter and v.
//
// Example:
//
//	p := sharedptr.New[int, sharedptr.ArcK](42)
//	defer p.Drop()
func New[T any, K kind.Kind[K]](v T) SharedPointer[T, K] {
	var k K
	return SharedPointer[T, K]{k: k.New(kind.TypeOf[T](), unsafe.Pointer(&v))}
}

// NewRc is New with the RcK kind.
func NewRc[T any](v T) Rc[T] { return New[T, RcK](v) }

// NewArc is New with the ArcK kind.
func NewArc[T any](v T) Arc[T] { return New[T, ArcK](v) }

// NewArcT is New with the ArcTK kind.
func NewArcT[T any](v T) ArcT[T] { return New[T, ArcTK](v) }

// From is New, named for conversion sites.
func From[T any, K kind.Kind[K]](v T) SharedPointer[T, K] {
	return New[T, K](v)
}

// FromBox returns a pointer that takes ownership of *b without copying it:
// Deref returns b itself. The caller must not use b afterwards.
//
// Panics with ErrNilBox if b is nil.
func FromBox[T any, K kind.Kind[K]](b *T) SharedPointer[T, K] {
	if b == nil {
		panic(ErrNilBox)
	}
	var k K
	return SharedPointer[T, K]{k: k.FromBox(kind.TypeOf[T](), unsafe.Pointer(b))}
}

// Default returns a pointer owning T's default value: Default() when T
// implements Defaulter, the zero value otherwise.
func Default[T any, K kind.Kind[K]]() SharedPointer[T, K] {
	var v T
	if d, ok := any(v).(Defaulter[T]); ok {
		v = d.Default()
	} else if d, ok := any(&v).(Defaulter[T]); ok {
		v = d.Default()
	}
	return New[T, K](v)
}

// live returns the kind instance or panics if the pointer owns nothing.
func (p SharedPointer[T, K]) live() K {
	if p.k.Carrier().IsNil() {
		panic(ErrDropped)
	}
	return p.k
}

// ptr returns the value address, nil when dropped or released.
func (p SharedPointer[T, K]) ptr() *T {
	if p.k.Carrier().IsNil() {
		return nil
	}
	return (*T)(p.k.AsPtr(nil))
}

// Valid reports whether p owns a value.
func (p SharedPointer[T, K]) Valid() bool {
	return p.ptr() != nil
}

// Deref returns the shared value. It must be treated as read-only: other
// owners see every write. Use MakeMut or GetMut to mutate.
//
// Performance: two loads, no type information consulted.
func (p SharedPointer[T, K]) Deref() *T {
	v := (*T)(p.live().Deref(nil))
	if v == nil {
		panic(ErrDropped)
	}
	return v
}

// Load returns a copy of the shared value.
func (p SharedPointer[T, K]) Load() T {
	return *p.Deref()
}

// AsPtr returns the address of the value, nil if p owns nothing. Two
// pointers share a value iff their AsPtr results are equal.
func (p SharedPointer[T, K]) AsPtr() *T {
	return p.ptr()
}

// Clone returns a new owner of the same value. No data is copied.
func (p SharedPointer[T, K]) Clone() SharedPointer[T, K] {
	return SharedPointer[T, K]{k: p.live().Clone(nil)}
}

// StrongCount returns the number of owners of p's value. For atomic
// kinds the result may be stale by the time it is returned.
func (p SharedPointer[T, K]) StrongCount() int {
	return p.live().StrongCount(nil)
}

// GetMut returns a writable reference if p is the only owner.
func (p SharedPointer[T, K]) GetMut() (*T, bool) {
	v := (*T)(p.live().GetMut(nil))
	return v, v != nil
}

// MakeMut returns a writable reference, first giving p its own copy of
// the value if it is shared (copy-on-write). Other owners keep the old
// value. The copy uses the value's Clone method when T is a Cloner.
// Values with a release hook must be Cloners, since a plain copy would be
// released twice; MakeMut panics with ErrNotCloneable otherwise and p is
// left unchanged.
//
// Performance: no allocation when p is the only owner.
func (p *SharedPointer[T, K]) MakeMut() *T {
	k, v := p.live().MakeMut(kind.TypeOf[T]())
	p.k = k
	return (*T)(v)
}

// TryUnwrap moves the value out if p is the only owner. On success p is
// consumed (as after Drop) and the value's release hook does not run.
// Otherwise p is left intact and usable and the zero T is returned.
func (p *SharedPointer[T, K]) TryUnwrap() (T, bool) {
	var out T
	k, ok := p.live().TryUnwrap(kind.TypeOf[T](), unsafe.Pointer(&out))
	p.k = k
	return out, ok
}

// Drop gives up p's ownership. The last owner's Drop releases the value,
// calling Release or Close on it when it implements Releaser or
// io.Closer. Drop on a pointer that owns nothing does nothing.
func (p *SharedPointer[T, K]) Drop() {
	if p.k.Carrier().IsNil() {
		return
	}
	k := p.k
	var zero K
	p.k = zero
	k.Drop(kind.TypeOf[T]())
}

// Kind returns the name of p's kind, e.g. "ArcK".
func (p SharedPointer[T, K]) Kind() string {
	return p.k.String()
}

// Shareable reports whether p may be handed to another goroutine: K is an
// atomic kind and T does not embed NoShare.
func (p SharedPointer[T, K]) Shareable() bool {
	return kind.IsConcurrent[K]() && kind.TypeOf[T]().Shareable()
}

// PtrEq reports whether a and b share one value. Pointers of different
// kinds never do.
func PtrEq[T any, K1 kind.Kind[K1], K2 kind.Kind[K2]](a SharedPointer[T, K1], b SharedPointer[T, K2]) bool {
	return a.live().AsPtr(nil) == b.live().AsPtr(nil)
}

// Share returns a new owner of p's value for use on another goroutine.
// Only atomic kinds are accepted; an RcK pointer does not compile.
//
// Panics with an error wrapping ErrNotShareable if T embeds NoShare.
func Share[T any, K kind.Concurrent[K]](p SharedPointer[T, K]) SharedPointer[T, K] {
	if t := kind.TypeOf[T](); !t.Shareable() {
		panic(fmt.Errorf("%w: %s", ErrNotShareable, t.Name()))
	}
	return p.Clone()
}

// Go runs f on a new goroutine with its own owner of p's value, dropped
// when f returns. The caller keeps p.
//
// Example:
//
//	cfg := sharedptr.NewArc(loadConfig())
//	defer cfg.Drop()
//	sharedptr.Go(cfg, func(c sharedptr.Arc[Config]) {
//		serve(c.Deref())
//	})
func Go[T any, K kind.Concurrent[K]](p SharedPointer[T, K], f func(SharedPointer[T, K])) {
	q := Share(p)
	go func() {
		defer q.Drop()
		f(q)
	}()
}
