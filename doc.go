// Package sharedptr provides a reference-counted pointer whose counting
// strategy is a type parameter, so a data structure can be written once
// and instantiated with either a cheap non-atomic counter or an atomic one.
//
// # Quick Start
//
//	p := sharedptr.NewArc(42)
//	q := p.Clone()           // two owners, one value
//	*q.MakeMut() = 43        // q gets its own copy; p still sees 42
//	p.Drop()
//	fmt.Println(q, q.StrongCount()) // 43 1
//	q.Drop()
//
// # Kinds
//
// The second type parameter of SharedPointer selects the kind:
//   - [RcK]: non-atomic counter. Fastest; all owners on one goroutine.
//   - [ArcK]: atomic counter with a strong and an (inert) weak word.
//   - [ArcTK]: atomic counter, one word, smallest allocation.
//
// Code generic over the kind constrains on [kind.Kind]:
//
//	type Stack[T any, K kind.Kind[K]] struct {
//		head sharedptr.SharedPointer[node[T, K], K]
//	}
//
// New kinds can be written against the same contract; see package kind.
//
// # Ownership
//
// A SharedPointer value is a handle, not an owner: Go copies it freely.
// Ownership is created by [New], [FromBox], [Default] and Clone, and ends
// with exactly one Drop per owner. The last Drop releases the value and
// calls Release or Close on it when it implements [Releaser] or io.Closer.
// TryUnwrap moves the value out of a sole owner instead.
//
// # Mutation
//
// Deref returns the shared value for reading. GetMut gives a writable
// reference to a sole owner. MakeMut copies a shared value first
// (copy-on-write); values implementing [Cloner] are copied with their
// Clone method, others by assignment. A value with a release hook
// ([Releaser] or io.Closer) must implement [Cloner] to be copied.
//
// # Goroutines
//
// Only atomic kinds can cross goroutines. [Share] and [Go] are constrained
// on [kind.Concurrent], so passing an RcK pointer to them does not
// compile. A value type may also opt out of sharing by embedding
// [NoShare]; Shareable then reports false and Share panics.
//
// # Value Semantics
//
// [Equal], [Compare], [Less] and [Hash] look through the pointer at the
// value and accept pointers of different kinds. [PtrEq] compares identity.
// Pointers format (fmt), marshal (JSON, CBOR, YAML) and hash
// (ContentHash) as their value.
//
// # Debugging
//
// Set SHAREDPTR_DEBUG=owner,leaks (or call [Configure]) to detect RcK
// pointers used across goroutines and pointers never dropped. Findings are
// logged through the logger installed with [SetLogger]; see
// [WriteLeakReport] and [Stats].
package sharedptr
