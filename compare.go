package sharedptr

import (
	"cmp"
	"hash/maphash"

	"github.com/kolkov/sharedptr/kind"
)

// Equal reports whether a and b hold equal values. The kinds may differ;
// only the values are compared, so two distinct allocations of equal
// values are Equal even though PtrEq is false.
func Equal[T comparable, K1 kind.Kind[K1], K2 kind.Kind[K2]](a SharedPointer[T, K1], b SharedPointer[T, K2]) bool {
	return *a.Deref() == *b.Deref()
}

// EqualFunc is Equal with a caller-supplied equality.
func EqualFunc[T any, K1 kind.Kind[K1], K2 kind.Kind[K2]](a SharedPointer[T, K1], b SharedPointer[T, K2], eq func(x, y *T) bool) bool {
	return eq(a.Deref(), b.Deref())
}

// Compare orders a and b by value, as cmp.Compare.
func Compare[T cmp.Ordered, K1 kind.Kind[K1], K2 kind.Kind[K2]](a SharedPointer[T, K1], b SharedPointer[T, K2]) int {
	return cmp.Compare(*a.Deref(), *b.Deref())
}

// CompareFunc is Compare with a caller-supplied ordering.
func CompareFunc[T any, K1 kind.Kind[K1], K2 kind.Kind[K2]](a SharedPointer[T, K1], b SharedPointer[T, K2], compare func(x, y *T) int) int {
	return compare(a.Deref(), b.Deref())
}

// Less reports whether a's value orders before b's, as cmp.Less.
func Less[T cmp.Ordered, K1 kind.Kind[K1], K2 kind.Kind[K2]](a SharedPointer[T, K1], b SharedPointer[T, K2]) bool {
	return cmp.Less(*a.Deref(), *b.Deref())
}

// Hash hashes p's value with seed. Pointers to equal values hash equally
// regardless of kind or allocation, so pointers can key value-based hash
// tables alongside Equal.
func Hash[T comparable, K kind.Kind[K]](seed maphash.Seed, p SharedPointer[T, K]) uint64 {
	return maphash.Comparable(seed, *p.Deref())
}
