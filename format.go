package sharedptr

import (
	"fmt"
	"io"

	"github.com/kolkov/sharedptr/kind"
)

const droppedText = "<dropped>"

// Format implements fmt.Formatter. Every verb formats the value as if it
// were passed to fmt directly, except %p, which prints the address of the
// shared value, and %#v, which prints GoString. A pointer that owns
// nothing prints as <dropped>.
func (p SharedPointer[T, K]) Format(f fmt.State, verb rune) {
	v := p.ptr()
	switch {
	case verb == 'p':
		fmt.Fprintf(f, fmt.FormatString(f, verb), v)
	case verb == 'v' && f.Flag('#'):
		io.WriteString(f, p.GoString())
	case v == nil:
		io.WriteString(f, droppedText)
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), *v)
	}
}

// String returns the value formatted with %v.
func (p SharedPointer[T, K]) String() string {
	v := p.ptr()
	if v == nil {
		return droppedText
	}
	return fmt.Sprint(*v)
}

// GoString returns the pointer in Go syntax, e.g.
// sharedptr.SharedPointer[int, ArcK]{42}.
func (p SharedPointer[T, K]) GoString() string {
	name := kind.TypeOf[T]().Name()
	v := p.ptr()
	if v == nil {
		return fmt.Sprintf("sharedptr.SharedPointer[%s, %s]{%s}", name, p.Kind(), droppedText)
	}
	return fmt.Sprintf("sharedptr.SharedPointer[%s, %s]{%#v}", name, p.Kind(), *v)
}
