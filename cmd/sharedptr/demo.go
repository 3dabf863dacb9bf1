package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kolkov/sharedptr"
	"github.com/kolkov/sharedptr/kind"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through new, clone, make-mut, try-unwrap and drop",
		Long: `demo runs the same sequence of pointer operations for the selected
kind and prints every step:

  1. a := New(42)            count 1
  2. b := a.Clone()          count 2, same value address
  3. *b.MakeMut() = 43       b gets its own copy; a still reads 42
  4. a.Drop()                b's count is 1, value 43
  5. b.TryUnwrap()           moves 43 out of the only owner`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return forKinds(a.cfg.Kind, func(name string) error {
				return runDemo(cmd.OutOrStdout(), name)
			})
		},
	}
	cmd.Flags().String("kind", defaultKind, "pointer kind: rc, arc, arct or all")
	return cmd
}

// forKinds calls f for the kind selected by sel, or every kind for "all".
func forKinds(sel string, f func(name string) error) error {
	name, err := parseKind(sel)
	if err != nil {
		return err
	}
	names := []string{name}
	if name == "" {
		names = []string{kind.Name[sharedptr.RcK](), kind.Name[sharedptr.ArcK](), kind.Name[sharedptr.ArcTK]()}
	}
	for _, n := range names {
		if err := f(n); err != nil {
			return err
		}
	}
	return nil
}

func runDemo(w io.Writer, name string) error {
	switch name {
	case kind.Name[sharedptr.RcK]():
		return demo[sharedptr.RcK](w)
	case kind.Name[sharedptr.ArcK]():
		return demo[sharedptr.ArcK](w)
	case kind.Name[sharedptr.ArcTK]():
		return demo[sharedptr.ArcTK](w)
	}
	return fmt.Errorf("no demo for kind %s", name)
}

// demo prints each step of the end-to-end scenario and fails if any
// observation differs from the expected one.
//
//nolint:errcheck // Error handling omitted for demo output formatting
func demo[K kind.Kind[K]](w io.Writer) error {
	step := func(n int, op string, a, b sharedptr.SharedPointer[int, K]) {
		fmt.Fprintf(w, "  %d. %-22s a=%-9v", n, op, a)
		if a.Valid() {
			fmt.Fprintf(w, " count(a)=%d", a.StrongCount())
		}
		fmt.Fprintf(w, "  b=%-9v", b)
		if b.Valid() {
			fmt.Fprintf(w, " count(b)=%d", b.StrongCount())
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s (atomic: %v)\n", kind.Name[K](), kind.IsConcurrent[K]())

	var b sharedptr.SharedPointer[int, K]
	a := sharedptr.New[int, K](42)
	step(1, "a := New(42)", a, b)

	b = a.Clone()
	step(2, "b := a.Clone()", a, b)
	if !sharedptr.PtrEq(a, b) {
		return fmt.Errorf("%s: clone does not share the value", kind.Name[K]())
	}

	*b.MakeMut() = 43
	step(3, "*b.MakeMut() = 43", a, b)
	if a.Load() != 42 || b.Load() != 43 {
		return fmt.Errorf("%s: copy-on-write changed the original", kind.Name[K]())
	}

	a.Drop()
	step(4, "a.Drop()", a, b)
	if b.StrongCount() != 1 {
		return fmt.Errorf("%s: count after drop is %d, want 1", kind.Name[K](), b.StrongCount())
	}

	v, ok := b.TryUnwrap()
	step(5, "b.TryUnwrap()", a, b)
	if !ok || v != 43 {
		return fmt.Errorf("%s: try-unwrap = %d, %v; want 43, true", kind.Name[K](), v, ok)
	}
	fmt.Fprintf(w, "  unwrapped value: %d\n\n", v)
	return nil
}
