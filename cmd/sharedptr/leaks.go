package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/sharedptr"
	"github.com/kolkov/sharedptr/kind"
)

func newLeaksCmd(a *app) *cobra.Command {
	var leak int

	cmd := &cobra.Command{
		Use:   "leaks",
		Short: "Show the leak tracker's report for deliberately leaked pointers",
		Long: `leaks turns on leak tracking, creates pointers of the selected kind,
drops all but --leak of them and prints the leak report for the rest,
including the stack that allocated each one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if leak < 0 {
				return usageError{fmt.Errorf("--leak must not be negative")}
			}

			prev := sharedptr.CurrentOptions()
			opts := prev
			opts.TrackLeaks = true
			sharedptr.Configure(opts)
			sharedptr.ResetTracking()
			defer func() {
				sharedptr.Configure(prev)
				sharedptr.ResetTracking()
			}()

			var held []func()
			err := forKinds(a.cfg.Kind, func(name string) error {
				drops, err := allocate(name, leak)
				held = append(held, drops...)
				return err
			})
			if err != nil {
				return err
			}

			n := sharedptr.WriteLeakReport(cmd.OutOrStdout())
			for _, drop := range held {
				drop()
			}
			if after := len(sharedptr.LiveCells()); after != 0 {
				return fmt.Errorf("%d pointers still live after cleanup", after)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d leaked pointer(s) reported\n", n)
			return nil
		},
	}
	cmd.Flags().String("kind", defaultKind, "pointer kind: rc, arc, arct or all")
	cmd.Flags().IntVar(&leak, "leak", 1, "number of pointers to leave undropped")
	return cmd
}

// allocate creates leak+2 owners of a kind and drops two of them. It
// returns the drops for the rest so the caller can clean up after
// reporting.
func allocate(name string, leak int) ([]func(), error) {
	switch name {
	case kind.Name[sharedptr.RcK]():
		return allocateKind[sharedptr.RcK](leak), nil
	case kind.Name[sharedptr.ArcK]():
		return allocateKind[sharedptr.ArcK](leak), nil
	case kind.Name[sharedptr.ArcTK]():
		return allocateKind[sharedptr.ArcTK](leak), nil
	}
	return nil, fmt.Errorf("no allocation for kind %s", name)
}

func allocateKind[K kind.Kind[K]](leak int) []func() {
	dropped := sharedptr.New[string, K]("dropped")
	shared := sharedptr.New[string, K]("shared")
	clone := shared.Clone()
	dropped.Drop()
	clone.Drop()
	shared.Drop()

	drops := make([]func(), 0, leak)
	for i := range leak {
		p := sharedptr.New[string, K](fmt.Sprintf("leaked #%d", i+1))
		drops = append(drops, p.Drop)
	}
	return drops
}
