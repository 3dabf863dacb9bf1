package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kolkov/sharedptr"
	"github.com/kolkov/sharedptr/internal/modcheck"
)

// errModcheck is returned when the checked module has problems; the
// report has already been printed.
var errModcheck = errors.New("module check failed")

func newModcheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modcheck [dir]",
		Short: "Check a module's go.mod against sharedptr's requirements",
		Long: `modcheck finds the go.mod in or above dir (default: the current
directory) and reports its go directive against the minimum Go version
sharedptr needs, the sharedptr version it requires and any replace
directive redirecting sharedptr. It exits non-zero if there are problems.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path, err := modcheck.FindGoMod(dir)
			if err != nil {
				return usageError{err}
			}
			a.log.Debug("checking go.mod", slog.String("path", path))

			r, err := modcheck.Check(path, sharedptr.MinGoVersion)
			if err != nil {
				return err
			}

			if a.cfg.Format == "table" {
				writeModcheckText(cmd.OutOrStdout(), r)
			} else if err := writeStructured(cmd.OutOrStdout(), a.cfg.Format, r); err != nil {
				return err
			}

			if !r.OK() {
				return errModcheck
			}
			return nil
		},
	}
}

//nolint:errcheck // Error handling omitted for report output formatting
func writeModcheckText(w io.Writer, r *modcheck.Report) {
	fmt.Fprintf(w, "go.mod:    %s\n", r.GoMod)
	fmt.Fprintf(w, "module:    %s\n", r.Module)

	status := "ok"
	if !r.GoOK {
		status = "too old"
	}
	fmt.Fprintf(w, "go:        %s (need >= %s, %s)\n", orNone(r.Go), r.MinGo, status)

	req := orNone(r.Required)
	if r.Indirect {
		req += " // indirect"
	}
	fmt.Fprintf(w, "sharedptr: %s\n", req)

	for _, rep := range r.Replaces {
		old := modcheck.ModulePath
		if rep.OldVersion != "" {
			old += " " + rep.OldVersion
		}
		target := rep.New
		if rep.NewVersion != "" {
			target += " " + rep.NewVersion
		}
		fmt.Fprintf(w, "replace:   %s => %s\n", old, target)
	}

	if r.OK() {
		fmt.Fprintln(w, "result:    ok")
		return
	}
	for _, p := range r.Problems {
		fmt.Fprintf(w, "problem:   %s\n", p)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
