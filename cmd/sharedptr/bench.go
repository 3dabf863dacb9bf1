package main

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kolkov/sharedptr/internal/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	var run string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run pointer micro-benchmarks for each kind",
		Long: `bench measures deref, clone-drop, new-drop and make-mut for the
selected kinds with testing.Benchmark and prints one row per workload.

The deref workload dereferences one pointer 200,000 times per iteration
and clone-drop creates and drops 100,000 owners; ns/elem divides by that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			re, err := regexp.Compile(run)
			if err != nil {
				return usageError{fmt.Errorf("--run: %w", err)}
			}
			results, err := runBench(a, re)
			if err != nil {
				return err
			}
			if a.cfg.Format == "table" {
				return writeBenchTable(cmd.OutOrStdout(), results)
			}
			return writeStructured(cmd.OutOrStdout(), a.cfg.Format, results)
		},
	}
	cmd.Flags().String("kind", "all", "pointer kind: rc, arc, arct or all")
	cmd.Flags().StringVar(&run, "run", "", "only run workloads whose name matches this regexp")
	return cmd
}

func runBench(a *app, re *regexp.Regexp) ([]bench.Result, error) {
	sel, err := parseKind(a.cfg.Kind)
	if err != nil {
		return nil, err
	}

	var results []bench.Result
	for _, w := range bench.Workloads() {
		if sel != "" && w.Kind != sel {
			continue
		}
		if !re.MatchString(w.Name) {
			continue
		}
		a.log.Info("running benchmark", slog.String("workload", w.Name), slog.String("kind", w.Kind))
		results = append(results, bench.Measure(w))
	}
	return results, nil
}

//nolint:errcheck // Error handling omitted for table output formatting
func writeBenchTable(w io.Writer, results []bench.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "workload\tkind\titerations\tns/op\tns/elem\tallocs/op\tB/op\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%d\t%d\t\n",
			r.Name, r.Kind, r.Iterations, r.NsPerOp, r.NsPerElem, r.AllocsPerOp, r.BytesPerOp)
	}
	return tw.Flush()
}
