// Package main implements the sharedptr CLI tool.
//
// The tool demonstrates and measures the pointer kinds of the sharedptr
// library and checks whether a module is ready to use it:
//
//	sharedptr demo --kind arc      # Walk through clone, make-mut and drop
//	sharedptr bench --format json  # Micro-benchmarks for every kind
//	sharedptr modcheck ./myapp     # Check a go.mod against the library
//	sharedptr leaks                # Leak-tracking report demonstration
//	sharedptr version              # Version information
//
// Settings come from flags, SHAREDPTR_* environment variables and an
// optional YAML file given with --config, in that order of precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
