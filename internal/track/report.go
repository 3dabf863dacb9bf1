// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"fmt"
	"io"
	"strings"

	"github.com/kolkov/sharedptr/internal/depot"
)

// LeakReport lists the cells alive at the time it was taken.
type LeakReport struct {
	Records []Record
}

// NewLeakReport captures the currently live tracked cells.
func NewLeakReport() *LeakReport {
	return &LeakReport{Records: Live()}
}

// Format writes the report in the same framed layout race reports use:
//
//	==================
//	WARNING: LEAKED SHARED POINTER
//	RcK[int] cell 0x000000c000012345 (owner goroutine 1) allocated at:
//	  main.main()
//	      /path/to/main.go:12
//	==================
//
// An empty report writes nothing.
//
//nolint:errcheck // Error handling omitted for report output formatting
func (r *LeakReport) Format(w io.Writer) {
	for _, rec := range r.Records {
		fmt.Fprintf(w, "==================\n")
		fmt.Fprintf(w, "WARNING: LEAKED SHARED POINTER\n")

		fmt.Fprintf(w, "%s[%s] cell %s", rec.Kind, rec.Type, formatAddr(rec.Cell))
		if rec.Owner != 0 {
			fmt.Fprintf(w, " (owner goroutine %d)", rec.Owner)
		}
		fmt.Fprintf(w, " allocated at:\n")

		if rec.Stack != 0 {
			fmt.Fprint(w, depot.Get(rec.Stack).Format())
		} else {
			fmt.Fprintf(w, "  (no stack trace captured)\n")
		}

		fmt.Fprintf(w, "==================\n")
	}
}

// String returns the formatted report.
func (r *LeakReport) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}

// Len returns the number of leaked cells in the report.
func (r *LeakReport) Len() int {
	return len(r.Records)
}
