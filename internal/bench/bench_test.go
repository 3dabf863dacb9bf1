// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloads(t *testing.T) {
	ws := Workloads()
	require.Len(t, ws, 12)

	assert.Equal(t, "deref", ws[0].Name)
	assert.Equal(t, "RcK", ws[0].Kind)
	assert.Equal(t, "ArcK", ws[1].Kind)
	assert.Equal(t, "ArcTK", ws[2].Kind)
	assert.Equal(t, "make-mut", ws[11].Name)

	for _, w := range ws {
		assert.NotNil(t, w.Run, "%s/%s", w.Name, w.Kind)
	}
}

func TestPerIteration(t *testing.T) {
	assert.Equal(t, DerefLimit, perIteration("deref"))
	assert.Equal(t, CloneLimit, perIteration("clone-drop"))
	assert.Equal(t, 1, perIteration("new-drop"))
}

func BenchmarkWorkloads(b *testing.B) {
	for _, w := range Workloads() {
		b.Run(w.Name+"/"+w.Kind, w.Run)
	}
}
