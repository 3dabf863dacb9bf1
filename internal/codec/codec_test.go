// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicMapOrder(t *testing.T) {
	a := map[string]int{"b": 2, "a": 1, "c": 3}
	b := map[string]int{"c": 3, "a": 1, "b": 2}

	da, err := Marshal(a)
	require.NoError(t, err)
	db, err := Marshal(b)
	require.NoError(t, err)

	assert.Equal(t, da, db)
}

func TestSmallestIntegerEncoding(t *testing.T) {
	data, err := Marshal(uint64(1))
	require.NoError(t, err)

	assert.Equal(t, []byte{0x01}, data)
}

func TestUnmarshalUntypedMap(t *testing.T) {
	data, err := Marshal(map[string]any{"k": "v"})
	require.NoError(t, err)

	var v any
	require.NoError(t, Unmarshal(data, &v))
	assert.Equal(t, map[string]any{"k": "v"}, v)
}

func TestHash(t *testing.T) {
	h1, err := Hash([]string{"x", "y"})
	require.NoError(t, err)
	h2, err := Hash([]string{"x", "y"})
	require.NoError(t, err)
	h3, err := Hash([]string{"y", "x"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.NotEqual(t, Sum{}, h1)
}

func TestHashError(t *testing.T) {
	_, err := Hash(make(chan int))
	assert.Error(t, err)
}
