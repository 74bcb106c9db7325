// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package array_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetsFromSizes(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  []int32
	}{
		{"empty", nil, []int32{0}},
		{"single", []int{4}, []int32{0, 4}},
		{"with empty lists", []int{0, 2, 0, 3}, []int32{0, 0, 2, 2, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := array.OffsetsFromSizes[int32](tt.sizes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffsetsFromSizesPrefixSum(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	sizes := make([]int, 200)
	for i := range sizes {
		sizes[i] = rng.Intn(50)
	}

	offsets, err := array.OffsetsFromSizes[int64](sizes)
	require.NoError(t, err)
	require.Len(t, offsets, len(sizes)+1)
	assert.Zero(t, offsets[0])
	for k := 1; k < len(offsets); k++ {
		assert.Equal(t, offsets[k-1]+int64(sizes[k-1]), offsets[k])
	}
}

func TestOffsetsFromSizesErrors(t *testing.T) {
	_, err := array.OffsetsFromSizes[int32]([]int{1, -1})
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	_, err = array.OffsetsFromSizes[int32]([]int{math.MaxInt32, 1})
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	_, err = array.OffsetsFromSizes[int32]([]int{math.MaxInt32 + 1})
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	got, err := array.OffsetsFromSizes[int64]([]int{math.MaxInt32, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, math.MaxInt32, math.MaxInt32 + 1}, got)
}
