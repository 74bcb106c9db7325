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
	"testing"

	"github.com/arrowabi/go/arrow/array"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	mk := func(vals []int32, valid []bool) *array.Int32 {
		var bm *bitutil.Bitmap
		if valid != nil {
			bm = bitutil.NewBitmapFromBools(valid)
		}
		arr, err := array.NewPrimitive(mem, vals, bm)
		require.NoError(t, err)
		return arr
	}

	base := mk([]int32{1, 2, 3}, []bool{true, false, true})
	defer base.Release()

	tests := []struct {
		name  string
		other array.Array
		want  bool
	}{
		{"same values", mk([]int32{1, 2, 3}, []bool{true, false, true}), true},
		{"different masked value", mk([]int32{1, 99, 3}, []bool{true, false, true}), true},
		{"different validity", mk([]int32{1, 2, 3}, nil), false},
		{"different value", mk([]int32{1, 2, 4}, []bool{true, false, true}), false},
		{"different length", mk([]int32{1, 2}, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.other.Release()
			assert.Equal(t, tt.want, array.Equal(base, tt.other))
			assert.Equal(t, tt.want, array.Equal(tt.other, base))
		})
	}

	other, err := array.NewPrimitive(mem, []int64{1, 2, 3}, nil)
	require.NoError(t, err)
	defer other.Release()
	assert.False(t, array.Equal(base, other), "formats differ")
}

func TestEqualNullArrays(t *testing.T) {
	a, err := array.NewNull(3)
	require.NoError(t, err)
	defer a.Release()
	b, err := array.NewNull(3)
	require.NoError(t, err)
	defer b.Release()
	c, err := array.NewNull(4)
	require.NoError(t, err)
	defer c.Release()

	assert.True(t, array.Equal(a, b))
	assert.False(t, array.Equal(a, c))
}

func TestNullableJSON(t *testing.T) {
	out, err := json.Marshal([]array.Nullable[int16]{{Value: 4, Valid: true}, {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[4,null]`, string(out))

	assert.Equal(t, "(null)", array.Nullable[int16]{}.String())
	v, ok := array.Nullable[string]{Value: "x", Valid: true}.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}
