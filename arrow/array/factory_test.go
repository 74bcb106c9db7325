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

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/array"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleInt32(t *testing.T, mem memory.Allocator, format string, validity []byte, nulls int64, vals ...int32) *cdata.Proxy {
	t.Helper()
	var vbuf *memory.Buffer
	if validity != nil {
		vbuf = memory.NewBufferOf(mem, validity)
	}
	p, err := cdata.Assemble(cdata.Node{
		Format:    format,
		Length:    int64(len(vals)),
		NullCount: nulls,
		Buffers:   []*memory.Buffer{vbuf, memory.NewBufferOf(mem, arrow.CastToBytes(vals))},
	})
	require.NoError(t, err)
	return p
}

func TestMakeFromProxyFixedSizeList(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	child := assembleInt32(t, mem, "i", nil, 0, 1, 2, 3, 4, 5, 6)
	p, err := cdata.Assemble(cdata.Node{
		Format:   "+w:3",
		Length:   2,
		Buffers:  []*memory.Buffer{nil},
		Children: []*cdata.Proxy{child},
	})
	require.NoError(t, err)

	arr, err := array.MakeFromProxy(p)
	require.NoError(t, err)
	defer arr.Release()

	fsl, ok := arr.(*array.FixedSizeList)
	require.True(t, ok)
	assert.Equal(t, 3, fsl.Width())
	assert.Equal(t, "[[1 2 3] [4 5 6]]", fsl.String())
}

func TestMakeFromProxyUnsupported(t *testing.T) {
	tests := []struct {
		format string
		err    error
	}{
		{"z", arrow.ErrUnsupportedType},
		{"u", arrow.ErrUnsupportedType},
		{"+w:x", arrow.ErrFormat},
		{"+w", arrow.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			mem := newCheckedMallocator()
			defer mem.AssertSize(t, 0)

			p := assembleInt32(t, mem, tt.format, nil, 0)
			defer p.Release()

			arr, err := array.MakeFromProxy(p)
			assert.Nil(t, arr)
			assert.ErrorIs(t, err, arrow.ErrUnsupportedType)
			assert.ErrorIs(t, err, tt.err)
			assert.False(t, p.IsReleased(), "the proxy stays with the caller")
		})
	}
}

func TestMakeFromProxyDispatch(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	tests := []struct {
		format string
		want   interface{}
	}{
		{"c", (*array.Int8)(nil)},
		{"C", (*array.Uint8)(nil)},
		{"s", (*array.Int16)(nil)},
		{"S", (*array.Uint16)(nil)},
		{"i", (*array.Int32)(nil)},
		{"I", (*array.Uint32)(nil)},
		{"l", (*array.Int64)(nil)},
		{"L", (*array.Uint64)(nil)},
		{"f", (*array.Float32)(nil)},
		{"g", (*array.Float64)(nil)},
		{"d", (*array.Float64)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := arrow.ParseFormat(tt.format)
			require.NoError(t, err)
			width := f.ID.ByteWidth()

			p, err := cdata.Assemble(cdata.Node{
				Format:  tt.format,
				Length:  2,
				Buffers: []*memory.Buffer{nil, memory.NewBufferOf(mem, make([]byte, 2*width))},
			})
			require.NoError(t, err)

			arr, err := array.MakeFromProxy(p)
			require.NoError(t, err)
			defer arr.Release()

			assert.IsType(t, tt.want, arr)
			assert.Equal(t, f, arr.DataType())
			assert.Equal(t, "[0 0]", arr.String())
		})
	}
}

func TestUnknownNullCountComputedLazily(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	p := assembleInt32(t, mem, "i", []byte{0b0101}, -1, 1, 2, 3, 4)
	arr, err := array.MakeFromProxy(p)
	require.NoError(t, err)
	defer arr.Release()

	assert.EqualValues(t, -1, arr.Proxy().NullCount())
	assert.Equal(t, 2, arr.NullN())
	// the node keeps the producer's value
	assert.EqualValues(t, -1, arr.Proxy().NullCount())
	assert.Equal(t, "[1 (null) 3 (null)]", arr.String())
}

func TestUnknownNullCountWithoutBitmap(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	p := assembleInt32(t, mem, "i", nil, -1, 1, 2)
	arr, err := array.MakeFromProxy(p)
	require.NoError(t, err)
	defer arr.Release()

	assert.Zero(t, arr.NullN())
}

func TestMakeFromProxyRespectsOffset(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	p, err := cdata.Assemble(cdata.Node{
		Format:    "s",
		Length:    3,
		Offset:    2,
		NullCount: -1,
		Buffers: []*memory.Buffer{
			memory.NewBufferOf(mem, []byte{0b01111}),
			memory.NewBufferOf(mem, arrow.CastToBytes([]int16{9, 9, 1, 2, 3})),
		},
	})
	require.NoError(t, err)

	arr, err := array.MakeFromProxy(p)
	require.NoError(t, err)
	defer arr.Release()

	prim := arr.(*array.Int16)
	assert.Equal(t, 2, prim.Offset())
	assert.Equal(t, []int16{1, 2, 3}, prim.Values())
	assert.Equal(t, 1, prim.NullN())
	assert.Equal(t, "[1 2 (null)]", prim.String())

	clone, err := array.Clone(prim, mem)
	require.NoError(t, err)
	defer clone.Release()
	assert.True(t, array.Equal(prim, clone))
}

func TestMakeFromProxyRejectsShortChild(t *testing.T) {
	mem := newCheckedMallocator()
	defer mem.AssertSize(t, 0)

	child := assembleInt32(t, mem, "i", nil, 0, 1, 2)
	p, err := cdata.Assemble(cdata.Node{
		Format:   "+w:2",
		Length:   2,
		Buffers:  []*memory.Buffer{nil},
		Children: []*cdata.Proxy{child},
	})
	require.NoError(t, err)
	defer p.Release()

	_, err = array.MakeFromProxy(p)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}

func TestMakeFromProxyRejectsBadListOffsets(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		length  int64
		buffers [][]int32
	}{
		{"view past child", "+vl", 1, [][]int32{{2}, {50}}},
		{"negative view offset", "+vl", 1, [][]int32{{-1}, {1}}},
		{"negative view size", "+vl", 2, [][]int32{{0, 1}, {1, -1}}},
		{"decreasing offsets", "+l", 3, [][]int32{{0, 3, 1, 3}}},
		{"negative first offset", "+l", 1, [][]int32{{-1, 2}}},
		{"offset past child", "+l", 2, [][]int32{{0, 1, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newCheckedMallocator()
			defer mem.AssertSize(t, 0)

			bufs := []*memory.Buffer{nil}
			for _, b := range tt.buffers {
				bufs = append(bufs, memory.NewBufferOf(mem, arrow.CastToBytes(b)))
			}
			child := assembleInt32(t, mem, "i", nil, 0, 1, 2, 3)
			p, err := cdata.Assemble(cdata.Node{
				Format:   tt.format,
				Length:   tt.length,
				Buffers:  bufs,
				Children: []*cdata.Proxy{child},
			})
			require.NoError(t, err)
			defer p.Release()

			arr, err := array.MakeFromProxy(p)
			assert.Nil(t, arr)
			assert.ErrorIs(t, err, arrow.ErrInvalid)
			assert.False(t, p.IsReleased())
		})
	}
}
