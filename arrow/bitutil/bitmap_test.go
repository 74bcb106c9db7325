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

package bitutil_test

import (
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/internal/testing/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFalse(t *testing.T, b *bitutil.Bitmap) int {
	t.Helper()
	n := 0
	for i := 0; i < b.Len(); i++ {
		v, err := b.Get(i)
		require.NoError(t, err)
		if !v {
			n++
		}
	}
	return n
}

func bools(t *testing.T, b *bitutil.Bitmap) []bool {
	t.Helper()
	out := make([]bool, b.Len())
	for i := range out {
		v, err := b.Get(i)
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestNewBitmap(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 64, 100} {
		valid := bitutil.NewBitmap(n, true)
		assert.Equal(t, n, valid.Len())
		assert.Zero(t, valid.NullN())
		assert.Len(t, valid.Bytes(), int(bitutil.BytesForBits(int64(n))))

		null := bitutil.NewBitmap(n, false)
		assert.Equal(t, n, null.NullN())
		assert.Equal(t, countFalse(t, null), null.NullN())
	}

	var zero bitutil.Bitmap
	assert.Zero(t, zero.Len())
	zero.PushBack(false)
	assert.Equal(t, 1, zero.NullN())
}

func TestBitmapFromRanges(t *testing.T) {
	vals := []bool{true, false, true, true, false, false, true, true, true, false}
	b := bitutil.NewBitmapFromBools(vals)
	assert.Equal(t, vals, bools(t, b))
	assert.Equal(t, 4, b.NullN())

	ints := bitutil.NewBitmapFromInts([]uint16{1, 0, 7, 2, 0, 0, 9, 3, 1, 0})
	assert.True(t, b.Equal(ints))

	u8 := bitutil.NewBitmapFromInts([]uint8{0, 0, 0})
	assert.Equal(t, 3, u8.NullN())
}

func TestBitmapGetSetBounds(t *testing.T) {
	b := bitutil.NewBitmap(10, true)

	_, err := b.Get(10)
	assert.ErrorIs(t, err, arrow.ErrIndex)
	_, err = b.Get(-1)
	assert.ErrorIs(t, err, arrow.ErrIndex)
	assert.ErrorIs(t, b.Set(10, false), arrow.ErrIndex)

	require.NoError(t, b.Set(3, false))
	assert.Equal(t, 1, b.NullN())
	require.NoError(t, b.Set(3, false))
	assert.Equal(t, 1, b.NullN())
	require.NoError(t, b.Set(3, true))
	assert.Zero(t, b.NullN())
}

func TestBitmapResize(t *testing.T) {
	b := bitutil.NewBitmapFromBools([]bool{true, false, true})

	b.Resize(12, false)
	assert.Equal(t, 12, b.Len())
	assert.Equal(t, 10, b.NullN())

	b.Resize(20, true)
	assert.Equal(t, 10, b.NullN())

	b.Resize(2, true)
	assert.Equal(t, []bool{true, false}, bools(t, b))
	assert.Equal(t, 1, b.NullN())

	// regrowing must not resurrect truncated bits
	b.Resize(10, true)
	assert.Equal(t, 1, b.NullN())
	assert.Equal(t, countFalse(t, b), b.NullN())
}

func TestBitmapInsertErase(t *testing.T) {
	b := bitutil.NewBitmapFromBools([]bool{true, true, false, true})

	require.NoError(t, b.Insert(0, false))
	require.NoError(t, b.Insert(5, false))
	require.NoError(t, b.Insert(2, true))
	assert.Equal(t, []bool{false, true, true, true, false, true, false}, bools(t, b))
	assert.Equal(t, 3, b.NullN())

	assert.ErrorIs(t, b.Insert(8, true), arrow.ErrIndex)
	assert.ErrorIs(t, b.Erase(7), arrow.ErrIndex)

	require.NoError(t, b.Erase(0))
	require.NoError(t, b.Erase(3))
	assert.Equal(t, []bool{true, true, true, true, false}, bools(t, b))
	assert.Equal(t, 1, b.NullN())

	require.NoError(t, b.PopBack())
	assert.Zero(t, b.NullN())
	assert.Equal(t, 4, b.Len())

	for b.Len() > 0 {
		require.NoError(t, b.PopBack())
	}
	assert.ErrorIs(t, b.PopBack(), arrow.ErrIndex)
}

func TestBitmapNullCountInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	b := bitutil.NewBitmap(0, true)

	for step := 0; step < 2000; step++ {
		switch op := r.Intn(6); {
		case op == 0 && b.Len() > 0:
			require.NoError(t, b.Set(r.Intn(b.Len()), r.Intn(2) == 0))
		case op == 1:
			b.Resize(r.Intn(150), r.Intn(2) == 0)
		case op == 2:
			require.NoError(t, b.Insert(r.Intn(b.Len()+1), r.Intn(2) == 0))
		case op == 3 && b.Len() > 0:
			require.NoError(t, b.Erase(r.Intn(b.Len())))
		case op == 4:
			b.PushBack(r.Intn(2) == 0)
		case op == 5 && b.Len() > 0:
			require.NoError(t, b.PopBack())
		}
		require.Equalf(t, countFalse(t, b), b.NullN(), "step %d", step)
	}
}

func TestBitmapView(t *testing.T) {
	buf := []byte{0b10110101, 0b00000011}
	b, err := bitutil.NewBitmapView(buf, 10)
	require.NoError(t, err)
	assert.True(t, b.IsBorrowed())
	assert.Equal(t, 3, b.NullN())

	// writes go through to the borrowed memory
	require.NoError(t, b.Set(1, true))
	assert.Equal(t, byte(0b10110111), buf[0])
	assert.Equal(t, 2, b.NullN())

	// growing detaches
	b.PushBack(false)
	assert.False(t, b.IsBorrowed())
	require.NoError(t, b.Set(0, false))
	assert.Equal(t, byte(0b10110111), buf[0])
	assert.Equal(t, 4, b.NullN())

	_, err = bitutil.NewBitmapView(buf, 17)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}

func TestBitmapViewLSB(t *testing.T) {
	b, err := bitutil.NewBitmapView(tools.IntsToBitsLSB(0x11001010, 0x00001111), 16)
	require.NoError(t, err)
	assert.Equal(t, tools.Bools(1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1), bools(t, b))
	assert.Equal(t, 8, b.NullN())
}

func TestBitmapViewShrink(t *testing.T) {
	buf := []byte{0xFF, 0x0F}
	b, err := bitutil.NewBitmapView(buf, 12)
	require.NoError(t, err)
	require.NoError(t, b.Erase(0))
	assert.False(t, b.IsBorrowed())
	assert.Equal(t, 11, b.Len())
	assert.Zero(t, b.NullN())
	assert.Equal(t, []byte{0xFF, 0x0F}, buf)
}

func TestBitmapCopy(t *testing.T) {
	src := bitutil.NewBitmapFromBools([]bool{true, false, false, true, true, false, true, true, false, true})
	cp := bitutil.NewBitmapCopy(src.Bytes(), 3, 5)
	assert.Equal(t, []bool{true, true, false, true, true}, bools(t, cp))
	assert.Equal(t, 1, cp.NullN())

	all := bitutil.NewBitmapCopy(nil, 0, 4)
	assert.Zero(t, all.NullN())

	clone := src.Clone()
	require.NoError(t, clone.Set(0, false))
	v, _ := src.Get(0)
	assert.True(t, v)
}

func TestEnsureValidity(t *testing.T) {
	got, err := bitutil.EnsureValidity(5, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(bitutil.NewBitmap(5, true)))

	got, err = bitutil.EnsureValidity(5, bitutil.NewBitmap(0, true))
	require.NoError(t, err)
	assert.True(t, got.Equal(bitutil.NewBitmap(5, true)))

	full := bitutil.NewBitmapFromBools([]bool{true, false, true, false, true})
	got, err = bitutil.EnsureValidity(5, full)
	require.NoError(t, err)
	assert.Same(t, full, got)
	assert.True(t, got.Equal(bitutil.NewBitmapFromBools([]bool{true, false, true, false, true})))

	_, err = bitutil.EnsureValidity(4, full)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}

func TestBitmapRoaring(t *testing.T) {
	nulls := roaring.BitmapOf(1, 4, 9, 100)
	b := bitutil.NewBitmapFromNulls(10, nulls)
	assert.Equal(t, 10, b.Len())
	assert.Equal(t, 3, b.NullN())
	assert.Equal(t, []uint32{1, 4, 9}, b.Nulls().ToArray())

	assert.True(t, bitutil.NewBitmap(3, true).Nulls().IsEmpty())
	assert.Equal(t, "[1011011110]", b.String())
}
