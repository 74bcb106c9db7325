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

package bitutil

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/internal/debug"
	"golang.org/x/exp/constraints"
)

// Bitmap is a growable, LSB bit-packed sequence of validity flags with a
// cached count of unset (null) bits.
//
// The zero value is an empty bitmap ready for use. A Bitmap is not safe for
// concurrent mutation.
type Bitmap struct {
	buf    []byte
	length int
	nulls  int
	// borrowed is set while buf aliases memory the Bitmap does not own.
	borrowed bool
}

// NewBitmap returns a bitmap of n bits, all set when valid is true and all
// unset otherwise.
func NewBitmap(n int, valid bool) *Bitmap {
	debug.Assert(n >= 0, "bitutil: negative bitmap length")
	b := &Bitmap{}
	b.Resize(n, valid)
	return b
}

// NewBitmapFromBools returns a bitmap with bit i set iff vals[i] is true.
func NewBitmapFromBools(vals []bool) *Bitmap {
	b := &Bitmap{
		buf:    make([]byte, BytesForBits(int64(len(vals)))),
		length: len(vals),
	}
	wr := NewBitmapWriter(b.buf, 0, len(vals))
	wr.AppendBools(vals)
	wr.Finish()
	b.nulls = b.length - CountSetBits(b.buf, 0, b.length)
	return b
}

// NewBitmapFromInts returns a bitmap with bit i set iff vals[i] is non-zero.
func NewBitmapFromInts[T constraints.Unsigned](vals []T) *Bitmap {
	b := &Bitmap{
		buf:    make([]byte, BytesForBits(int64(len(vals)))),
		length: len(vals),
	}
	for i, v := range vals {
		if v != 0 {
			SetBit(b.buf, i)
		} else {
			b.nulls++
		}
	}
	return b
}

// NewBitmapFromNulls returns a bitmap of n bits where exactly the positions
// held by nulls are unset. Positions at or beyond n are ignored.
func NewBitmapFromNulls(n int, nulls *roaring.Bitmap) *Bitmap {
	b := NewBitmap(n, true)
	if nulls == nil {
		return b
	}
	it := nulls.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= n {
			break
		}
		ClearBit(b.buf, i)
		b.nulls++
	}
	return b
}

// NewBitmapView returns a bitmap of n bits over buf without copying it.
//
// The bitmap borrows buf: it must not outlive the memory, and Set writes
// through to it. Operations that grow the bitmap move it to owned storage.
func NewBitmapView(buf []byte, n int) (*Bitmap, error) {
	if n < 0 || int64(len(buf)) < BytesForBits(int64(n)) {
		return nil, fmt.Errorf("%w: bitmap view of %d bits over %d bytes", arrow.ErrInvalid, n, len(buf))
	}
	return &Bitmap{
		buf:      buf,
		length:   n,
		nulls:    n - CountSetBits(buf, 0, n),
		borrowed: true,
	}, nil
}

// NewBitmapCopy returns an owned bitmap holding n bits of buf starting at
// bit offset. A nil buf yields an all-valid bitmap.
func NewBitmapCopy(buf []byte, offset, n int) *Bitmap {
	if buf == nil {
		return NewBitmap(n, true)
	}
	b := &Bitmap{
		buf:    make([]byte, BytesForBits(int64(n))),
		length: n,
	}
	CopyBitmap(buf, offset, n, b.buf, 0)
	b.nulls = n - CountSetBits(b.buf, 0, n)
	return b
}

// EnsureValidity returns bm when it already holds n bits, and an all-valid
// bitmap of n bits when bm is nil or empty. Any other length is an error.
func EnsureValidity(n int, bm *Bitmap) (*Bitmap, error) {
	if bm == nil || bm.Len() == 0 {
		return NewBitmap(n, true), nil
	}
	if bm.Len() != n {
		return nil, fmt.Errorf("%w: validity bitmap has %d bits, array has %d elements",
			arrow.ErrInvalid, bm.Len(), n)
	}
	return bm, nil
}

// Len returns the number of bits.
func (b *Bitmap) Len() int { return b.length }

// NullN returns the number of unset bits.
func (b *Bitmap) NullN() int { return b.nulls }

// IsBorrowed reports whether the bitmap currently aliases external memory.
func (b *Bitmap) IsBorrowed() bool { return b.borrowed }

// Bytes returns the packed storage, BytesForBits(Len()) bytes long. Bits past
// Len() in the final byte are zero for owned bitmaps.
func (b *Bitmap) Bytes() []byte { return b.buf[:BytesForBits(int64(b.length))] }

// Get returns bit i.
func (b *Bitmap) Get(i int) (bool, error) {
	if i < 0 || i >= b.length {
		return false, fmt.Errorf("%w: bit %d out of range [0, %d)", arrow.ErrIndex, i, b.length)
	}
	return BitIsSet(b.buf, i), nil
}

// Set sets bit i to v.
func (b *Bitmap) Set(i int, v bool) error {
	if i < 0 || i >= b.length {
		return fmt.Errorf("%w: bit %d out of range [0, %d)", arrow.ErrIndex, i, b.length)
	}
	b.setBit(i, v)
	b.checkNullCount()
	return nil
}

func (b *Bitmap) setBit(i int, v bool) {
	old := BitIsSet(b.buf, i)
	switch {
	case old == v:
		return
	case v:
		b.nulls--
	default:
		b.nulls++
	}
	SetBitTo(b.buf, i, v)
}

// Resize changes the length to n. New bits are set to valid.
func (b *Bitmap) Resize(n int, valid bool) {
	debug.Assert(n >= 0, "bitutil: negative bitmap length")
	switch {
	case n < b.length:
		b.nulls -= (b.length - n) - CountSetBits(b.buf, n, b.length-n)
		b.own(n)
		b.clearTail(n)
	case n > b.length:
		b.own(n)
		SetBitsTo(b.buf, int64(b.length), int64(n-b.length), valid)
		if !valid {
			b.nulls += n - b.length
		}
	}
	b.length = n
	b.checkNullCount()
}

// Insert inserts v at pos, shifting later bits up by one. pos may equal Len().
func (b *Bitmap) Insert(pos int, v bool) error {
	if pos < 0 || pos > b.length {
		return fmt.Errorf("%w: insert position %d out of range [0, %d]", arrow.ErrIndex, pos, b.length)
	}

	n := b.length + 1
	b.own(n)
	for i := b.length; i > pos; i-- {
		SetBitTo(b.buf, i, BitIsSet(b.buf, i-1))
	}
	SetBitTo(b.buf, pos, v)
	if !v {
		b.nulls++
	}
	b.length = n
	b.checkNullCount()
	return nil
}

// Erase removes the bit at pos, shifting later bits down by one.
func (b *Bitmap) Erase(pos int) error {
	if pos < 0 || pos >= b.length {
		return fmt.Errorf("%w: erase position %d out of range [0, %d)", arrow.ErrIndex, pos, b.length)
	}

	if BitIsNotSet(b.buf, pos) {
		b.nulls--
	}
	b.own(b.length)
	for i := pos; i < b.length-1; i++ {
		SetBitTo(b.buf, i, BitIsSet(b.buf, i+1))
	}
	b.length--
	b.clearTail(b.length)
	b.checkNullCount()
	return nil
}

// PushBack appends v.
func (b *Bitmap) PushBack(v bool) {
	b.Insert(b.length, v)
}

// PopBack removes the last bit.
func (b *Bitmap) PopBack() error {
	if b.length == 0 {
		return fmt.Errorf("%w: pop from empty bitmap", arrow.ErrIndex)
	}
	return b.Erase(b.length - 1)
}

// Clone returns an owned copy of b.
func (b *Bitmap) Clone() *Bitmap {
	return NewBitmapCopy(b.buf, 0, b.length)
}

// Nulls returns the positions of the unset bits.
func (b *Bitmap) Nulls() *roaring.Bitmap {
	out := roaring.New()
	if b.nulls == 0 {
		return out
	}
	rdr := NewBitmapReader(b.buf, 0, b.length)
	for i := 0; i < b.length; i++ {
		if rdr.NotSet() {
			out.Add(uint32(i))
		}
		rdr.Next()
	}
	return out
}

// Equal reports whether b and other hold the same bits.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b.length != other.length || b.nulls != other.nulls {
		return false
	}
	for i := 0; i < b.length; i++ {
		if BitIsSet(b.buf, i) != BitIsSet(other.buf, i) {
			return false
		}
	}
	return true
}

func (b *Bitmap) String() string {
	var o strings.Builder
	o.WriteByte('[')
	for i := 0; i < b.length; i++ {
		if BitIsSet(b.buf, i) {
			o.WriteByte('1')
		} else {
			o.WriteByte('0')
		}
	}
	o.WriteByte(']')
	return o.String()
}

// own makes sure buf is owned and can hold n bits.
func (b *Bitmap) own(n int) {
	need := int(BytesForBits(int64(n)))
	if !b.borrowed && need <= cap(b.buf) {
		if need > len(b.buf) {
			b.buf = b.buf[:need]
		}
		return
	}

	newcap := need
	if !b.borrowed {
		newcap = max(need, 2*cap(b.buf))
	}
	buf := make([]byte, need, newcap)
	copy(buf, b.buf[:BytesForBits(int64(b.length))])
	if b.borrowed {
		// bits past length in borrowed memory are unspecified
		b.buf = buf
		b.borrowed = false
		b.clearTail(min(b.length, n))
		return
	}
	b.buf = buf
}

// clearTail zeroes every stored bit at or past n.
func (b *Bitmap) clearTail(n int) {
	nbytes := int(BytesForBits(int64(n)))
	if r := n % 8; r != 0 {
		b.buf[nbytes-1] &= BitMask[r] - 1
	}
	for i := nbytes; i < len(b.buf); i++ {
		b.buf[i] = 0
	}
}

func (b *Bitmap) checkNullCount() {
	if debug.AssertsEnabled {
		debug.Assert(b.nulls == b.length-CountSetBits(b.buf, 0, b.length),
			"bitutil: cached null count does not match bitmap contents")
	}
}
