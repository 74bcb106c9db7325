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

package array

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
	"github.com/arrowabi/go/arrow/memory/mallocator"
	"github.com/goccy/go-json"
)

// Array is the type-erased view shared by every layout. The set of
// implementations is closed: only the layouts in this package satisfy it.
type Array interface {
	json.Marshaler
	fmt.Stringer

	// DataType returns the parsed format of the array.
	DataType() arrow.Format
	// Len returns the number of logical elements.
	Len() int
	// Offset returns the number of physical slots skipped before element 0.
	Offset() int
	// NullN returns the number of null elements. An unknown null count
	// reported by the producer is computed on first use and cached.
	NullN() int
	// IsNull reports whether element i is null. i must be in [0, Len()).
	IsNull(i int) bool
	// IsValid reports whether element i holds a value.
	IsValid(i int) bool
	// Proxy returns the interchange nodes backing the array.
	Proxy() *cdata.Proxy
	// GetOneForMarshal returns element i in a form encodable as json, nil
	// for nulls.
	GetOneForMarshal(i int) interface{}
	// Export moves the nodes of an owning array to the caller's structs,
	// leaving the array released.
	Export(outSchema *cdata.CArrowSchema, outArray *cdata.CArrowArray) error
	// Release releases the nodes of an owning array. Further calls are
	// no-ops.
	Release()

	elemString(i int) string
	elemEqual(i int, other Array, j int) bool
}

// Nullable is an element that may be absent.
type Nullable[T any] struct {
	Value T
	Valid bool
}

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) { return n.Value, n.Valid }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n Nullable[T]) String() string {
	if !n.Valid {
		return "(null)"
	}
	return fmt.Sprintf("%v", n.Value)
}

var defaultAllocator memory.Allocator = mallocator.NewMallocator()

func allocatorOr(mem memory.Allocator) memory.Allocator {
	if mem == nil {
		return defaultAllocator
	}
	return mem
}

// array holds the state common to every layout.
type array struct {
	proxy    *cdata.Proxy
	dtype    arrow.Format
	mem      memory.Allocator
	length   int
	offset   int
	nulls    int
	validity []byte
}

func (a *array) setProxy(p *cdata.Proxy, dtype arrow.Format) error {
	a.proxy = p
	a.dtype = dtype
	a.mem = defaultAllocator
	a.length = int(p.Length())
	a.offset = int(p.Offset())
	a.nulls = int(p.NullCount())
	return a.loadValidity()
}

func (a *array) loadValidity() error {
	a.validity = nil
	layout := a.dtype.Layout()
	if len(layout.Buffers) == 0 || layout.Buffers[0].Kind != arrow.KindBitmap {
		return nil
	}
	buf, err := a.proxy.Buffer(0)
	if err != nil {
		return err
	}
	a.validity = buf
	return nil
}

func (a *array) DataType() arrow.Format { return a.dtype }
func (a *array) Len() int               { return a.length }
func (a *array) Offset() int            { return a.offset }
func (a *array) Proxy() *cdata.Proxy    { return a.proxy }

func (a *array) NullN() int {
	if a.nulls < 0 {
		if a.validity == nil {
			a.nulls = 0
		} else {
			a.nulls = a.length - bitutil.CountSetBits(a.validity, a.offset, a.length)
		}
	}
	return a.nulls
}

func (a *array) IsNull(i int) bool {
	return a.validity != nil && bitutil.BitIsNotSet(a.validity, a.offset+i)
}

func (a *array) IsValid(i int) bool {
	return a.validity == nil || bitutil.BitIsSet(a.validity, a.offset+i)
}

// NullBitmapBytes returns the validity buffer, nil when every element is
// valid. Bit i+Offset() describes element i.
func (a *array) NullBitmapBytes() []byte { return a.validity }

func (a *array) Export(outSchema *cdata.CArrowSchema, outArray *cdata.CArrowArray) error {
	if err := a.proxy.Export(outSchema, outArray); err != nil {
		return err
	}
	a.reset()
	return nil
}

// Release releases the nodes of an owning array. Arrays borrowing their
// parent's nodes are left untouched.
func (a *array) Release() {
	if a.proxy == nil || !a.proxy.IsOwned() {
		return
	}
	a.proxy.Release()
	a.reset()
}

func (a *array) reset() {
	a.length, a.offset, a.nulls, a.validity = 0, 0, 0, nil
}

func (a *array) checkIndex(i int) error {
	if i < 0 || i >= a.length {
		return fmt.Errorf("%w: index %d out of range [0, %d)", arrow.ErrIndex, i, a.length)
	}
	return nil
}

// setValidBit updates the validity of element i, allocating an all-valid
// bitmap when the array has none. The null count in the node follows.
func (a *array) setValidBit(i int, valid bool) error {
	if err := a.checkIndex(i); err != nil {
		return err
	}
	nulls := a.NullN()

	if a.validity == nil {
		if valid {
			return nil
		}
		buf := memory.NewResizableBuffer(a.mem)
		buf.Resize(int(bitutil.BytesForBits(int64(a.offset + a.length))))
		memory.Set(buf.Bytes(), 0xFF)
		if err := a.proxy.SetBuffer(0, buf); err != nil {
			buf.Release()
			return err
		}
		if err := a.loadValidity(); err != nil {
			return err
		}
	}

	switch was := a.IsValid(i); {
	case was && !valid:
		nulls++
	case !was && valid:
		nulls--
	default:
		return nil
	}
	bitutil.SetBitTo(a.validity, a.offset+i, valid)
	a.nulls = nulls
	return a.proxy.SetNullCount(int64(nulls))
}

// Clone deep-copies arr and everything it references into memory obtained
// from mem, returning an owning array of the same layout. Mutating the copy
// or its children never affects arr.
func Clone[A Array](arr A, mem memory.Allocator) (A, error) {
	var zero A
	p, err := arr.Proxy().Clone(allocatorOr(mem))
	if err != nil {
		return zero, err
	}
	out, err := MakeFromProxy(p)
	if err != nil {
		p.Release()
		return zero, err
	}
	return out.(A), nil
}

// Elements iterates over every element of arr in a type-erased form.
func Elements(arr Array) iter.Seq2[int, interface{}] {
	return func(yield func(int, interface{}) bool) {
		for i := 0; i < arr.Len(); i++ {
			if !yield(i, arr.GetOneForMarshal(i)) {
				return
			}
		}
	}
}

// NullSet returns the logical positions of the null elements of arr.
func NullSet(arr Array) *roaring.Bitmap {
	out := roaring.New()
	switch n := arr.NullN(); n {
	case 0:
		return out
	case arr.Len():
		out.AddRange(0, uint64(n))
		return out
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			out.Add(uint32(i))
		}
	}
	return out
}

func arrayString(a Array) string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			o.WriteString(" ")
		}
		if a.IsNull(i) {
			o.WriteString("(null)")
			continue
		}
		o.WriteString(a.elemString(i))
	}
	o.WriteString("]")
	return o.String()
}

func marshalArray(a Array) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	buf.WriteByte('[')
	for i := 0; i < a.Len(); i++ {
		if i != 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(a.GetOneForMarshal(i)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// releaseOnError releases every owning input when construction fails.
func releaseOnError(arrs ...Array) {
	for _, a := range arrs {
		if a != nil {
			a.Release()
		}
	}
}

// validityBuffer materializes the validity of an n element array, filling
// in an all-valid bitmap when bm is empty.
func validityBuffer(mem memory.Allocator, n int, bm *bitutil.Bitmap) (*memory.Buffer, int, error) {
	bm, err := bitutil.EnsureValidity(n, bm)
	if err != nil {
		return nil, 0, err
	}
	return memory.NewBufferOf(mem, bm.Bytes()), bm.NullN(), nil
}
