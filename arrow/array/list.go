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

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
	"github.com/goccy/go-json"
)

// ListLike is implemented by the layouts whose elements are ranges of a
// flat child array.
type ListLike interface {
	Array
	// ListValues returns the flat child array.
	ListValues() Array
	// ValueOffsets returns the range [start, end) of the child covered by
	// element i.
	ValueOffsets(i int) (start, end int64)
}

var (
	_ ListLike = (*List)(nil)
	_ ListLike = (*LargeList)(nil)
	_ ListLike = (*ListView)(nil)
	_ ListLike = (*LargeListView)(nil)
	_ ListLike = (*FixedSizeList)(nil)
)

// ListValue is a non-owning view of one list element: the range
// [start, end) of the flat child array. It is valid as long as the list
// it was taken from.
type ListValue struct {
	flat       Array
	start, end int
}

func listValue(l ListLike, i int) ListValue {
	start, end := l.ValueOffsets(i)
	return ListValue{flat: l.ListValues(), start: int(start), end: int(end)}
}

// Len returns the number of child elements in the list.
func (v ListValue) Len() int { return v.end - v.start }

// Range returns the span of the flat child covered by the list.
func (v ListValue) Range() (start, end int) { return v.start, v.end }

// Flat returns the whole child array the list points into.
func (v ListValue) Flat() Array { return v.flat }

// IsNull reports whether element j of the list is null.
func (v ListValue) IsNull(j int) bool { return v.flat.IsNull(v.start + j) }

// Elements iterates over the child elements of the list.
func (v ListValue) Elements() iter.Seq2[int, interface{}] {
	return func(yield func(int, interface{}) bool) {
		for j := 0; j < v.Len(); j++ {
			if !yield(j, v.flat.GetOneForMarshal(v.start+j)) {
				return
			}
		}
	}
}

func (v ListValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	buf.WriteByte('[')
	for j := v.start; j < v.end; j++ {
		if j != v.start {
			buf.WriteByte(',')
		}
		if err := enc.Encode(v.flat.GetOneForMarshal(j)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (v ListValue) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for j := v.start; j < v.end; j++ {
		if j > v.start {
			o.WriteString(" ")
		}
		if v.flat.IsNull(j) {
			o.WriteString("(null)")
			continue
		}
		o.WriteString(v.flat.elemString(j))
	}
	o.WriteString("]")
	return o.String()
}

// Equal reports whether both lists hold equal elements.
func (v ListValue) Equal(other ListValue) bool {
	if v.Len() != other.Len() {
		return false
	}
	for j := 0; j < v.Len(); j++ {
		if !elementsEqual(v.flat, v.start+j, other.flat, other.start+j) {
			return false
		}
	}
	return true
}

// ValuesOf returns the values of a list over a primitive child as a typed
// slice. It fails with arrow.ErrInvalid when the child does not hold T.
func ValuesOf[T arrow.NumericType](v ListValue) ([]T, error) {
	flat, ok := v.flat.(*Primitive[T])
	if !ok {
		return nil, fmt.Errorf("%w: list child is %s, not %s", arrow.ErrInvalid,
			v.flat.DataType(), arrow.FormatOf(arrow.TypeOf[T]()))
	}
	return flat.Values()[v.start:v.end], nil
}

func listAt(l ListLike, i int) Nullable[ListValue] {
	if l.IsNull(i) {
		return Nullable[ListValue]{}
	}
	return Nullable[ListValue]{Value: listValue(l, i), Valid: true}
}

func listAll(l ListLike) iter.Seq2[int, Nullable[ListValue]] {
	return func(yield func(int, Nullable[ListValue]) bool) {
		for i := 0; i < l.Len(); i++ {
			if !yield(i, listAt(l, i)) {
				return
			}
		}
	}
}

func listGetOne(l ListLike, i int) interface{} {
	if l.IsNull(i) {
		return nil
	}
	return listValue(l, i)
}

func listEqual(l ListLike, i int, other Array, j int) bool {
	o, ok := other.(ListLike)
	if !ok || o.DataType().ID != l.DataType().ID {
		return false
	}
	return listValue(l, i).Equal(listValue(o, j))
}

// ListOf holds variable-size lists delimited by monotonic offsets of type
// O into a flat child array.
type ListOf[O arrow.OffsetType] struct {
	array
	offsets []O
	values  Array
}

type (
	// List uses 32-bit offsets, format "+l".
	List = ListOf[int32]
	// LargeList uses 64-bit offsets, format "+L".
	LargeList = ListOf[int64]
)

func listFormat[O arrow.OffsetType]() arrow.Format {
	if isWideOffset[O]() {
		return arrow.FormatOf(arrow.LARGE_LIST)
	}
	return arrow.FormatOf(arrow.LIST)
}

// NewListOf builds a list array whose element i spans
// [offsets[i], offsets[i+1]) of values. The array has len(offsets)-1
// elements. values must be an owning array and is consumed, even on error.
func NewListOf[O arrow.OffsetType](mem memory.Allocator, values Array, offsets []O, validity *bitutil.Bitmap) (*ListOf[O], error) {
	mem = allocatorOr(mem)
	if err := checkOffsets(offsets, values.Len()); err != nil {
		releaseOnError(values)
		return nil, err
	}

	n := len(offsets) - 1
	vbuf, nulls, err := validityBuffer(mem, n, validity)
	if err != nil {
		releaseOnError(values)
		return nil, err
	}

	p, err := cdata.Assemble(cdata.Node{
		Format:    listFormat[O]().String(),
		Length:    int64(n),
		NullCount: int64(nulls),
		Buffers:   []*memory.Buffer{vbuf, memory.NewBufferOf(mem, arrow.CastToBytes(offsets))},
		Children:  []*cdata.Proxy{values.Proxy()},
	})
	if err != nil {
		return nil, err
	}
	a, err := newListOf[O](p, listFormat[O]())
	if err != nil {
		p.Release()
		return nil, err
	}
	a.mem = mem
	return a, nil
}

// NewList builds a List over values from explicit offsets.
func NewList(mem memory.Allocator, values Array, offsets []int32, validity *bitutil.Bitmap) (*List, error) {
	return NewListOf(mem, values, offsets, validity)
}

// NewLargeList builds a LargeList over values from explicit offsets.
func NewLargeList(mem memory.Allocator, values Array, offsets []int64, validity *bitutil.Bitmap) (*LargeList, error) {
	return NewListOf(mem, values, offsets, validity)
}

// NewListFromSizes builds a List whose element k holds the next sizes[k]
// elements of values. values is consumed, even on error.
func NewListFromSizes(mem memory.Allocator, values Array, sizes []int, validity *bitutil.Bitmap) (*List, error) {
	offsets, err := OffsetsFromSizes[int32](sizes)
	if err != nil {
		releaseOnError(values)
		return nil, err
	}
	return NewList(mem, values, offsets, validity)
}

// NewLargeListFromSizes is NewListFromSizes with 64-bit offsets.
func NewLargeListFromSizes(mem memory.Allocator, values Array, sizes []int, validity *bitutil.Bitmap) (*LargeList, error) {
	offsets, err := OffsetsFromSizes[int64](sizes)
	if err != nil {
		releaseOnError(values)
		return nil, err
	}
	return NewLargeList(mem, values, offsets, validity)
}

func newListOf[O arrow.OffsetType](p *cdata.Proxy, dtype arrow.Format) (*ListOf[O], error) {
	a := &ListOf[O]{}
	if err := a.setProxy(p, dtype); err != nil {
		return nil, err
	}
	offsets, err := p.Buffer(1)
	if err != nil {
		return nil, err
	}
	a.offsets = arrow.CastFromBytesTo[O](offsets)

	if a.values, err = childArray(p, 0); err != nil {
		return nil, err
	}
	if a.length > 0 {
		if len(a.offsets) < a.offset+a.length+1 {
			return nil, fmt.Errorf("%w: %s offsets buffer is missing", arrow.ErrInvalid, dtype)
		}
		if err := checkOffsets(a.Offsets(), a.values.Len()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// childArray builds the array over child i of p through the factory.
func childArray(p *cdata.Proxy, i int) (Array, error) {
	child, err := p.Child(i)
	if err != nil {
		return nil, err
	}
	return MakeFromProxy(child)
}

func (a *ListOf[O]) ListValues() Array { return a.values }

// Offsets returns the Len()+1 offsets of the visible elements.
func (a *ListOf[O]) Offsets() []O {
	if a.offsets == nil {
		return nil
	}
	return a.offsets[a.offset : a.offset+a.length+1]
}

func (a *ListOf[O]) ValueOffsets(i int) (start, end int64) {
	j := a.offset + i
	return int64(a.offsets[j]), int64(a.offsets[j+1])
}

// Value returns the list at i regardless of validity.
func (a *ListOf[O]) Value(i int) ListValue { return listValue(a, i) }

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *ListOf[O]) At(i int) (Nullable[ListValue], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[ListValue]{}, err
	}
	return listAt(a, i), nil
}

func (a *ListOf[O]) All() iter.Seq2[int, Nullable[ListValue]] { return listAll(a) }

// SetValid marks element i valid or null.
func (a *ListOf[O]) SetValid(i int, valid bool) error { return a.setValidBit(i, valid) }

func (a *ListOf[O]) GetOneForMarshal(i int) interface{} { return listGetOne(a, i) }
func (a *ListOf[O]) MarshalJSON() ([]byte, error)       { return marshalArray(a) }
func (a *ListOf[O]) String() string                     { return arrayString(a) }

func (a *ListOf[O]) elemString(i int) string { return listValue(a, i).String() }

func (a *ListOf[O]) elemEqual(i int, other Array, j int) bool { return listEqual(a, i, other, j) }
