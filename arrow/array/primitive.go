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
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
)

// Primitive holds fixed-width numeric values of type T.
type Primitive[T arrow.NumericType] struct {
	array
	values []T
}

type (
	Int8    = Primitive[int8]
	Uint8   = Primitive[uint8]
	Int16   = Primitive[int16]
	Uint16  = Primitive[uint16]
	Int32   = Primitive[int32]
	Uint32  = Primitive[uint32]
	Int64   = Primitive[int64]
	Uint64  = Primitive[uint64]
	Float32 = Primitive[float32]
	Float64 = Primitive[float64]
)

// NewPrimitive copies values into a new array. An empty validity bitmap
// marks every element valid; otherwise it must hold one bit per value.
func NewPrimitive[T arrow.NumericType](mem memory.Allocator, values []T, validity *bitutil.Bitmap) (*Primitive[T], error) {
	mem = allocatorOr(mem)
	vbuf, nulls, err := validityBuffer(mem, len(values), validity)
	if err != nil {
		return nil, err
	}

	p, err := cdata.Assemble(cdata.Node{
		Format:    arrow.FormatOf(arrow.TypeOf[T]()).String(),
		Length:    int64(len(values)),
		NullCount: int64(nulls),
		Buffers:   []*memory.Buffer{vbuf, memory.NewBufferOf(mem, arrow.CastToBytes(values))},
	})
	if err != nil {
		return nil, err
	}
	a, err := newPrimitive[T](p)
	if err != nil {
		p.Release()
		return nil, err
	}
	a.mem = mem
	return a, nil
}

// NewPrimitiveFromNullables builds an array from optional values, null
// where Valid is false.
func NewPrimitiveFromNullables[T arrow.NumericType](mem memory.Allocator, values []Nullable[T]) (*Primitive[T], error) {
	var (
		vals  = make([]T, len(values))
		valid = make([]bool, len(values))
	)
	for i, v := range values {
		vals[i], valid[i] = v.Value, v.Valid
	}
	return NewPrimitive(mem, vals, bitutil.NewBitmapFromBools(valid))
}

// NewPrimitiveWithNulls copies values into a new array that is null exactly
// at the positions held by nulls. Positions at or beyond len(values) are
// ignored.
func NewPrimitiveWithNulls[T arrow.NumericType](mem memory.Allocator, values []T, nulls *roaring.Bitmap) (*Primitive[T], error) {
	return NewPrimitive(mem, values, bitutil.NewBitmapFromNulls(len(values), nulls))
}

func newPrimitive[T arrow.NumericType](p *cdata.Proxy) (*Primitive[T], error) {
	a := &Primitive[T]{}
	if err := a.setProxy(p, arrow.FormatOf(arrow.TypeOf[T]())); err != nil {
		return nil, err
	}
	vals, err := p.Buffer(1)
	if err != nil {
		return nil, err
	}
	a.values = arrow.CastFromBytesTo[T](vals)
	return a, nil
}

// Value returns the value of element i regardless of validity.
func (a *Primitive[T]) Value(i int) T { return a.values[a.offset+i] }

// Values returns the values of every element, nulls included.
func (a *Primitive[T]) Values() []T {
	if a.values == nil {
		return nil
	}
	return a.values[a.offset : a.offset+a.length]
}

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *Primitive[T]) At(i int) (Nullable[T], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[T]{}, err
	}
	return a.at(i), nil
}

func (a *Primitive[T]) at(i int) Nullable[T] {
	if a.IsNull(i) {
		return Nullable[T]{}
	}
	return Nullable[T]{Value: a.Value(i), Valid: true}
}

func (a *Primitive[T]) All() iter.Seq2[int, Nullable[T]] {
	return func(yield func(int, Nullable[T]) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, a.at(i)) {
				return
			}
		}
	}
}

// SetValue overwrites the value of element i in place.
func (a *Primitive[T]) SetValue(i int, v T) error {
	if err := a.checkIndex(i); err != nil {
		return err
	}
	a.values[a.offset+i] = v
	return nil
}

// SetValid marks element i valid or null. A validity buffer is allocated
// the first time an element of a fully valid array is nulled.
func (a *Primitive[T]) SetValid(i int, valid bool) error { return a.setValidBit(i, valid) }

func (a *Primitive[T]) GetOneForMarshal(i int) interface{} {
	if a.IsNull(i) {
		return nil
	}
	return a.Value(i)
}

func (a *Primitive[T]) MarshalJSON() ([]byte, error) { return marshalArray(a) }
func (a *Primitive[T]) String() string               { return arrayString(a) }

func (a *Primitive[T]) elemString(i int) string { return fmt.Sprintf("%v", a.Value(i)) }

func (a *Primitive[T]) elemEqual(i int, other Array, j int) bool {
	o, ok := other.(*Primitive[T])
	return ok && a.Value(i) == o.Value(j)
}
