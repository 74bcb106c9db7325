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

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
)

// FixedSizeList holds lists of a fixed width. Element i spans
// [i*width, (i+1)*width) of the child, counting the array offset.
type FixedSizeList struct {
	array
	width  int
	values Array
}

// NewFixedSizeList groups values into lists of width elements. The array
// has values.Len()/width elements; width must be positive and divide the
// child length. values must be an owning array and is consumed, even on
// error.
func NewFixedSizeList(mem memory.Allocator, values Array, width int32, validity *bitutil.Bitmap) (*FixedSizeList, error) {
	mem = allocatorOr(mem)
	if width <= 0 || values.Len()%int(width) != 0 {
		releaseOnError(values)
		return nil, fmt.Errorf("%w: child of length %d cannot form lists of width %d",
			arrow.ErrInvalid, values.Len(), width)
	}

	n := values.Len() / int(width)
	vbuf, nulls, err := validityBuffer(mem, n, validity)
	if err != nil {
		releaseOnError(values)
		return nil, err
	}

	dtype := arrow.FixedSizeListOf(width)
	p, err := cdata.Assemble(cdata.Node{
		Format:    dtype.String(),
		Length:    int64(n),
		NullCount: int64(nulls),
		Buffers:   []*memory.Buffer{vbuf},
		Children:  []*cdata.Proxy{values.Proxy()},
	})
	if err != nil {
		return nil, err
	}
	a, err := newFixedSizeList(p, dtype)
	if err != nil {
		p.Release()
		return nil, err
	}
	a.mem = mem
	return a, nil
}

func newFixedSizeList(p *cdata.Proxy, dtype arrow.Format) (*FixedSizeList, error) {
	a := &FixedSizeList{width: int(dtype.ListSize)}
	if err := a.setProxy(p, dtype); err != nil {
		return nil, err
	}

	var err error
	if a.values, err = childArray(p, 0); err != nil {
		return nil, err
	}
	if need := (a.offset + a.length) * a.width; need > a.values.Len() {
		return nil, fmt.Errorf("%w: %s needs %d child elements, child has %d",
			arrow.ErrInvalid, dtype, need, a.values.Len())
	}
	return a, nil
}

// Width returns the number of child elements in every list.
func (a *FixedSizeList) Width() int { return a.width }

func (a *FixedSizeList) ListValues() Array { return a.values }

func (a *FixedSizeList) ValueOffsets(i int) (start, end int64) {
	start = int64((a.offset + i) * a.width)
	return start, start + int64(a.width)
}

// Value returns the list at i regardless of validity.
func (a *FixedSizeList) Value(i int) ListValue { return listValue(a, i) }

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *FixedSizeList) At(i int) (Nullable[ListValue], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[ListValue]{}, err
	}
	return listAt(a, i), nil
}

func (a *FixedSizeList) All() iter.Seq2[int, Nullable[ListValue]] { return listAll(a) }

// SetValid marks element i valid or null.
func (a *FixedSizeList) SetValid(i int, valid bool) error { return a.setValidBit(i, valid) }

func (a *FixedSizeList) GetOneForMarshal(i int) interface{} { return listGetOne(a, i) }
func (a *FixedSizeList) MarshalJSON() ([]byte, error)       { return marshalArray(a) }
func (a *FixedSizeList) String() string                     { return arrayString(a) }

func (a *FixedSizeList) elemString(i int) string { return listValue(a, i).String() }

func (a *FixedSizeList) elemEqual(i int, other Array, j int) bool {
	o, ok := other.(*FixedSizeList)
	return ok && o.width == a.width && listEqual(a, i, other, j)
}
