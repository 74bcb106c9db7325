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

// ListViewOf holds lists described by independent offset and size pairs.
// Views may overlap or appear in any order within the child.
type ListViewOf[O arrow.OffsetType] struct {
	array
	offsets []O
	sizes   []O
	values  Array
}

type (
	// ListView uses 32-bit offsets and sizes, format "+vl".
	ListView = ListViewOf[int32]
	// LargeListView uses 64-bit offsets and sizes, format "+vL".
	LargeListView = ListViewOf[int64]
)

func listViewFormat[O arrow.OffsetType]() arrow.Format {
	if isWideOffset[O]() {
		return arrow.FormatOf(arrow.LARGE_LIST_VIEW)
	}
	return arrow.FormatOf(arrow.LIST_VIEW)
}

// NewListViewOf builds a list view array whose element i spans
// [offsets[i], offsets[i]+sizes[i]) of values. values must be an owning
// array and is consumed, even on error.
func NewListViewOf[O arrow.OffsetType](mem memory.Allocator, values Array, offsets, sizes []O, validity *bitutil.Bitmap) (*ListViewOf[O], error) {
	mem = allocatorOr(mem)
	if err := checkViews(offsets, sizes, values.Len()); err != nil {
		releaseOnError(values)
		return nil, err
	}

	n := len(sizes)
	vbuf, nulls, err := validityBuffer(mem, n, validity)
	if err != nil {
		releaseOnError(values)
		return nil, err
	}

	p, err := cdata.Assemble(cdata.Node{
		Format:    listViewFormat[O]().String(),
		Length:    int64(n),
		NullCount: int64(nulls),
		Buffers: []*memory.Buffer{
			vbuf,
			memory.NewBufferOf(mem, arrow.CastToBytes(offsets)),
			memory.NewBufferOf(mem, arrow.CastToBytes(sizes)),
		},
		Children: []*cdata.Proxy{values.Proxy()},
	})
	if err != nil {
		return nil, err
	}
	a, err := newListViewOf[O](p, listViewFormat[O]())
	if err != nil {
		p.Release()
		return nil, err
	}
	a.mem = mem
	return a, nil
}

// NewListView builds a ListView over values.
func NewListView(mem memory.Allocator, values Array, offsets, sizes []int32, validity *bitutil.Bitmap) (*ListView, error) {
	return NewListViewOf(mem, values, offsets, sizes, validity)
}

// NewLargeListView builds a LargeListView over values.
func NewLargeListView(mem memory.Allocator, values Array, offsets, sizes []int64, validity *bitutil.Bitmap) (*LargeListView, error) {
	return NewListViewOf(mem, values, offsets, sizes, validity)
}

func newListViewOf[O arrow.OffsetType](p *cdata.Proxy, dtype arrow.Format) (*ListViewOf[O], error) {
	a := &ListViewOf[O]{}
	if err := a.setProxy(p, dtype); err != nil {
		return nil, err
	}
	offsets, err := p.Buffer(1)
	if err != nil {
		return nil, err
	}
	sizes, err := p.Buffer(2)
	if err != nil {
		return nil, err
	}
	a.offsets = arrow.CastFromBytesTo[O](offsets)
	a.sizes = arrow.CastFromBytesTo[O](sizes)

	if a.values, err = childArray(p, 0); err != nil {
		return nil, err
	}
	if a.length > 0 {
		if len(a.offsets) < a.offset+a.length || len(a.sizes) < a.offset+a.length {
			return nil, fmt.Errorf("%w: %s offsets or sizes buffer is missing", arrow.ErrInvalid, dtype)
		}
		if err := checkViews(a.Offsets(), a.Sizes(), a.values.Len()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *ListViewOf[O]) ListValues() Array { return a.values }

// Offsets returns the start offsets of the visible elements.
func (a *ListViewOf[O]) Offsets() []O {
	if a.offsets == nil {
		return nil
	}
	return a.offsets[a.offset : a.offset+a.length]
}

// Sizes returns the sizes of the visible elements.
func (a *ListViewOf[O]) Sizes() []O {
	if a.sizes == nil {
		return nil
	}
	return a.sizes[a.offset : a.offset+a.length]
}

func (a *ListViewOf[O]) ValueOffsets(i int) (start, end int64) {
	j := a.offset + i
	start = int64(a.offsets[j])
	return start, start + int64(a.sizes[j])
}

// Value returns the list at i regardless of validity.
func (a *ListViewOf[O]) Value(i int) ListValue { return listValue(a, i) }

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *ListViewOf[O]) At(i int) (Nullable[ListValue], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[ListValue]{}, err
	}
	return listAt(a, i), nil
}

func (a *ListViewOf[O]) All() iter.Seq2[int, Nullable[ListValue]] { return listAll(a) }

// SetValid marks element i valid or null.
func (a *ListViewOf[O]) SetValid(i int, valid bool) error { return a.setValidBit(i, valid) }

func (a *ListViewOf[O]) GetOneForMarshal(i int) interface{} { return listGetOne(a, i) }
func (a *ListViewOf[O]) MarshalJSON() ([]byte, error)       { return marshalArray(a) }
func (a *ListViewOf[O]) String() string                     { return arrayString(a) }

func (a *ListViewOf[O]) elemString(i int) string { return listValue(a, i).String() }

func (a *ListViewOf[O]) elemEqual(i int, other Array, j int) bool { return listEqual(a, i, other, j) }
