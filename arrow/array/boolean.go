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
	"iter"
	"strconv"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
)

// Boolean holds bit-packed boolean values.
type Boolean struct {
	array
	values []byte
}

// NewBoolean copies values into a new Boolean array. An empty validity
// bitmap marks every element valid.
func NewBoolean(mem memory.Allocator, values []bool, validity *bitutil.Bitmap) (*Boolean, error) {
	mem = allocatorOr(mem)
	vbuf, nulls, err := validityBuffer(mem, len(values), validity)
	if err != nil {
		return nil, err
	}

	p, err := cdata.Assemble(cdata.Node{
		Format:    arrow.FormatOf(arrow.BOOL).String(),
		Length:    int64(len(values)),
		NullCount: int64(nulls),
		Buffers:   []*memory.Buffer{vbuf, memory.NewBufferOf(mem, bitutil.NewBitmapFromBools(values).Bytes())},
	})
	if err != nil {
		return nil, err
	}
	a, err := newBoolean(p)
	if err != nil {
		p.Release()
		return nil, err
	}
	a.mem = mem
	return a, nil
}

func newBoolean(p *cdata.Proxy) (*Boolean, error) {
	a := &Boolean{}
	if err := a.setProxy(p, arrow.FormatOf(arrow.BOOL)); err != nil {
		return nil, err
	}
	vals, err := p.Buffer(1)
	if err != nil {
		return nil, err
	}
	a.values = vals
	return a, nil
}

// Value returns the value of element i regardless of validity.
func (a *Boolean) Value(i int) bool {
	return bitutil.BitIsSet(a.values, a.offset+i)
}

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *Boolean) At(i int) (Nullable[bool], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[bool]{}, err
	}
	return a.at(i), nil
}

func (a *Boolean) at(i int) Nullable[bool] {
	if a.IsNull(i) {
		return Nullable[bool]{}
	}
	return Nullable[bool]{Value: a.Value(i), Valid: true}
}

func (a *Boolean) All() iter.Seq2[int, Nullable[bool]] {
	return func(yield func(int, Nullable[bool]) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, a.at(i)) {
				return
			}
		}
	}
}

// SetValue overwrites the value of element i.
func (a *Boolean) SetValue(i int, v bool) error {
	if err := a.checkIndex(i); err != nil {
		return err
	}
	bitutil.SetBitTo(a.values, a.offset+i, v)
	return nil
}

// SetValid marks element i valid or null.
func (a *Boolean) SetValid(i int, valid bool) error { return a.setValidBit(i, valid) }

func (a *Boolean) GetOneForMarshal(i int) interface{} {
	if a.IsNull(i) {
		return nil
	}
	return a.Value(i)
}

func (a *Boolean) MarshalJSON() ([]byte, error) { return marshalArray(a) }
func (a *Boolean) String() string               { return arrayString(a) }

func (a *Boolean) elemString(i int) string { return strconv.FormatBool(a.Value(i)) }

func (a *Boolean) elemEqual(i int, other Array, j int) bool {
	o, ok := other.(*Boolean)
	return ok && a.Value(i) == o.Value(j)
}
