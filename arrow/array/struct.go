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
	"strings"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/bitutil"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/memory"
	"github.com/goccy/go-json"
)

// Struct holds one child array per field. Element i of the struct is row
// i+Offset() of every field.
type Struct struct {
	array
	fields []Array
	names  []string
}

// NewStruct builds a struct array from equal-length fields, naming field k
// names[k]. A struct without fields takes its length from validity. The
// fields must be owning arrays and are consumed, even on error.
func NewStruct(mem memory.Allocator, fields []Array, names []string, validity *bitutil.Bitmap) (*Struct, error) {
	mem = allocatorOr(mem)
	fail := func(err error) (*Struct, error) {
		releaseOnError(fields...)
		return nil, err
	}

	if len(names) != len(fields) {
		return fail(fmt.Errorf("%w: %d struct fields but %d names", arrow.ErrInvalid, len(fields), len(names)))
	}
	n := 0
	switch {
	case len(fields) > 0:
		n = fields[0].Len()
	case validity != nil:
		n = validity.Len()
	}
	for k, f := range fields {
		if f.Len() != n {
			return fail(fmt.Errorf("%w: struct field %d has length %d, expected %d", arrow.ErrInvalid, k, f.Len(), n))
		}
		if !f.Proxy().IsOwned() {
			return fail(fmt.Errorf("%w: struct field %d is not an owning array", arrow.ErrInvalid, k))
		}
	}
	for k, f := range fields {
		if err := f.Proxy().SetName(names[k]); err != nil {
			return fail(err)
		}
	}

	vbuf, nulls, err := validityBuffer(mem, n, validity)
	if err != nil {
		return fail(err)
	}

	children := make([]*cdata.Proxy, len(fields))
	for k, f := range fields {
		children[k] = f.Proxy()
	}
	p, err := cdata.Assemble(cdata.Node{
		Format:    arrow.FormatOf(arrow.STRUCT).String(),
		Length:    int64(n),
		NullCount: int64(nulls),
		Buffers:   []*memory.Buffer{vbuf},
		Children:  children,
	})
	if err != nil {
		return nil, err
	}
	a, err := newStruct(p)
	if err != nil {
		p.Release()
		return nil, err
	}
	a.mem = mem
	return a, nil
}

func newStruct(p *cdata.Proxy) (*Struct, error) {
	a := &Struct{}
	if err := a.setProxy(p, arrow.FormatOf(arrow.STRUCT)); err != nil {
		return nil, err
	}

	a.fields = make([]Array, p.NumChildren())
	a.names = make([]string, p.NumChildren())
	for k := range a.fields {
		f, err := childArray(p, k)
		if err != nil {
			return nil, err
		}
		if need := a.offset + a.length; f.Len() < need {
			return nil, fmt.Errorf("%w: struct field %d has %d elements, %d required",
				arrow.ErrInvalid, k, f.Len(), need)
		}
		a.fields[k] = f
		a.names[k], _ = f.Proxy().Name()
	}
	return a, nil
}

func (a *Struct) NumField() int          { return len(a.fields) }
func (a *Struct) Field(k int) Array      { return a.fields[k] }
func (a *Struct) FieldName(k int) string { return a.names[k] }

// FieldIndex returns the index of the first field called name, or -1.
func (a *Struct) FieldIndex(name string) int {
	for k, n := range a.names {
		if n == name {
			return k
		}
	}
	return -1
}

// Value returns the row at i regardless of validity.
func (a *Struct) Value(i int) StructValue { return StructValue{parent: a, row: a.offset + i} }

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *Struct) At(i int) (Nullable[StructValue], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[StructValue]{}, err
	}
	return a.at(i), nil
}

func (a *Struct) at(i int) Nullable[StructValue] {
	if a.IsNull(i) {
		return Nullable[StructValue]{}
	}
	return Nullable[StructValue]{Value: a.Value(i), Valid: true}
}

func (a *Struct) All() iter.Seq2[int, Nullable[StructValue]] {
	return func(yield func(int, Nullable[StructValue]) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, a.at(i)) {
				return
			}
		}
	}
}

// SetValid marks element i valid or null.
func (a *Struct) SetValid(i int, valid bool) error { return a.setValidBit(i, valid) }

func (a *Struct) GetOneForMarshal(i int) interface{} {
	if a.IsNull(i) {
		return nil
	}
	return a.Value(i)
}

func (a *Struct) MarshalJSON() ([]byte, error) { return marshalArray(a) }
func (a *Struct) String() string               { return arrayString(a) }

func (a *Struct) elemString(i int) string { return a.Value(i).String() }

func (a *Struct) elemEqual(i int, other Array, j int) bool {
	o, ok := other.(*Struct)
	if !ok || o.NumField() != a.NumField() {
		return false
	}
	for k := range a.fields {
		if a.names[k] != o.names[k] ||
			!elementsEqual(a.fields[k], a.offset+i, o.fields[k], o.offset+j) {
			return false
		}
	}
	return true
}

// StructValue is a non-owning view of one struct row.
type StructValue struct {
	parent *Struct
	row    int
}

func (v StructValue) NumField() int     { return v.parent.NumField() }
func (v StructValue) Field(k int) Array { return v.parent.fields[k] }

// Row returns the index of the row within every field array.
func (v StructValue) Row() int { return v.row }

// At returns the value of field k in the row, nil when null.
func (v StructValue) At(k int) (interface{}, error) {
	if k < 0 || k >= v.NumField() {
		return nil, fmt.Errorf("%w: field %d out of range [0, %d)", arrow.ErrIndex, k, v.NumField())
	}
	return v.parent.fields[k].GetOneForMarshal(v.row), nil
}

func (v StructValue) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, v.NumField())
	for k, f := range v.parent.fields {
		out[v.parent.names[k]] = f.GetOneForMarshal(v.row)
	}
	return json.Marshal(out)
}

func (v StructValue) String() string {
	o := new(strings.Builder)
	o.WriteString("{")
	for k, f := range v.parent.fields {
		if k > 0 {
			o.WriteString(" ")
		}
		if f.IsNull(v.row) {
			o.WriteString("(null)")
			continue
		}
		o.WriteString(f.elemString(v.row))
	}
	o.WriteString("}")
	return o.String()
}
