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

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/goccy/go-json"
)

// Null is an array of a given length where every element is null. It owns
// no buffers.
type Null struct {
	array
}

// NewNull returns a Null array of length n.
func NewNull(n int) (*Null, error) {
	p, err := cdata.Assemble(cdata.Node{
		Format:    arrow.FormatOf(arrow.NULL).String(),
		Length:    int64(n),
		NullCount: int64(n),
	})
	if err != nil {
		return nil, err
	}
	return newNull(p)
}

func newNull(p *cdata.Proxy) (*Null, error) {
	a := &Null{}
	if err := a.setProxy(p, arrow.FormatOf(arrow.NULL)); err != nil {
		return nil, err
	}
	a.nulls = a.length
	return a, nil
}

func (a *Null) NullN() int            { return a.length }
func (a *Null) IsNull(i int) bool     { return true }
func (a *Null) IsValid(i int) bool    { return false }
func (a *Null) elemString(int) string { return "(null)" }

// At returns element i, which never holds a value.
func (a *Null) At(i int) (Nullable[struct{}], error) {
	return Nullable[struct{}]{}, a.checkIndex(i)
}

func (a *Null) All() iter.Seq2[int, Nullable[struct{}]] {
	return func(yield func(int, Nullable[struct{}]) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, Nullable[struct{}]{}) {
				return
			}
		}
	}
}

func (a *Null) GetOneForMarshal(i int) interface{} { return nil }

func (a *Null) MarshalJSON() ([]byte, error) {
	return json.Marshal(make([]interface{}, a.length))
}

func (a *Null) String() string { return arrayString(a) }

func (a *Null) elemEqual(_ int, other Array, j int) bool {
	_, ok := other.(*Null)
	return ok
}
