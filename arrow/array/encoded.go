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
	"sort"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/cdata"
)

// RunEndEncoded compresses runs of equal values. Child 0 holds the strictly
// increasing logical end of every run and child 1 the value of each run.
// Logical element i belongs to the first run whose end exceeds i+Offset().
type RunEndEncoded struct {
	array
	ends         []int64
	runEnds      Array
	values       Array
	logicalNulls int
}

func runEndsOf(arr Array) ([]int64, error) {
	switch re := arr.(type) {
	case *Int16:
		return widenInts(re.Values()), nil
	case *Int32:
		return widenInts(re.Values()), nil
	case *Int64:
		return re.Values(), nil
	}
	return nil, fmt.Errorf("%w: run ends must be int16, int32 or int64, got %s", arrow.ErrInvalid, arr.DataType())
}

func widenInts[T int16 | int32](vals []T) []int64 {
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out
}

func checkRunEnds(ends []int64, nvalues int) error {
	if len(ends) > nvalues {
		return fmt.Errorf("%w: %d runs but only %d run values", arrow.ErrInvalid, len(ends), nvalues)
	}
	for k, e := range ends {
		if e <= 0 || (k > 0 && e <= ends[k-1]) {
			return fmt.Errorf("%w: run ends must be positive and strictly increasing, got %d at %d",
				arrow.ErrInvalid, e, k)
		}
	}
	return nil
}

// NewRunEndEncoded builds an array from run ends and run values. Its length
// is the last run end. Both children must be owning arrays and are
// consumed, even on error.
func NewRunEndEncoded(runEnds, values Array) (*RunEndEncoded, error) {
	ends, err := runEndsOf(runEnds)
	if err == nil {
		err = checkRunEnds(ends, values.Len())
	}
	if err == nil && runEnds.NullN() > 0 {
		err = fmt.Errorf("%w: run ends cannot be null", arrow.ErrInvalid)
	}
	if err != nil {
		releaseOnError(runEnds, values)
		return nil, err
	}

	var n int64
	if len(ends) > 0 {
		n = ends[len(ends)-1]
	}
	p, err := cdata.Assemble(cdata.Node{
		Format:   arrow.FormatOf(arrow.RUN_END_ENCODED).String(),
		Length:   n,
		Children: []*cdata.Proxy{runEnds.Proxy(), values.Proxy()},
	})
	if err != nil {
		return nil, err
	}
	a, err := newRunEndEncoded(p)
	if err != nil {
		p.Release()
		return nil, err
	}
	return a, nil
}

func newRunEndEncoded(p *cdata.Proxy) (*RunEndEncoded, error) {
	a := &RunEndEncoded{logicalNulls: -1}
	if err := a.setProxy(p, arrow.FormatOf(arrow.RUN_END_ENCODED)); err != nil {
		return nil, err
	}

	var err error
	if a.runEnds, err = childArray(p, 0); err != nil {
		return nil, err
	}
	if a.values, err = childArray(p, 1); err != nil {
		return nil, err
	}
	if a.ends, err = runEndsOf(a.runEnds); err != nil {
		return nil, err
	}
	if err := checkRunEnds(a.ends, a.values.Len()); err != nil {
		return nil, err
	}
	if a.length > 0 {
		if len(a.ends) == 0 || a.ends[len(a.ends)-1] < int64(a.offset+a.length) {
			return nil, fmt.Errorf("%w: runs end before logical element %d", arrow.ErrInvalid, a.offset+a.length-1)
		}
	}
	return a, nil
}

func (a *RunEndEncoded) RunEnds() Array { return a.runEnds }
func (a *RunEndEncoded) Values() Array  { return a.values }

// NumRuns returns the number of runs in the child arrays.
func (a *RunEndEncoded) NumRuns() int { return len(a.ends) }

// RunLength returns the number of logical elements in run k.
func (a *RunEndEncoded) RunLength(k int) int {
	if k == 0 {
		return int(a.ends[0])
	}
	return int(a.ends[k] - a.ends[k-1])
}

// PhysicalIndex returns the run holding logical element i.
func (a *RunEndEncoded) PhysicalIndex(i int) int {
	pos := int64(a.offset + i)
	return sort.Search(len(a.ends), func(k int) bool { return a.ends[k] > pos })
}

func (a *RunEndEncoded) IsNull(i int) bool  { return a.values.IsNull(a.PhysicalIndex(i)) }
func (a *RunEndEncoded) IsValid(i int) bool { return !a.IsNull(i) }

// NullN counts the logical elements falling in null runs.
func (a *RunEndEncoded) NullN() int {
	if a.logicalNulls >= 0 {
		return a.logicalNulls
	}
	nulls := 0
	if a.length > 0 {
		var (
			start = int64(a.offset)
			stop  = int64(a.offset + a.length)
			first = a.PhysicalIndex(0)
		)
		for k := first; k < len(a.ends); k++ {
			runStart := int64(0)
			if k > 0 {
				runStart = a.ends[k-1]
			}
			if runStart >= stop {
				break
			}
			if a.values.IsNull(k) {
				nulls += int(min(a.ends[k], stop) - max(runStart, start))
			}
		}
	}
	a.logicalNulls = nulls
	return nulls
}

// Value returns the value of logical element i in the type-erased form of
// GetOneForMarshal.
func (a *RunEndEncoded) Value(i int) interface{} {
	return a.values.GetOneForMarshal(a.PhysicalIndex(i))
}

// At returns element i, failing with arrow.ErrIndex outside [0, Len()).
func (a *RunEndEncoded) At(i int) (Nullable[interface{}], error) {
	if err := a.checkIndex(i); err != nil {
		return Nullable[interface{}]{}, err
	}
	return a.at(i), nil
}

func (a *RunEndEncoded) at(i int) Nullable[interface{}] {
	if a.IsNull(i) {
		return Nullable[interface{}]{}
	}
	return Nullable[interface{}]{Value: a.Value(i), Valid: true}
}

func (a *RunEndEncoded) All() iter.Seq2[int, Nullable[interface{}]] {
	return func(yield func(int, Nullable[interface{}]) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, a.at(i)) {
				return
			}
		}
	}
}

func (a *RunEndEncoded) GetOneForMarshal(i int) interface{} {
	if a.IsNull(i) {
		return nil
	}
	return a.Value(i)
}

func (a *RunEndEncoded) MarshalJSON() ([]byte, error) { return marshalArray(a) }
func (a *RunEndEncoded) String() string               { return arrayString(a) }

func (a *RunEndEncoded) elemString(i int) string { return a.values.elemString(a.PhysicalIndex(i)) }

func (a *RunEndEncoded) elemEqual(i int, other Array, j int) bool {
	o, ok := other.(*RunEndEncoded)
	return ok && elementsEqual(a.values, a.PhysicalIndex(i), o.values, o.PhysicalIndex(j))
}
