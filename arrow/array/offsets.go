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
	"math"
	"unsafe"

	"github.com/JohnCGriffin/overflow"
	"github.com/arrowabi/go/arrow"
)

func isWideOffset[O arrow.OffsetType]() bool {
	var z O
	return unsafe.Sizeof(z) == 8
}

// OffsetsFromSizes returns the offsets delimiting consecutive lists of the
// given sizes: out[0] is 0 and out[k] is out[k-1]+sizes[k-1]. It fails with
// arrow.ErrInvalid on a negative size or when a sum overflows O.
func OffsetsFromSizes[O arrow.OffsetType](sizes []int) ([]O, error) {
	var (
		out   = make([]O, len(sizes)+1)
		wide  = isWideOffset[O]()
		total int64
	)
	for i, sz := range sizes {
		if sz < 0 {
			return nil, fmt.Errorf("%w: negative list size %d at index %d", arrow.ErrInvalid, sz, i)
		}

		var ok bool
		if wide {
			total, ok = overflow.Add64(total, int64(sz))
		} else {
			var t int32
			t, ok = overflow.Add32(int32(total), int32(sz))
			ok = ok && sz <= math.MaxInt32
			total = int64(t)
		}
		if !ok {
			return nil, fmt.Errorf("%w: list offsets overflow at index %d", arrow.ErrInvalid, i)
		}
		out[i+1] = O(total)
	}
	return out, nil
}

// checkOffsets verifies that offsets delimit ranges of a child of length n.
func checkOffsets[O arrow.OffsetType](offsets []O, n int) error {
	if len(offsets) == 0 {
		return fmt.Errorf("%w: list offsets must hold at least one entry", arrow.ErrInvalid)
	}
	if offsets[0] < 0 {
		return fmt.Errorf("%w: negative first list offset %d", arrow.ErrInvalid, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: list offsets decrease at index %d", arrow.ErrInvalid, i)
		}
	}
	if last := int64(offsets[len(offsets)-1]); last > int64(n) {
		return fmt.Errorf("%w: list offset %d beyond child length %d", arrow.ErrInvalid, last, n)
	}
	return nil
}

// checkViews verifies that every (offset, size) pair lies within a child of
// length n. Views may overlap and appear in any order.
func checkViews[O arrow.OffsetType](offsets, sizes []O, n int) error {
	if len(offsets) != len(sizes) {
		return fmt.Errorf("%w: %d list view offsets but %d sizes", arrow.ErrInvalid, len(offsets), len(sizes))
	}
	for i := range offsets {
		off, sz := int64(offsets[i]), int64(sizes[i])
		if off < 0 || sz < 0 || off+sz > int64(n) {
			return fmt.Errorf("%w: list view %d spans [%d, %d) outside child length %d",
				arrow.ErrInvalid, i, off, off+sz, n)
		}
	}
	return nil
}
