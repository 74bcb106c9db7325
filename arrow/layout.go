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

package arrow

// BufferKind describes how the length of a buffer relates to the logical
// length and offset of its array.
type BufferKind int8

const (
	// KindBitmap holds one bit per physical slot.
	KindBitmap BufferKind = iota
	// KindFixedWidth holds ByteWidth bytes per physical slot.
	KindFixedWidth
	// KindOffsets holds ByteWidth bytes per physical slot plus one trailing entry.
	KindOffsets
)

// BufferSpec describes a single buffer of a layout.
type BufferSpec struct {
	Kind      BufferKind
	ByteWidth int
}

func SpecBitmap() BufferSpec          { return BufferSpec{Kind: KindBitmap} }
func SpecFixedWidth(w int) BufferSpec { return BufferSpec{Kind: KindFixedWidth, ByteWidth: w} }
func SpecOffsets(w int) BufferSpec    { return BufferSpec{Kind: KindOffsets, ByteWidth: w} }

// Len returns the number of bytes a buffer with this spec must span for an
// array of the given logical length and offset.
func (s BufferSpec) Len(length, offset int64) int64 {
	n := length + offset
	switch s.Kind {
	case KindBitmap:
		return (n + 7) / 8
	case KindOffsets:
		return int64(s.ByteWidth) * (n + 1)
	default:
		return int64(s.ByteWidth) * n
	}
}

// DataTypeLayout lists the buffers an ArrowArray of a given format carries
// along with the number of children it requires (-1 when variable).
type DataTypeLayout struct {
	Buffers     []BufferSpec
	NumChildren int
}

// Layout returns the buffer layout required by f.
func (f Format) Layout() DataTypeLayout {
	switch f.ID {
	case NULL:
		return DataTypeLayout{}
	case RUN_END_ENCODED:
		return DataTypeLayout{NumChildren: 2}
	case BOOL:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap(), SpecBitmap()}}
	case LIST:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap(), SpecOffsets(4)}, NumChildren: 1}
	case LARGE_LIST:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap(), SpecOffsets(8)}, NumChildren: 1}
	case LIST_VIEW:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap(), SpecFixedWidth(4), SpecFixedWidth(4)}, NumChildren: 1}
	case LARGE_LIST_VIEW:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap(), SpecFixedWidth(8), SpecFixedWidth(8)}, NumChildren: 1}
	case FIXED_SIZE_LIST:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap()}, NumChildren: 1}
	case STRUCT:
		return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap()}, NumChildren: -1}
	}
	return DataTypeLayout{Buffers: []BufferSpec{SpecBitmap(), SpecFixedWidth(f.ID.ByteWidth())}}
}
