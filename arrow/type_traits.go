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

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// IntType is the set of fixed-width signed integers.
type IntType interface {
	int8 | int16 | int32 | int64
}

// UintType is the set of fixed-width unsigned integers.
type UintType interface {
	uint8 | uint16 | uint32 | uint64
}

// NumericType is the set of Go types backing the primitive layouts.
type NumericType interface {
	IntType | UintType | constraints.Float
}

// OffsetType is the set of integer widths used by list offsets and sizes.
type OffsetType interface {
	~int32 | ~int64
}

// CastFromBytesTo[T] reinterprets the slice b to a slice of type T.
//
// NOTE: len(b) must be a multiple of T's size.
func CastFromBytesTo[T interface{}](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	ptr := (*T)(unsafe.Pointer(unsafe.SliceData(b)))
	size := int(unsafe.Sizeof(*ptr))
	return unsafe.Slice(ptr, cap(b)/size)[:len(b)/size]
}

// CastToBytes reinterprets the slice b as its raw bytes.
func CastToBytes[T interface{}](b []T) []byte {
	if len(b) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(b[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(b))), cap(b)*size)[:len(b)*size]
}

// TypeOf returns the Type stored by a slice of T.
func TypeOf[T NumericType]() Type {
	var z T
	switch any(z).(type) {
	case int8:
		return INT8
	case uint8:
		return UINT8
	case int16:
		return INT16
	case uint16:
		return UINT16
	case int32:
		return INT32
	case uint32:
		return UINT32
	case int64:
		return INT64
	case uint64:
		return UINT64
	case float32:
		return FLOAT32
	case float64:
		return FLOAT64
	}
	panic("arrow: unsupported numeric type")
}
