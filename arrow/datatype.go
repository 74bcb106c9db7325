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

import "strconv"

// Type identifies the physical layout of an array. The set is closed: every
// value has a concrete layout in package array.
type Type int

const (
	// NULL type having no physical storage
	NULL Type = iota

	// BOOL is a 1 bit, LSB bit-packed ordering
	BOOL

	// UINT8 is an Unsigned 8-bit little-endian integer
	UINT8

	// INT8 is a Signed 8-bit little-endian integer
	INT8

	// UINT16 is an Unsigned 16-bit little-endian integer
	UINT16

	// INT16 is a Signed 16-bit little-endian integer
	INT16

	// UINT32 is an Unsigned 32-bit little-endian integer
	UINT32

	// INT32 is a Signed 32-bit little-endian integer
	INT32

	// UINT64 is an Unsigned 64-bit little-endian integer
	UINT64

	// INT64 is a Signed 64-bit little-endian integer
	INT64

	// FLOAT32 is a 4-byte floating point value
	FLOAT32

	// FLOAT64 is an 8-byte floating point value
	FLOAT64

	// LIST is a list of some logical data type, using 32-bit offsets
	LIST

	// LARGE_LIST is a list using 64-bit offsets
	LARGE_LIST

	// LIST_VIEW is a list described by independent 32-bit offsets and sizes
	LIST_VIEW

	// LARGE_LIST_VIEW is a list view using 64-bit offsets and sizes
	LARGE_LIST_VIEW

	// FIXED_SIZE_LIST is a list where every element has the same width
	FIXED_SIZE_LIST

	// STRUCT of logical types
	STRUCT

	// RUN_END_ENCODED stores runs of repeated values as (run end, value) pairs
	RUN_END_ENCODED
)

var typeNames = [...]string{
	NULL:            "NULL",
	BOOL:            "BOOL",
	UINT8:           "UINT8",
	INT8:            "INT8",
	UINT16:          "UINT16",
	INT16:           "INT16",
	UINT32:          "UINT32",
	INT32:           "INT32",
	UINT64:          "UINT64",
	INT64:           "INT64",
	FLOAT32:         "FLOAT32",
	FLOAT64:         "FLOAT64",
	LIST:            "LIST",
	LARGE_LIST:      "LARGE_LIST",
	LIST_VIEW:       "LIST_VIEW",
	LARGE_LIST_VIEW: "LARGE_LIST_VIEW",
	FIXED_SIZE_LIST: "FIXED_SIZE_LIST",
	STRUCT:          "STRUCT",
	RUN_END_ENCODED: "RUN_END_ENCODED",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// IsPrimitive reports whether t is a fixed-width numeric type stored as a
// contiguous values buffer.
func (t Type) IsPrimitive() bool { return t >= UINT8 && t <= FLOAT64 }

// IsListLike reports whether t has a single flat child addressed by ranges.
func (t Type) IsListLike() bool { return t >= LIST && t <= FIXED_SIZE_LIST }

// ByteWidth returns the size in bytes of a single value of a primitive type,
// or 0 for any other type.
func (t Type) ByteWidth() int {
	switch t {
	case UINT8, INT8:
		return 1
	case UINT16, INT16:
		return 2
	case UINT32, INT32, FLOAT32:
		return 4
	case UINT64, INT64, FLOAT64:
		return 8
	}
	return 0
}
