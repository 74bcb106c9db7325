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
	"fmt"
	"strconv"
	"strings"
)

// Flag mirrors the flags bitmask of an ArrowSchema.
type Flag int64

const (
	FlagDictionaryOrdered Flag = 1 << iota
	FlagNullable
	FlagMapKeysSorted
)

// Format is the parsed form of an ArrowSchema format string.
type Format struct {
	ID Type
	// ListSize is the per-element width of a FIXED_SIZE_LIST.
	ListSize int32
}

var scalarFormats = map[byte]Type{
	'n': NULL,
	'b': BOOL,
	'c': INT8,
	'C': UINT8,
	's': INT16,
	'S': UINT16,
	'i': INT32,
	'I': UINT32,
	'l': INT64,
	'L': UINT64,
	'f': FLOAT32,
	'g': FLOAT64,
	// a bare "d" has been emitted for doubles by some producers; "d:p,s"
	// remains a decimal and is rejected below.
	'd': FLOAT64,
}

var nestedFormats = map[string]Type{
	"+l":  LIST,
	"+L":  LARGE_LIST,
	"+vl": LIST_VIEW,
	"+vL": LARGE_LIST_VIEW,
	"+s":  STRUCT,
	"+r":  RUN_END_ENCODED,
}

const fixedSizeListPrefix = "+w:"

// ParseFormat parses an ArrowSchema format string.
//
// It returns an error wrapping ErrFormat when the string is empty or a
// fixed-size-list width is not a non-negative integer, and an error wrapping
// ErrUnsupportedType for any other format this module has no layout for.
func ParseFormat(format string) (Format, error) {
	switch {
	case format == "":
		return Format{}, fmt.Errorf("%w: empty format string", ErrFormat)
	case len(format) == 1:
		if id, ok := scalarFormats[format[0]]; ok {
			return Format{ID: id}, nil
		}
	case strings.HasPrefix(format, "+w"):
		return parseFixedSizeList(format)
	default:
		if id, ok := nestedFormats[format]; ok {
			return Format{ID: id}, nil
		}
	}
	return Format{}, fmt.Errorf("%w: format %q", ErrUnsupportedType, format)
}

func parseFixedSizeList(format string) (Format, error) {
	if !strings.HasPrefix(format, fixedSizeListPrefix) {
		return Format{}, fmt.Errorf("%w: fixed-size list format %q missing ':'", ErrFormat, format)
	}

	width, err := strconv.ParseUint(format[len(fixedSizeListPrefix):], 10, 31)
	if err != nil {
		return Format{}, fmt.Errorf("%w: invalid fixed-size list width in %q: %s", ErrFormat, format, err)
	}
	return Format{ID: FIXED_SIZE_LIST, ListSize: int32(width)}, nil
}

// String returns the canonical format string for f.
func (f Format) String() string {
	switch f.ID {
	case NULL:
		return "n"
	case BOOL:
		return "b"
	case INT8:
		return "c"
	case UINT8:
		return "C"
	case INT16:
		return "s"
	case UINT16:
		return "S"
	case INT32:
		return "i"
	case UINT32:
		return "I"
	case INT64:
		return "l"
	case UINT64:
		return "L"
	case FLOAT32:
		return "f"
	case FLOAT64:
		return "g"
	case LIST:
		return "+l"
	case LARGE_LIST:
		return "+L"
	case LIST_VIEW:
		return "+vl"
	case LARGE_LIST_VIEW:
		return "+vL"
	case FIXED_SIZE_LIST:
		return fixedSizeListPrefix + strconv.Itoa(int(f.ListSize))
	case STRUCT:
		return "+s"
	case RUN_END_ENCODED:
		return "+r"
	}
	panic("arrow: format requested for unknown type " + f.ID.String())
}

// FormatOf returns the Format for a type that takes no parameters.
func FormatOf(t Type) Format { return Format{ID: t} }

// FixedSizeListOf returns the Format of a fixed-size list of the given width.
func FixedSizeListOf(width int32) Format { return Format{ID: FIXED_SIZE_LIST, ListSize: width} }
