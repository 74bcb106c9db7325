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
	"errors"
	"fmt"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/cdata"
	"github.com/arrowabi/go/arrow/internal/debug"
)

func erase[A Array](a A, err error) (Array, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}

// MakeFromProxy builds the layout matching the format of p. The returned
// array takes over p: releasing the array releases p when p is owning.
// Nested layouts build their children through MakeFromProxy as well.
//
// Unknown or malformed formats fail with arrow.ErrUnsupportedType. On any
// error p is left to the caller.
func MakeFromProxy(p *cdata.Proxy) (Array, error) {
	dtype, err := p.DataType()
	if err != nil {
		debug.Logf("array: no layout for format %q: %v", p.Format(), err)
		if errors.Is(err, arrow.ErrFormat) {
			err = fmt.Errorf("%w: %w", arrow.ErrUnsupportedType, err)
		}
		return nil, err
	}

	switch dtype.ID {
	case arrow.NULL:
		return erase(newNull(p))
	case arrow.BOOL:
		return erase(newBoolean(p))
	case arrow.INT8:
		return erase(newPrimitive[int8](p))
	case arrow.UINT8:
		return erase(newPrimitive[uint8](p))
	case arrow.INT16:
		return erase(newPrimitive[int16](p))
	case arrow.UINT16:
		return erase(newPrimitive[uint16](p))
	case arrow.INT32:
		return erase(newPrimitive[int32](p))
	case arrow.UINT32:
		return erase(newPrimitive[uint32](p))
	case arrow.INT64:
		return erase(newPrimitive[int64](p))
	case arrow.UINT64:
		return erase(newPrimitive[uint64](p))
	case arrow.FLOAT32:
		return erase(newPrimitive[float32](p))
	case arrow.FLOAT64:
		return erase(newPrimitive[float64](p))
	case arrow.LIST:
		return erase(newListOf[int32](p, dtype))
	case arrow.LARGE_LIST:
		return erase(newListOf[int64](p, dtype))
	case arrow.LIST_VIEW:
		return erase(newListViewOf[int32](p, dtype))
	case arrow.LARGE_LIST_VIEW:
		return erase(newListViewOf[int64](p, dtype))
	case arrow.FIXED_SIZE_LIST:
		return erase(newFixedSizeList(p, dtype))
	case arrow.STRUCT:
		return erase(newStruct(p))
	case arrow.RUN_END_ENCODED:
		return erase(newRunEndEncoded(p))
	}

	debug.Logf("array: no layout for type %s", dtype.ID)
	return nil, fmt.Errorf("%w: %s", arrow.ErrUnsupportedType, dtype)
}
