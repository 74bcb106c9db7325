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

//go:build cgo

package cdata

// #include <stdlib.h>
// #include "arrow/c/abi.h"
// #include "arrow/c/helpers.h"
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/internal/debug"
)

type (
	// CArrowSchema is the C Data Interface for ArrowSchemas defined in abi.h
	CArrowSchema = C.struct_ArrowSchema
	// CArrowArray is the C Data Interface object for Arrow Arrays as defined in abi.h
	CArrowArray = C.struct_ArrowArray
)

const (
	flagDictionaryOrdered = C.ARROW_FLAG_DICTIONARY_ORDERED
	flagIsNullable        = C.ARROW_FLAG_NULLABLE
	flagMapKeysSorted     = C.ARROW_FLAG_MAP_KEYS_SORTED
)

// SchemaIsReleased reports whether the release callback of s is cleared.
func SchemaIsReleased(s *CArrowSchema) bool {
	return C.ArrowSchemaIsReleased(s) == 1
}

// ArrayIsReleased reports whether the release callback of arr is cleared.
func ArrayIsReleased(arr *CArrowArray) bool {
	return C.ArrowArrayIsReleased(arr) == 1
}

// ReleaseSchema invokes the release callback of s. Releasing a node that is
// already released, including a moved-from node, violates a precondition.
func ReleaseSchema(s *CArrowSchema) {
	debug.Assert(s != nil && !SchemaIsReleased(s), "cdata: release of a released ArrowSchema")
	if s == nil {
		return
	}
	C.ArrowSchemaRelease(s)
}

// ReleaseArray invokes the release callback of arr. Releasing a node that is
// already released, including a moved-from node, violates a precondition.
func ReleaseArray(arr *CArrowArray) {
	debug.Assert(arr != nil && !ArrayIsReleased(arr), "cdata: release of a released ArrowArray")
	if arr == nil {
		return
	}
	C.ArrowArrayRelease(arr)
}

func allocateArrowSchemaArr(n int) (out []CArrowSchema) {
	return unsafe.Slice((*CArrowSchema)(C.calloc(C.size_t(n),
		C.sizeof_struct_ArrowSchema)), n)
}

func allocateArrowSchemaPtrArr(n int) (out []*CArrowSchema) {
	return unsafe.Slice((**CArrowSchema)(C.calloc(C.size_t(n),
		C.size_t(unsafe.Sizeof((*CArrowSchema)(nil))))), n)
}

func allocateArrowArrayArr(n int) (out []CArrowArray) {
	return unsafe.Slice((*CArrowArray)(C.calloc(C.size_t(n),
		C.sizeof_struct_ArrowArray)), n)
}

func allocateArrowArrayPtrArr(n int) (out []*CArrowArray) {
	return unsafe.Slice((**CArrowArray)(C.calloc(C.size_t(n),
		C.size_t(unsafe.Sizeof((*CArrowArray)(nil))))), n)
}

func allocateBufferPtrArr(n int) (out []unsafe.Pointer) {
	return unsafe.Slice((*unsafe.Pointer)(C.calloc(C.size_t(n),
		C.size_t(unsafe.Sizeof(unsafe.Pointer(nil))))), n)
}

func createHandle(hndl cgo.Handle) unsafe.Pointer {
	// uintptr_t* h = malloc(sizeof(uintptr_t));
	// *h = hndl
	h := (*C.uintptr_t)(C.malloc(C.sizeof_uintptr_t))
	*h = C.uintptr_t(hndl)
	return unsafe.Pointer(h)
}

func getHandle(ptr unsafe.Pointer) cgo.Handle {
	return *(*cgo.Handle)(ptr)
}

func schemaChildren(s *CArrowSchema) []*CArrowSchema {
	if s.n_children <= 0 || s.children == nil {
		return nil
	}
	return unsafe.Slice(s.children, s.n_children)
}

func arrayChildren(arr *CArrowArray) []*CArrowArray {
	if arr.n_children <= 0 || arr.children == nil {
		return nil
	}
	return unsafe.Slice(arr.children, arr.n_children)
}

func arrayBuffers(arr *CArrowArray) []unsafe.Pointer {
	if arr.n_buffers <= 0 || arr.buffers == nil {
		return nil
	}
	return unsafe.Slice(arr.buffers, arr.n_buffers)
}

// decode metadata from C which is encoded as
//
//	 [int32] -> number of metadata pairs
//		for 0..n
//			[int32] -> number of bytes in key
//			[n bytes] -> key value
//			[int32] -> number of bytes in value
//			[n bytes] -> value
func decodeCMetadata(md *C.char) arrow.Metadata {
	if md == nil {
		return arrow.Metadata{}
	}

	// don't copy the bytes, just reference them directly
	const maxlen = 0x7fffffff
	data := unsafe.Slice((*byte)(unsafe.Pointer(md)), maxlen)

	readint32 := func() int32 {
		v := *(*int32)(unsafe.Pointer(&data[0]))
		data = data[4:]
		return v
	}

	readstr := func() string {
		l := readint32()
		s := string(data[:l])
		data = data[l:]
		return s
	}

	npairs := readint32()
	if npairs == 0 {
		return arrow.Metadata{}
	}

	keys := make([]string, npairs)
	vals := make([]string, npairs)

	for i := int32(0); i < npairs; i++ {
		keys[i] = readstr()
		vals[i] = readstr()
	}

	return arrow.NewMetadata(keys, vals)
}
