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

package mallocator

// #include <stdlib.h>
// #include <string.h>
//
// void* realloc_and_initialize(void* ptr, size_t old_len, size_t new_len) {
//   void* new_ptr = realloc(ptr, new_len);
//   if (new_ptr && new_len > old_len) {
//     memset((char*)new_ptr + old_len, 0, new_len - old_len);
//   }
//   return new_ptr;
// }
import "C"

import (
	"sync/atomic"
	"unsafe"
)

// Mallocator is an allocator which defers to libc malloc.
//
// Every returned slice is zero-initialized and backed by at least one byte
// of C memory, so even empty slices carry a valid pointer.
type Mallocator struct {
	allocatedBytes int64
}

func NewMallocator() *Mallocator { return &Mallocator{} }

func (alloc *Mallocator) Allocate(size int) []byte {
	if size < 0 {
		panic("mallocator: negative size")
	}
	ptr, err := C.calloc(C.size_t(max(size, 1)), 1)
	if err != nil {
		panic(err)
	} else if ptr == nil {
		panic("mallocator: out of memory")
	}

	atomic.AddInt64(&alloc.allocatedBytes, int64(size))
	return unsafe.Slice((*byte)(ptr), max(size, 1))[:size]
}

func (alloc *Mallocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	C.free(unsafe.Pointer(unsafe.SliceData(b)))
	// the slice may have been resliced; only its length was accounted
	atomic.AddInt64(&alloc.allocatedBytes, -int64(len(b)))
}

func (alloc *Mallocator) Reallocate(size int, b []byte) []byte {
	if size < 0 {
		panic("mallocator: negative size")
	}
	if cap(b) == 0 {
		return alloc.Allocate(size)
	}

	ptr, err := C.realloc_and_initialize(unsafe.Pointer(unsafe.SliceData(b)),
		C.size_t(max(cap(b), 1)), C.size_t(max(size, 1)))
	if err != nil {
		panic(err)
	} else if ptr == nil {
		panic("mallocator: out of memory")
	}

	atomic.AddInt64(&alloc.allocatedBytes, int64(size-len(b)))
	return unsafe.Slice((*byte)(ptr), max(size, 1))[:size]
}

// AllocatedBytes returns the number of bytes currently handed out.
func (alloc *Mallocator) AllocatedBytes() int64 {
	return atomic.LoadInt64(&alloc.allocatedBytes)
}

type TestingT interface {
	Errorf(format string, args ...interface{})
	Helper()
}

// AssertSize fails the test when the outstanding allocation differs from sz.
func (alloc *Mallocator) AssertSize(t TestingT, sz int) {
	cur := alloc.AllocatedBytes()
	if int64(sz) != cur {
		t.Helper()
		t.Errorf("invalid memory size exp=%d, got=%d", sz, cur)
	}
}
