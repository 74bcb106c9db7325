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

//go:build test
// +build test

package cdata

// #include <stdlib.h>
// #include <stdint.h>
// #include <string.h>
// #include "arrow/c/abi.h"
// #include "arrow/c/helpers.h"
//
// static int test_schema_releases = 0;
// static int test_array_releases = 0;
//
// static void test_release_schema(struct ArrowSchema* s) {
//   for (int64_t i = 0; i < s->n_children; ++i) {
//     struct ArrowSchema* c = s->children[i];
//     if (c->release != NULL) { c->release(c); }
//     free(c);
//   }
//   free(s->children);
//   if (s->dictionary != NULL) {
//     if (s->dictionary->release != NULL) { s->dictionary->release(s->dictionary); }
//     free(s->dictionary);
//   }
//   free((void*)s->format);
//   free((void*)s->name);
//   free((void*)s->metadata);
//   s->release = NULL;
//   test_schema_releases++;
// }
//
// static void test_release_array(struct ArrowArray* a) {
//   for (int64_t i = 0; i < a->n_children; ++i) {
//     struct ArrowArray* c = a->children[i];
//     if (c->release != NULL) { c->release(c); }
//     free(c);
//   }
//   free(a->children);
//   if (a->dictionary != NULL) {
//     if (a->dictionary->release != NULL) { a->dictionary->release(a->dictionary); }
//     free(a->dictionary);
//   }
//   for (int64_t i = 0; i < a->n_buffers; ++i) { free((void*)a->buffers[i]); }
//   free(a->buffers);
//   a->release = NULL;
//   test_array_releases++;
// }
//
// static void test_schema_init(struct ArrowSchema* s, const char* fmt, const char* name, int64_t flags, int64_t n_children) {
//   memset(s, 0, sizeof(*s));
//   s->format = strdup(fmt);
//   s->name = name == NULL ? NULL : strdup(name);
//   s->flags = flags;
//   s->n_children = n_children;
//   if (n_children > 0) {
//     s->children = calloc(n_children, sizeof(struct ArrowSchema*));
//     for (int64_t i = 0; i < n_children; ++i) { s->children[i] = calloc(1, sizeof(struct ArrowSchema)); }
//   }
//   s->release = &test_release_schema;
// }
//
// static void test_array_init(struct ArrowArray* a, int64_t length, int64_t null_count, int64_t offset, int64_t n_buffers, int64_t n_children) {
//   memset(a, 0, sizeof(*a));
//   a->length = length;
//   a->null_count = null_count;
//   a->offset = offset;
//   a->n_buffers = n_buffers;
//   a->n_children = n_children;
//   if (n_buffers > 0) { a->buffers = calloc(n_buffers, sizeof(void*)); }
//   if (n_children > 0) {
//     a->children = calloc(n_children, sizeof(struct ArrowArray*));
//     for (int64_t i = 0; i < n_children; ++i) { a->children[i] = calloc(1, sizeof(struct ArrowArray)); }
//   }
//   a->release = &test_release_array;
// }
//
// static void test_set_buffer(struct ArrowArray* a, int64_t i, const void* data, size_t nbytes) {
//   void* buf = malloc(nbytes == 0 ? 1 : nbytes);
//   if (nbytes > 0) { memcpy(buf, data, nbytes); }
//   a->buffers[i] = buf;
// }
//
// static void test_add_dictionary(struct ArrowSchema* s, struct ArrowArray* a) {
//   s->dictionary = calloc(1, sizeof(struct ArrowSchema));
//   a->dictionary = calloc(1, sizeof(struct ArrowArray));
// }
//
// static int test_schema_release_count() { return test_schema_releases; }
// static int test_array_release_count() { return test_array_releases; }
// static void test_reset_release_counts() { test_schema_releases = 0; test_array_releases = 0; }
import "C"

import (
	"encoding/binary"
	"unsafe"
)

// producerNode describes a node tree exported by the C test producer. The
// producer allocates everything with malloc and installs its own release
// callbacks, so nodes built from it behave like a foreign library's.
type producerNode struct {
	format    string
	name      string
	flags     int64
	length    int64
	nullCount int64
	offset    int64
	// a nil entry is exported as a NULL buffer pointer
	buffers  [][]byte
	children []producerNode
	dict     *producerNode
}

// export fills s and a from n using the C producer.
func (n producerNode) export(s *CArrowSchema, a *CArrowArray) {
	cfmt := C.CString(n.format)
	defer C.free(unsafe.Pointer(cfmt))

	var cname *C.char
	if n.name != "" {
		cname = C.CString(n.name)
		defer C.free(unsafe.Pointer(cname))
	}

	nchildren := C.int64_t(len(n.children))
	C.test_schema_init(s, cfmt, cname, C.int64_t(n.flags), nchildren)
	C.test_array_init(a, C.int64_t(n.length), C.int64_t(n.nullCount), C.int64_t(n.offset),
		C.int64_t(len(n.buffers)), nchildren)

	for i, b := range n.buffers {
		if b == nil {
			continue
		}
		var data unsafe.Pointer
		if len(b) > 0 {
			data = unsafe.Pointer(&b[0])
		}
		C.test_set_buffer(a, C.int64_t(i), data, C.size_t(len(b)))
	}

	schildren, achildren := schemaChildren(s), arrayChildren(a)
	for i, c := range n.children {
		c.export(schildren[i], achildren[i])
	}

	if n.dict != nil {
		C.test_add_dictionary(s, a)
		n.dict.export(s.dictionary, a.dictionary)
	}
}

func producerReleaseCounts() (schemas, arrays int) {
	return int(C.test_schema_release_count()), int(C.test_array_release_count())
}

func resetProducerReleaseCounts() { C.test_reset_release_counts() }

// cFormat reads the format string of a schema node.
func cFormat(s *CArrowSchema) string { return C.GoString(s.format) }

// cName reads the name of a schema node, "" for NULL.
func cName(s *CArrowSchema) string {
	if s.name == nil {
		return ""
	}
	return C.GoString(s.name)
}

// cBuffer returns buffer i of a as a slice of n bytes.
func cBuffer(a *CArrowArray, i, n int) []byte {
	p := arrayBuffers(a)[i]
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// int32Bytes renders vals as a little-endian buffer for the producer.
func int32Bytes(vals ...int32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.NativeEndian.PutUint32(out[4*i:], uint32(v))
	}
	return out
}

func int64Bytes(vals ...int64) []byte {
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.NativeEndian.PutUint64(out[8*i:], uint64(v))
	}
	return out
}
