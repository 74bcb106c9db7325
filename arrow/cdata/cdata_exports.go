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
//
// extern void releaseExportedSchema(struct ArrowSchema* schema);
// extern void releaseExportedArray(struct ArrowArray* array);
//
// void goReleaseArray(struct ArrowArray* array) {
//	releaseExportedArray(array);
// }
// void goReleaseSchema(struct ArrowSchema* schema) {
//	 releaseExportedSchema(schema);
// }
import "C"

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"runtime/cgo"
	"unsafe"

	"github.com/JohnCGriffin/overflow"
	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/internal/debug"
	"github.com/arrowabi/go/arrow/memory"
	"golang.org/x/xerrors"
)

func encodeCMetadata(keys, values []string) []byte {
	if len(keys) != len(values) {
		panic("unequal metadata key/values length")
	}
	npairs := int32(len(keys))

	var b bytes.Buffer
	totalSize := 4
	for i := range keys {
		totalSize += 8 + len(keys[i]) + len(values[i])
	}
	b.Grow(totalSize)

	binary.Write(&b, binary.NativeEndian, npairs)
	for i := range keys {
		binary.Write(&b, binary.NativeEndian, int32(len(keys[i])))
		b.WriteString(keys[i])
		binary.Write(&b, binary.NativeEndian, int32(len(values[i])))
		b.WriteString(values[i])
	}
	return b.Bytes()
}

// precondition reports a violated structural invariant. Builds with the
// assert tag panic instead of returning.
func precondition(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	debug.Assert(false, "cdata: "+msg)
	return xerrors.Errorf("cdata: %s: %w", msg, arrow.ErrInvalid)
}

// schemaPrivate owns every allocation reachable from an ArrowSchema built by
// MakeSchema.
type schemaPrivate struct {
	format, name, metadata *C.char

	nodes []CArrowSchema
	ptrs  []*CArrowSchema
	dict  *CArrowSchema
}

func (p *schemaPrivate) release() {
	for _, c := range p.ptrs {
		C.ArrowSchemaRelease(c)
	}
	if len(p.ptrs) > 0 {
		C.free(unsafe.Pointer(&p.nodes[0]))
		C.free(unsafe.Pointer(&p.ptrs[0]))
	}
	if p.dict != nil {
		C.ArrowSchemaRelease(p.dict)
		C.free(unsafe.Pointer(p.dict))
	}
	C.free(unsafe.Pointer(p.format))
	C.free(unsafe.Pointer(p.name))
	C.free(unsafe.Pointer(p.metadata))
}

// arrayPrivate owns every allocation reachable from an ArrowArray built by
// MakeArray.
type arrayPrivate struct {
	buffers []*memory.Buffer
	bufPtrs []unsafe.Pointer

	nodes []CArrowArray
	ptrs  []*CArrowArray
	dict  *CArrowArray
}

func (p *arrayPrivate) release() {
	for _, c := range p.ptrs {
		C.ArrowArrayRelease(c)
	}
	if len(p.ptrs) > 0 {
		C.free(unsafe.Pointer(&p.nodes[0]))
		C.free(unsafe.Pointer(&p.ptrs[0]))
	}
	if p.dict != nil {
		C.ArrowArrayRelease(p.dict)
		C.free(unsafe.Pointer(p.dict))
	}
	for _, b := range p.buffers {
		if b != nil {
			b.Release()
		}
	}
	if len(p.bufPtrs) > 0 {
		C.free(unsafe.Pointer(&p.bufPtrs[0]))
	}
}

func isOwnSchema(s *CArrowSchema) bool {
	return s.release == (*[0]byte)(C.goReleaseSchema)
}

func isOwnArray(arr *CArrowArray) bool {
	return arr.release == (*[0]byte)(C.goReleaseArray)
}

func ownArrayPrivate(arr *CArrowArray) *arrayPrivate {
	return getHandle(arr.private_data).Value().(*arrayPrivate)
}

// MakeSchema populates out as an owned ArrowSchema describing format.
//
// An empty name or metadata is exported as a NULL pointer. children and
// dictionary are moved into out, leaving the caller's structs released; out
// frees them when its release callback runs. On error nothing is moved and
// out is left untouched.
func MakeSchema(out *CArrowSchema, format, name string, metadata arrow.Metadata, flags arrow.Flag, children []*CArrowSchema, dictionary *CArrowSchema) error {
	if err := precondition(out != nil, "nil output schema"); err != nil {
		return err
	}
	if err := precondition(format != "", "empty format string"); err != nil {
		return err
	}
	for i, c := range children {
		if err := precondition(c != nil && !SchemaIsReleased(c), "child schema %d is nil or released", i); err != nil {
			return err
		}
	}
	if dictionary != nil {
		if err := precondition(!SchemaIsReleased(dictionary), "dictionary schema is released"); err != nil {
			return err
		}
	}

	priv := &schemaPrivate{format: C.CString(format)}
	if name != "" {
		priv.name = C.CString(name)
	}
	if metadata.Len() > 0 {
		priv.metadata = (*C.char)(C.CBytes(encodeCMetadata(metadata.Keys(), metadata.Values())))
	}

	*out = CArrowSchema{}
	out.format = priv.format
	out.name = priv.name
	out.metadata = priv.metadata
	out.flags = C.int64_t(flags)
	out.n_children = C.int64_t(len(children))

	if len(children) > 0 {
		priv.nodes = allocateArrowSchemaArr(len(children))
		priv.ptrs = allocateArrowSchemaPtrArr(len(children))
		for i, c := range children {
			C.ArrowSchemaMove(c, &priv.nodes[i])
			priv.ptrs[i] = &priv.nodes[i]
		}
		out.children = &priv.ptrs[0]
	}

	if dictionary != nil {
		priv.dict = &allocateArrowSchemaArr(1)[0]
		C.ArrowSchemaMove(dictionary, priv.dict)
		out.dictionary = priv.dict
	}

	out.private_data = createHandle(cgo.NewHandle(priv))
	out.release = (*[0]byte)(C.goReleaseSchema)
	return nil
}

// MakeArray populates out as an owned ArrowArray.
//
// out takes ownership of buffers, releasing each non-nil one exactly once
// when its release callback runs; a nil entry is exported as a NULL buffer.
// children and dictionary are moved into out as with MakeSchema. A
// nullCount of -1 records an unknown null count. On error nothing is taken
// and out is left untouched.
func MakeArray(out *CArrowArray, length, nullCount, offset int64, buffers []*memory.Buffer, children []*CArrowArray, dictionary *CArrowArray) error {
	if err := precondition(out != nil, "nil output array"); err != nil {
		return err
	}
	if err := precondition(length >= 0 && offset >= 0, "negative length %d or offset %d", length, offset); err != nil {
		return err
	}
	if err := precondition(nullCount >= -1 && nullCount <= length, "null count %d outside [-1, %d]", nullCount, length); err != nil {
		return err
	}
	_, ok := overflow.Add64(offset, length)
	if err := precondition(ok, "offset %d + length %d overflows", offset, length); err != nil {
		return err
	}
	for i, c := range children {
		if err := precondition(c != nil && !ArrayIsReleased(c), "child array %d is nil or released", i); err != nil {
			return err
		}
	}
	if dictionary != nil {
		if err := precondition(!ArrayIsReleased(dictionary), "dictionary array is released"); err != nil {
			return err
		}
	}

	priv := &arrayPrivate{buffers: append([]*memory.Buffer(nil), buffers...)}

	*out = CArrowArray{}
	out.length = C.int64_t(length)
	out.null_count = C.int64_t(nullCount)
	out.offset = C.int64_t(offset)
	out.n_buffers = C.int64_t(len(buffers))
	out.n_children = C.int64_t(len(children))

	if len(buffers) > 0 {
		priv.bufPtrs = allocateBufferPtrArr(len(buffers))
		for i, b := range buffers {
			if b != nil {
				priv.bufPtrs[i] = b.Ptr()
			}
		}
		out.buffers = &priv.bufPtrs[0]
	}

	if len(children) > 0 {
		priv.nodes = allocateArrowArrayArr(len(children))
		priv.ptrs = allocateArrowArrayPtrArr(len(children))
		for i, c := range children {
			C.ArrowArrayMove(c, &priv.nodes[i])
			priv.ptrs[i] = &priv.nodes[i]
		}
		out.children = &priv.ptrs[0]
	}

	if dictionary != nil {
		priv.dict = &allocateArrowArrayArr(1)[0]
		C.ArrowArrayMove(dictionary, priv.dict)
		out.dictionary = priv.dict
	}

	out.private_data = createHandle(cgo.NewHandle(priv))
	out.release = (*[0]byte)(C.goReleaseArray)
	return nil
}
