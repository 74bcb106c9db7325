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
// #include "arrow/c/helpers.h"
import "C"

import (
	"unsafe"

	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/internal/debug"
	"github.com/arrowabi/go/arrow/memory"
	"golang.org/x/xerrors"
)

type ownership int8

const (
	// stateReleased is the moved-from sentinel: no nodes and nothing to release.
	stateReleased ownership = iota
	// stateOwned proxies release both nodes exactly once.
	stateOwned
	// stateBorrowed proxies never invoke a release callback.
	stateBorrowed
)

func (o ownership) String() string {
	switch o {
	case stateOwned:
		return "owned"
	case stateBorrowed:
		return "borrowed"
	}
	return "released"
}

// Proxy pairs one ArrowSchema with one ArrowArray and exposes their
// contents. Buffer and child accessors read the nodes on every call, so
// changes made through SetBuffer or by the producer are observed at once.
//
// A Proxy is not safe for concurrent use.
type Proxy struct {
	schema *CArrowSchema
	arr    *CArrowArray
	state  ownership
}

// NewProxy validates schema and arr and moves them into a new owning Proxy,
// leaving the caller's structs released. On error nothing is moved and the
// caller remains responsible for releasing both nodes.
func NewProxy(schema *CArrowSchema, arr *CArrowArray) (*Proxy, error) {
	if err := validateNodes(schema, arr); err != nil {
		return nil, err
	}

	p := &Proxy{
		schema: &allocateArrowSchemaArr(1)[0],
		arr:    &allocateArrowArrayArr(1)[0],
		state:  stateOwned,
	}
	C.ArrowSchemaMove(schema, p.schema)
	C.ArrowArrayMove(arr, p.arr)
	return p, nil
}

// NewBorrowedProxy validates schema and arr and returns a Proxy viewing them.
// The Proxy never releases the nodes and must not outlive their producer.
func NewBorrowedProxy(schema *CArrowSchema, arr *CArrowArray) (*Proxy, error) {
	if err := validateNodes(schema, arr); err != nil {
		return nil, err
	}
	return &Proxy{schema: schema, arr: arr, state: stateBorrowed}, nil
}

func validateNodes(schema *CArrowSchema, arr *CArrowArray) error {
	if err := precondition(schema != nil && arr != nil, "nil schema or array node"); err != nil {
		return err
	}
	if err := precondition(!SchemaIsReleased(schema) && !ArrayIsReleased(arr), "released schema or array node"); err != nil {
		return err
	}
	if err := precondition(schema.format != nil && *schema.format != 0, "schema has an empty format string"); err != nil {
		return err
	}

	format := C.GoString(schema.format)
	if err := precondition(schema.n_children == arr.n_children,
		"format %q: schema has %d children, array has %d", format, schema.n_children, arr.n_children); err != nil {
		return err
	}
	if err := precondition(arr.length >= 0 && arr.offset >= 0 && arr.null_count >= -1,
		"format %q: invalid length %d, offset %d or null count %d", format, arr.length, arr.offset, arr.null_count); err != nil {
		return err
	}
	if err := precondition((schema.dictionary == nil) == (arr.dictionary == nil),
		"format %q: dictionary present on only one node", format); err != nil {
		return err
	}

	if f, err := arrow.ParseFormat(format); err == nil {
		if err := validateLayout(f, format, arr); err != nil {
			return err
		}
	}

	var (
		schildren = schemaChildren(schema)
		achildren = arrayChildren(arr)
	)
	if err := precondition(len(schildren) == len(achildren), "format %q: missing children table", format); err != nil {
		return err
	}
	for i := range schildren {
		if err := precondition(schildren[i] != nil && achildren[i] != nil,
			"format %q: child %d is nil", format, i); err != nil {
			return err
		}
		if err := validateNodes(schildren[i], achildren[i]); err != nil {
			return err
		}
	}

	if schema.dictionary != nil {
		return validateNodes(schema.dictionary, arr.dictionary)
	}
	return nil
}

func validateLayout(f arrow.Format, format string, arr *CArrowArray) error {
	layout := f.Layout()
	if err := precondition(int(arr.n_buffers) == len(layout.Buffers),
		"format %q requires %d buffers, array has %d", format, len(layout.Buffers), arr.n_buffers); err != nil {
		return err
	}
	if layout.NumChildren >= 0 {
		if err := precondition(int(arr.n_children) == layout.NumChildren,
			"format %q requires %d children, array has %d", format, layout.NumChildren, arr.n_children); err != nil {
			return err
		}
	}

	// only the validity bitmap may be omitted from a non-empty array
	if arr.length > 0 {
		for i, ptr := range arrayBuffers(arr) {
			if err := precondition(i == 0 || ptr != nil,
				"format %q: buffer %d is NULL for an array of length %d", format, i, arr.length); err != nil {
				return err
			}
		}
	}
	return checkBufferSizes(layout, format, arr, int64(arr.length))
}

// checkBufferSizes verifies that the buffers of arr span length elements
// past its offset. Sizes are only known for buffers this package allocated.
func checkBufferSizes(layout arrow.DataTypeLayout, format string, arr *CArrowArray, length int64) error {
	if !isOwnArray(arr) {
		return nil
	}
	priv := ownArrayPrivate(arr)
	for i, spec := range layout.Buffers {
		b := priv.buffers[i]
		if b == nil {
			if err := precondition(i == 0 || length == 0,
				"format %q: buffer %d is missing for length %d", format, i, length); err != nil {
				return err
			}
			continue
		}
		need := spec.Len(length, int64(arr.offset))
		if err := precondition(int64(b.Len()) >= need,
			"format %q: buffer %d holds %d bytes, %d required", format, i, b.Len(), need); err != nil {
			return err
		}
	}
	return nil
}

func (p *Proxy) assertLive() {
	debug.Assert(p.state != stateReleased, "cdata: use of a released Proxy")
}

// IsOwned reports whether p will release its nodes.
func (p *Proxy) IsOwned() bool { return p.state == stateOwned }

// IsReleased reports whether p has been released or moved from.
func (p *Proxy) IsReleased() bool { return p.state == stateReleased }

// Format returns the format string of the schema node.
func (p *Proxy) Format() string {
	p.assertLive()
	return C.GoString(p.schema.format)
}

// DataType parses the format string of the schema node.
func (p *Proxy) DataType() (arrow.Format, error) {
	return arrow.ParseFormat(p.Format())
}

// Name returns the field name and whether one was set.
func (p *Proxy) Name() (string, bool) {
	p.assertLive()
	if p.schema.name == nil {
		return "", false
	}
	return C.GoString(p.schema.name), true
}

// Metadata decodes the schema metadata and reports whether any was set.
func (p *Proxy) Metadata() (arrow.Metadata, bool) {
	p.assertLive()
	if p.schema.metadata == nil {
		return arrow.Metadata{}, false
	}
	return decodeCMetadata(p.schema.metadata), true
}

func (p *Proxy) Flags() arrow.Flag {
	p.assertLive()
	return arrow.Flag(p.schema.flags)
}

func (p *Proxy) Length() int64 {
	p.assertLive()
	return int64(p.arr.length)
}

func (p *Proxy) Offset() int64 {
	p.assertLive()
	return int64(p.arr.offset)
}

// NullCount returns the null count recorded in the array node, which is -1
// when the producer did not compute it.
func (p *Proxy) NullCount() int64 {
	p.assertLive()
	return int64(p.arr.null_count)
}

func (p *Proxy) NumBuffers() int {
	p.assertLive()
	return int(p.arr.n_buffers)
}

func (p *Proxy) NumChildren() int {
	p.assertLive()
	return int(p.arr.n_children)
}

// Buffer returns buffer i as a byte slice spanning the bytes required for
// Offset()+Length() elements. A NULL buffer is returned as a nil slice.
func (p *Proxy) Buffer(i int) ([]byte, error) {
	n := p.NumBuffers()
	if i < 0 || i >= n {
		return nil, xerrors.Errorf("cdata: buffer %d out of range [0, %d): %w", i, n, arrow.ErrIndex)
	}

	ptr := arrayBuffers(p.arr)[i]
	if ptr == nil {
		return nil, nil
	}

	f, err := p.DataType()
	if err != nil {
		return nil, err
	}
	layout := f.Layout()
	if i >= len(layout.Buffers) {
		return nil, xerrors.Errorf("cdata: format %q has no buffer %d: %w", p.Format(), i, arrow.ErrInvalid)
	}
	sz := layout.Buffers[i].Len(p.Length(), p.Offset())
	return unsafe.Slice((*byte)(ptr), sz), nil
}

// Child returns a borrowed Proxy over child i. It stays valid as long as p.
func (p *Proxy) Child(i int) (*Proxy, error) {
	n := p.NumChildren()
	if i < 0 || i >= n {
		return nil, xerrors.Errorf("cdata: child %d out of range [0, %d): %w", i, n, arrow.ErrIndex)
	}
	return &Proxy{
		schema: schemaChildren(p.schema)[i],
		arr:    arrayChildren(p.arr)[i],
		state:  stateBorrowed,
	}, nil
}

// Children returns borrowed Proxies over every child.
func (p *Proxy) Children() []*Proxy {
	out := make([]*Proxy, p.NumChildren())
	for i := range out {
		out[i], _ = p.Child(i)
	}
	return out
}

// Dictionary returns a borrowed Proxy over the dictionary, or nil.
func (p *Proxy) Dictionary() *Proxy {
	p.assertLive()
	if p.schema.dictionary == nil {
		return nil
	}
	return &Proxy{schema: p.schema.dictionary, arr: p.arr.dictionary, state: stateBorrowed}
}

// SetBuffer replaces buffer i, releasing the buffer it held. Only array
// nodes built by MakeArray can be modified; buf is owned by the node
// afterwards.
func (p *Proxy) SetBuffer(i int, buf *memory.Buffer) error {
	n := p.NumBuffers()
	if i < 0 || i >= n {
		return xerrors.Errorf("cdata: buffer %d out of range [0, %d): %w", i, n, arrow.ErrIndex)
	}
	if err := precondition(isOwnArray(p.arr), "buffers of a foreign ArrowArray cannot be replaced"); err != nil {
		return err
	}

	priv := ownArrayPrivate(p.arr)
	if old := priv.buffers[i]; old != nil && old != buf {
		old.Release()
	}
	priv.buffers[i] = buf
	if buf != nil {
		priv.bufPtrs[i] = buf.Ptr()
	} else {
		priv.bufPtrs[i] = nil
	}
	return nil
}

// SetName replaces the field name of a schema node built by MakeSchema. An
// empty name clears it.
func (p *Proxy) SetName(name string) error {
	p.assertLive()
	if err := precondition(isOwnSchema(p.schema), "the name of a foreign ArrowSchema cannot be replaced"); err != nil {
		return err
	}

	priv := getHandle(p.schema.private_data).Value().(*schemaPrivate)
	C.free(unsafe.Pointer(priv.name))
	priv.name = nil
	if name != "" {
		priv.name = C.CString(name)
	}
	p.schema.name = priv.name
	return nil
}

// SetLength updates the logical length recorded in the array node. Only
// array nodes built by MakeArray can be modified, and every buffer they hold
// must span the new length. A null count above the new length is reset to
// unknown.
func (p *Proxy) SetLength(length int64) error {
	if err := precondition(length >= 0, "negative length %d", length); err != nil {
		return err
	}
	p.assertLive()
	if err := precondition(isOwnArray(p.arr), "the length of a foreign ArrowArray cannot be replaced"); err != nil {
		return err
	}
	f, err := p.DataType()
	if err != nil {
		return err
	}
	if err := checkBufferSizes(f.Layout(), p.Format(), p.arr, length); err != nil {
		return err
	}
	p.arr.length = C.int64_t(length)
	if int64(p.arr.null_count) > length {
		p.arr.null_count = -1
	}
	return nil
}

// SetNullCount updates the null count recorded in the array node. -1 marks
// it unknown.
func (p *Proxy) SetNullCount(n int64) error {
	if err := precondition(n >= -1 && n <= p.Length(), "null count %d outside [-1, %d]", n, p.Length()); err != nil {
		return err
	}
	p.arr.null_count = C.int64_t(n)
	return nil
}

// Export moves the nodes of an owning Proxy into the caller's structs, which
// then carry the only reference to the release callbacks. p is left in the
// released state.
func (p *Proxy) Export(outSchema *CArrowSchema, outArray *CArrowArray) error {
	if err := precondition(p.state == stateOwned, "cannot export from a %s Proxy", p.state); err != nil {
		return err
	}
	if err := precondition(outSchema != nil && outArray != nil, "nil export destination"); err != nil {
		return err
	}

	C.ArrowSchemaMove(p.schema, outSchema)
	C.ArrowArrayMove(p.arr, outArray)
	p.freeShells()
	return nil
}

// Release releases the nodes of an owning Proxy, array first. Borrowed and
// already released proxies only drop their references.
func (p *Proxy) Release() {
	if p.state == stateOwned {
		if !ArrayIsReleased(p.arr) {
			C.ArrowArrayRelease(p.arr)
		} else {
			debug.Logf("cdata: owned array node of format %q was released externally", C.GoString(p.schema.format))
		}
		if !SchemaIsReleased(p.schema) {
			C.ArrowSchemaRelease(p.schema)
		}
		p.freeShells()
		return
	}
	p.schema, p.arr, p.state = nil, nil, stateReleased
}

func (p *Proxy) freeShells() {
	C.free(unsafe.Pointer(p.schema))
	C.free(unsafe.Pointer(p.arr))
	p.schema, p.arr, p.state = nil, nil, stateReleased
}
