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

package memory

import (
	"unsafe"

	"github.com/arrowabi/go/arrow/internal/debug"
)

// Buffer is a contiguous byte region with a single owner.
//
// A Buffer created by NewResizableBuffer owns memory obtained from its
// Allocator and returns it exactly once, on Release. A Buffer created by
// NewBufferBytes merely wraps a caller-owned slice.
type Buffer struct {
	buf      []byte
	length   int
	mutable  bool
	mem      Allocator
	released bool
}

// NewBufferBytes creates a fixed-size buffer wrapping data. The buffer does
// not own data.
func NewBufferBytes(data []byte) *Buffer {
	return &Buffer{buf: data, length: len(data)}
}

// NewResizableBuffer creates a mutable, resizable buffer with an Allocator
// for managing memory.
func NewResizableBuffer(mem Allocator) *Buffer {
	if mem == nil {
		mem = DefaultAllocator
	}
	return &Buffer{mem: mem, mutable: true}
}

// NewBufferOf allocates a buffer from mem holding a copy of data.
func NewBufferOf(mem Allocator, data []byte) *Buffer {
	b := NewResizableBuffer(mem)
	b.Resize(len(data))
	copy(b.buf, data)
	return b
}

// Release returns the buffer's memory to its allocator. It must be called
// exactly once on buffers created with an Allocator.
func (b *Buffer) Release() {
	debug.Assert(!b.released, "memory: buffer released twice")
	if b.released {
		return
	}
	b.released = true
	if b.mem != nil && b.buf != nil {
		b.mem.Free(b.buf)
	}
	b.buf, b.length = nil, 0
}

// Reset resets the buffer for reuse.
func (b *Buffer) Reset(buf []byte) {
	if b.mem != nil && b.buf != nil {
		b.mem.Free(b.buf)
		b.mem = nil
	}
	b.buf = buf
	b.length = len(buf)
}

// Buf returns the slice of memory allocated by the Buffer, which is adjusted by calling Reserve.
func (b *Buffer) Buf() []byte { return b.buf }

// Bytes returns a slice of size Len, which is adjusted by calling Resize.
func (b *Buffer) Bytes() []byte { return b.buf[:b.length] }

// Mutable returns a bool indicating whether the buffer is mutable or not.
func (b *Buffer) Mutable() bool { return b.mutable }

// Len returns the length of the buffer.
func (b *Buffer) Len() int { return b.length }

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int { return len(b.buf) }

// Allocator returns the allocator owning the buffer's memory, nil for
// wrapped slices.
func (b *Buffer) Allocator() Allocator { return b.mem }

// Ptr returns the address of the first byte, or nil for an empty buffer.
func (b *Buffer) Ptr() unsafe.Pointer {
	if len(b.buf) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(b.buf))
}

// Reserve reserves memory to hold at least capacity bytes.
func (b *Buffer) Reserve(capacity int) {
	if capacity > len(b.buf) {
		newCap := roundUpToMultipleOf64(capacity)
		if len(b.buf) == 0 {
			b.buf = b.mem.Allocate(newCap)
		} else {
			b.buf = b.mem.Reallocate(newCap, b.buf)
		}
	}
}

// Resize resizes the buffer to the target size, shrinking the underlying
// allocation when possible.
func (b *Buffer) Resize(newSize int) {
	b.resize(newSize, true)
}

// ResizeNoShrink resizes the buffer to the target size without releasing
// excess capacity.
func (b *Buffer) ResizeNoShrink(newSize int) {
	b.resize(newSize, false)
}

func (b *Buffer) resize(newSize int, shrink bool) {
	debug.Assert(b.mutable, "memory: resize of immutable buffer")
	if !shrink || newSize > b.length {
		b.Reserve(newSize)
	} else {
		// Buffer is not growing, so shrink to the requested size without
		// excess space.
		newCap := roundUpToMultipleOf64(newSize)
		if len(b.buf) != newCap {
			if newSize == 0 {
				b.mem.Free(b.buf)
				b.buf = nil
			} else {
				b.buf = b.mem.Reallocate(newCap, b.buf)
			}
		}
	}
	b.length = newSize
}
