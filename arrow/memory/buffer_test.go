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

package memory_test

import (
	"testing"

	"github.com/arrowabi/go/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func TestNewResizableBuffer(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)

	exp := 10
	buf.Resize(exp)
	assert.NotNil(t, buf.Bytes())
	assert.Equal(t, exp, len(buf.Bytes()))
	assert.Equal(t, exp, buf.Len())
	assert.Equal(t, 64, buf.Cap())
	assert.NotNil(t, buf.Ptr())

	buf.Resize(100)
	assert.Equal(t, 128, mem.CurrentAlloc())

	buf.Resize(3)
	assert.Equal(t, 64, mem.CurrentAlloc())

	buf.Release()
	assert.Nil(t, buf.Bytes())
	assert.Zero(t, buf.Len())
}

func TestBufferResizeToZero(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(10)
	buf.Resize(0)
	assert.Zero(t, mem.CurrentAlloc())
	assert.Nil(t, buf.Ptr())
	buf.Release()
}

func TestBufferReset(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(16)

	newBytes := []byte("some-new-bytes")
	buf.Reset(newBytes)
	assert.Equal(t, newBytes, buf.Bytes())
	assert.Equal(t, len(newBytes), buf.Len())
	assert.Nil(t, buf.Allocator())
	buf.Release()
}

func TestNewBufferOf(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	data := []byte{1, 2, 3, 4, 5}
	buf := memory.NewBufferOf(mem, data)
	defer buf.Release()

	data[0] = 9
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, buf.Bytes())
	assert.True(t, buf.Mutable())
	assert.Same(t, mem, buf.Allocator())
}

func TestNewBufferBytes(t *testing.T) {
	data := []byte{1, 2, 3}
	buf := memory.NewBufferBytes(data)
	assert.False(t, buf.Mutable())
	assert.Equal(t, data, buf.Bytes())
	buf.Release()
	assert.Equal(t, []byte{1, 2, 3}, data)
}
