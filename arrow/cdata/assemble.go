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

import (
	"github.com/arrowabi/go/arrow"
	"github.com/arrowabi/go/arrow/memory"
)

// Node describes one level of an array to be built into an owning Proxy.
type Node struct {
	Format    string
	Name      string
	Metadata  arrow.Metadata
	Flags     arrow.Flag
	Length    int64
	NullCount int64
	Offset    int64
	// Buffers are handed to the new array node. A nil entry is exported as
	// a NULL buffer pointer.
	Buffers []*memory.Buffer
	// Children and Dictionary must be owning proxies. Their nodes are moved
	// into the new Proxy.
	Children   []*Proxy
	Dictionary *Proxy
}

func (n *Node) releaseInputs() {
	for _, b := range n.Buffers {
		if b != nil {
			b.Release()
		}
	}
	// borrowed views belong to another tree
	for _, c := range n.Children {
		if c != nil && c.IsOwned() {
			c.Release()
		}
	}
	if n.Dictionary != nil && n.Dictionary.IsOwned() {
		n.Dictionary.Release()
	}
}

// Assemble builds an owning Proxy from n. It always takes ownership of
// n's buffers, children and dictionary: on error all of them are released
// before returning. Borrowed children are rejected and left untouched.
func Assemble(n Node) (*Proxy, error) {
	for i, c := range n.Children {
		if err := precondition(c != nil && c.IsOwned(), "child %d of %q is not an owning Proxy", i, n.Format); err != nil {
			n.releaseInputs()
			return nil, err
		}
	}
	if n.Dictionary != nil {
		if err := precondition(n.Dictionary.IsOwned(), "dictionary of %q is not an owning Proxy", n.Format); err != nil {
			n.releaseInputs()
			return nil, err
		}
	}

	var (
		cschemas = make([]CArrowSchema, len(n.Children))
		carrays  = make([]CArrowArray, len(n.Children))
		sptrs    = make([]*CArrowSchema, len(n.Children))
		aptrs    = make([]*CArrowArray, len(n.Children))
	)
	for i, c := range n.Children {
		// cannot fail, ownership was checked above
		_ = c.Export(&cschemas[i], &carrays[i])
		sptrs[i], aptrs[i] = &cschemas[i], &carrays[i]
	}

	var (
		dschema CArrowSchema
		darray  CArrowArray
		dsptr   *CArrowSchema
		daptr   *CArrowArray
	)
	if n.Dictionary != nil {
		_ = n.Dictionary.Export(&dschema, &darray)
		dsptr, daptr = &dschema, &darray
	}

	releaseBuffers := func() {
		for _, b := range n.Buffers {
			if b != nil {
				b.Release()
			}
		}
	}

	var (
		schema CArrowSchema
		arr    CArrowArray
	)
	if err := MakeSchema(&schema, n.Format, n.Name, n.Metadata, n.Flags, sptrs, dsptr); err != nil {
		for i := range cschemas {
			ReleaseSchema(&cschemas[i])
			ReleaseArray(&carrays[i])
		}
		if daptr != nil {
			ReleaseSchema(dsptr)
			ReleaseArray(daptr)
		}
		releaseBuffers()
		return nil, err
	}

	if err := MakeArray(&arr, n.Length, n.NullCount, n.Offset, n.Buffers, aptrs, daptr); err != nil {
		// the schema node owns the moved child schemas now
		ReleaseSchema(&schema)
		for i := range carrays {
			ReleaseArray(&carrays[i])
		}
		if daptr != nil {
			ReleaseArray(daptr)
		}
		releaseBuffers()
		return nil, err
	}

	p, err := NewProxy(&schema, &arr)
	if err != nil {
		ReleaseArray(&arr)
		ReleaseSchema(&schema)
		return nil, err
	}
	return p, nil
}

// Clone deep-copies p into a new owning Proxy. Every buffer, child and
// dictionary is copied into memory obtained from mem, along with the name,
// metadata and flags. The copy shares nothing with p.
func (p *Proxy) Clone(mem memory.Allocator) (*Proxy, error) {
	p.assertLive()

	var (
		children = make([]*Proxy, 0, p.NumChildren())
		bufs     = make([]*memory.Buffer, p.NumBuffers())
		dict     *Proxy
	)
	fail := func(err error) (*Proxy, error) {
		(&Node{Buffers: bufs, Children: children, Dictionary: dict}).releaseInputs()
		return nil, err
	}

	for _, c := range p.Children() {
		cc, err := c.Clone(mem)
		if err != nil {
			return fail(err)
		}
		children = append(children, cc)
	}
	if d := p.Dictionary(); d != nil {
		dc, err := d.Clone(mem)
		if err != nil {
			return fail(err)
		}
		dict = dc
	}
	for i := range bufs {
		b, err := p.Buffer(i)
		if err != nil {
			return fail(err)
		}
		if b != nil {
			bufs[i] = memory.NewBufferOf(mem, b)
		}
	}

	name, _ := p.Name()
	md, _ := p.Metadata()
	return Assemble(Node{
		Format:     p.Format(),
		Name:       name,
		Metadata:   md,
		Flags:      p.Flags(),
		Length:     p.Length(),
		NullCount:  p.NullCount(),
		Offset:     p.Offset(),
		Buffers:    bufs,
		Children:   children,
		Dictionary: dict,
	})
}
