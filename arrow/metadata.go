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
	"sort"
	"strings"
)

// Metadata is an ordered list of key/value pairs attached to an ArrowSchema.
type Metadata struct {
	keys   []string
	values []string
}

// NewMetadata returns metadata holding the given keys and values.
// It panics if the two slices differ in length.
func NewMetadata(keys, values []string) Metadata {
	if len(keys) != len(values) {
		panic("arrow: len mismatch")
	}

	n := len(keys)
	if n == 0 {
		return Metadata{}
	}

	md := Metadata{
		keys:   make([]string, n),
		values: make([]string, n),
	}
	copy(md.keys, keys)
	copy(md.values, values)
	return md
}

// MetadataFrom builds metadata from a map, ordering the pairs by key.
func MetadataFrom(kv map[string]string) Metadata {
	md := Metadata{
		keys:   make([]string, 0, len(kv)),
		values: make([]string, 0, len(kv)),
	}
	for k := range kv {
		md.keys = append(md.keys, k)
	}
	sort.Strings(md.keys)
	for _, k := range md.keys {
		md.values = append(md.values, kv[k])
	}
	return md
}

func (md Metadata) Len() int         { return len(md.keys) }
func (md Metadata) Keys() []string   { return md.keys }
func (md Metadata) Values() []string { return md.values }

// FindKey returns the index of the key k or -1 if it is absent.
func (md Metadata) FindKey(k string) int {
	for i, v := range md.keys {
		if v == k {
			return i
		}
	}
	return -1
}

// GetValue returns the value associated with k.
func (md Metadata) GetValue(k string) (string, bool) {
	i := md.FindKey(k)
	if i < 0 {
		return "", false
	}
	return md.values[i], true
}

// Equal reports whether md and other hold the same pairs in the same order.
func (md Metadata) Equal(other Metadata) bool {
	if md.Len() != other.Len() {
		return false
	}
	for i := range md.keys {
		if md.keys[i] != other.keys[i] || md.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

func (md Metadata) String() string {
	var o strings.Builder
	o.WriteString("[")
	for i := range md.keys {
		if i > 0 {
			o.WriteString(", ")
		}
		fmt.Fprintf(&o, "%q: %q", md.keys[i], md.values[i])
	}
	o.WriteString("]")
	return o.String()
}
