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

/*
Package array provides typed, read-mostly views over Arrow arrays held in
C Data Interface structures.

Every array is backed by a cdata.Proxy. Arrays built by the constructors in
this package or by MakeFromProxy over an owning Proxy own their nodes and must
be released exactly once with Release. Child arrays reached through a nested
layout borrow their parent's nodes and stay valid until the parent is
released.

Supported layouts:

  - Null: "n"
  - Boolean: "b"
  - Primitive[T]: "c", "C", "s", "S", "i", "I", "l", "L", "f", "g" (or "d")
  - List and LargeList: "+l", "+L"
  - ListView and LargeListView: "+vl", "+vL"
  - FixedSizeList: "+w:N"
  - Struct: "+s"
  - RunEndEncoded: "+r"

Buffers created by this package are allocated from the memory.Allocator
given to each constructor. A nil allocator selects the C allocator, since the
buffers are handed across the C ABI.
*/
package array
