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

// Package cdata implements the ownership layer of the Arrow C Data
// Interface: building owned ArrowSchema/ArrowArray nodes whose release
// callbacks are Go functions, and wrapping owned or borrowed node pairs in a
// Proxy that exposes their contents safely.
//
// See https://arrow.apache.org/docs/format/CDataInterface.html for the
// interface definition.
//
// # Ownership
//
// A node built by MakeSchema or MakeArray owns everything it references and
// frees it exactly once, when its release callback runs. Passing nodes as
// children to MakeSchema/MakeArray moves them: the callee owns them and the
// caller's structs are left in the released state.
//
// A Proxy created by NewProxy takes ownership of a node pair and releases it
// on Release. A Proxy created by NewBorrowedProxy never releases anything and
// must not outlive the producer of the nodes it wraps.
//
// Buffers handed to MakeArray should be allocated with memory/mallocator so
// that C consumers never hold pointers into the Go heap.
package cdata
