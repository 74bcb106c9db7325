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
Package arrow provides the type vocabulary shared by the packages that
implement the Apache Arrow columnar format over the Arrow C Data Interface.

The format string carried by an ArrowSchema identifies the physical layout of
the paired ArrowArray. ParseFormat turns a format string into a Format, which
in turn describes the buffers a conforming producer must supply:

	f, err := arrow.ParseFormat("+w:3")
	// f.ID == arrow.FIXED_SIZE_LIST, f.ListSize == 3

The arrow/cdata package owns the interchange structures themselves, and the
arrow/array package interprets them as typed, nullable arrays.

# Requirements

Packages arrow/cdata and arrow/array require cgo.

Build tags

	assert: enables panics on precondition violations. Without it, violations
	        are reported as errors wrapping ErrInvalid.
	debug:  enables diagnostic logging to stderr.
	test:   compiles the C producer used by the cdata tests.
*/
package arrow
