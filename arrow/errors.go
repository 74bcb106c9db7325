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

import "errors"

var (
	// ErrInvalid is returned when a caller violates a structural precondition,
	// such as a null required pointer or mismatched buffer lengths.
	ErrInvalid = errors.New("invalid")
	// ErrFormat is returned for a malformed format string.
	ErrFormat = errors.New("format error")
	// ErrIndex is returned when an element, buffer or child index is out of range.
	ErrIndex = errors.New("index error")
	// ErrUnsupportedType is returned for well-formed format strings that have
	// no layout in this module.
	ErrUnsupportedType = errors.New("unsupported type")
)
