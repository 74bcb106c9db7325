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

package array

// Equal reports whether both arrays share a format and length and hold the
// same elements: equal validity everywhere and equal values where valid.
// Null arrays of equal length are always equal.
func Equal(left, right Array) bool {
	switch {
	case left.DataType() != right.DataType():
		return false
	case left.Len() != right.Len():
		return false
	}
	for i := 0; i < left.Len(); i++ {
		if !elementsEqual(left, i, right, i) {
			return false
		}
	}
	return true
}

func elementsEqual(left Array, i int, right Array, j int) bool {
	lnull, rnull := left.IsNull(i), right.IsNull(j)
	if lnull || rnull {
		return lnull == rnull
	}
	return left.elemEqual(i, right, j)
}
