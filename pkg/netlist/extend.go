// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package netlist

// Field selects count bits, starting from bit lo, of a signal interpreted as
// an integer of unbounded width.  Bits above the signal's width are copies of
// its top bit when signed, and zeros otherwise.
func Field(name string, width uint, signed bool, lo, count uint) Expr {
	var (
		hi    = lo + count
		parts []Expr
	)
	//
	if hi > width {
		ext := hi - max(width, lo)
		//
		if signed {
			parts = append(parts, Repeat{Slice(name, width-1, width-1), ext})
		} else {
			parts = append(parts, Zeros(ext))
		}
	}
	//
	if lo < width && count > 0 {
		parts = append(parts, Slice(name, min(hi, width)-1, lo))
	}
	//
	return Cat(parts...)
}

// ShiftedField selects count bits, starting from bit lo, of a signal shifted
// left by shift bits.
func ShiftedField(name string, width uint, signed bool, shift, lo, count uint) Expr {
	var (
		hi    = lo + count
		parts []Expr
	)
	//
	if hi > shift {
		start := max(lo, shift)
		parts = append(parts, Field(name, width, signed, start-shift, hi-start))
	}
	//
	if lo < shift {
		parts = append(parts, Zeros(min(shift, hi)-lo))
	}
	//
	return Cat(parts...)
}
