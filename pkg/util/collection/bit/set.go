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
package bit

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Set provides a straightforward bitset implementation. That is, a set of
// (unsigned) integer values implemented as an array of bits.  Graph traversals
// use it as their visited set.
type Set struct {
	words []uint64
}

// NewSet creates a Set with room for values in the range 0..size-1.  The set
// still grows on demand.
func NewSet(size uint) *Set {
	return &Set{make([]uint64, (size+63)/64)}
}

// Clone creates a true copy of this bitset which ensures no aliasing between
// this set and the result.
func (p *Set) Clone() Set {
	return Set{slices.Clone(p.words)}
}

// Insert a given value into this set.
func (p *Set) Insert(val uint) {
	word := val / 64
	//
	for uint(len(p.words)) <= word {
		p.words = append(p.words, 0)
	}
	//
	p.words[word] |= uint64(1) << (val % 64)
}

// TryInsert inserts a given value, returning true if it was not already
// present.
func (p *Set) TryInsert(val uint) bool {
	if p.Contains(val) {
		return false
	}
	//
	p.Insert(val)
	//
	return true
}

// Remove a given value from this set.
func (p *Set) Remove(val uint) {
	word := val / 64
	//
	if uint(len(p.words)) > word {
		p.words[word] &^= uint64(1) << (val % 64)
	}
}

// Contains checks whether a given value is contained, or not.
func (p *Set) Contains(val uint) bool {
	word := val / 64
	//
	if uint(len(p.words)) <= word {
		return false
	}
	//
	return p.words[word]&(uint64(1)<<(val%64)) != 0
}

// Count returns the number of bits in the bitset which are set to one.
func (p *Set) Count() uint {
	count := 0
	//
	for _, w := range p.words {
		count += bits.OnesCount64(w)
	}
	//
	return uint(count)
}

// Clear removes every element, retaining the allocated capacity.
func (p *Set) Clear() {
	clear(p.words)
}

// Elements returns the members of this set in ascending order.
func (p *Set) Elements() []uint {
	var elems []uint
	//
	for i, w := range p.words {
		for w != 0 {
			b := uint(bits.TrailingZeros64(w))
			elems = append(elems, uint(i)*64+b)
			w &^= uint64(1) << b
		}
	}
	//
	return elems
}

func (p *Set) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, v := range p.Elements() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", v))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
