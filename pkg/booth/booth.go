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
package booth

import (
	"math/big"
	"strings"
)

// Code is a signed-digit representation of a non-negative integer n.  Digits
// are stored least significant first and each is one of -1, 0 or +1, such that
// n = sum(Digits[i] * 2^i).  A code always has exactly bitlen(n)+1 digits.
type Code struct {
	// Digits of the code, least significant first.
	Digits []int8
	// NonZero is the number of nonzero digits.
	NonZero uint
	// Reverted indicates the canonical recoding was discarded in favour of
	// the plain binary digits, because it did not reduce the number of
	// additions.
	Reverted bool
}

// Recode computes the canonical signed-digit (Booth) recoding of n, in which no
// two adjacent digits are nonzero.  When the recoding is not strictly cheaper
// than plain binary, counting the extra negation needed to materialise -x when
// any digit is -1, the binary digits are returned instead.  Negative values are
// not supported.
func Recode(n *big.Int) Code {
	if n.Sign() < 0 {
		panic("cannot recode negative value")
	}
	//
	var (
		nsize     = n.BitLen()
		b         = make([]int8, nsize+1)
		c         = make([]int8, nsize+1)
		d         = make([]int8, nsize+1)
		binaryNZ  uint
		boothNZ   uint
		needMinus bool
	)
	//
	for i := 0; i < nsize; i++ {
		b[i] = int8(n.Bit(i))
		//
		if b[i] != 0 {
			binaryNZ++
		}
	}
	// Carry propagation
	for i := 0; i < nsize; i++ {
		if b[i]+b[i+1]+c[i] >= 2 {
			c[i+1] = 1
		}
		//
		d[i] = b[i] + c[i] - 2*c[i+1]
		//
		if d[i] == -1 {
			needMinus = true
		}
	}
	//
	d[nsize] = c[nsize]
	//
	for _, digit := range d {
		if digit != 0 {
			boothNZ++
		}
	}
	//
	penalty := uint(0)
	if needMinus {
		penalty = 1
	}
	//
	if boothNZ+penalty >= binaryNZ {
		return Code{b, binaryNZ, true}
	}
	//
	return Code{d, boothNZ, false}
}

// Len returns the number of digits in this code.
func (c Code) Len() int {
	return len(c.Digits)
}

// NeedsMinusX checks whether any digit is -1.
func (c Code) NeedsMinusX() bool {
	for _, d := range c.Digits {
		if d < 0 {
			return true
		}
	}
	//
	return false
}

// LowestNonZero returns the index of the least significant nonzero digit, or
// -1 if there is none.
func (c Code) LowestNonZero() int {
	for i, d := range c.Digits {
		if d != 0 {
			return i
		}
	}
	//
	return -1
}

// Value reconstructs the integer represented by this code.
func (c Code) Value() *big.Int {
	var (
		val  big.Int
		term big.Int
	)
	//
	for i := len(c.Digits) - 1; i >= 0; i-- {
		val.Lsh(&val, 1)
		term.SetInt64(int64(c.Digits[i]))
		val.Add(&val, &term)
	}
	//
	return &val
}

// String renders the digits most significant first as '+', '-' or '0'.
func (c Code) String() string {
	var builder strings.Builder
	//
	for i := len(c.Digits) - 1; i >= 0; i-- {
		switch c.Digits[i] {
		case 1:
			builder.WriteByte('+')
		case -1:
			builder.WriteByte('-')
		default:
			builder.WriteByte('0')
		}
	}
	//
	return builder.String()
}
