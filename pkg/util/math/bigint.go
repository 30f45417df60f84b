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
package math

import (
	"math/big"
)

var one = big.NewInt(1)

// Pow2 returns 2^k.
func Pow2(k uint) *big.Int {
	return new(big.Int).Lsh(one, k)
}

// Mask returns 2^k - 1, i.e. the largest unsigned value of a k-bit word.
func Mask(k uint) *big.Int {
	return new(big.Int).Sub(Pow2(k), one)
}

// BitLen returns the number of bits required to represent |n|.  Zero has
// length zero.
func BitLen(n *big.Int) uint {
	return uint(n.BitLen())
}

// IsPowerOfTwo checks whether n is a strictly positive power of two.
func IsPowerOfTwo(n *big.Int) bool {
	return n.Sign() > 0 && uint(n.BitLen()-1) == n.TrailingZeroBits()
}

// ProductWidth returns the width of the largest product n * x for an unsigned
// x of xsize bits, that is bitlen(|n| * (2^xsize - 1)).
func ProductWidth(n *big.Int, xsize uint) uint {
	var p big.Int
	//
	p.Abs(n)
	p.Mul(&p, Mask(xsize))
	//
	return uint(p.BitLen())
}

// SignedWidth returns the width of a signal holding n * x for any unsigned x
// of xsize bits.  Negative multiples carry an extra sign bit.  A zero multiple
// still occupies one bit.
func SignedWidth(n *big.Int, xsize uint) uint {
	w := ProductWidth(n, xsize)
	//
	if n.Sign() < 0 {
		w++
	} else if w == 0 {
		w = 1
	}
	//
	return w
}

// Truncate reduces n modulo 2^width, interpreting the result as unsigned.
func Truncate(n *big.Int, width uint) *big.Int {
	r := new(big.Int).Set(n)
	//
	if r.Sign() < 0 || uint(r.BitLen()) > width {
		r.And(r, Mask(width))
	}
	//
	return r
}

// ToSigned interprets the unsigned width-bit value n as a two's complement
// number.
func ToSigned(n *big.Int, width uint) *big.Int {
	r := new(big.Int).Set(n)
	//
	if width > 0 && r.Bit(int(width-1)) == 1 {
		r.Sub(r, Pow2(width))
	}
	//
	return r
}

// CeilDiv returns ceil(a / b) for b > 0.
func CeilDiv(a, b uint) uint {
	return (a + b - 1) / b
}
