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
package constmult

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// Euclidean decomposes a constant recursively as n = A*Q + R, where the
// divider A is of the form 2^k+1 or 2^k-1.  Multiplication by A then costs a
// single adder.
type Euclidean struct{}

// Name implementation for TreeBuilder interface.
func (Euclidean) Name() string { return "euclid" }

// Build implementation for TreeBuilder interface.
func (b Euclidean) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
	if err := checkConstant(b.Name(), n, xsize); err != nil {
		return nil, err
	}
	//
	var (
		dag   = shiftadd.New(xsize)
		shift = n.TrailingZeroBits()
		odd   = new(big.Int).Rsh(n, shift)
	)
	//
	root, err := decompose(dag, odd)
	if err != nil {
		return nil, err
	}
	//
	dag.SetResult(dag.Provide(shiftadd.Shift, root, shift, shiftadd.NoNode))
	//
	return dag, nil
}

// decompose constructs within a dag a node computing n*X.
func decompose(dag *shiftadd.Dag, n *big.Int) (shiftadd.NodeID, error) {
	switch {
	case n.Sign() <= 0:
		return shiftadd.NoNode, shiftadd.Errorf(shiftadd.InvalidInput, "euclid", "cannot decompose %s", n)
	case n.Bit(0) == 0:
		shift := n.TrailingZeroBits()
		//
		node, err := decompose(dag, new(big.Int).Rsh(n, shift))
		if err != nil {
			return shiftadd.NoNode, err
		}
		//
		return dag.Provide(shiftadd.Shift, node, shift, shiftadd.NoNode), nil
	case n.IsInt64() && n.Int64() == 1:
		return shiftadd.X, nil
	case n.IsInt64() && n.Int64() == 3:
		return dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X), nil
	}
	//
	d, q, r, err := findBestDivider(n)
	if err != nil {
		return shiftadd.NoNode, err
	}
	//
	log.Debugf("euclidean division %s = %s * %s + %s", n, d, q, r)
	//
	Q, err := operand(dag, q)
	if err != nil {
		return shiftadd.NoNode, err
	}
	// A*Q, with A = 2^k+1 or 2^k-1
	var (
		k  = d.BitLen() - 1
		AQ shiftadd.NodeID
	)
	//
	switch {
	case d.Cmp(big.NewInt(3)) == 0:
		AQ = dag.Provide(shiftadd.Add, Q, 1, Q)
	case d.Bit(1) == 0:
		AQ = dag.Provide(shiftadd.Add, Q, uint(k), Q)
	default:
		AQ = dag.Provide(shiftadd.Sub, Q, uint(k+1), Q)
	}
	//
	if r.Sign() == 0 {
		return AQ, nil
	}
	//
	R, err := operand(dag, r)
	if err != nil {
		return shiftadd.NoNode, err
	}
	//
	return dag.Provide(shiftadd.Add, AQ, 0, R), nil
}

// operand constructs the quotient or remainder of a division.  Small values
// are built directly from their Booth code, larger ones recursively.
func operand(dag *shiftadd.Dag, n *big.Int) (shiftadd.NodeID, error) {
	if n.Cmp(big.NewInt(3)) >= 0 {
		return decompose(dag, n)
	}
	//
	small, err := FromRight{}.Build(n, dag.XSize())
	if err != nil {
		return shiftadd.NoNode, err
	}
	//
	return dag.Append(small)
}

// findBestDivider finds the divider of the form 2^k+1 or 2^k-1 which
// minimises the combined bit length of quotient and remainder, preferring
// larger dividers on ties.
func findBestDivider(n *big.Int) (d, q, r *big.Int, err error) {
	if n.Cmp(big.NewInt(1)) <= 0 {
		return nil, nil, nil, shiftadd.Errorf(shiftadd.InvalidInput, "euclid", "cannot divide %s", n)
	}
	//
	var (
		one  = big.NewInt(1)
		best = 2 * math.BitLen(n)
	)
	//
	for e := uint(n.BitLen() - 1); e >= 1; e-- {
		var (
			plus  = new(big.Int).Add(math.Pow2(e), one)
			minus = new(big.Int).Sub(math.Pow2(e), one)
		)
		//
		for _, div := range []*big.Int{plus, minus} {
			if div.Cmp(n) > 0 || div.Cmp(big.NewInt(3)) < 0 {
				continue
			}
			//
			quot, rem := new(big.Int).QuoRem(n, div, new(big.Int))
			//
			if size := bitSize(quot) + bitSize(rem); size < best {
				d, q, r, best = div, quot, rem, size
			}
		}
	}
	//
	if d == nil {
		return nil, nil, nil, shiftadd.Errorf(shiftadd.InvalidInput, "euclid", "cannot divide %s", n)
	}
	//
	return d, q, r, nil
}

// bitSize counts the bits needed to write a number, with zero taking one.
func bitSize(n *big.Int) uint {
	return max(1, math.BitLen(n))
}
