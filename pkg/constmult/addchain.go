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

	"github.com/mmcloughlin/addchain"
	"github.com/mmcloughlin/addchain/alg"
	"github.com/mmcloughlin/addchain/alg/contfrac"
	"github.com/mmcloughlin/addchain/alg/dict"
	"github.com/mmcloughlin/addchain/alg/opt"

	"github.com/consensys/go-constmult/pkg/shiftadd"
)

// AdditionChain builds a constant from an addition chain for its odd part.
// Doublings in the chain are free, since they fold into the shift of the next
// addition.
type AdditionChain struct {
	algorithm alg.ChainAlgorithm
}

// NewAdditionChain constructs a builder which searches chains using a sliding
// window dictionary over continued fraction sequences.
func NewAdditionChain() AdditionChain {
	algorithm := opt.Algorithm{
		Algorithm: dict.NewAlgorithm(dict.SlidingWindow{K: 4}, contfrac.NewAlgorithm(contfrac.DichotomicStrategy{})),
	}
	//
	return AdditionChain{algorithm}
}

// Name implementation for TreeBuilder interface.
func (AdditionChain) Name() string { return "addchain" }

// Build implementation for TreeBuilder interface.
func (b AdditionChain) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
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
	if odd.IsInt64() && odd.Int64() == 1 {
		dag.SetResult(dag.Provide(shiftadd.Shift, shiftadd.X, shift, shiftadd.NoNode))
		return dag, nil
	}
	//
	chain, err := b.algorithm.FindChain(odd)
	if err != nil {
		return nil, shiftadd.Errorf(shiftadd.UnsupportedCombination, b.Name(), "no chain for %s: %v", odd, err)
	}
	//
	root, err := fromChain(dag, chain)
	if err != nil {
		return nil, err
	}
	//
	dag.SetResult(dag.Provide(shiftadd.Shift, root.node, root.shift+shift, shiftadd.NoNode))
	//
	return dag, nil
}

// term represents node<<shift.
type term struct {
	node  shiftadd.NodeID
	shift uint
}

// fromChain constructs the nodes of a chain, returning the term for its last
// element.
func fromChain(dag *shiftadd.Dag, chain addchain.Chain) (term, error) {
	program, err := chain.Program()
	if err != nil {
		return term{}, shiftadd.Errorf(shiftadd.UnsupportedCombination, "addchain", "invalid chain: %v", err)
	}
	//
	terms := []term{{shiftadd.X, 0}}
	//
	for _, op := range program {
		a, b := terms[op.I], terms[op.J]
		//
		if op.IsDouble() {
			terms = append(terms, term{a.node, a.shift + 1})
			continue
		} else if a.shift < b.shift {
			a, b = b, a
		}
		//
		node := dag.Provide(shiftadd.Add, a.node, a.shift-b.shift, b.node)
		terms = append(terms, term{node, b.shift})
	}
	//
	return terms[len(terms)-1], nil
}
