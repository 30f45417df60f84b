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
package shiftadd

import (
	"math/big"
)

// Forest is the set of heads computing one constant within a Group.
type Forest struct {
	// Constant computed by the sum of the shifted heads.
	Constant *big.Int
	Heads    []Head
}

// MergeStats summarises the sharing discovered when merging a Group.
type MergeStats struct {
	// Heads replaced by an identical node of another tree.
	Exact uint
	// Heads replaced by the negation of another node.
	Negated uint
	// Internal nodes whose users were redirected to an equivalent node.
	Rewired uint
	// Nodes removed by the final pass over duplicate values.
	Duplicates uint
}

// Group holds the trees of several constants, all multiplying the same input,
// within a single arena.  Merging a group shares common subexpressions between
// the trees.
type Group struct {
	dag     *Dag
	forests []Forest
	stats   MergeStats
}

// NewGroup imports the given Dags into a single arena, identifying their
// leaves.  Every Dag must have the same input width.  A Dag without outputs
// stands for the zero constant.
func NewGroup(dags ...*Dag) (*Group, error) {
	if len(dags) == 0 {
		return nil, Errorf(InvalidInput, "group", "no constants given")
	}
	//
	group := &Group{dag: New(dags[0].xsize)}
	//
	for k, d := range dags {
		mapping, err := group.dag.importNodes(d, false)
		if err != nil {
			return nil, Errorf(InvalidInput, "group", "constant %d: %v", k, err)
		}
		//
		var heads []Head
		//
		for _, h := range d.Outputs() {
			heads = append(heads, Head{mapping[h.Node], h.Shift})
		}
		//
		group.forests = append(group.forests, Forest{d.Constant(), heads})
	}
	//
	return group, nil
}

// Dag returns the arena holding every tree of this group.
func (g *Group) Dag() *Dag {
	return g.dag
}

// Forests returns the forest of each constant, in the order the constants were
// given.
func (g *Group) Forests() []Forest {
	return g.forests
}

// Stats returns the sharing found by the most recent merge.
func (g *Group) Stats() MergeStats {
	return g.stats
}

// Roots returns the leaf followed by the node of every head in this group.
func (g *Group) Roots() []NodeID {
	roots := []NodeID{X}
	//
	for _, f := range g.forests {
		for _, h := range f.Heads {
			roots = append(roots, h.Node)
		}
	}
	//
	return roots
}

// LiveCount returns the number of distinct nodes used by this group, including
// the leaf.
func (g *Group) LiveCount() int {
	return len(g.dag.PostOrder(g.Roots()...))
}

// Cost returns the number of full adders used by this group, counting shared
// nodes once.
func (g *Group) Cost() (uint, error) {
	return g.dag.Cost(g.Roots()...)
}

// Evaluate computes the product of the k-th constant for a given input.
func (g *Group) Evaluate(k int, x *big.Int) *big.Int {
	return g.dag.EvaluateHeads(g.forests[k].Heads, x)
}

// Verify checks every forest computes its constant.
func (g *Group) Verify() error {
	for _, f := range g.forests {
		if err := g.dag.VerifyHeads(f.Heads, f.Constant); err != nil {
			return err
		}
	}
	//
	return nil
}
