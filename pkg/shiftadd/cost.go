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

// Cost returns the total number of full adders used by the nodes reachable from
// the given roots.  Shared nodes are counted once.
func (p *Dag) Cost(roots ...NodeID) (uint, error) {
	var cost uint
	//
	for _, id := range p.PostOrder(roots...) {
		n := &p.nodes[id]
		//
		switch n.Op {
		case Leaf, Shift:
			continue
		case Add, Sub, RSub, Neg:
			cost += n.Cost
		default:
			return 0, Errorf(UnsupportedCombination, "cost", "unknown operation %s", n.Op)
		}
	}
	//
	return cost, nil
}

// Depth returns the maximum number of adders along any path from the given
// roots down to the leaf.  Shifts are free, whilst negations count as an
// adder.
func (p *Dag) Depth(roots ...NodeID) (uint, error) {
	var (
		depths = make([]uint, len(p.nodes))
		max    uint
	)
	// Operands precede their users in post order
	for _, id := range p.PostOrder(roots...) {
		n := &p.nodes[id]
		//
		switch n.Op {
		case Leaf:
			depths[id] = 0
		case Shift:
			depths[id] = depths[n.I]
		case Neg:
			depths[id] = depths[n.I] + 1
		case Add, Sub, RSub:
			depths[id] = 1 + maxUint(depths[n.I], depths[n.J])
		default:
			return 0, Errorf(UnsupportedCombination, "depth", "unknown operation %s", n.Op)
		}
	}
	//
	for _, root := range roots {
		if root != NoNode {
			max = maxUint(max, depths[root])
		}
	}
	//
	return max, nil
}

// OutputCost returns the cost of all outputs of this Dag.
func (p *Dag) OutputCost() (uint, error) {
	return p.Cost(p.outputNodes()...)
}

// OutputDepth returns the depth of the deepest output of this Dag.
func (p *Dag) OutputDepth() (uint, error) {
	return p.Depth(p.outputNodes()...)
}

func (p *Dag) outputNodes() []NodeID {
	var roots []NodeID
	//
	for _, h := range p.Outputs() {
		roots = append(roots, h.Node)
	}
	//
	return roots
}

func maxUint(a, b uint) uint {
	if a > b {
		return a
	}
	//
	return b
}
