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
	"github.com/consensys/go-constmult/pkg/util/collection/bit"
)

// PostOrder returns every node reachable from the given roots, such that each
// node follows all of its operands.  Each node is visited once, regardless of
// how many paths lead to it.
func (p *Dag) PostOrder(roots ...NodeID) []NodeID {
	var (
		visited = bit.NewSet(uint(len(p.nodes)))
		order   = make([]NodeID, 0, len(p.nodes))
	)
	//
	for _, root := range roots {
		order = p.postOrder(root, visited, order)
	}
	//
	return order
}

func (p *Dag) postOrder(id NodeID, visited *bit.Set, order []NodeID) []NodeID {
	if id == NoNode || !visited.TryInsert(uint(id)) {
		return order
	}
	//
	for _, operand := range p.nodes[id].Operands() {
		order = p.postOrder(operand, visited, order)
	}
	//
	return append(order, id)
}

// Live returns the nodes reachable from the outputs of this Dag, in post
// order.  The leaf is always live.
func (p *Dag) Live() []NodeID {
	roots := []NodeID{X}
	//
	for _, h := range p.Outputs() {
		roots = append(roots, h.Node)
	}
	//
	return p.PostOrder(roots...)
}

// LiveCount returns the number of nodes reachable from the outputs of this Dag,
// including the leaf.
func (p *Dag) LiveCount() int {
	return len(p.Live())
}

// Reaches checks whether target is reachable from a given node (including the
// node itself).
func (p *Dag) Reaches(from NodeID, target NodeID) bool {
	var visited bit.Set
	//
	return p.reaches(from, target, &visited)
}

func (p *Dag) reaches(id NodeID, target NodeID, visited *bit.Set) bool {
	if id == target {
		return true
	} else if id == NoNode || !visited.TryInsert(uint(id)) {
		return false
	}
	//
	for _, operand := range p.nodes[id].Operands() {
		if p.reaches(operand, target, visited) {
			return true
		}
	}
	//
	return false
}
