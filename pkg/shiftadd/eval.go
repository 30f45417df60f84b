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

// Evaluate computes the value of a node for a given input by executing the
// operations of the Dag, rather than reading off the node's stored value.
func (p *Dag) Evaluate(id NodeID, x *big.Int) *big.Int {
	values := make([]*big.Int, len(p.nodes))
	//
	for _, k := range p.PostOrder(id) {
		n := &p.nodes[k]
		//
		if n.Op == Leaf {
			values[k] = new(big.Int).Set(x)
		} else {
			values[k] = apply(n.Op, values[n.I], n.Shift, operandValue(values, n.J))
		}
	}
	//
	return values[id]
}

// EvaluateOutputs computes the sum of the (shifted) outputs of this Dag for a
// given input.
func (p *Dag) EvaluateOutputs(x *big.Int) *big.Int {
	return p.EvaluateHeads(p.Outputs(), x)
}

// EvaluateHeads computes the sum of the given (shifted) heads for a given
// input.
func (p *Dag) EvaluateHeads(heads []Head, x *big.Int) *big.Int {
	var sum big.Int
	//
	for _, h := range heads {
		v := p.Evaluate(h.Node, x)
		sum.Add(&sum, v.Lsh(v, h.Shift))
	}
	//
	return &sum
}

// Check validates the structural invariants of this Dag: operands precede
// their users, node values agree with their operations, values are unique,
// and parent lists are exact.
func (p *Dag) Check() error {
	values := make(map[string]NodeID)
	//
	for k := range p.nodes {
		var (
			id = NodeID(k)
			n  = &p.nodes[k]
		)
		//
		if (n.Op == Leaf) != (id == X) {
			return Errorf(InternalInconsistency, "check", "node %d has operation %s", id, n.Op)
		}
		//
		for _, operand := range n.Operands() {
			if operand < 0 || operand >= id {
				return Errorf(InternalInconsistency, "check", "node %d has out-of-order operand %d", id, operand)
			} else if !p.nodes[operand].hasParent(id) {
				return Errorf(InternalInconsistency, "check", "node %d missing from parents of %d", id, operand)
			}
		}
		//
		for _, parent := range n.Parents {
			pn := &p.nodes[parent]
			if pn.I != id && pn.J != id {
				return Errorf(InternalInconsistency, "check", "node %d is not an operand of its parent %d", id, parent)
			}
		}
		//
		if n.Op != Leaf {
			expected := apply(n.Op, p.valueOf(n.I), n.Shift, p.valueOf(n.J))
			if expected.Cmp(n.Value) != 0 {
				return Errorf(InternalInconsistency, "check", "node %d has value %s, expected %s", id, n.Value, expected)
			}
		}
		//
		if other, ok := values[n.Value.String()]; ok {
			return Errorf(InternalInconsistency, "check", "nodes %d and %d share value %s", other, id, n.Value)
		}
		//
		values[n.Value.String()] = id
	}
	//
	return nil
}

func operandValue(values []*big.Int, id NodeID) *big.Int {
	if id == NoNode {
		return nil
	}
	//
	return values[id]
}
