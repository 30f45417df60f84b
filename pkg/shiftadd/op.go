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
	"fmt"
	"math/big"
)

// OpType identifies the operation computed by a node.
type OpType uint8

const (
	// Leaf is the input x itself.
	Leaf OpType = iota
	// Add computes (i << s) + j.
	Add
	// Sub computes (i << s) - j.
	Sub
	// RSub computes j - (i << s).
	RSub
	// Shift computes i << s.
	Shift
	// Neg computes -i.
	Neg
)

// Binary checks whether this operation has two operands.
func (t OpType) Binary() bool {
	return t == Add || t == Sub || t == RSub
}

func (t OpType) String() string {
	switch t {
	case Leaf:
		return "X"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case RSub:
		return "RSub"
	case Shift:
		return "Shift"
	case Neg:
		return "Neg"
	}
	//
	return fmt.Sprintf("Op(%d)", uint8(t))
}

// NodeID identifies a node within the arena of a Dag.
type NodeID int32

// NoNode marks an absent operand.
const NoNode NodeID = -1

// Node is a single operation of a shift-and-add DAG.  Value, Size and Cost are
// fixed when the node is created, and only depend on its operation and the
// values of its operands.
type Node struct {
	Op OpType
	// Operands.  J is NoNode for unary operations, and both are NoNode for
	// the leaf.
	I, J NodeID
	// Shift amount applied to I.
	Shift uint
	// Value is the constant this node multiplies x by.
	Value *big.Int
	// Size is the width of a signal holding Value * x.
	Size uint
	// Cost is the number of full adders used by this node alone.
	Cost uint
	// Parents lists the nodes using this node as an operand.
	Parents []NodeID
}

// Operands returns the distinct operands of this node.
func (n *Node) Operands() []NodeID {
	switch {
	case n.I == NoNode:
		return nil
	case n.J == NoNode || n.J == n.I:
		return []NodeID{n.I}
	}
	//
	return []NodeID{n.I, n.J}
}

// Signed checks whether this node holds a negative multiple of x, and hence
// must be interpreted in two's complement.
func (n *Node) Signed() bool {
	return n.Value.Sign() < 0
}

// Name returns the signal name of this node.  Names are derived from values,
// hence unique within a DAG.
func (n *Node) Name() string {
	switch {
	case n.Op == Leaf:
		return "X"
	case n.Value.Sign() < 0:
		return fmt.Sprintf("M%sX", new(big.Int).Neg(n.Value).String())
	}
	//
	return fmt.Sprintf("P%sX", n.Value.String())
}

func (n *Node) hasParent(p NodeID) bool {
	for _, q := range n.Parents {
		if q == p {
			return true
		}
	}
	//
	return false
}

func (n *Node) removeParent(p NodeID) {
	for k, q := range n.Parents {
		if q == p {
			n.Parents = append(n.Parents[:k], n.Parents[k+1:]...)
			return
		}
	}
}

// apply computes the value of an operation given the values of its operands.
func apply(op OpType, i *big.Int, s uint, j *big.Int) *big.Int {
	var (
		r       big.Int
		shifted big.Int
	)
	//
	if i != nil {
		shifted.Lsh(i, s)
	}
	//
	switch op {
	case Leaf:
		r.SetInt64(1)
	case Add:
		r.Add(&shifted, j)
	case Sub:
		r.Sub(&shifted, j)
	case RSub:
		r.Sub(j, &shifted)
	case Shift:
		r.Set(&shifted)
	case Neg:
		r.Neg(i)
	default:
		panic(fmt.Sprintf("unknown operation %s", op))
	}
	//
	return &r
}
