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
	"slices"

	"github.com/consensys/go-constmult/pkg/util/math"
)

// X is the identifier of the leaf node in every Dag.
const X NodeID = 0

// Head is one output of a multi-head Dag.  The product computed by a Dag is the
// sum of its heads, each shifted left by the given amount.
type Head struct {
	Node  NodeID
	Shift uint
}

// Dag is a shift-and-add directed acyclic graph computing one or more multiples
// of an unsigned input x of a fixed width.  Nodes live in an arena and refer to
// each other by NodeID.  Operands always precede their users in the arena, and
// nodes are shared by value: the same multiple of x is never computed twice.
// The leaf x itself is always node X.
type Dag struct {
	xsize uint
	nodes []Node
	// Maps values to the first node computing them.
	index map[string]NodeID
	// Result node, or NoNode if this Dag uses heads.
	result NodeID
	heads  []Head
}

// New constructs an empty Dag, holding only the leaf, for an input of the
// given width.
func New(xsize uint) *Dag {
	dag := &Dag{xsize: xsize, index: make(map[string]NodeID), result: NoNode}
	dag.add(Leaf, NoNode, 0, NoNode)
	//
	return dag
}

// XSize returns the input width of this Dag.
func (p *Dag) XSize() uint {
	return p.xsize
}

// Len returns the number of nodes in the arena, including any unreachable
// ones.
func (p *Dag) Len() int {
	return len(p.nodes)
}

// Node returns the node with the given identifier.  The node must not be
// modified.
func (p *Dag) Node(id NodeID) *Node {
	return &p.nodes[id]
}

// Value returns the multiple of x computed by a given node.
func (p *Dag) Value(id NodeID) *big.Int {
	return p.nodes[id].Value
}

// Name returns the signal name of a given node.
func (p *Dag) Name(id NodeID) string {
	return p.nodes[id].Name()
}

// Lookup finds the node computing a given multiple of x, if any.
func (p *Dag) Lookup(value *big.Int) (NodeID, bool) {
	id, ok := p.index[value.String()]
	return id, ok
}

// Provide returns a node computing the given operation, reusing any existing
// node with the same value.  A shift by zero returns its operand.  Operands
// must already belong to this Dag.
func (p *Dag) Provide(op OpType, i NodeID, s uint, j NodeID) NodeID {
	p.checkOperands(op, i, j)
	//
	switch {
	case op == Leaf:
		return X
	case op == Shift && s == 0:
		return i
	}
	//
	value := apply(op, p.valueOf(i), s, p.valueOf(j))
	//
	if id, ok := p.index[value.String()]; ok {
		return id
	}
	//
	return p.add(op, i, s, j)
}

// Result returns the single result node of this Dag, or NoNode.
func (p *Dag) Result() NodeID {
	return p.result
}

// SetResult marks a given node as the result of this Dag.
func (p *Dag) SetResult(id NodeID) {
	p.result = id
}

// Heads returns the heads of a multi-head Dag.
func (p *Dag) Heads() []Head {
	return p.heads
}

// AddHead registers an additional output.
func (p *Dag) AddHead(id NodeID, shift uint) {
	p.heads = append(p.heads, Head{id, shift})
}

// Outputs returns the heads of this Dag, or its result as a single unshifted
// head.
func (p *Dag) Outputs() []Head {
	switch {
	case len(p.heads) > 0:
		return p.heads
	case p.result != NoNode:
		return []Head{{p.result, 0}}
	}
	//
	return nil
}

// Constant returns the constant computed by the outputs of this Dag.
func (p *Dag) Constant() *big.Int {
	var (
		sum  big.Int
		term big.Int
	)
	//
	for _, h := range p.Outputs() {
		term.Lsh(p.Value(h.Node), h.Shift)
		sum.Add(&sum, &term)
	}
	//
	return &sum
}

// Append imports every node of a patch Dag, sharing nodes by value and
// identifying the two leaves.  It returns the node corresponding to the
// patch's result.  Both Dags must have the same input width.
func (p *Dag) Append(patch *Dag) (NodeID, error) {
	mapping, err := p.importNodes(patch, true)
	if err != nil {
		return NoNode, err
	}
	//
	if patch.result == NoNode {
		return NoNode, nil
	}
	//
	return mapping[patch.result], nil
}

// Clone creates a deep copy of this Dag.
func (p *Dag) Clone() *Dag {
	dag := &Dag{
		xsize:  p.xsize,
		nodes:  make([]Node, len(p.nodes)),
		index:  make(map[string]NodeID, len(p.index)),
		result: p.result,
		heads:  slices.Clone(p.heads),
	}
	//
	for k, n := range p.nodes {
		n.Value = new(big.Int).Set(n.Value)
		n.Parents = slices.Clone(n.Parents)
		dag.nodes[k] = n
	}
	//
	for k, v := range p.index {
		dag.index[k] = v
	}
	//
	return dag
}

// importNodes copies the nodes of src into this Dag, mapping the leaf of src
// onto X.  When dedup is false, every node is copied even if its value already
// exists.
func (p *Dag) importNodes(src *Dag, dedup bool) ([]NodeID, error) {
	if src.xsize != p.xsize {
		return nil, Errorf(InvalidInput, "append", "incompatible input widths (%d vs %d)", src.xsize, p.xsize)
	}
	//
	mapping := make([]NodeID, len(src.nodes))
	remap := func(id NodeID) NodeID {
		if id == NoNode {
			return NoNode
		}
		//
		return mapping[id]
	}
	//
	for k := range src.nodes {
		n := &src.nodes[k]
		//
		switch {
		case n.Op == Leaf:
			mapping[k] = X
		case dedup:
			mapping[k] = p.Provide(n.Op, remap(n.I), n.Shift, remap(n.J))
		default:
			mapping[k] = p.add(n.Op, remap(n.I), n.Shift, remap(n.J))
		}
	}
	//
	return mapping, nil
}

// add unconditionally allocates a new node.
func (p *Dag) add(op OpType, i NodeID, s uint, j NodeID) NodeID {
	var (
		id    = NodeID(len(p.nodes))
		value = apply(op, p.valueOf(i), s, p.valueOf(j))
		size  = math.SignedWidth(value, p.xsize)
	)
	//
	if op == Leaf {
		size = p.xsize
	}
	//
	p.nodes = append(p.nodes, Node{
		Op:    op,
		I:     i,
		J:     j,
		Shift: s,
		Value: value,
		Size:  size,
		Cost:  p.nodeCost(op, s, j, size),
	})
	//
	for _, operand := range p.nodes[id].Operands() {
		p.nodes[operand].Parents = append(p.nodes[operand].Parents, id)
	}
	//
	if key := value.String(); !p.hasKey(key) {
		p.index[key] = id
	}
	//
	return id
}

// nodeCost determines the number of full adders needed by a node.  An addition
// whose (non-negative) right operand fits entirely below the shift of its left
// operand is just a concatenation.  Otherwise, the low bits of additions come
// directly from the right operand.
func (p *Dag) nodeCost(op OpType, s uint, j NodeID, size uint) uint {
	switch op {
	case Add:
		jn := &p.nodes[j]
		//
		if jn.Value.Sign() >= 0 && s >= jn.Size {
			return 0
		}
		//
		return saturatingSub(size, s)
	case RSub:
		return saturatingSub(size, s)
	case Sub, Neg:
		return size
	}
	//
	return 0
}

func (p *Dag) hasKey(key string) bool {
	_, ok := p.index[key]
	return ok
}

func (p *Dag) valueOf(id NodeID) *big.Int {
	if id == NoNode {
		return nil
	}
	//
	return p.nodes[id].Value
}

func (p *Dag) checkOperands(op OpType, i NodeID, j NodeID) {
	n := NodeID(len(p.nodes))
	valid := func(id NodeID) bool { return id >= 0 && id < n }
	//
	switch {
	case op == Leaf:
		return
	case !valid(i):
		panic(fmt.Sprintf("invalid operand %d for %s", i, op))
	case op.Binary() && !valid(j):
		panic(fmt.Sprintf("invalid operand %d for %s", j, op))
	case !op.Binary() && j != NoNode:
		panic(fmt.Sprintf("unexpected operand %d for %s", j, op))
	}
}

func saturatingSub(a, b uint) uint {
	if a <= b {
		return 0
	}
	//
	return a - b
}
