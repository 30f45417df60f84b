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
	"slices"

	"github.com/consensys/go-constmult/pkg/util/collection/bit"
)

// Merge shares subexpressions between the trees of this group.  Each forest in
// turn is first matched against the forests already merged, then against its
// own earlier heads.  A head found elsewhere (exactly, or negated) is replaced
// by that node.  Otherwise its subtrees are searched, and the users of any
// equivalent node are redirected so that the positive one of the pair is kept.
// Finally, any remaining nodes with duplicate values are collapsed and the
// arena is compacted.  Afterwards no two nodes share a value, and the group
// uses no more nodes than the trees did separately.
func (g *Group) Merge() error {
	var merged []int
	//
	g.stats = MergeStats{}
	//
	for f := range g.forests {
		if err := g.mergeInto(f, merged); err != nil {
			return err
		}
		//
		if err := g.mergeWithin(f); err != nil {
			return err
		}
		//
		merged = append(merged, f)
	}
	//
	g.eliminateDuplicates()
	g.compact()
	//
	return g.dag.Check()
}

// mergeInto matches the heads of forest f against the given forests.
func (g *Group) mergeInto(f int, merged []int) error {
	heads := g.forests[f].Heads
	//
	for h := range heads {
		for _, k := range merged {
			var (
				head   = heads[h].Node
				others = g.forests[k].Heads
				found  = g.match(others, head)
			)
			//
			if found == NoNode {
				var seen bit.Set
				//
				if err := g.replaceOperands(others, head, &seen); err != nil {
					return err
				}
				//
				continue
			}
			//
			if found != head && !g.negationPair(found, head) {
				if g.dag.Value(found).Cmp(g.dag.Value(head)) == 0 {
					heads[h].Node = found
					g.stats.Exact++
				} else {
					heads[h].Node = g.negation(found)
					g.stats.Negated++
				}
			}
			//
			break
		}
	}
	//
	return nil
}

// mergeWithin matches each head of forest f against the heads preceding it.
func (g *Group) mergeWithin(f int) error {
	heads := g.forests[f].Heads
	//
	for h := range heads {
		var (
			head    = heads[h].Node
			limit   = slices.IndexFunc(heads, func(o Head) bool { return o.Node == head })
			earlier = heads[:limit]
			found   = g.match(earlier, head)
		)
		//
		if found != NoNode && found != head && !g.negationPair(found, head) {
			switch {
			case g.dag.Value(found).Cmp(g.dag.Value(head)) == 0:
				heads[h].Node = found
				g.stats.Exact++
			case g.dag.Value(found).Sign() > 0:
				heads[h].Node = g.negation(found)
				g.stats.Negated++
			default:
				// Keep the positive head, negating it for the users of found.
				if err := g.rewire(found, head); err != nil {
					return err
				}
				//
				g.stats.Negated++
			}
			//
			continue
		}
		//
		var seen bit.Set
		//
		if err := g.replaceOperands(earlier, head, &seen); err != nil {
			return err
		}
	}
	//
	return nil
}

// replaceOperands applies replaceIn to each operand of a given node.
func (g *Group) replaceOperands(roots []Head, id NodeID, seen *bit.Set) error {
	if len(roots) == 0 {
		return nil
	}
	//
	for _, operand := range g.dag.nodes[id].Operands() {
		if err := g.replaceIn(roots, operand, seen); err != nil {
			return err
		}
	}
	//
	return nil
}

// replaceIn looks for a node equivalent to id in the trees of roots.  If one is
// found, the users of the negative node of the pair (or of id, when both agree
// in sign) are redirected to the other.  Otherwise, the operands of id are
// searched in turn.
func (g *Group) replaceIn(roots []Head, id NodeID, seen *bit.Set) error {
	if id == X || !seen.TryInsert(uint(id)) {
		return nil
	}
	//
	found := g.match(roots, id)
	//
	if found == NoNode || found == id || g.negationPair(found, id) {
		return g.replaceOperands(roots, id, seen)
	}
	//
	replaced, replacement := id, found
	//
	if g.dag.Value(found).Sign() < 0 {
		replaced, replacement = found, id
	}
	//
	return g.rewire(replaced, replacement)
}

// rewire redirects every user of replaced to replacement, or to its negation
// when the two have opposite values.  Users which replacement depends upon are
// left untouched, since redirecting them would create a cycle.
func (g *Group) rewire(replaced NodeID, replacement NodeID) error {
	var (
		target NodeID
		rv     = g.dag.Value(replaced)
		tv     = g.dag.Value(replacement)
	)
	//
	switch {
	case rv.Cmp(tv) == 0:
		target = replacement
	case new(big.Int).Neg(rv).Cmp(tv) == 0:
		target = g.negation(replacement)
	default:
		return Errorf(InternalInconsistency, "merge", "cannot replace %s by %s",
			g.dag.Name(replaced), g.dag.Name(replacement))
	}
	//
	if target == replaced {
		return nil
	}
	//
	for _, parent := range slices.Clone(g.dag.nodes[replaced].Parents) {
		pn := &g.dag.nodes[parent]
		//
		if pn.I != replaced && pn.J != replaced {
			return Errorf(InternalInconsistency, "merge", "%s is not an operand of its parent %s",
				g.dag.Name(replaced), g.dag.Name(parent))
		} else if g.dag.Reaches(target, parent) {
			continue
		}
		//
		if pn.I == replaced {
			pn.I = target
		}
		//
		if pn.J == replaced {
			pn.J = target
		}
		//
		g.dag.nodes[replaced].removeParent(parent)
		//
		if tn := &g.dag.nodes[target]; !tn.hasParent(parent) {
			tn.Parents = append(tn.Parents, parent)
		}
	}
	//
	for _, f := range g.forests {
		for h := range f.Heads {
			if f.Heads[h].Node == replaced {
				f.Heads[h].Node = target
			}
		}
	}
	//
	g.stats.Rewired++
	//
	return nil
}

// negation returns a node computing the negation of id, reusing an existing
// one where possible.
func (g *Group) negation(id NodeID) NodeID {
	n := &g.dag.nodes[id]
	//
	if n.Op == Neg {
		return n.I
	}
	//
	for _, parent := range n.Parents {
		if g.dag.nodes[parent].Op == Neg {
			return parent
		}
	}
	//
	return g.dag.add(Neg, id, 0, NoNode)
}

// negationPair checks whether one of the two nodes is the negation of the
// other.
func (g *Group) negationPair(a, b NodeID) bool {
	an, bn := &g.dag.nodes[a], &g.dag.nodes[b]
	//
	return (an.Op == Neg && an.I == b) || (bn.Op == Neg && bn.I == a)
}

// match searches the trees of the given heads for a node computing the value
// of target, or failing that its negation.
func (g *Group) match(heads []Head, target NodeID) NodeID {
	value := g.dag.Value(target)
	//
	if found := g.find(heads, value); found != NoNode {
		return found
	}
	//
	return g.find(heads, new(big.Int).Neg(value))
}

// find searches the trees of the given heads, in preorder, for a node with the
// given value.
func (g *Group) find(heads []Head, value *big.Int) NodeID {
	var visited bit.Set
	//
	for _, h := range heads {
		if found := g.findIn(h.Node, value, &visited); found != NoNode {
			return found
		}
	}
	//
	return NoNode
}

func (g *Group) findIn(id NodeID, value *big.Int, visited *bit.Set) NodeID {
	if id == NoNode || !visited.TryInsert(uint(id)) {
		return NoNode
	}
	//
	n := &g.dag.nodes[id]
	//
	if n.Value.Cmp(value) == 0 {
		return id
	}
	//
	for _, operand := range n.Operands() {
		if found := g.findIn(operand, value, visited); found != NoNode {
			return found
		}
	}
	//
	return NoNode
}

// eliminateDuplicates collapses every live node onto the first live node (in
// post order) with the same value.  Operands are redirected before their users
// are examined, hence no cycles can arise.  Parent lists are rebuilt by
// compact.
func (g *Group) eliminateDuplicates() {
	var (
		canonical = make(map[string]NodeID)
		remap     = make([]NodeID, len(g.dag.nodes))
	)
	//
	for k := range remap {
		remap[k] = NodeID(k)
	}
	//
	for _, id := range g.dag.PostOrder(g.Roots()...) {
		n := &g.dag.nodes[id]
		//
		if n.I != NoNode {
			n.I = remap[n.I]
		}
		//
		if n.J != NoNode {
			n.J = remap[n.J]
		}
		//
		key := n.Value.String()
		//
		if first, ok := canonical[key]; ok {
			remap[id] = first
			g.stats.Duplicates++
		} else {
			canonical[key] = id
		}
	}
	//
	for _, f := range g.forests {
		for h := range f.Heads {
			f.Heads[h].Node = remap[f.Heads[h].Node]
		}
	}
}

// compact rebuilds the arena from the live nodes only, restoring the order and
// parent invariants.
func (g *Group) compact() {
	var (
		dag     = New(g.dag.xsize)
		mapping = make([]NodeID, len(g.dag.nodes))
	)
	//
	for _, id := range g.dag.PostOrder(g.Roots()...) {
		n := &g.dag.nodes[id]
		//
		if n.Op == Leaf {
			mapping[id] = X
			continue
		}
		//
		j := n.J
		if j != NoNode {
			j = mapping[j]
		}
		//
		mapping[id] = dag.add(n.Op, mapping[n.I], n.Shift, j)
	}
	//
	for _, f := range g.forests {
		for h := range f.Heads {
			f.Heads[h].Node = mapping[f.Heads[h].Node]
		}
	}
	//
	g.dag = dag
}
