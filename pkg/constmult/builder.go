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

	"github.com/consensys/go-constmult/pkg/booth"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// TreeBuilder is a heuristic constructing a shift-and-add Dag which multiplies
// an unsigned input of a given width by a positive constant.
type TreeBuilder interface {
	// Name identifies this builder in configurations and logs.
	Name() string
	// Build constructs a Dag computing n * x.
	Build(n *big.Int, xsize uint) (*shiftadd.Dag, error)
}

// Builder finds the tree builder of a given name.
func Builder(name string) (TreeBuilder, bool) {
	switch name {
	case "right":
		return FromRight{}, true
	case "left":
		return FromLeft{}, true
	case "balanced":
		return ToMiddle{}, true
	case "euclid":
		return Euclidean{}, true
	case "shifts":
		return SmallestShiftsFirst{}, true
	case "addchain":
		return NewAdditionChain(), true
	}
	//
	return nil, false
}

// boothTree holds the partial products of a constant, given by the nonzero
// digits of its Booth recoding.  Each level is x or -x, and carries a shift
// relative to the lowest nonzero digit.  Builders differ in the order in which
// they add up levels.
type boothTree struct {
	dag         *shiftadd.Dag
	level       []shiftadd.NodeID
	shifts      []uint
	minusX      shiftadd.NodeID
	globalShift uint
}

// prepare recodes a constant and constructs its levels.  Powers of two need no
// adders, and are returned as a finished Dag instead.
func prepare(op string, n *big.Int, xsize uint) (*boothTree, *shiftadd.Dag, error) {
	if err := checkConstant(op, n, xsize); err != nil {
		return nil, nil, err
	}
	//
	dag := shiftadd.New(xsize)
	//
	if math.IsPowerOfTwo(n) {
		dag.SetResult(dag.Provide(shiftadd.Shift, shiftadd.X, uint(n.BitLen()-1), shiftadd.NoNode))
		return nil, dag, nil
	}
	//
	var (
		code = booth.Recode(n)
		low  = code.LowestNonZero()
		tree = &boothTree{dag: dag, minusX: shiftadd.NoNode, globalShift: uint(low)}
	)
	//
	log.Debugf("booth code of %s is %s", n, code)
	//
	if code.NeedsMinusX() {
		tree.minusX = dag.Provide(shiftadd.Neg, shiftadd.X, 0, shiftadd.NoNode)
	}
	//
	for k := low; k < code.Len(); k++ {
		switch code.Digits[k] {
		case 1:
			tree.level = append(tree.level, shiftadd.X)
		case -1:
			tree.level = append(tree.level, tree.minusX)
		default:
			continue
		}
		//
		tree.shifts = append(tree.shifts, uint(k-low))
	}
	//
	return tree, nil, nil
}

// combine adds level hi, shifted relative to level lo, to level lo.  The pair
// x<<2 - x is built as x<<1 + x, avoiding the negation.
func (t *boothTree) combine(hi, lo int) shiftadd.NodeID {
	diff := t.shifts[hi] - t.shifts[lo]
	//
	if t.level[hi] == shiftadd.X && t.minusX != shiftadd.NoNode && t.level[lo] == t.minusX && diff == 2 {
		return t.dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X)
	}
	//
	return t.dag.Provide(shiftadd.Add, t.level[hi], diff, t.level[lo])
}

// finish shifts the remaining level into place and marks it as the result.
func (t *boothTree) finish() *shiftadd.Dag {
	t.dag.SetResult(t.dag.Provide(shiftadd.Shift, t.level[0], t.globalShift, shiftadd.NoNode))
	return t.dag
}

// reduceFromRight performs the given number of rounds (or all, if negative)
// of pairwise additions, pairing levels from the least significant upwards.
// An odd level out is carried into the next round unchanged.
func (t *boothTree) reduceFromRight(rounds int) {
	k := len(t.level)
	//
	for r := 0; k > 1 && (rounds < 0 || r < rounds); r++ {
		half := k / 2
		//
		for j := 0; j < half; j++ {
			t.level[j] = t.combine(2*j+1, 2*j)
			t.shifts[j] = t.shifts[2*j]
		}
		//
		if k%2 == 1 {
			t.level[half] = t.level[2*half]
			t.shifts[half] = t.shifts[2*half]
			half++
		}
		//
		k = half
	}
	//
	t.level, t.shifts = t.level[:k], t.shifts[:k]
}

// reduceFromLeft is the mirror image of reduceFromRight, pairing levels from
// the most significant downwards.
func (t *boothTree) reduceFromLeft() {
	var (
		k   = len(t.level)
		top = k - 1
	)
	//
	for k > 1 {
		half := k / 2
		//
		for j := 0; j < half; j++ {
			t.level[top-j] = t.combine(top-2*j, top-2*j-1)
			t.shifts[top-j] = t.shifts[top-2*j-1]
		}
		//
		if k%2 == 1 {
			t.level[top-half] = t.level[top-2*half]
			t.shifts[top-half] = t.shifts[top-2*half]
			half++
		}
		//
		k = half
	}
	//
	t.level[0], t.shifts[0] = t.level[top], t.shifts[top]
	t.level, t.shifts = t.level[:1], t.shifts[:1]
}

// reduceToMiddle pairs levels alternately from both ends, so that the
// additions meet in the middle.
func (t *boothTree) reduceToMiddle() {
	for len(t.level) > 1 {
		var (
			lo, hi        = 0, len(t.level) - 1
			left, right   []shiftadd.NodeID
			lefts, rights []uint
		)
		//
		for hi-lo >= 1 {
			left = append(left, t.combine(lo+1, lo))
			lefts = append(lefts, t.shifts[lo])
			lo += 2
			//
			if hi-lo < 1 {
				break
			}
			//
			right = append(right, t.combine(hi, hi-1))
			rights = append(rights, t.shifts[hi-1])
			hi -= 2
		}
		//
		if lo == hi {
			left = append(left, t.level[lo])
			lefts = append(lefts, t.shifts[lo])
		}
		//
		for k := len(right) - 1; k >= 0; k-- {
			left = append(left, right[k])
			lefts = append(lefts, rights[k])
		}
		//
		t.level, t.shifts = left, lefts
	}
}

// reduceSmallestShiftsFirst repeatedly adds every adjacent pair of levels
// whose relative shift is the smallest.
func (t *boothTree) reduceSmallestShiftsFirst() {
	for len(t.level) > 1 {
		var (
			k        = len(t.level)
			smallest = t.shifts[1] - t.shifts[0]
			level    []shiftadd.NodeID
			shifts   []uint
		)
		//
		for j := 1; j+1 < k; j++ {
			smallest = min(smallest, t.shifts[j+1]-t.shifts[j])
		}
		//
		for j := 0; j < k; j++ {
			if j+1 < k && t.shifts[j+1]-t.shifts[j] == smallest {
				level = append(level, t.combine(j+1, j))
				shifts = append(shifts, t.shifts[j])
				j++
			} else {
				level = append(level, t.level[j])
				shifts = append(shifts, t.shifts[j])
			}
		}
		//
		t.level, t.shifts = level, shifts
	}
}

// FromRight adds the Booth levels pairwise, from the least significant
// upwards.
type FromRight struct{}

// Name implementation for TreeBuilder interface.
func (FromRight) Name() string { return "right" }

// Build implementation for TreeBuilder interface.
func (b FromRight) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
	tree, dag, err := prepare(b.Name(), n, xsize)
	if tree == nil {
		return dag, err
	}
	//
	tree.reduceFromRight(-1)
	//
	return tree.finish(), nil
}

// FromLeft adds the Booth levels pairwise, from the most significant
// downwards.
type FromLeft struct{}

// Name implementation for TreeBuilder interface.
func (FromLeft) Name() string { return "left" }

// Build implementation for TreeBuilder interface.
func (b FromLeft) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
	tree, dag, err := prepare(b.Name(), n, xsize)
	if tree == nil {
		return dag, err
	}
	//
	tree.reduceFromLeft()
	//
	return tree.finish(), nil
}

// ToMiddle adds the Booth levels pairwise from both ends.
type ToMiddle struct{}

// Name implementation for TreeBuilder interface.
func (ToMiddle) Name() string { return "balanced" }

// Build implementation for TreeBuilder interface.
func (b ToMiddle) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
	tree, dag, err := prepare(b.Name(), n, xsize)
	if tree == nil {
		return dag, err
	}
	//
	tree.reduceToMiddle()
	//
	return tree.finish(), nil
}

// SmallestShiftsFirst adds the closest Booth levels first, keeping the
// intermediate results narrow.
type SmallestShiftsFirst struct{}

// Name implementation for TreeBuilder interface.
func (SmallestShiftsFirst) Name() string { return "shifts" }

// Build implementation for TreeBuilder interface.
func (b SmallestShiftsFirst) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
	tree, dag, err := prepare(b.Name(), n, xsize)
	if tree == nil {
		return dag, err
	}
	//
	tree.reduceSmallestShiftsFirst()
	//
	return tree.finish(), nil
}

// Heads builds a multi-head Dag by stopping the reduction from the right after
// a given number of rounds.  The remaining levels become heads, to be summed
// by a compressor tree.  With zero levels, every Booth digit is a head.
type Heads struct {
	Levels int
}

// Name implementation for TreeBuilder interface.
func (Heads) Name() string { return "heads" }

// Build implementation for TreeBuilder interface.
func (b Heads) Build(n *big.Int, xsize uint) (*shiftadd.Dag, error) {
	if err := checkConstant(b.Name(), n, xsize); err != nil {
		return nil, err
	}
	//
	if math.IsPowerOfTwo(n) {
		dag := shiftadd.New(xsize)
		dag.AddHead(shiftadd.X, uint(n.BitLen()-1))
		//
		return dag, nil
	}
	//
	tree, _, err := prepare(b.Name(), n, xsize)
	if err != nil {
		return nil, err
	}
	//
	tree.reduceFromRight(b.Levels)
	//
	for k, node := range tree.level {
		tree.dag.AddHead(node, tree.shifts[k]+tree.globalShift)
	}
	//
	return tree.dag, nil
}

func checkConstant(op string, n *big.Int, xsize uint) error {
	if xsize == 0 {
		return shiftadd.Errorf(shiftadd.InvalidInput, op, "input width must be positive")
	} else if n.Sign() <= 0 {
		return shiftadd.Errorf(shiftadd.InvalidInput, op, "constant %s is not positive", n)
	}
	//
	return nil
}
