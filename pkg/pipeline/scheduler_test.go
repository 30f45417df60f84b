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
package pipeline

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-constmult/pkg/netlist"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/target"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// fast is a target with a short clock period, such that wide adders must be
// pipelined.
var fast = target.Model{Name: "fast", FrequencyMHz: 1000, LutDelay: 0.2, CarryDelay: 0.05, CarryBlock: 1,
	RegDelay: 0.125, LocalWireDelay: 0.125}

func Test_Schedule_AllOperations(t *testing.T) {
	dag := shiftadd.New(6)
	three := dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X)
	m5 := dag.Provide(shiftadd.RSub, shiftadd.X, 3, three)
	s53 := dag.Provide(shiftadd.Sub, three, 4, m5)
	p5 := dag.Provide(shiftadd.Neg, m5, 0, shiftadd.NoNode)
	p20 := dag.Provide(shiftadd.Shift, p5, 2, shiftadd.NoNode)
	p65 := dag.Provide(shiftadd.Add, shiftadd.X, 6, shiftadd.X)
	m20 := dag.Provide(shiftadd.Add, m5, 3, p20)
	//
	for _, id := range []shiftadd.NodeID{s53, p20, p65, m20} {
		dag.AddHead(id, 0)
	}
	//
	for _, tgt := range []target.Model{target.Generic.WithFrequency(0), fast} {
		check_Schedule(t, dag, tgt, tgt.FrequencyMHz > 0)
	}
}

func Test_Schedule_Combinatorial(t *testing.T) {
	dag := shiftadd.New(8)
	three := dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X)
	dag.SetResult(dag.Provide(shiftadd.Add, three, 4, three))
	//
	result := check_Schedule(t, dag, target.Generic, false)
	assert.Equal(t, uint(0), result.Latency)
}

func Test_Schedule_Pipelined(t *testing.T) {
	dag := shiftadd.New(16)
	node := shiftadd.X
	// A long chain of wide additions
	for k := 0; k < 6; k++ {
		node = dag.Provide(shiftadd.Add, node, 3, shiftadd.X)
	}
	//
	dag.SetResult(node)
	//
	result := check_Schedule(t, dag, fast, true)
	assert.Greater(t, result.Latency, uint(0))
}

func Test_Schedule_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	//
	for i := 0; i < 100; i++ {
		dag := randomDag(rng, uint(1+rng.Intn(12)), 1+rng.Intn(10))
		check_Schedule(t, dag, target.Generic.WithFrequency(0), false)
		check_Schedule(t, dag, fast, true)
	}
}

func Test_Schedule_Undeclared(t *testing.T) {
	var (
		dag = shiftadd.New(4)
		nl  = netlist.New("Undeclared")
	)
	//
	dag.SetResult(dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X))
	//
	_, err := Schedule(dag, nl, target.Generic, netlist.TargetAdders{Target: target.Generic}, Options{})
	assert.Error(t, err)
}

// ===================================================================
// Test Helpers
// ===================================================================

// check_Schedule emits every output of a Dag into a netlist, and compares its
// simulation against the values of the outputs.
func check_Schedule(t *testing.T, dag *shiftadd.Dag, tgt target.Model, pipelined bool) *Result {
	nl := netlist.New("Test")
	require.NoError(t, nl.AddInput("X", dag.XSize()))
	//
	result, err := Schedule(dag, nl, tgt, netlist.TargetAdders{Target: tgt}, Options{Pipelined: pipelined})
	require.NoError(t, err)
	//
	for k, h := range dag.Outputs() {
		n := dag.Node(h.Node)
		nl.SetStage(result.Slots[h.Node].Stage)
		require.NoError(t, nl.Assign(fmt.Sprintf("R%d", k), n.Size, netlist.Whole(n.Name(), n.Size)))
	}
	//
	require.NoError(t, nl.Validate())
	// Delays within a stage fit the clock period
	if pipelined {
		for id, slot := range result.Slots {
			assert.LessOrEqual(t, slot.Delay, tgt.ClockPeriod()+1e-9, "node %s", dag.Name(id))
		}
	} else {
		assert.Equal(t, uint(0), nl.Latency())
	}
	//
	limit := min(int64(1)<<dag.XSize(), 64)
	//
	for x := int64(0); x < limit; x++ {
		check_Simulation(t, dag, nl, big.NewInt(x))
	}
	//
	check_Simulation(t, dag, nl, math.Mask(dag.XSize()))
	//
	return result
}

func check_Simulation(t *testing.T, dag *shiftadd.Dag, nl *netlist.Netlist, x *big.Int) {
	values, err := nl.Simulate(map[string]*big.Int{"X": x})
	require.NoError(t, err)
	//
	for k, h := range dag.Outputs() {
		var (
			n        = dag.Node(h.Node)
			actual   = values[fmt.Sprintf("R%d", k)]
			expected = new(big.Int).Mul(n.Value, x)
		)
		//
		if n.Signed() {
			actual = math.ToSigned(actual, n.Size)
		}
		//
		if actual.Cmp(expected) != 0 {
			t.Fatalf("%s(%s) = %s, expected %s", n.Name(), x, actual, expected)
		}
	}
}

func randomDag(rng *rand.Rand, xsize uint, n int) *shiftadd.Dag {
	var (
		dag  = shiftadd.New(xsize)
		ops  = []shiftadd.OpType{shiftadd.Add, shiftadd.Sub, shiftadd.RSub, shiftadd.Shift, shiftadd.Neg}
		last = shiftadd.X
	)
	//
	for k := 0; k < n; k++ {
		var (
			op = ops[rng.Intn(len(ops))]
			i  = shiftadd.NodeID(rng.Intn(dag.Len()))
			j  = shiftadd.NodeID(rng.Intn(dag.Len()))
			s  = uint(rng.Intn(6))
		)
		//
		if !op.Binary() {
			j = shiftadd.NoNode
		} else if value(dag, op, i, s, j).Sign() == 0 {
			continue
		}
		//
		last = dag.Provide(op, i, s, j)
	}
	//
	dag.SetResult(last)
	//
	return dag
}

func value(dag *shiftadd.Dag, op shiftadd.OpType, i shiftadd.NodeID, s uint, j shiftadd.NodeID) *big.Int {
	shifted := new(big.Int).Lsh(dag.Value(i), s)
	//
	switch op {
	case shiftadd.Add:
		return shifted.Add(shifted, dag.Value(j))
	case shiftadd.Sub:
		return shifted.Sub(shifted, dag.Value(j))
	default:
		return shifted.Sub(dag.Value(j), shifted)
	}
}
