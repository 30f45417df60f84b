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
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-constmult/pkg/shiftadd"
)

func Test_Priority_Parse(t *testing.T) {
	for _, p := range []Priority{Combined, Area, Latency} {
		parsed, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	//
	_, err := ParsePriority("speed")
	assert.Error(t, err)
}

func Test_CostF_Metrics(t *testing.T) {
	dag := shiftadd.New(8)
	three := dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X)
	dag.SetResult(dag.Provide(shiftadd.Sub, three, 4, shiftadd.X))
	//
	cost, err := dag.OutputCost()
	require.NoError(t, err)
	depth, err := dag.OutputDepth()
	require.NoError(t, err)
	//
	check_CostF(t, dag, Area, cost)
	check_CostF(t, dag, Latency, depth)
	check_CostF(t, dag, Combined, cost*depth)
}

func Test_FindBest_Lowest(t *testing.T) {
	dag, err := FromRight{}.Build(big.NewInt(179), 8)
	require.NoError(t, err)
	// Identical candidates tie on every metric
	candidates := []Candidate{{"a", dag, nil}, {"b", dag.Clone(), nil}, {"c", dag.Clone(), nil}}
	//
	for _, p := range []Priority{Combined, Area, Latency} {
		for i := 0; i < 3; i++ {
			best, err := FindBest(candidates, p)
			require.NoError(t, err)
			assert.Equal(t, 0, best)
		}
	}
}

func Test_FindBest_Cheapest(t *testing.T) {
	cheap, err := FromRight{}.Build(big.NewInt(3), 8)
	require.NoError(t, err)
	dear, err := FromRight{}.Build(big.NewInt(179), 8)
	require.NoError(t, err)
	//
	best, err := FindBest([]Candidate{{"dear", dear, nil}, {"cheap", cheap, nil}}, Area)
	require.NoError(t, err)
	assert.Equal(t, 1, best)
}

func Test_FindBest_TieBreak_Combined(t *testing.T) {
	wide, narrow := tieBreakDags()
	// 10 adders at depth 1 against 5 adders at depth 2
	check_CostF(t, wide, Combined, 10)
	check_CostF(t, narrow, Combined, 10)
	check_FindBest(t, Combined, 1, wide, narrow)
	check_FindBest(t, Combined, 0, narrow, wide)
}

func Test_FindBest_TieBreak_Area(t *testing.T) {
	_, narrow := tieBreakDags()
	three := threeDag()
	// Equal area, so the deeper candidate still wins on index
	check_CostF(t, narrow, Area, 5)
	check_CostF(t, three, Area, 5)
	check_Depth(t, narrow, 2)
	check_Depth(t, three, 1)
	check_FindBest(t, Area, 0, narrow, three)
	check_FindBest(t, Area, 0, three, narrow)
}

func Test_FindBest_TieBreak_Latency(t *testing.T) {
	wide, _ := tieBreakDags()
	three := threeDag()
	// Equal depth, so the smaller candidate wins
	check_Depth(t, wide, 1)
	check_Depth(t, three, 1)
	check_FindBest(t, Latency, 1, wide, three)
	check_FindBest(t, Latency, 0, three, wide)
}

func Test_FindBest_Failures(t *testing.T) {
	dag, err := FromRight{}.Build(big.NewInt(5), 8)
	require.NoError(t, err)
	//
	failed := Candidate{"broken", nil, errors.New("broken")}
	best, err := FindBest([]Candidate{failed, {"right", dag, nil}}, Combined)
	require.NoError(t, err)
	assert.Equal(t, 1, best)
	//
	_, err = FindBest([]Candidate{failed, {"empty", nil, nil}}, Combined)
	assert.Error(t, err)
	//
	_, err = FindBest(nil, Combined)
	assert.Error(t, err)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_CostF(t *testing.T, dag *shiftadd.Dag, p Priority, expected uint) {
	actual, err := CostF(dag, p)
	require.NoError(t, err)
	assert.Equal(t, expected, actual, "priority %s", p)
}

// tieBreakDags returns two 4-bit dags with equal combined metric.  The first
// computes 63x = (x << 6) - x, whilst the second computes 49x = (3x << 4) + x
// where the final addition is a concatenation.
func tieBreakDags() (*shiftadd.Dag, *shiftadd.Dag) {
	wide := shiftadd.New(4)
	wide.SetResult(wide.Provide(shiftadd.Sub, shiftadd.X, 6, shiftadd.X))
	//
	narrow := shiftadd.New(4)
	three := narrow.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X)
	narrow.SetResult(narrow.Provide(shiftadd.Add, three, 4, shiftadd.X))
	//
	return wide, narrow
}

func threeDag() *shiftadd.Dag {
	dag := shiftadd.New(4)
	dag.SetResult(dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X))
	//
	return dag
}

func check_FindBest(t *testing.T, p Priority, expected int, dags ...*shiftadd.Dag) {
	candidates := make([]Candidate, len(dags))
	//
	for i, dag := range dags {
		candidates[i] = Candidate{fmt.Sprintf("c%d", i), dag, nil}
	}
	//
	best, err := FindBest(candidates, p)
	require.NoError(t, err)
	assert.Equal(t, expected, best, "priority %s", p)
}

func check_Depth(t *testing.T, dag *shiftadd.Dag, expected uint) {
	depth, err := dag.OutputDepth()
	require.NoError(t, err)
	assert.Equal(t, expected, depth)
}
