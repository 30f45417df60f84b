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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Dag_Leaf(t *testing.T) {
	dag := New(8)
	leaf := dag.Node(X)
	//
	assert.Equal(t, Leaf, leaf.Op)
	assert.Equal(t, uint(8), leaf.Size)
	assert.Equal(t, uint(0), leaf.Cost)
	assert.Equal(t, "X", leaf.Name())
	assert.Equal(t, 1, dag.Len())
	assert.Nil(t, dag.Outputs())
}

func Test_Dag_Provide(t *testing.T) {
	dag := New(8)
	three := dag.Provide(Add, X, 1, X)
	// Reuse by value
	assert.Equal(t, three, dag.Provide(Add, X, 1, X))
	assert.Equal(t, three, dag.Provide(Sub, X, 2, X))
	// Shifting by zero is the identity
	assert.Equal(t, three, dag.Provide(Shift, three, 0, NoNode))
	// Anything computing x is x
	minus := dag.Provide(Neg, X, 0, NoNode)
	assert.Equal(t, X, dag.Provide(Neg, minus, 0, NoNode))
	assert.Equal(t, X, dag.Provide(Leaf, NoNode, 0, NoNode))
	//
	assert.Equal(t, 3, dag.Len())
	assert.Equal(t, "P3X", dag.Name(three))
	assert.Equal(t, "M1X", dag.Name(minus))
	assert.Equal(t, []NodeID{three, minus}, dag.Node(X).Parents)
	assert.NoError(t, dag.Check())
}

func Test_Dag_Size(t *testing.T) {
	dag := New(8)
	three := dag.Provide(Add, X, 1, X)
	minus := dag.Provide(Neg, X, 0, NoNode)
	nine := dag.Provide(Add, three, 1, three)
	// 3 * 255 = 765 needs 10 bits, 9 * 255 = 2295 needs 12.
	assert.Equal(t, uint(10), dag.Node(three).Size)
	assert.Equal(t, uint(9), dag.Node(minus).Size)
	assert.Equal(t, uint(12), dag.Node(nine).Size)
	// The low bit of 3x comes straight from x
	assert.Equal(t, uint(9), dag.Node(three).Cost)
	assert.Equal(t, uint(9), dag.Node(minus).Cost)
}

func Test_Dag_DisjointAdd(t *testing.T) {
	dag := New(4)
	// x << 4 + x is a concatenation
	n := dag.Provide(Add, X, 4, X)
	assert.Equal(t, uint(0), dag.Node(n).Cost)
	// whilst x << 3 + x is not
	m := dag.Provide(Add, X, 3, X)
	assert.Equal(t, uint(8-3), dag.Node(m).Cost)
	// nor is anything with a negative right operand
	minus := dag.Provide(Neg, X, 0, NoNode)
	k := dag.Provide(Add, X, 6, minus)
	assert.NotEqual(t, uint(0), dag.Node(k).Cost)
}

func Test_Dag_CostDepth(t *testing.T) {
	dag := New(8)
	three := dag.Provide(Add, X, 1, X)
	six := dag.Provide(Shift, three, 1, NoNode)
	fifteen := dag.Provide(Add, six, 1, three)
	minus := dag.Provide(Neg, fifteen, 0, NoNode)
	//
	dag.SetResult(minus)
	//
	cost, err := dag.OutputCost()
	require.NoError(t, err)
	assert.Equal(t, dag.Node(three).Cost+dag.Node(fifteen).Cost+dag.Node(minus).Cost, cost)
	//
	depth, err := dag.OutputDepth()
	require.NoError(t, err)
	assert.Equal(t, uint(3), depth)
	//
	depth, err = dag.Depth(six)
	require.NoError(t, err)
	assert.Equal(t, uint(1), depth)
	//
	assert.Equal(t, int64(-15), dag.Constant().Int64())
	assert.Equal(t, 5, dag.LiveCount())
}

func Test_Dag_Evaluate(t *testing.T) {
	dag := New(8)
	three := dag.Provide(Add, X, 1, X)
	seven := dag.Provide(Sub, X, 3, X)
	m5 := dag.Provide(RSub, X, 3, three)
	//
	assert.Equal(t, int64(30), dag.Evaluate(three, big.NewInt(10)).Int64())
	assert.Equal(t, int64(70), dag.Evaluate(seven, big.NewInt(10)).Int64())
	assert.Equal(t, int64(-50), dag.Evaluate(m5, big.NewInt(10)).Int64())
	//
	dag.AddHead(three, 2)
	dag.AddHead(seven, 0)
	assert.Equal(t, int64(19), dag.Constant().Int64())
	assert.Equal(t, int64(190), dag.EvaluateOutputs(big.NewInt(10)).Int64())
	assert.NoError(t, dag.Verify(big.NewInt(19)))
	assert.True(t, IsKind(dag.Verify(big.NewInt(20)), InternalInconsistency))
}

func Test_Dag_Append(t *testing.T) {
	dag := New(8)
	three := dag.Provide(Add, X, 1, X)
	//
	patch := New(8)
	p3 := patch.Provide(Sub, X, 2, X)
	patch.SetResult(patch.Provide(Add, p3, 2, X))
	// 3x already exists, only 13x is new
	r, err := dag.Append(patch)
	require.NoError(t, err)
	assert.Equal(t, 3, dag.Len())
	assert.Equal(t, int64(13), dag.Value(r).Int64())
	assert.Equal(t, three, dag.Node(r).I)
	assert.NoError(t, dag.Check())
}

func Test_Dag_AppendWidth(t *testing.T) {
	dag := New(8)
	patch := New(4)
	patch.SetResult(patch.Provide(Add, X, 1, X))
	//
	_, err := dag.Append(patch)
	assert.True(t, IsKind(err, InvalidInput))
	assert.Equal(t, 1, dag.Len())
	//
	_, err = NewGroup(dag, patch)
	assert.True(t, IsKind(err, InvalidInput))
}

func Test_Dag_Clone(t *testing.T) {
	dag := New(8)
	three := dag.Provide(Add, X, 1, X)
	dag.SetResult(three)
	//
	clone := dag.Clone()
	clone.SetResult(clone.Provide(Shift, three, 3, NoNode))
	//
	assert.Equal(t, 2, dag.Len())
	assert.Equal(t, 3, clone.Len())
	assert.Equal(t, int64(3), dag.Constant().Int64())
	assert.Equal(t, int64(24), clone.Constant().Int64())
	assert.Len(t, dag.Node(three).Parents, 0)
}

func Test_Dag_Show(t *testing.T) {
	dag := New(4)
	three := dag.Provide(Add, X, 1, X)
	dag.SetResult(dag.Provide(Shift, three, 2, NoNode))
	//
	assert.Equal(t, "X = X [size=4, cost=0]\nP3X = X<<1 + X [size=6, cost=5]\n"+
		"P12X = P3X<<2 [size=8, cost=0]\n=> P12X<<0\n", dag.Show())
	assert.Equal(t, "{P12X<<0}", dag.String())
}

func Test_Dag_Reaches(t *testing.T) {
	dag := New(4)
	three := dag.Provide(Add, X, 1, X)
	five := dag.Provide(Add, X, 2, X)
	//
	assert.True(t, dag.Reaches(three, X))
	assert.False(t, dag.Reaches(three, five))
	assert.True(t, dag.Reaches(five, five))
}
