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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-constmult/pkg/shiftadd"
)

func allBuilders() []TreeBuilder {
	return []TreeBuilder{FromRight{}, FromLeft{}, ToMiddle{}, Euclidean{}, SmallestShiftsFirst{}, NewAdditionChain()}
}

func Test_Builder_Registry(t *testing.T) {
	for _, b := range allBuilders() {
		found, ok := Builder(b.Name())
		require.True(t, ok, b.Name())
		assert.Equal(t, b.Name(), found.Name())
	}
	//
	_, ok := Builder("unknown")
	assert.False(t, ok)
}

func Test_Builder_Three(t *testing.T) {
	for _, b := range allBuilders() {
		dag, err := b.Build(big.NewInt(3), 8)
		require.NoError(t, err, b.Name())
		//
		n := dag.Node(dag.Result())
		assert.Equal(t, shiftadd.Add, n.Op, b.Name())
		assert.Equal(t, shiftadd.X, n.I, b.Name())
		assert.Equal(t, shiftadd.X, n.J, b.Name())
		assert.Equal(t, uint(1), n.Shift, b.Name())
		assert.Equal(t, 2, dag.LiveCount(), b.Name())
	}
}

func Test_Builder_PowerOfTwo(t *testing.T) {
	for _, b := range allBuilders() {
		dag, err := b.Build(big.NewInt(16), 5)
		require.NoError(t, err, b.Name())
		//
		n := dag.Node(dag.Result())
		assert.Equal(t, shiftadd.Shift, n.Op, b.Name())
		assert.Equal(t, shiftadd.X, n.I, b.Name())
		assert.Equal(t, uint(4), n.Shift, b.Name())
		assert.Equal(t, int64(112), dag.EvaluateOutputs(big.NewInt(7)).Int64(), b.Name())
	}
}

func Test_Builder_One(t *testing.T) {
	for _, b := range allBuilders() {
		dag, err := b.Build(big.NewInt(1), 4)
		require.NoError(t, err, b.Name())
		assert.Equal(t, shiftadd.X, dag.Result(), b.Name())
	}
}

func Test_Builder_Fifteen(t *testing.T) {
	// 15 = +000- in Booth code
	dag, err := FromRight{}.Build(big.NewInt(15), 8)
	require.NoError(t, err)
	//
	n := dag.Node(dag.Result())
	assert.Equal(t, shiftadd.Add, n.Op)
	assert.Equal(t, uint(4), n.Shift)
	assert.Equal(t, shiftadd.X, n.I)
	assert.Equal(t, shiftadd.Neg, dag.Node(n.J).Op)
}

func Test_Builder_Invalid(t *testing.T) {
	for _, b := range allBuilders() {
		_, err := b.Build(big.NewInt(0), 8)
		assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput), b.Name())
		//
		_, err = b.Build(big.NewInt(-5), 8)
		assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput), b.Name())
		//
		_, err = b.Build(big.NewInt(5), 0)
		assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput), b.Name())
	}
}

func Test_Builder_Exhaustive(t *testing.T) {
	for n := int64(1); n < 1024; n++ {
		for _, b := range allBuilders() {
			check_Builder(t, b, big.NewInt(n), 8)
		}
	}
}

func Test_Builder_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	//
	for i := 0; i < 50; i++ {
		n := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), 128))
		n.Add(n, big.NewInt(1))
		//
		for _, b := range allBuilders() {
			check_Builder(t, b, n, uint(1+rng.Intn(32)))
		}
	}
}

func Test_Heads_Levels(t *testing.T) {
	for n := int64(1); n < 600; n++ {
		for levels := 0; levels < 4; levels++ {
			check_Builder(t, Heads{levels}, big.NewInt(n), 6)
		}
	}
}

func Test_Heads_Digits(t *testing.T) {
	// 179 = 10110011 has five Booth digits, each its own head
	dag, err := Heads{0}.Build(big.NewInt(179), 8)
	require.NoError(t, err)
	assert.Len(t, dag.Heads(), 5)
	assert.Equal(t, int64(179), dag.Constant().Int64())
	// One round halves them, rounding up
	dag, err = Heads{1}.Build(big.NewInt(179), 8)
	require.NoError(t, err)
	assert.Len(t, dag.Heads(), 3)
}

func Test_Heads_PowerOfTwo(t *testing.T) {
	dag, err := Heads{2}.Build(big.NewInt(64), 8)
	require.NoError(t, err)
	assert.Equal(t, []shiftadd.Head{{Node: shiftadd.X, Shift: 6}}, dag.Heads())
}

func Test_Euclid_Divider(t *testing.T) {
	d, q, r, err := findBestDivider(big.NewInt(45))
	require.NoError(t, err)
	assert.Equal(t, int64(15), d.Int64())
	assert.Equal(t, int64(3), q.Int64())
	assert.Equal(t, int64(0), r.Int64())
	//
	for _, n := range []int64{-1, 0, 1, 2} {
		_, _, _, err = findBestDivider(big.NewInt(n))
		assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput), "n=%d", n)
	}
}

func Test_Euclid_Decompose(t *testing.T) {
	dag := shiftadd.New(8)
	_, err := decompose(dag, big.NewInt(0))
	assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput))
	//
	for n := int64(1); n < 300; n++ {
		id, err := decompose(dag, big.NewInt(n))
		require.NoError(t, err)
		assert.Equal(t, n, dag.Value(id).Int64())
	}
	//
	require.NoError(t, dag.Check())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Builder(t *testing.T, b TreeBuilder, n *big.Int, xsize uint) {
	dag, err := b.Build(n, xsize)
	require.NoError(t, err, "%s(%s)", b.Name(), n)
	//
	if dag.Constant().Cmp(n) != 0 {
		t.Fatalf("%s(%s) computes %s", b.Name(), n, dag.Constant())
	}
	//
	require.NoError(t, dag.Check(), "%s(%s)", b.Name(), n)
	require.NoError(t, dag.Verify(n), "%s(%s)", b.Name(), n)
	//
	x := big.NewInt(5)
	expected := new(big.Int).Mul(x, n)
	//
	if actual := dag.EvaluateOutputs(x); actual.Cmp(expected) != 0 {
		t.Fatalf("%s(%s) evaluates to %s, expected %s", b.Name(), n, actual, expected)
	}
}
