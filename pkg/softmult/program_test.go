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
package softmult

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-constmult/pkg/constmult"
	"github.com/consensys/go-constmult/pkg/shiftadd"
)

func Test_Program_179(t *testing.T) {
	dag, err := constmult.FromRight{}.Build(big.NewInt(179), 64)
	require.NoError(t, err)
	//
	program, err := NewProgram(dag)
	require.NoError(t, err)
	//
	expected := "t1 := (x << 1) + x\nt2 := (t1 << 4) + t1\nt3 := (x << 7) + t2\nreturn t3\n"
	assert.Equal(t, expected, program.String())
	assert.Equal(t, uint64(179*255), program.Run(255))
}

func Test_Program_Zero(t *testing.T) {
	program, err := NewProgram(nil)
	require.NoError(t, err)
	//
	assert.Equal(t, uint64(0), program.Run(12345))
	assert.Equal(t, "return 0\n", program.String())
}

func Test_Program_Operations(t *testing.T) {
	dag := shiftadd.New(64)
	mx := dag.Provide(shiftadd.Neg, shiftadd.X, 0, shiftadd.NoNode)
	m5 := dag.Provide(shiftadd.RSub, shiftadd.X, 2, mx)
	p69 := dag.Provide(shiftadd.Sub, shiftadd.X, 6, m5)
	dag.SetResult(dag.Provide(shiftadd.Shift, p69, 3, shiftadd.NoNode))
	//
	check_Program(t, dag, 552)
}

func Test_Program_Heads(t *testing.T) {
	dag := shiftadd.New(64)
	three := dag.Provide(shiftadd.Add, shiftadd.X, 1, shiftadd.X)
	mx := dag.Provide(shiftadd.Neg, shiftadd.X, 0, shiftadd.NoNode)
	dag.AddHead(three, 4)
	dag.AddHead(mx, 0)
	dag.AddHead(shiftadd.X, 10)
	// 48 - 1 + 1024
	check_Program(t, dag, 1071)
}

func Test_Program_Builders(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	//
	for i := 0; i < 200; i++ {
		n := big.NewInt(1 + rng.Int63n(1<<40))
		//
		for _, name := range []string{"right", "left", "balanced", "euclid", "shifts", "addchain"} {
			b, _ := constmult.Builder(name)
			dag, err := b.Build(n, 64)
			require.NoError(t, err)
			check_Program(t, dag, n.Uint64())
		}
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Program(t *testing.T, dag *shiftadd.Dag, c uint64) {
	program, err := NewProgram(dag)
	require.NoError(t, err)
	// Every live node except the leaf needs one step
	assert.GreaterOrEqual(t, len(program.Steps), dag.LiveCount()-1)
	//
	for _, x := range []uint64{0, 1, 2, 3, 1 << 40, ^uint64(0)} {
		if actual, expected := program.Run(x), x*c; actual != expected {
			t.Fatalf("program for %d on %d gives %d, expected %d", c, x, actual, expected)
		}
	}
}
