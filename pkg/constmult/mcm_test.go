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

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/shiftadd"
)

func Test_MCM_Shared(t *testing.T) {
	mcm, err := NewMCM(config.Default(), 8, bigs(3, 6, 24))
	require.NoError(t, err)
	// x, 3x, 6x and 24x instead of eight nodes
	assert.Equal(t, "IntConstMCM_8_3_6_24", mcm.Name())
	assert.Equal(t, 4, mcm.Group().LiveCount())
	//
	check_MCM(t, mcm)
}

func Test_MCM_Zero(t *testing.T) {
	mcm, err := NewMCM(config.Default(), 6, bigs(0, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 9, 1}, mcm.RSizes())
	//
	check_MCM(t, mcm)
	//
	mcm, err = NewMCM(config.Default(), 6, bigs(0))
	require.NoError(t, err)
	assert.Nil(t, mcm.Group())
	check_MCM(t, mcm)
}

func Test_MCM_Invalid(t *testing.T) {
	_, err := NewMCM(config.Default(), 8, nil)
	assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput))
	//
	_, err = NewMCM(config.Default(), 0, bigs(3))
	assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput))
	//
	_, err = NewMCM(config.Default(), 8, bigs(3, -1))
	assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput))
}

func Test_MCM_Heads(t *testing.T) {
	cfg := config.Default()
	cfg.HeadLevels = 1
	//
	mcm, err := NewMCM(cfg, 8, bigs(179, 45, 358))
	require.NoError(t, err)
	check_MCM(t, mcm)
}

func Test_MCM_ZeroOptions(t *testing.T) {
	mcm, err := SynthesizeMCM(Options{}, 8, bigs(3, 6, 24))
	require.NoError(t, err)
	//
	for _, forest := range mcm.Group().Forests() {
		assert.Len(t, forest.Heads, 1)
	}
	//
	check_MCM(t, mcm)
}

func Test_MCM_Reduction(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	//
	for i := 0; i < 40; i++ {
		var (
			constants = make([]*big.Int, 2+rng.Intn(4))
			separate  int
		)
		//
		for k := range constants {
			constants[k] = big.NewInt(rng.Int63n(1 << 16))
			//
			m, err := Synthesize(mustOptions(t, config.Default()), 10, constants[k])
			require.NoError(t, err)
			//
			if m.Dag() != nil {
				separate += m.Dag().LiveCount()
			}
		}
		//
		mcm, err := NewMCM(config.Default(), 10, constants)
		require.NoError(t, err)
		//
		if mcm.Group() != nil {
			assert.LessOrEqual(t, mcm.Group().LiveCount(), separate)
		}
		//
		check_MCM(t, mcm)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func bigs(values ...int64) []*big.Int {
	result := make([]*big.Int, len(values))
	//
	for k, v := range values {
		result[k] = big.NewInt(v)
	}
	//
	return result
}

func mustOptions(t *testing.T, cfg *config.Config) Options {
	opts, err := NewOptions(cfg)
	require.NoError(t, err)
	//
	return opts
}

func check_MCM(t *testing.T, mcm *IntConstMCM) {
	circuit, err := mcm.Netlist()
	require.NoError(t, err)
	require.Len(t, circuit.Products, len(mcm.Constants()))
	//
	for _, tc := range mcm.StandardTestCases() {
		check_Circuit(t, circuit, tc)
	}
	//
	for x := int64(0); x < 64; x++ {
		input := big.NewInt(x)
		check_Circuit(t, circuit, TestCase{input, mcm.Emulate(input)})
	}
}
