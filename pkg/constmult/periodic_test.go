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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/util/math"
)

func Test_Periodic_Value(t *testing.T) {
	// 0011 repeated four times
	pc := PeriodicConstant{Period: big.NewInt(3), PeriodMSBZeroes: 2, PeriodSize: 4, I: 2, J: -1}
	assert.Equal(t, int64(0x3333), pc.Value().Int64())
	// 101 overlapping the zeros of the top period
	pc.Header, pc.HeaderSize = big.NewInt(5), 3
	assert.Equal(t, int64(5<<14+0x3333), pc.Value().Int64())
	// 2^1 + 2^0 repetitions
	pc = PeriodicConstant{Period: big.NewInt(3), PeriodMSBZeroes: 2, PeriodSize: 4, I: 1, J: 0}
	assert.Equal(t, int64(0x333), pc.Value().Int64())
}

func Test_Periodic_LargeExponent(t *testing.T) {
	// A single one bit repeated 2^12 times
	pc := PeriodicConstant{Period: big.NewInt(1), PeriodSize: 1, I: 12, J: -1}
	assert.Equal(t, 0, pc.Value().Cmp(math.Mask(4096)))
	// 2^16 + 2^16 repetitions
	pc = PeriodicConstant{Period: big.NewInt(1), PeriodSize: 1, I: 16, J: 16}
	assert.Equal(t, 0, pc.Value().Cmp(math.Mask(1<<17)))
	// 01 repeated 2^20 times, with header 1 above the topmost zero
	pc = PeriodicConstant{Period: big.NewInt(1), PeriodMSBZeroes: 1, PeriodSize: 2, Header: big.NewInt(1),
		HeaderSize: 1, I: 20, J: -1}
	require.NoError(t, pc.Validate())
	assert.Equal(t, 1<<21, pc.Value().BitLen())
	assert.Equal(t, 1<<20+1, countOnes(pc.Value()))
}

func Test_Periodic_Name(t *testing.T) {
	pc := PeriodicConstant{Period: big.NewInt(3), PeriodMSBZeroes: 2, PeriodSize: 4, I: 2, J: -1}
	assert.Equal(t, "IntConstMultPeriodic_8_0_0_12_4_2_M1", pc.Name(8))
}

func Test_Periodic_Cases(t *testing.T) {
	for _, header := range []int64{0, 1, 5, 13} {
		for i := uint(0); i < 4; i++ {
			for j := -1; j <= int(i); j++ {
				pc := PeriodicConstant{
					Period:          big.NewInt(11),
					PeriodMSBZeroes: 1,
					PeriodSize:      5,
					Header:          big.NewInt(header),
					HeaderSize:      4,
					I:               i,
					J:               j,
				}
				//
				check_Periodic(t, pc, 7)
			}
		}
	}
}

func Test_Periodic_Doubling(t *testing.T) {
	// Each doubling costs one node
	pc := PeriodicConstant{Period: big.NewInt(1), PeriodMSBZeroes: 3, PeriodSize: 4, I: 5, J: -1}
	dag, err := BuildPeriodic(pc, 8)
	require.NoError(t, err)
	assert.Equal(t, 6, dag.LiveCount())
}

func Test_Periodic_Invalid(t *testing.T) {
	invalid := []PeriodicConstant{
		{Period: big.NewInt(0), PeriodSize: 4},
		{Period: big.NewInt(7), PeriodMSBZeroes: 2, PeriodSize: 4},
		{Period: big.NewInt(3), PeriodSize: 4, I: 1, J: 2},
		{Period: big.NewInt(3), PeriodSize: 4, I: 1, J: -2},
		{Period: big.NewInt(3), PeriodSize: 4, Header: big.NewInt(9), HeaderSize: 3},
		{Period: big.NewInt(1), PeriodSize: 1, I: MaxPeriodicExponent + 1, J: -1},
		{Period: big.NewInt(1), PeriodSize: 1, I: 64, J: -1},
	}
	//
	for _, pc := range invalid {
		_, err := BuildPeriodic(pc, 8)
		assert.True(t, shiftadd.IsKind(err, shiftadd.InvalidInput), "%+v", pc)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func countOnes(n *big.Int) int {
	count := 0
	//
	for i := 0; i < n.BitLen(); i++ {
		count += int(n.Bit(i))
	}
	//
	return count
}

func check_Periodic(t *testing.T, pc PeriodicConstant, xsize uint) {
	m, err := NewPeriodic(config.Default(), xsize, pc)
	require.NoError(t, err, "%+v", pc)
	//
	assert.Equal(t, 0, m.Constant().Cmp(pc.Value()))
	assert.Equal(t, 0, m.Dag().Constant().Cmp(pc.Value()))
	assert.Equal(t, "periodic", m.Heuristic())
	//
	check_Mult(t, m)
}
