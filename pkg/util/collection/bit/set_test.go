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
package bit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_00(t *testing.T) {
	check_Set_Insert(t, 5, 10)
}

func Test_Set_01(t *testing.T) {
	for i := 0; i < 1000; i++ {
		check_Set_Insert(t, 10, 128)
	}
}

func Test_Set_02(t *testing.T) {
	check_Set_Insert(t, 100, 256)
}

func Test_Set_03(t *testing.T) {
	check_Set_Insert(t, 10000, 1024)
}

func Test_Set_TryInsert(t *testing.T) {
	set := NewSet(4)
	//
	assert.True(t, set.TryInsert(3))
	assert.False(t, set.TryInsert(3))
	assert.True(t, set.TryInsert(200))
	assert.Equal(t, uint(2), set.Count())
	assert.Equal(t, []uint{3, 200}, set.Elements())
	assert.Equal(t, "[3, 200]", set.String())
}

func Test_Set_Remove(t *testing.T) {
	var set Set
	//
	set.Insert(1)
	set.Insert(65)
	clone := set.Clone()
	set.Remove(65)
	set.Remove(1000)
	//
	assert.False(t, set.Contains(65))
	assert.True(t, clone.Contains(65))
	set.Clear()
	assert.Equal(t, uint(0), set.Count())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Set_Insert(t *testing.T, n int, m uint) {
	var (
		set    = NewSet(m)
		unique = make(map[uint]bool)
	)
	//
	for i := 0; i < n; i++ {
		v := uint(rand.Intn(int(m)))
		set.Insert(v)
		unique[v] = true
	}
	//
	for v := uint(0); v < m; v++ {
		if set.Contains(v) != unique[v] {
			t.Fatalf("membership of %d incorrect", v)
		}
	}
	//
	if set.Count() != uint(len(unique)) {
		t.Fatalf("expected %d elements, found %d", len(unique), set.Count())
	}
}
