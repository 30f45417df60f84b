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
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-constmult/pkg/config"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the JSON test vectors are found.
const TestDir = "../../testdata"

func Test_Vectors_Files(t *testing.T) {
	files, err := filepath.Glob(path.Join(TestDir, "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	//
	for _, filename := range files {
		check_VectorFile(t, filename)
	}
}

func Test_Vectors_RoundTrip(t *testing.T) {
	mcm, err := NewMCM(config.Default(), 5, bigs(7, 12))
	require.NoError(t, err)
	//
	filename := path.Join(t.TempDir(), mcm.Name()+".json")
	require.NoError(t, WriteVectorFile(filename, NewVectorFile(mcm, bigs(9, 30))))
	//
	file, err := ReadVectorFile(filename)
	require.NoError(t, err)
	assert.Equal(t, uint(5), file.Width)
	assert.Len(t, file.Vectors, 6)
	assert.Equal(t, int64(360), file.Vectors[5].Products[1].Int64())
	//
	check_VectorFile(t, filename)
}

func Test_Vectors_Malformed(t *testing.T) {
	filename := path.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(filename, []byte(`{"width": 4, "constants": [3], "vectors": [{"x": 1}]}`), 0644))
	//
	_, err := ReadVectorFile(filename)
	assert.Error(t, err)
	//
	_, err = ReadVectorFile(path.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_VectorFile(t *testing.T, filename string) {
	file, err := ReadVectorFile(filename)
	require.NoError(t, err)
	//
	for _, pipelined := range []bool{false, true} {
		cfg := config.Default()
		cfg.Pipeline = pipelined
		//
		mcm, err := NewMCM(cfg, file.Width, file.Constants)
		require.NoError(t, err, filename)
		//
		circuit, err := mcm.Netlist()
		require.NoError(t, err, filename)
		//
		for _, tc := range file.TestCases() {
			check_Circuit(t, circuit, tc)
			//
			for k, product := range mcm.Emulate(tc.X) {
				assert.Zero(t, product.Cmp(tc.Expected[k]), filename)
			}
		}
	}
}
