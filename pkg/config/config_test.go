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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_Default(t *testing.T) {
	cfg := Default()
	//
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultHeuristics, cfg.Heuristics)
	assert.Equal(t, -1, cfg.HeadLevels)
	//
	model, err := cfg.ResolveTarget()
	require.NoError(t, err)
	assert.Equal(t, "Generic", model.Name)
}

func Test_Config_Parse(t *testing.T) {
	cfg, err := Parse([]byte(`
target: fast
frequency: 300
priority: area
heuristics: [right, euclid]
additionChain: true
targets:
  - name: fast
    frequency: 100
    lutDelay: 0.2
    carryDelay: 0.01
    carryBlock: 8
    registerDelay: 0.1
    wireDelay: 0.2
`))
	require.NoError(t, err)
	//
	assert.Equal(t, "area", cfg.Priority)
	assert.Equal(t, []string{"right", "euclid"}, cfg.Heuristics)
	assert.True(t, cfg.AdditionChain)
	assert.True(t, cfg.Pipeline)
	//
	model, err := cfg.ResolveTarget()
	require.NoError(t, err)
	assert.Equal(t, "fast", model.Name)
	assert.Equal(t, 300.0, model.FrequencyMHz)
	assert.Equal(t, uint(8), model.CarryBlock)
}

func Test_Config_Invalid(t *testing.T) {
	for _, text := range []string{
		"priority: speed",
		"heuristics: [random]",
		"target: stratix",
		"frequency: -1",
		"heuristics: []",
		"targets: [{name: x, carryBlock: 0}]",
		"priority: [",
	} {
		_, err := Parse([]byte(text))
		assert.Error(t, err, text)
	}
}

func Test_Config_Load(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("target: Virtex6\npipeline: false\n"), 0o600))
	//
	cfg, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, "Virtex6", cfg.Target)
	assert.False(t, cfg.Pipeline)
	//
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading configuration")
}
