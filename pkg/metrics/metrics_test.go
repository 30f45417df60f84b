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
package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Metrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	//
	require.NoError(t, Register(reg))
	// Registering twice is harmless
	require.NoError(t, Register(reg))
}

func Test_Metrics_Dump(t *testing.T) {
	var (
		reg = prometheus.NewRegistry()
		buf bytes.Buffer
	)
	//
	require.NoError(t, Register(reg))
	//
	before := testutil.ToFloat64(HeuristicWins.WithLabelValues("euclid"))
	HeuristicWins.WithLabelValues("euclid").Inc()
	PipelineStages.Set(3)
	assert.Equal(t, before+1, testutil.ToFloat64(HeuristicWins.WithLabelValues("euclid")))
	//
	require.NoError(t, Dump(reg, &buf))
	assert.Contains(t, buf.String(), "constmult_heuristic_wins_total{heuristic=\"euclid\"}")
	assert.Contains(t, buf.String(), "constmult_pipeline_stages 3\n")
}
