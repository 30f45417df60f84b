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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	// Synthesized counts the constants synthesised.
	Synthesized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "constmult_synthesized_total",
		Help: "Number of constants synthesised",
	})
	// HeuristicWins counts, per tree builder, how often it produced the
	// selected tree.
	HeuristicWins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "constmult_heuristic_wins_total",
		Help: "Number of times each tree builder produced the selected tree",
	}, []string{"heuristic"})
	// MergeReplacements counts the nodes shared when merging the trees of
	// several constants.
	MergeReplacements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "constmult_merge_replacements_total",
		Help: "Number of nodes shared when merging constant trees",
	}, []string{"kind"})
	// PipelineStages records the latency of the last circuit scheduled.
	PipelineStages = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "constmult_pipeline_stages",
		Help: "Number of pipeline stages of the last circuit scheduled",
	})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{Synthesized, HeuristicWins, MergeReplacements, PipelineStages}
}

// Register registers every collector with the given registerer.  Collectors
// already registered are left as they are.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			//
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	//
	return nil
}

// Dump writes every metric gathered from g, one per line.
func Dump(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	//
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if _, err := fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels(m), value(mf.GetType(), m)); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func labels(m *dto.Metric) string {
	var pairs []string
	//
	for _, l := range m.GetLabel() {
		pairs = append(pairs, fmt.Sprintf("%s=\"%s\"", l.GetName(), l.GetValue()))
	}
	//
	if len(pairs) == 0 {
		return ""
	}
	//
	sort.Strings(pairs)
	//
	return fmt.Sprintf("{%s}", strings.Join(pairs, ","))
}

func value(kind dto.MetricType, m *dto.Metric) float64 {
	switch kind {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue()
	}
	//
	return 0
}
