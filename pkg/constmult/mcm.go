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
	"fmt"
	"math/big"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/metrics"
	"github.com/consensys/go-constmult/pkg/shiftadd"
)

// IntConstMCM multiplies one unsigned input by several constants at once,
// sharing the adders common to their trees.
type IntConstMCM struct {
	name      string
	xsize     uint
	constants []*big.Int
	rsizes    []uint
	// forest[k] is the index within group of constant k, or -1 when the
	// constant is zero.
	forest  []int
	group   *shiftadd.Group
	options Options
}

// NewMCM synthesises a multiple constant multiplier.  Zero constants have a
// constant zero output.
func NewMCM(cfg *config.Config, xsize uint, constants []*big.Int) (*IntConstMCM, error) {
	opts, err := NewOptions(cfg)
	if err != nil {
		return nil, err
	}
	//
	return SynthesizeMCM(opts, xsize, constants)
}

// SynthesizeMCM constructs a multiple constant multiplier.
func SynthesizeMCM(opts Options, xsize uint, constants []*big.Int) (*IntConstMCM, error) {
	if len(constants) == 0 {
		return nil, shiftadd.Errorf(shiftadd.InvalidInput, "mcm", "no constants given")
	} else if xsize == 0 {
		return nil, shiftadd.Errorf(shiftadd.InvalidInput, "mcm", "input width must be positive")
	}
	//
	var (
		names = make([]string, len(constants))
		mcm   = &IntConstMCM{xsize: xsize, options: opts}
		dags  []*shiftadd.Dag
	)
	//
	for k, c := range constants {
		if c.Sign() < 0 {
			return nil, shiftadd.Errorf(shiftadd.InvalidInput, "mcm", "constant %s is negative", c)
		}
		//
		dag, _, err := synthesize(opts, xsize, c)
		if err != nil {
			return nil, err
		}
		//
		names[k] = c.String()
		mcm.constants = append(mcm.constants, new(big.Int).Set(c))
		mcm.rsizes = append(mcm.rsizes, resultSize(c, xsize))
		//
		if dag == nil {
			mcm.forest = append(mcm.forest, -1)
		} else {
			mcm.forest = append(mcm.forest, len(dags))
			dags = append(dags, dag)
		}
	}
	//
	mcm.name = fmt.Sprintf("IntConstMCM_%d_%s", xsize, strings.Join(names, "_"))
	//
	if len(dags) > 0 {
		if err := mcm.merge(dags); err != nil {
			return nil, err
		}
	}
	//
	metrics.Synthesized.Add(float64(len(constants)))
	//
	return mcm, nil
}

func (m *IntConstMCM) merge(dags []*shiftadd.Dag) error {
	var before int
	//
	for _, d := range dags {
		before += d.LiveCount()
	}
	//
	group, err := shiftadd.NewGroup(dags...)
	if err != nil {
		return err
	}
	//
	if err := group.Merge(); err != nil {
		return err
	} else if err := group.Verify(); err != nil {
		return err
	}
	//
	stats := group.Stats()
	metrics.MergeReplacements.WithLabelValues("exact").Add(float64(stats.Exact))
	metrics.MergeReplacements.WithLabelValues("negated").Add(float64(stats.Negated))
	//
	cost, _ := group.Cost()
	log.Infof("%s: merged %d nodes into %d (%d exact, %d negated, %d rewired, %d duplicates), bare cost %d FA/LUT",
		m.name, before, group.LiveCount(), stats.Exact, stats.Negated, stats.Rewired, stats.Duplicates, cost)
	//
	m.group = group
	//
	return nil
}

// Name returns the entity name of this multiplier.
func (m *IntConstMCM) Name() string {
	return m.name
}

// Constants returns the constants of this multiplier.
func (m *IntConstMCM) Constants() []*big.Int {
	return m.constants
}

// RSizes returns the width of each product.
func (m *IntConstMCM) RSizes() []uint {
	return m.rsizes
}

// Group returns the merged trees, or nil when every constant is zero.
func (m *IntConstMCM) Group() *shiftadd.Group {
	return m.group
}

// Netlist schedules the merged trees into a single circuit, with one product
// per constant.
func (m *IntConstMCM) Netlist() (*Circuit, error) {
	var (
		dag      *shiftadd.Dag
		products = make([]product, len(m.constants))
	)
	//
	if m.group != nil {
		dag = m.group.Dag()
	}
	//
	for k, f := range m.forest {
		products[k] = product{fmt.Sprintf("R%d", k), m.rsizes[k], nil}
		//
		if f >= 0 {
			products[k].heads = m.group.Forests()[f].Heads
		}
	}
	//
	return emit(m.name, m.xsize, dag, products, m.options)
}

// Emulate computes the exact product of a given input by every constant.
func (m *IntConstMCM) Emulate(x *big.Int) []*big.Int {
	results := make([]*big.Int, len(m.constants))
	//
	for k, c := range m.constants {
		results[k] = new(big.Int).Mul(x, c)
	}
	//
	return results
}

// StandardTestCases returns the inputs 0, 1, 2 and the largest input, along
// with their expected products.
func (m *IntConstMCM) StandardTestCases() []TestCase {
	var cases []TestCase
	//
	for _, x := range standardInputs(m.xsize) {
		cases = append(cases, TestCase{x, m.Emulate(x)})
	}
	//
	return cases
}
