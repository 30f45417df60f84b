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
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/metrics"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/target"
	"github.com/consensys/go-constmult/pkg/util"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// Options determine how constants are synthesised.  The zero value produces
// single-result combinatorial trees from the standard builders.
type Options struct {
	// Target provides the delays used when scheduling.
	Target target.Model
	// Pipelined enables the insertion of registers.
	Pipelined bool
	// Priority selects between candidate trees.
	Priority Priority
	// Builders are the tree builders tried for every constant.  When empty,
	// the standard builders are used.
	Builders []TreeBuilder
	// Heads selects multi-head output in place of a single result.
	Heads bool
	// HeadLevels is the number of reduction rounds applied when Heads is set.
	HeadLevels int
}

// NewOptions resolves the options described by a configuration.
func NewOptions(cfg *config.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	//
	model, err := cfg.ResolveTarget()
	if err != nil {
		return Options{}, err
	}
	//
	priority, err := ParsePriority(cfg.Priority)
	if err != nil {
		return Options{}, err
	}
	//
	var builders []TreeBuilder
	//
	names := slices.Clone(cfg.Heuristics)
	if cfg.AdditionChain && !slices.Contains(names, "addchain") {
		names = append(names, "addchain")
	}
	//
	for _, name := range names {
		b, ok := Builder(name)
		if !ok {
			return Options{}, fmt.Errorf("unknown heuristic \"%s\"", name)
		}
		//
		builders = append(builders, b)
	}
	//
	return Options{model, cfg.Pipeline, priority, builders, cfg.HeadLevels >= 0, cfg.HeadLevels}, nil
}

// IntConstMult multiplies an unsigned input of xsize bits by a non-negative
// constant, producing a result of rsize bits.
type IntConstMult struct {
	name      string
	xsize     uint
	constant  *big.Int
	rsize     uint
	heuristic string
	dag       *shiftadd.Dag
	options   Options
}

// NewMult synthesises a multiplier for a given constant, using the tree
// builders enabled by a configuration.
func NewMult(cfg *config.Config, xsize uint, n *big.Int) (*IntConstMult, error) {
	opts, err := NewOptions(cfg)
	if err != nil {
		return nil, err
	}
	//
	return Synthesize(opts, xsize, n)
}

// Synthesize constructs a multiplier for a given constant.
func Synthesize(opts Options, xsize uint, n *big.Int) (*IntConstMult, error) {
	if xsize == 0 {
		return nil, shiftadd.Errorf(shiftadd.InvalidInput, "mult", "input width must be positive")
	} else if n.Sign() < 0 {
		return nil, shiftadd.Errorf(shiftadd.InvalidInput, "mult", "constant %s is negative", n)
	}
	//
	name := fmt.Sprintf("IntConstMult_%d_%s", xsize, n)
	//
	dag, heuristic, err := synthesize(opts, xsize, n)
	if err != nil {
		return nil, err
	}
	//
	return newMult(name, xsize, n, heuristic, dag, opts)
}

func newMult(name string, xsize uint, n *big.Int, heuristic string, dag *shiftadd.Dag,
	opts Options) (*IntConstMult, error) {
	m := &IntConstMult{name, xsize, new(big.Int).Set(n), resultSize(n, xsize), heuristic, dag, opts}
	//
	if dag != nil {
		if err := dag.Verify(n); err != nil {
			return nil, err
		}
		//
		cost, _ := dag.OutputCost()
		depth, _ := dag.OutputDepth()
		log.Infof("%s: estimated bare cost (not counting pipeline overhead) %d FA/LUT, depth %d", name, cost, depth)
		//
		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debug(dag.Show())
		}
	}
	//
	metrics.Synthesized.Inc()
	//
	return m, nil
}

// synthesize builds the tree for a single constant, returning the name of the
// heuristic which produced it.  The zero constant has no tree.
func synthesize(opts Options, xsize uint, n *big.Int) (*shiftadd.Dag, string, error) {
	stats := util.NewPerfStats()
	defer stats.Log(fmt.Sprintf("synthesising %s", n))
	//
	switch {
	case n.Sign() == 0:
		log.Infof("multiplication by zero is always zero")
		return nil, "zero", nil
	case opts.Heads:
		dag, err := Heads{opts.HeadLevels}.Build(n, xsize)
		return dag, "heads", err
	case math.IsPowerOfTwo(n):
		log.Infof("power of two: multiplication by %s is a shift", n)
		//
		dag, err := FromRight{}.Build(n, xsize)
		//
		return dag, "shift", err
	}
	//
	builders := opts.Builders
	if len(builders) == 0 {
		builders = standardBuilders()
	}
	//
	candidates := make([]Candidate, len(builders))
	//
	for k, b := range builders {
		dag, err := b.Build(n, xsize)
		candidates[k] = Candidate{b.Name(), dag, err}
		logCandidate(candidates[k])
	}
	//
	best, err := FindBest(candidates, opts.Priority)
	if err != nil {
		return nil, "", err
	}
	//
	winner := candidates[best]
	log.Debugf("selected %s for %s", winner.Builder, n)
	metrics.HeuristicWins.WithLabelValues(winner.Builder).Inc()
	//
	return winner.Dag, winner.Builder, nil
}

func standardBuilders() []TreeBuilder {
	builders := make([]TreeBuilder, len(config.DefaultHeuristics))
	//
	for k, name := range config.DefaultHeuristics {
		builders[k], _ = Builder(name)
	}
	//
	return builders
}

// Name returns the entity name of this multiplier.
func (m *IntConstMult) Name() string {
	return m.name
}

// XSize returns the width of the input.
func (m *IntConstMult) XSize() uint {
	return m.xsize
}

// Constant returns the multiplier constant.
func (m *IntConstMult) Constant() *big.Int {
	return m.constant
}

// RSize returns the width of the result.
func (m *IntConstMult) RSize() uint {
	return m.rsize
}

// Heuristic returns the name of the tree builder which produced the tree.
func (m *IntConstMult) Heuristic() string {
	return m.heuristic
}

// Dag returns the tree of this multiplier, or nil for the zero constant.
func (m *IntConstMult) Dag() *shiftadd.Dag {
	return m.dag
}

// Netlist schedules the tree of this multiplier into a circuit.
func (m *IntConstMult) Netlist() (*Circuit, error) {
	var heads []shiftadd.Head
	//
	if m.dag != nil {
		heads = m.dag.Outputs()
	}
	//
	products := []product{{"R", m.rsize, heads}}
	//
	return emit(m.name, m.xsize, m.dag, products, m.options)
}

// Emulate computes the exact product of a given input by the constant.
func (m *IntConstMult) Emulate(x *big.Int) *big.Int {
	return new(big.Int).Mul(x, m.constant)
}

// StandardTestCases returns the inputs 0, 1, 2 and the largest input, along
// with their expected products.
func (m *IntConstMult) StandardTestCases() []TestCase {
	var cases []TestCase
	//
	for _, x := range standardInputs(m.xsize) {
		cases = append(cases, TestCase{x, []*big.Int{m.Emulate(x)}})
	}
	//
	return cases
}

// TestCase pairs an input with the expected product of each constant.
type TestCase struct {
	X        *big.Int
	Expected []*big.Int
}

func standardInputs(xsize uint) []*big.Int {
	inputs := []*big.Int{big.NewInt(0), big.NewInt(1)}
	//
	if xsize > 1 {
		inputs = append(inputs, big.NewInt(2), math.Mask(xsize))
	}
	//
	return inputs
}

// resultSize returns the width needed for the product of n by any input of
// xsize bits.  The zero constant still has a one bit result.
func resultSize(n *big.Int, xsize uint) uint {
	return max(1, math.BitLen(new(big.Int).Mul(n, math.Mask(xsize))))
}
