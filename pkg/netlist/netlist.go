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
package netlist

import (
	"fmt"
	"math/big"

	"github.com/consensys/go-constmult/pkg/util/math"
)

// SignalKind distinguishes ports from internal signals.
type SignalKind uint8

const (
	// Input is an input port.
	Input SignalKind = iota
	// Wire is an internal signal.
	Wire
	// Output is an output port.
	Output
)

// Signal is a named bit vector, available from a given pipeline stage
// onwards.  A signal is driven either by an expression, or by an instance.
type Signal struct {
	Name  string
	Kind  SignalKind
	Width uint
	Stage uint
	// Value driving this signal, or nil for inputs and instance outputs.
	Value Expr
	// Driver is the instance whose output this signal is, if any.
	Driver *Instance
}

// Instance is a use of a component.  Its inputs are read at Stage, and its
// output becomes available Latency stages later.
type Instance struct {
	Name      string
	Component Component
	Inputs    map[string]Expr
	Output    string
	Stage     uint
}

// Netlist is a pipelined circuit under construction.  It keeps track of the
// current stage, in which every new signal is declared.  Signals must be
// declared before they are read.
type Netlist struct {
	name      string
	signals   []*Signal
	index     map[string]*Signal
	instances []*Instance
	stage     uint
}

// New constructs an empty netlist for an entity of the given name.
func New(name string) *Netlist {
	return &Netlist{name: name, index: make(map[string]*Signal)}
}

// Name returns the entity name of this netlist.
func (p *Netlist) Name() string {
	return p.name
}

// Signals returns every signal in declaration order.
func (p *Netlist) Signals() []*Signal {
	return p.signals
}

// Signal looks up a signal by name.
func (p *Netlist) Signal(name string) (*Signal, bool) {
	s, ok := p.index[name]
	return s, ok
}

// Instances returns every instance in declaration order.
func (p *Netlist) Instances() []*Instance {
	return p.instances
}

// Declared checks whether a signal of the given name exists.
func (p *Netlist) Declared(name string) bool {
	_, ok := p.index[name]
	return ok
}

// AddInput declares an input port, available at stage 0.
func (p *Netlist) AddInput(name string, width uint) error {
	return p.declare(&Signal{Name: name, Kind: Input, Width: width})
}

// Declare declares an internal signal at the current stage.
func (p *Netlist) Declare(name string, width uint, value Expr) error {
	return p.declare(&Signal{Name: name, Kind: Wire, Width: width, Stage: p.stage, Value: value})
}

// Assign declares an output port at the current stage.
func (p *Netlist) Assign(name string, width uint, value Expr) error {
	return p.declare(&Signal{Name: name, Kind: Output, Width: width, Stage: p.stage, Value: value})
}

// Instantiate adds an instance of a component reading the given inputs at the
// current stage.  Its output is declared as a new signal, available once the
// latency of the component has elapsed.
func (p *Netlist) Instantiate(c Component, name string, inputs map[string]Expr, output string) error {
	for _, port := range c.Inputs() {
		e, ok := inputs[port.Name]
		//
		if !ok {
			return fmt.Errorf("instance %s missing input %s", name, port.Name)
		} else if e.Width() != port.Width {
			return fmt.Errorf("instance %s input %s has width %d, expected %d", name, port.Name, e.Width(), port.Width)
		}
	}
	//
	inst := &Instance{name, c, inputs, output, p.stage}
	signal := &Signal{Name: output, Kind: Wire, Width: c.Output().Width, Stage: p.stage + c.Latency(), Driver: inst}
	//
	if err := p.declare(signal); err != nil {
		return err
	}
	//
	p.instances = append(p.instances, inst)
	//
	return nil
}

// NextStage advances the current stage.
func (p *Netlist) NextStage() {
	p.stage++
}

// SetStage moves to a given stage.
func (p *Netlist) SetStage(stage uint) {
	p.stage = stage
}

// Stage returns the current stage.
func (p *Netlist) Stage() uint {
	return p.stage
}

// StageOf returns the stage at which a given signal becomes available.
func (p *Netlist) StageOf(name string) (uint, bool) {
	if s, ok := p.index[name]; ok {
		return s.Stage, true
	}
	//
	return 0, false
}

// Latency returns the stage of the latest output.
func (p *Netlist) Latency() uint {
	var latency uint
	//
	for _, s := range p.signals {
		if s.Kind == Output {
			latency = max(latency, s.Stage)
		}
	}
	//
	return latency
}

// Simulate computes the value of every signal for the given input values, once
// the pipeline has filled.
func (p *Netlist) Simulate(inputs map[string]*big.Int) (map[string]*big.Int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	//
	values := make(map[string]*big.Int, len(p.signals))
	env := func(name string) *big.Int { return values[name] }
	//
	for _, s := range p.signals {
		switch {
		case s.Kind == Input:
			v, ok := inputs[s.Name]
			if !ok {
				return nil, fmt.Errorf("missing value for input %s", s.Name)
			}
			//
			values[s.Name] = math.Truncate(v, s.Width)
		case s.Driver != nil:
			args := make(map[string]*big.Int)
			//
			for port, e := range s.Driver.Inputs {
				args[port] = e.Eval(env)
			}
			//
			values[s.Name] = math.Truncate(s.Driver.Component.Eval(args), s.Width)
		default:
			values[s.Name] = s.Value.Eval(env)
		}
	}
	//
	return values, nil
}

// Validate checks every expression is well formed, and that no signal is read
// before it has been declared or before the stage at which it is available.
func (p *Netlist) Validate() error {
	declared := make(map[string]*Signal)
	//
	for _, s := range p.signals {
		var (
			stage = s.Stage
			exprs []Expr
		)
		//
		if s.Driver != nil {
			stage = s.Driver.Stage
			//
			for _, e := range s.Driver.Inputs {
				exprs = append(exprs, e)
			}
		} else if s.Value != nil {
			if s.Value.Width() != s.Width {
				return fmt.Errorf("signal %s has width %d, but value has width %d", s.Name, s.Width, s.Value.Width())
			}
			//
			exprs = append(exprs, s.Value)
		}
		//
		for _, e := range exprs {
			if err := p.validateExpr(s.Name, e, stage, declared); err != nil {
				return err
			}
		}
		//
		declared[s.Name] = s
	}
	//
	return nil
}

func (p *Netlist) validateExpr(user string, e Expr, stage uint, declared map[string]*Signal) error {
	var err error
	//
	if err = checkExpr(e); err != nil {
		return fmt.Errorf("signal %s: %w", user, err)
	}
	//
	e.Signals(func(name string) {
		s, ok := declared[name]
		//
		switch {
		case err != nil:
			return
		case !ok:
			err = fmt.Errorf("signal %s reads undeclared signal %s", user, name)
		case s.Kind == Output:
			err = fmt.Errorf("signal %s reads output %s", user, name)
		case s.Stage > stage:
			err = fmt.Errorf("signal %s (stage %d) reads %s before stage %d", user, stage, name, s.Stage)
		}
	})
	//
	if err == nil {
		err = checkSlices(e, declared)
	}
	//
	return err
}

func checkSlices(e Expr, declared map[string]*Signal) error {
	switch e := e.(type) {
	case Ref:
		if e.Hi >= declared[e.Name].Width {
			return fmt.Errorf("bit %d of %s out of range", e.Hi, e.Name)
		}
	case Repeat:
		return checkSlices(e.Bit, declared)
	case Concat:
		for _, part := range e {
			if err := checkSlices(part, declared); err != nil {
				return err
			}
		}
	case Sum:
		return firstError(checkSlices(e.X, declared), checkSlices(e.Y, declared))
	case Difference:
		return firstError(checkSlices(e.X, declared), checkSlices(e.Y, declared))
	case Not:
		return checkSlices(e.X, declared)
	}
	//
	return nil
}

func (p *Netlist) declare(s *Signal) error {
	if p.Declared(s.Name) {
		return fmt.Errorf("signal %s already declared", s.Name)
	} else if s.Width == 0 {
		return fmt.Errorf("signal %s has zero width", s.Name)
	}
	//
	p.signals = append(p.signals, s)
	p.index[s.Name] = s
	//
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	//
	return nil
}
