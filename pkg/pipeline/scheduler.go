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
package pipeline

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-constmult/pkg/netlist"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/target"
)

// Emitter receives the signals and instances of a scheduled circuit.  Every
// signal is declared at the emitter's current stage.
type Emitter interface {
	Declared(name string) bool
	Declare(name string, width uint, value netlist.Expr) error
	Assign(name string, width uint, value netlist.Expr) error
	Instantiate(c netlist.Component, name string, inputs map[string]netlist.Expr, output string) error
	SetStage(stage uint)
	Stage() uint
	StageOf(name string) (uint, bool)
}

// Options control scheduling.
type Options struct {
	// Pipelined enables the insertion of registers whenever a path exceeds
	// the clock period.
	Pipelined bool
}

// Slot records where the signal of a node becomes available: its pipeline
// stage, and its delay (in ns) after the start of that stage.
type Slot struct {
	Signal string
	Stage  uint
	Delay  float64
}

// Result summarises a schedule.
type Result struct {
	Slots   map[shiftadd.NodeID]Slot
	Latency uint
}

// Scheduler emits the nodes of a Dag in post order, assigning each node to a
// pipeline stage such that the combinatorial delay within a stage fits within
// the clock period of the target.  Nodes are emitted once, regardless of how
// many outputs use them.
type Scheduler struct {
	dag     *shiftadd.Dag
	emitter Emitter
	target  target.Target
	adders  netlist.AdderFactory
	options Options
	slots   map[shiftadd.NodeID]Slot
}

// NewScheduler constructs a scheduler emitting into a given emitter, whose
// input signal "X" must already be declared.
func NewScheduler(dag *shiftadd.Dag, emitter Emitter, tgt target.Target, adders netlist.AdderFactory,
	opts Options) *Scheduler {
	return &Scheduler{dag, emitter, tgt, adders, opts, make(map[shiftadd.NodeID]Slot)}
}

// Schedule emits every output of a Dag.
func Schedule(dag *shiftadd.Dag, emitter Emitter, tgt target.Target, adders netlist.AdderFactory,
	opts Options) (*Result, error) {
	s := NewScheduler(dag, emitter, tgt, adders, opts)
	//
	for _, h := range dag.Outputs() {
		if _, err := s.Emit(h.Node); err != nil {
			return nil, err
		}
	}
	//
	return s.Result(), nil
}

// Result returns the slots of every node emitted so far.
func (p *Scheduler) Result() *Result {
	var latency uint
	//
	for _, slot := range p.slots {
		latency = max(latency, slot.Stage)
	}
	//
	return &Result{p.slots, latency}
}

// Emit schedules a node, after its operands.
func (p *Scheduler) Emit(id shiftadd.NodeID) (Slot, error) {
	if slot, ok := p.slots[id]; ok {
		return slot, nil
	}
	//
	var (
		node = p.dag.Node(id)
		name = node.Name()
		slot Slot
		err  error
	)
	//
	if p.emitter.Declared(name) {
		stage, _ := p.emitter.StageOf(name)
		slot = Slot{name, stage, 0}
	} else {
		switch node.Op {
		case shiftadd.Leaf:
			return Slot{}, fmt.Errorf("input signal %s not declared", name)
		case shiftadd.Add, shiftadd.Sub, shiftadd.RSub:
			slot, err = p.emitBinary(id, node)
		case shiftadd.Shift, shiftadd.Neg:
			slot, err = p.emitUnary(id, node)
		default:
			return Slot{}, shiftadd.Errorf(shiftadd.UnsupportedCombination, "schedule", "unknown operation %s", node.Op)
		}
		//
		if err != nil {
			return Slot{}, err
		}
		//
		log.Debugf("scheduled %s = %s at stage %d (%.3fns)", name, p.dag.Describe(id), slot.Stage, slot.Delay)
	}
	//
	p.slots[id] = slot
	//
	return slot, nil
}

// operand describes the signal of a node.
type operand struct {
	name   string
	width  uint
	signed bool
}

func (p *Scheduler) operand(id shiftadd.NodeID) operand {
	n := p.dag.Node(id)
	return operand{n.Name(), n.Size, n.Signed()}
}

func (o operand) field(lo, count uint) netlist.Expr {
	return netlist.Field(o.name, o.width, o.signed, lo, count)
}

func (o operand) shifted(shift, lo, count uint) netlist.Expr {
	return netlist.ShiftedField(o.name, o.width, o.signed, shift, lo, count)
}

func (p *Scheduler) emitBinary(id shiftadd.NodeID, n *shiftadd.Node) (Slot, error) {
	si, err := p.Emit(n.I)
	if err != nil {
		return Slot{}, err
	}
	//
	sj, err := p.Emit(n.J)
	if err != nil {
		return Slot{}, err
	}
	//
	var (
		stage = max(si.Stage, sj.Stage)
		delay = max(p.arrival(si, stage), p.arrival(sj, stage)) + p.wire(n)
		i     = p.operand(n.I)
		j     = p.operand(n.J)
		w     = n.Size
		s     = n.Shift
		low   netlist.Expr
		x, y  netlist.Expr
		sub   bool
	)
	//
	switch {
	case n.Op == shiftadd.Sub:
		x, y, sub = i.shifted(s, 0, w), j.field(0, w), true
	case n.Cost == 0 && s >= w:
		// Shifted operand falls entirely outside the result
		stage, delay = p.fit(n, stage, delay)
		return p.declare(n, stage, delay, j.field(0, w))
	case n.Cost == 0:
		// Right operand fits below the shifted left one
		stage, delay = p.fit(n, stage, delay)
		return p.declare(n, stage, delay, netlist.Cat(i.field(0, w-s), j.field(0, s)))
	case n.Op == shiftadd.Add:
		low, x, y = j.field(0, s), i.field(0, w-s), j.field(s, w-s)
	default:
		low, x, y, sub = j.field(0, s), j.field(s, w-s), i.field(0, w-s), true
	}
	//
	return p.emitAdder(id, n, stage, delay, low, x, y, sub)
}

func (p *Scheduler) emitUnary(id shiftadd.NodeID, n *shiftadd.Node) (Slot, error) {
	si, err := p.Emit(n.I)
	if err != nil {
		return Slot{}, err
	}
	//
	var (
		i     = p.operand(n.I)
		w     = n.Size
		stage = si.Stage
		delay = si.Delay + p.wire(n)
	)
	//
	if n.Op == shiftadd.Neg {
		return p.emitAdder(id, n, stage, delay, nil, netlist.Zeros(w), i.field(0, w), true)
	}
	//
	if n.I != shiftadd.X {
		stage, delay = p.fit(n, stage, delay)
	}
	//
	return p.declare(n, stage, delay, i.shifted(n.Shift, 0, w))
}

// fit moves a node without an adder into the next stage, when its delay
// exceeds the clock period.
func (p *Scheduler) fit(n *shiftadd.Node, stage uint, delay float64) (uint, float64) {
	if p.options.Pipelined && delay > p.target.ClockPeriod() {
		return stage + 1, p.target.RegisterDelay() + p.wire(n)
	}
	//
	return stage, delay
}

// emitAdder emits a node whose high bits are x + y (or x - y), and whose low
// bits are given by low.  The adder is placed in the given stage when it fits,
// otherwise in the next stage, and failing that it is pipelined.
func (p *Scheduler) emitAdder(id shiftadd.NodeID, n *shiftadd.Node, stage uint, delay float64,
	low, x, y netlist.Expr, sub bool) (Slot, error) {
	var (
		width  = x.Width()
		period = p.target.ClockPeriod()
		adder  = p.target.AdderDelay(width)
	)
	//
	delay += adder
	//
	if !p.options.Pipelined || delay <= period {
		return p.declare(n, stage, delay, combine(low, x, y, sub))
	}
	// Leaf negations stay in the first stage
	if n.I != shiftadd.X || n.Op != shiftadd.Neg {
		stage, delay = stage+1, p.target.RegisterDelay()+p.wire(n)+adder
		//
		if delay <= period {
			return p.declare(n, stage, delay, combine(low, x, y, sub))
		}
	}
	//
	return p.emitPipelinedAdder(n, stage, low, x, y, sub)
}

func (p *Scheduler) emitPipelinedAdder(n *shiftadd.Node, stage uint, low, x, y netlist.Expr,
	sub bool) (Slot, error) {
	var (
		name   = n.Name()
		output = name
		adder  = p.adders.NewAdder(x.Width())
		cin    = big.NewInt(0)
	)
	//
	if sub {
		y, cin = netlist.Not{X: y}, big.NewInt(1)
	}
	//
	if low != nil && low.Width() > 0 {
		output = name + "_h"
	}
	//
	p.emitter.SetStage(stage)
	//
	inputs := map[string]netlist.Expr{"X": x, "Y": y, "Cin": netlist.Const{Value: cin, W: 1}}
	if err := p.emitter.Instantiate(adder, name+"_adder", inputs, output); err != nil {
		return Slot{}, err
	}
	//
	stage += adder.Latency()
	delay := adder.OutputDelay()
	//
	if adder.Latency() == 0 {
		delay += p.target.RegisterDelay() + p.wire(n)
	}
	//
	if output == name {
		return Slot{name, stage, delay}, nil
	}
	//
	return p.declare(n, stage, delay, netlist.Cat(netlist.Whole(output, x.Width()), low))
}

func (p *Scheduler) declare(n *shiftadd.Node, stage uint, delay float64, value netlist.Expr) (Slot, error) {
	p.emitter.SetStage(stage)
	//
	if err := p.emitter.Declare(n.Name(), n.Size, value); err != nil {
		return Slot{}, err
	}
	//
	return Slot{n.Name(), stage, delay}, nil
}

// arrival returns the delay at which an operand is available within a given
// stage.  Operands from earlier stages come out of a register.
func (p *Scheduler) arrival(slot Slot, stage uint) float64 {
	if slot.Stage == stage {
		return slot.Delay
	}
	//
	return p.target.RegisterDelay()
}

// wire returns the routing delay into a node, based on the largest fanout of
// its operands.
func (p *Scheduler) wire(n *shiftadd.Node) float64 {
	fanout := 1
	//
	for _, op := range n.Operands() {
		fanout = max(fanout, len(p.dag.Node(op).Parents))
	}
	//
	return p.target.WireDelay(uint(fanout))
}

func combine(low, x, y netlist.Expr, sub bool) netlist.Expr {
	var high netlist.Expr
	//
	if sub {
		high = netlist.Difference{X: x, Y: y}
	} else {
		high = netlist.Sum{X: x, Y: y}
	}
	//
	if low == nil {
		return high
	}
	//
	return netlist.Cat(high, low)
}
