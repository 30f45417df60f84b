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
package target

import (
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-constmult/pkg/util/math"
)

// Target is the timing oracle used when scheduling a circuit.  All delays are
// in nanoseconds.
type Target interface {
	// AdderDelay returns the combinatorial delay of an adder of the given
	// width.
	AdderDelay(width uint) float64
	// WireDelay returns the routing delay of a signal with the given fanout.
	WireDelay(fanout uint) float64
	// RegisterDelay returns the clock-to-output delay of a register.
	RegisterDelay() float64
	// ClockPeriod returns the target clock period, or zero for a purely
	// combinatorial circuit.
	ClockPeriod() float64
}

// Model is a parametric Target describing an FPGA family with a fast carry
// chain.  An adder costs one LUT delay, plus one carry delay per block of
// CarryBlock bits.
type Model struct {
	Name           string  `yaml:"name"`
	FrequencyMHz   float64 `yaml:"frequency"`
	LutDelay       float64 `yaml:"lutDelay"`
	CarryDelay     float64 `yaml:"carryDelay"`
	CarryBlock     uint    `yaml:"carryBlock"`
	RegDelay       float64 `yaml:"registerDelay"`
	LocalWireDelay float64 `yaml:"wireDelay"`
	FanoutDelay    float64 `yaml:"fanoutDelay"`
}

// AdderDelay returns the combinatorial delay of an adder of the given width.
func (m Model) AdderDelay(width uint) float64 {
	if width == 0 {
		return 0
	}
	//
	blocks := math.CeilDiv(width, max(m.CarryBlock, 1))
	//
	return m.LutDelay + float64(blocks)*m.CarryDelay
}

// WireDelay returns the routing delay of a signal with the given fanout.
func (m Model) WireDelay(fanout uint) float64 {
	if fanout <= 1 {
		return m.LocalWireDelay
	}
	//
	return m.LocalWireDelay + float64(fanout-1)*m.FanoutDelay
}

// RegisterDelay returns the clock-to-output delay of a register.
func (m Model) RegisterDelay() float64 {
	return m.RegDelay
}

// ClockPeriod returns 1000/FrequencyMHz, or zero when no frequency is set.
func (m Model) ClockPeriod() float64 {
	if m.FrequencyMHz <= 0 {
		return 0
	}
	//
	return 1000 / m.FrequencyMHz
}

// WithFrequency returns a copy of this model targeting a different frequency.
func (m Model) WithFrequency(mhz float64) Model {
	m.FrequencyMHz = mhz
	return m
}

// Validate checks the parameters of this model are sensible.
func (m Model) Validate() error {
	switch {
	case m.FrequencyMHz < 0:
		return fmt.Errorf("target %s has negative frequency", m.Name)
	case m.LutDelay < 0 || m.CarryDelay < 0 || m.RegDelay < 0 || m.LocalWireDelay < 0 || m.FanoutDelay < 0:
		return fmt.Errorf("target %s has negative delay", m.Name)
	case m.CarryBlock == 0:
		return fmt.Errorf("target %s has empty carry block", m.Name)
	}
	//
	return nil
}

func (m Model) String() string {
	return fmt.Sprintf("%s@%gMHz", m.Name, m.FrequencyMHz)
}

var presets = []Model{
	{"Generic", 250, 0.5, 0.05, 1, 0.3, 0.5, 0.05},
	{"Kintex7", 500, 0.35, 0.09, 4, 0.25, 0.35, 0.04},
	{"Virtex6", 400, 0.46, 0.13, 4, 0.35, 0.45, 0.05},
	{"Zynq7000", 400, 0.43, 0.11, 4, 0.3, 0.4, 0.05},
}

// Generic is the target used when none is given.
var Generic = presets[0]

// Lookup finds a preset target by (case-insensitive) name.
func Lookup(name string) (Model, bool) {
	for _, m := range presets {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	//
	return Model{}, false
}

// Names returns the names of every preset target, in sorted order.
func Names() []string {
	var names []string
	//
	for _, m := range presets {
		names = append(names, m.Name)
	}
	//
	slices.Sort(names)
	//
	return names
}
