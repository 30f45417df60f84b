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
	"io"
	"math/big"
	"text/template"

	"github.com/consensys/go-constmult/pkg/target"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// Port is a named input or output of a component.
type Port struct {
	Name  string
	Width uint
}

// Component is a reusable subcircuit, such as a pipelined adder.
type Component interface {
	// Entity returns the name of the VHDL entity implementing this
	// component.
	Entity() string
	// Inputs returns the input ports of this component.
	Inputs() []Port
	// Output returns the (only) output port of this component.
	Output() Port
	// Latency returns the number of registers between inputs and output.
	Latency() uint
	// OutputDelay returns the delay of the output after its last register,
	// or after the inputs when the latency is zero.
	OutputDelay() float64
	// Eval computes the output for the given input values.
	Eval(inputs map[string]*big.Int) *big.Int
	// WriteVHDL writes the entity implementing this component.
	WriteVHDL(w io.Writer) error
}

// AdderFactory constructs adders of a given width.
type AdderFactory interface {
	NewAdder(width uint) Component
}

// PipelinedAdder computes R = X + Y + Cin over Width bits, splitting the carry
// chain into chunks of Chunk bits separated by registers.
type PipelinedAdder struct {
	Width uint
	Chunk uint
	delay float64
}

// Entity implementation for Component interface.
func (a *PipelinedAdder) Entity() string {
	return fmt.Sprintf("IntAdder_%d_c%d", a.Width, a.Chunk)
}

// Inputs implementation for Component interface.
func (a *PipelinedAdder) Inputs() []Port {
	return []Port{{"X", a.Width}, {"Y", a.Width}, {"Cin", 1}}
}

// Output implementation for Component interface.
func (a *PipelinedAdder) Output() Port {
	return Port{"R", a.Width}
}

// Latency implementation for Component interface.
func (a *PipelinedAdder) Latency() uint {
	return math.CeilDiv(a.Width, a.Chunk) - 1
}

// OutputDelay implementation for Component interface.
func (a *PipelinedAdder) OutputDelay() float64 {
	return a.delay
}

// Eval implementation for Component interface.
func (a *PipelinedAdder) Eval(inputs map[string]*big.Int) *big.Int {
	sum := new(big.Int).Add(inputs["X"], inputs["Y"])
	sum.Add(sum, inputs["Cin"])
	//
	return math.Truncate(sum, a.Width)
}

var adderTemplate = template.Must(template.New("adder").Parse(`
entity {{.Entity}} is
  port (clk : in std_logic;
        X : in std_logic_vector({{.Msb}} downto 0);
        Y : in std_logic_vector({{.Msb}} downto 0);
        Cin : in std_logic_vector(0 downto 0);
        R : out std_logic_vector({{.Msb}} downto 0));
end entity;

architecture arch of {{.Entity}} is
{{- range .Stages}}
  signal s{{.}} : std_logic_vector({{$.Msb}} downto 0);
{{- end}}
begin
  s0 <= std_logic_vector(unsigned(X) + unsigned(Y) + unsigned(Cin));
{{- if .Registers}}
  process(clk)
  begin
    if rising_edge(clk) then
{{- range .Registers}}
      s{{.}} <= s{{.Prev}};
{{- end}}
    end if;
  end process;
{{- end}}
  R <= s{{.Latency}};
end architecture;
`))

type adderRegister uint

func (r adderRegister) Prev() uint {
	return uint(r) - 1
}

// WriteVHDL implementation for Component interface.  The carry chain is
// described behaviourally and followed by the registers, leaving their
// placement to retiming.
func (a *PipelinedAdder) WriteVHDL(w io.Writer) error {
	var (
		stages    []uint
		registers []adderRegister
	)
	//
	for s := uint(0); s <= a.Latency(); s++ {
		stages = append(stages, s)
		//
		if s > 0 {
			registers = append(registers, adderRegister(s))
		}
	}
	//
	return adderTemplate.Execute(w, map[string]any{
		"Entity":    a.Entity(),
		"Msb":       a.Width - 1,
		"Stages":    stages,
		"Registers": registers,
		"Latency":   a.Latency(),
	})
}

// TargetAdders constructs pipelined adders whose chunks fit within the clock
// period of a target, after a register and a wire.
type TargetAdders struct {
	Target target.Target
}

// NewAdder implementation for AdderFactory interface.
func (f TargetAdders) NewAdder(width uint) Component {
	var (
		tgt    = f.Target
		period = tgt.ClockPeriod()
		budget = period - tgt.RegisterDelay() - tgt.WireDelay(1)
		chunk  = width
	)
	//
	if period > 0 {
		chunk = 1
		//
		for c := width; c > 1; c-- {
			if tgt.AdderDelay(c) <= budget {
				chunk = c
				break
			}
		}
	}
	//
	adder := &PipelinedAdder{Width: width, Chunk: chunk}
	last := width - chunk*(math.CeilDiv(width, chunk)-1)
	//
	if adder.Latency() == 0 {
		adder.delay = tgt.AdderDelay(width)
	} else {
		adder.delay = tgt.RegisterDelay() + tgt.WireDelay(1) + tgt.AdderDelay(last)
	}
	//
	return adder
}
