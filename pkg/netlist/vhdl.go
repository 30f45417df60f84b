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
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

const vhdlPreamble = `library ieee;
use ieee.std_logic_1164.all;
use ieee.numeric_std.all;
`

// WriteVHDL renders this netlist as a VHDL entity, preceded by the entities of
// the components it instantiates.  A signal read at a later stage than the one
// it was declared in is read through a chain of registers.
func (p *Netlist) WriteVHDL(w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	//
	var (
		out    = bufio.NewWriter(w)
		delays = p.delays()
	)
	// Components first
	written := make(map[string]bool)
	//
	for _, inst := range p.instances {
		entity := inst.Component.Entity()
		//
		if !written[entity] {
			written[entity] = true
			//
			out.WriteString(vhdlPreamble)
			//
			if err := inst.Component.WriteVHDL(out); err != nil {
				return err
			}
			//
			out.WriteString("\n")
		}
	}
	//
	out.WriteString(vhdlPreamble)
	out.WriteString(fmt.Sprintf("\nentity %s is\n  port (clk : in std_logic", p.name))
	//
	for _, s := range p.signals {
		switch s.Kind {
		case Input:
			out.WriteString(fmt.Sprintf(";\n        %s : in %s", s.Name, vector(s.Width)))
		case Output:
			out.WriteString(fmt.Sprintf(";\n        %s : out %s", s.Name, vector(s.Width)))
		}
	}
	//
	out.WriteString(");\nend entity;\n\n")
	out.WriteString(fmt.Sprintf("architecture arch of %s is\n", p.name))
	// Declarations
	for _, s := range p.signals {
		if s.Kind == Wire {
			out.WriteString(fmt.Sprintf("  signal %s : %s;\n", s.Name, vector(s.Width)))
		}
		//
		for d := uint(1); d <= delays[s.Name]; d++ {
			out.WriteString(fmt.Sprintf("  signal %s : %s;\n", delayed(s.Name, d), vector(s.Width)))
		}
	}
	//
	for _, inst := range p.instances {
		for _, port := range inst.Component.Inputs() {
			out.WriteString(fmt.Sprintf("  signal %s_%s : %s;\n", inst.Name, port.Name, vector(port.Width)))
		}
	}
	//
	out.WriteString("begin\n")
	p.writeRegisters(out, delays)
	// Assignments
	for _, s := range p.signals {
		if s.Driver != nil {
			p.writeInstance(out, s.Driver)
		} else if s.Value != nil {
			out.WriteString(fmt.Sprintf("  %s <= %s;\n", s.Name, s.Value.VHDL(p.renamer(s.Stage))))
		}
	}
	//
	out.WriteString("end architecture;\n")
	//
	return out.Flush()
}

func (p *Netlist) writeRegisters(out *bufio.Writer, delays map[string]uint) {
	var names []string
	//
	for _, s := range p.signals {
		if delays[s.Name] > 0 {
			names = append(names, s.Name)
		}
	}
	//
	if len(names) == 0 {
		return
	}
	//
	out.WriteString("  process(clk)\n  begin\n    if rising_edge(clk) then\n")
	//
	for _, name := range names {
		prev := name
		//
		for d := uint(1); d <= delays[name]; d++ {
			out.WriteString(fmt.Sprintf("      %s <= %s;\n", delayed(name, d), prev))
			prev = delayed(name, d)
		}
	}
	//
	out.WriteString("    end if;\n  end process;\n")
}

func (p *Netlist) writeInstance(out *bufio.Writer, inst *Instance) {
	var (
		ports  = inst.Component.Inputs()
		rename = p.renamer(inst.Stage)
		args   []string
	)
	//
	for _, port := range ports {
		actual := fmt.Sprintf("%s_%s", inst.Name, port.Name)
		out.WriteString(fmt.Sprintf("  %s <= %s;\n", actual, inst.Inputs[port.Name].VHDL(rename)))
		args = append(args, fmt.Sprintf("%s => %s", port.Name, actual))
	}
	//
	args = append(args, fmt.Sprintf("%s => %s", inst.Component.Output().Name, inst.Output))
	out.WriteString(fmt.Sprintf("  %s: entity work.%s\n    port map (clk => clk, %s);\n",
		inst.Name, inst.Component.Entity(), strings.Join(args, ", ")))
}

// delays determines, for each signal, the largest number of stages between
// its declaration and any of its reads.
func (p *Netlist) delays() map[string]uint {
	delays := make(map[string]uint)
	//
	note := func(stage uint) func(string) {
		return func(name string) {
			if s := p.index[name]; stage > s.Stage {
				delays[name] = max(delays[name], stage-s.Stage)
			}
		}
	}
	//
	for _, s := range p.signals {
		if s.Driver != nil {
			for _, e := range s.Driver.Inputs {
				e.Signals(note(s.Driver.Stage))
			}
		} else if s.Value != nil {
			s.Value.Signals(note(s.Stage))
		}
	}
	//
	return delays
}

func (p *Netlist) renamer(stage uint) Renamer {
	return func(name string) string {
		if s := p.index[name]; stage > s.Stage {
			return delayed(name, stage-s.Stage)
		}
		//
		return name
	}
}

func delayed(name string, d uint) string {
	return fmt.Sprintf("%s_d%d", name, d)
}

func vector(width uint) string {
	return fmt.Sprintf("std_logic_vector(%d downto 0)", width-1)
}

// SignalNames returns the names of every signal of a given kind, sorted.
func (p *Netlist) SignalNames(kind SignalKind) []string {
	var names []string
	//
	for _, s := range p.signals {
		if s.Kind == kind {
			names = append(names, s.Name)
		}
	}
	//
	slices.Sort(names)
	//
	return names
}
