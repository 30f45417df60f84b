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
package softmult

import (
	"fmt"
	"strings"

	"github.com/consensys/go-constmult/pkg/shiftadd"
)

// Step computes register Dst from registers A and B.  Register 0 holds the
// input.
type Step struct {
	Dst   int
	Op    shiftadd.OpType
	A     int
	Shift uint
	B     int
}

// Expr renders the right-hand side of this step as a Go expression, given the
// names of registers.
func (s Step) Expr(reg func(int) string) string {
	a := reg(s.A)
	//
	switch s.Op {
	case shiftadd.Add:
		return fmt.Sprintf("%s + %s", shifted(a, s.Shift), reg(s.B))
	case shiftadd.Sub:
		return fmt.Sprintf("%s - %s", shifted(a, s.Shift), reg(s.B))
	case shiftadd.RSub:
		return fmt.Sprintf("%s - %s", reg(s.B), shifted(a, s.Shift))
	case shiftadd.Shift:
		return fmt.Sprintf("%s << %d", a, s.Shift)
	case shiftadd.Neg:
		return "-" + a
	}
	//
	panic(fmt.Sprintf("unknown operation %s", s.Op))
}

func shifted(a string, shift uint) string {
	if shift == 0 {
		return a
	}
	//
	return fmt.Sprintf("(%s << %d)", a, shift)
}

// Program is a straight-line lowering of a Dag onto 64-bit registers.  It
// computes the same product as the Dag, modulo 2^64.
type Program struct {
	Steps []Step
	// Result is the register holding the product, or -1 when the constant
	// is zero.
	Result int
}

// NewProgram lowers the outputs of a Dag into a sequence of steps, one per
// live node.  When the Dag has several heads, they are summed.  A nil Dag
// stands for the zero constant.
func NewProgram(dag *shiftadd.Dag) (*Program, error) {
	var (
		program   = &Program{Result: -1}
		registers = make(map[shiftadd.NodeID]int)
	)
	//
	if dag == nil || len(dag.Outputs()) == 0 {
		return program, nil
	}
	//
	for _, id := range dag.Live() {
		n := dag.Node(id)
		//
		switch {
		case n.Op == shiftadd.Leaf:
			registers[id] = 0
			continue
		case n.Op.Binary():
			program.emit(n.Op, registers[n.I], n.Shift, registers[n.J])
		case n.Op == shiftadd.Shift || n.Op == shiftadd.Neg:
			program.emit(n.Op, registers[n.I], n.Shift, -1)
		default:
			return nil, shiftadd.Errorf(shiftadd.UnsupportedCombination, "softmult", "unknown operation %s", n.Op)
		}
		//
		registers[id] = len(program.Steps)
	}
	//
	for k, h := range dag.Outputs() {
		switch {
		case k > 0:
			program.emit(shiftadd.Add, registers[h.Node], h.Shift, program.Result)
		case h.Shift > 0:
			program.emit(shiftadd.Shift, registers[h.Node], h.Shift, -1)
		default:
			program.Result = registers[h.Node]
			continue
		}
		//
		program.Result = len(program.Steps)
	}
	//
	return program, nil
}

func (p *Program) emit(op shiftadd.OpType, a int, shift uint, b int) {
	p.Steps = append(p.Steps, Step{len(p.Steps) + 1, op, a, shift, b})
}

// Registers returns the number of registers used, including the input.
func (p *Program) Registers() int {
	return len(p.Steps) + 1
}

// Run interprets this program on a given input.
func (p *Program) Run(x uint64) uint64 {
	if p.Result < 0 {
		return 0
	}
	//
	regs := make([]uint64, p.Registers())
	regs[0] = x
	//
	for _, s := range p.Steps {
		var (
			a = regs[s.A]
			v uint64
		)
		//
		switch s.Op {
		case shiftadd.Add:
			v = a<<s.Shift + regs[s.B]
		case shiftadd.Sub:
			v = a<<s.Shift - regs[s.B]
		case shiftadd.RSub:
			v = regs[s.B] - a<<s.Shift
		case shiftadd.Shift:
			v = a << s.Shift
		case shiftadd.Neg:
			v = -a
		}
		//
		regs[s.Dst] = v
	}
	//
	return regs[p.Result]
}

// RegisterName names register 0 "x", and any other register k "tk".
func RegisterName(k int) string {
	if k == 0 {
		return "x"
	}
	//
	return fmt.Sprintf("t%d", k)
}

func (p *Program) String() string {
	var sb strings.Builder
	//
	for _, s := range p.Steps {
		sb.WriteString(fmt.Sprintf("%s := %s\n", RegisterName(s.Dst), s.Expr(RegisterName)))
	}
	//
	if p.Result < 0 {
		sb.WriteString("return 0\n")
	} else {
		sb.WriteString(fmt.Sprintf("return %s\n", RegisterName(p.Result)))
	}
	//
	return sb.String()
}
