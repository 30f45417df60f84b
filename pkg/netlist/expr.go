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
	"strings"

	"github.com/consensys/go-constmult/pkg/util/math"
)

// Env provides the (unsigned) value of each signal during simulation.
type Env func(name string) *big.Int

// Renamer maps a signal name to the name it should be read under, for example
// a delayed copy of the signal.
type Renamer func(name string) string

// Expr is a bit-vector expression of fixed width.  Expressions are evaluated
// modulo 2^Width.
type Expr interface {
	// Width returns the number of bits of this expression.
	Width() uint
	// Eval computes the unsigned value of this expression.
	Eval(env Env) *big.Int
	// VHDL renders this expression as a std_logic_vector.
	VHDL(rename Renamer) string
	// Signals calls fn on every signal read by this expression.
	Signals(fn func(name string))
}

// Ref selects the bits Hi down to Lo of a signal.
type Ref struct {
	Name   string
	Hi, Lo uint
}

// Slice constructs a reference to bits hi down to lo of a signal.
func Slice(name string, hi, lo uint) Ref {
	if hi < lo {
		panic(fmt.Sprintf("invalid slice %s(%d downto %d)", name, hi, lo))
	}
	//
	return Ref{name, hi, lo}
}

// Whole constructs a reference to every bit of a signal of the given width.
func Whole(name string, width uint) Ref {
	return Slice(name, width-1, 0)
}

// Width implementation for Expr interface.
func (e Ref) Width() uint {
	return e.Hi - e.Lo + 1
}

// Eval implementation for Expr interface.
func (e Ref) Eval(env Env) *big.Int {
	v := new(big.Int).Rsh(env(e.Name), e.Lo)
	return math.Truncate(v, e.Width())
}

// VHDL implementation for Expr interface.
func (e Ref) VHDL(rename Renamer) string {
	return fmt.Sprintf("%s(%d downto %d)", rename(e.Name), e.Hi, e.Lo)
}

// Signals implementation for Expr interface.
func (e Ref) Signals(fn func(name string)) {
	fn(e.Name)
}

// Const is a literal bit vector.
type Const struct {
	Value *big.Int
	W     uint
}

// Zeros constructs a vector of w zero bits.
func Zeros(w uint) Const {
	return Const{new(big.Int), w}
}

// Width implementation for Expr interface.
func (e Const) Width() uint {
	return e.W
}

// Eval implementation for Expr interface.
func (e Const) Eval(env Env) *big.Int {
	return math.Truncate(e.Value, e.W)
}

// VHDL implementation for Expr interface.
func (e Const) VHDL(rename Renamer) string {
	var (
		builder strings.Builder
		v       = math.Truncate(e.Value, e.W)
	)
	//
	builder.WriteByte('"')
	//
	for i := int(e.W) - 1; i >= 0; i-- {
		builder.WriteByte(byte('0' + v.Bit(i)))
	}
	//
	builder.WriteByte('"')
	//
	return builder.String()
}

// Signals implementation for Expr interface.
func (e Const) Signals(fn func(name string)) {}

// Concat joins expressions, most significant first.
type Concat []Expr

// Cat concatenates the given expressions, most significant first, omitting any
// of zero width.  A single remaining part is returned as is.
func Cat(parts ...Expr) Expr {
	var nonempty Concat
	//
	for _, p := range parts {
		if p != nil && p.Width() > 0 {
			nonempty = append(nonempty, p)
		}
	}
	//
	switch len(nonempty) {
	case 0:
		return Zeros(0)
	case 1:
		return nonempty[0]
	}
	//
	return nonempty
}

// Width implementation for Expr interface.
func (e Concat) Width() uint {
	var w uint
	//
	for _, p := range e {
		w += p.Width()
	}
	//
	return w
}

// Eval implementation for Expr interface.
func (e Concat) Eval(env Env) *big.Int {
	v := new(big.Int)
	//
	for _, p := range e {
		v.Lsh(v, p.Width())
		v.Or(v, p.Eval(env))
	}
	//
	return v
}

// VHDL implementation for Expr interface.
func (e Concat) VHDL(rename Renamer) string {
	parts := make([]string, len(e))
	//
	for i, p := range e {
		parts[i] = p.VHDL(rename)
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(parts, " & "))
}

// Signals implementation for Expr interface.
func (e Concat) Signals(fn func(name string)) {
	for _, p := range e {
		p.Signals(fn)
	}
}

// Repeat replicates a single bit of a signal, as used for sign extension.
type Repeat struct {
	Bit   Ref
	Count uint
}

// Width implementation for Expr interface.
func (e Repeat) Width() uint {
	return e.Count
}

// Eval implementation for Expr interface.
func (e Repeat) Eval(env Env) *big.Int {
	if e.Bit.Eval(env).Sign() == 0 {
		return new(big.Int)
	}
	//
	return math.Mask(e.Count)
}

// VHDL implementation for Expr interface.
func (e Repeat) VHDL(rename Renamer) string {
	return fmt.Sprintf("(%d downto 0 => %s(%d))", e.Count-1, rename(e.Bit.Name), e.Bit.Lo)
}

// Signals implementation for Expr interface.
func (e Repeat) Signals(fn func(name string)) {
	fn(e.Bit.Name)
}

// Sum adds two expressions of equal width, discarding the carry out.
type Sum struct {
	X, Y Expr
}

// Width implementation for Expr interface.
func (e Sum) Width() uint {
	return e.X.Width()
}

// Eval implementation for Expr interface.
func (e Sum) Eval(env Env) *big.Int {
	v := new(big.Int).Add(e.X.Eval(env), e.Y.Eval(env))
	return math.Truncate(v, e.Width())
}

// VHDL implementation for Expr interface.
func (e Sum) VHDL(rename Renamer) string {
	return fmt.Sprintf("std_logic_vector(unsigned(%s) + unsigned(%s))", e.X.VHDL(rename), e.Y.VHDL(rename))
}

// Signals implementation for Expr interface.
func (e Sum) Signals(fn func(name string)) {
	e.X.Signals(fn)
	e.Y.Signals(fn)
}

// Difference subtracts two expressions of equal width, modulo 2^width.
type Difference struct {
	X, Y Expr
}

// Width implementation for Expr interface.
func (e Difference) Width() uint {
	return e.X.Width()
}

// Eval implementation for Expr interface.
func (e Difference) Eval(env Env) *big.Int {
	v := new(big.Int).Sub(e.X.Eval(env), e.Y.Eval(env))
	return math.Truncate(v, e.Width())
}

// VHDL implementation for Expr interface.
func (e Difference) VHDL(rename Renamer) string {
	return fmt.Sprintf("std_logic_vector(unsigned(%s) - unsigned(%s))", e.X.VHDL(rename), e.Y.VHDL(rename))
}

// Signals implementation for Expr interface.
func (e Difference) Signals(fn func(name string)) {
	e.X.Signals(fn)
	e.Y.Signals(fn)
}

// Not complements every bit of an expression.
type Not struct {
	X Expr
}

// Width implementation for Expr interface.
func (e Not) Width() uint {
	return e.X.Width()
}

// Eval implementation for Expr interface.
func (e Not) Eval(env Env) *big.Int {
	return new(big.Int).Xor(e.X.Eval(env), math.Mask(e.Width()))
}

// VHDL implementation for Expr interface.
func (e Not) VHDL(rename Renamer) string {
	return fmt.Sprintf("(not %s)", e.X.VHDL(rename))
}

// Signals implementation for Expr interface.
func (e Not) Signals(fn func(name string)) {
	e.X.Signals(fn)
}

// checkExpr ensures the operands of every arithmetic operation have matching
// widths.
func checkExpr(e Expr) error {
	switch e := e.(type) {
	case Concat:
		for _, p := range e {
			if err := checkExpr(p); err != nil {
				return err
			}
		}
	case Sum:
		return checkOperands(e.X, e.Y)
	case Difference:
		return checkOperands(e.X, e.Y)
	case Not:
		return checkExpr(e.X)
	case Repeat:
		if e.Bit.Width() != 1 {
			return fmt.Errorf("cannot repeat %d bits", e.Bit.Width())
		}
	}
	//
	return nil
}

func checkOperands(x, y Expr) error {
	if x.Width() != y.Width() {
		return fmt.Errorf("operand widths differ (%d vs %d)", x.Width(), y.Width())
	} else if err := checkExpr(x); err != nil {
		return err
	}
	//
	return checkExpr(y)
}
