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
package shiftadd

import (
	"fmt"
	"strings"
)

// Describe renders the operation of a single node, such as "P3X<<2 + M1X".
func (p *Dag) Describe(id NodeID) string {
	var (
		n = &p.nodes[id]
		i string
		j string
	)
	//
	if n.I != NoNode {
		i = p.Name(n.I)
		if n.Shift > 0 {
			i = fmt.Sprintf("%s<<%d", i, n.Shift)
		}
	}
	//
	if n.J != NoNode {
		j = p.Name(n.J)
	}
	//
	switch n.Op {
	case Leaf:
		return "X"
	case Add:
		return fmt.Sprintf("%s + %s", i, j)
	case Sub:
		return fmt.Sprintf("%s - %s", i, j)
	case RSub:
		return fmt.Sprintf("%s - %s", j, i)
	case Shift:
		return i
	case Neg:
		return fmt.Sprintf("-%s", i)
	}
	//
	return n.Op.String()
}

// Show renders every live node of this Dag, one per line, operands first.
func (p *Dag) Show() string {
	var builder strings.Builder
	//
	for _, id := range p.Live() {
		n := &p.nodes[id]
		builder.WriteString(fmt.Sprintf("%s = %s [size=%d, cost=%d]\n", n.Name(), p.Describe(id), n.Size, n.Cost))
	}
	//
	for _, h := range p.Outputs() {
		builder.WriteString(fmt.Sprintf("=> %s<<%d\n", p.Name(h.Node), h.Shift))
	}
	//
	return builder.String()
}

func (p *Dag) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, h := range p.Outputs() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s<<%d", p.Name(h.Node), h.Shift))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
