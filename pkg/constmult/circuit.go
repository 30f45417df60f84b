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

	"github.com/consensys/go-constmult/pkg/metrics"
	"github.com/consensys/go-constmult/pkg/netlist"
	"github.com/consensys/go-constmult/pkg/pipeline"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// Output describes one output port of a circuit.  The product it contributes
// to is the sum of its outputs, each shifted by its offset.
type Output struct {
	Signal string
	Width  uint
	Offset uint
	Signed bool
}

// Product groups the outputs computing the product by one constant, modulo
// 2^Width.
type Product struct {
	Width   uint
	Outputs []Output
}

// Circuit is a scheduled multiplier.
type Circuit struct {
	Netlist  *netlist.Netlist
	Schedule *pipeline.Result
	Products []Product
}

// Simulate computes the product by each constant for a given input, by
// simulating the netlist and summing the outputs of each product.
func (c *Circuit) Simulate(x *big.Int) ([]*big.Int, error) {
	values, err := c.Netlist.Simulate(map[string]*big.Int{"X": x})
	if err != nil {
		return nil, err
	}
	//
	results := make([]*big.Int, len(c.Products))
	//
	for k, p := range c.Products {
		var (
			sum  big.Int
			term big.Int
		)
		//
		for _, out := range p.Outputs {
			v := values[out.Signal]
			//
			if out.Signed {
				v = math.ToSigned(v, out.Width)
			}
			//
			sum.Add(&sum, term.Lsh(v, out.Offset))
		}
		//
		results[k] = math.Truncate(&sum, p.Width)
	}
	//
	return results, nil
}

// product is the part of a circuit to emit for one constant.
type product struct {
	name  string
	width uint
	heads []shiftadd.Head
}

// emit schedules the heads of every product, then assigns the output ports at
// the final stage.  A product without heads is the constant zero.  With
// several heads, each head becomes an output of its own.
func emit(name string, xsize uint, dag *shiftadd.Dag, products []product, opts Options) (*Circuit, error) {
	var (
		nl      = netlist.New(name)
		sched   *pipeline.Scheduler
		circuit = &Circuit{Netlist: nl}
	)
	//
	if err := nl.AddInput("X", xsize); err != nil {
		return nil, err
	}
	//
	if dag != nil {
		sched = pipeline.NewScheduler(dag, nl, opts.Target, netlist.TargetAdders{Target: opts.Target},
			pipeline.Options{Pipelined: opts.Pipelined})
		//
		for _, p := range products {
			for _, h := range p.heads {
				if _, err := sched.Emit(h.Node); err != nil {
					return nil, err
				}
			}
		}
		//
		circuit.Schedule = sched.Result()
	} else {
		circuit.Schedule = &pipeline.Result{Slots: make(map[shiftadd.NodeID]pipeline.Slot)}
	}
	//
	nl.SetStage(circuit.Schedule.Latency)
	//
	for _, p := range products {
		outputs, err := emitProduct(nl, dag, p)
		if err != nil {
			return nil, err
		}
		//
		circuit.Products = append(circuit.Products, Product{p.width, outputs})
	}
	//
	metrics.PipelineStages.Set(float64(circuit.Schedule.Latency))
	//
	return circuit, nil
}

func emitProduct(nl *netlist.Netlist, dag *shiftadd.Dag, p product) ([]Output, error) {
	switch len(p.heads) {
	case 0:
		return []Output{{p.name, 1, 0, false}}, nl.Assign(p.name, 1, netlist.Zeros(1))
	case 1:
		var (
			h     = p.heads[0]
			n     = dag.Node(h.Node)
			value = netlist.ShiftedField(n.Name(), n.Size, n.Signed(), h.Shift, 0, p.width)
		)
		//
		return []Output{{p.name, p.width, 0, false}}, nl.Assign(p.name, p.width, value)
	}
	//
	outputs := make([]Output, len(p.heads))
	//
	for k, h := range p.heads {
		var (
			n      = dag.Node(h.Node)
			signal = fmt.Sprintf("%s_%d", p.name, k)
		)
		//
		if err := nl.Assign(signal, n.Size, netlist.Whole(n.Name(), n.Size)); err != nil {
			return nil, err
		}
		//
		outputs[k] = Output{signal, n.Size, h.Shift, n.Signed()}
	}
	//
	return outputs, nil
}
