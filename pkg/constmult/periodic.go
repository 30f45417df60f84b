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

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/shiftadd"
	"github.com/consensys/go-constmult/pkg/util/math"
)

// MaxPeriodicExponent bounds I, since the constant has PeriodSize·2^I bits.
const MaxPeriodicExponent = 24

// PeriodicConstant describes a constant made of a repeated bit pattern, as
// found in the significands of rational constants.  The period occupies
// PeriodSize bits, of which the top PeriodMSBZeroes are zero and are not part
// of Period.  It is repeated 2^I times, or 2^I+2^J times when J is not
// negative.  An optional header of HeaderSize bits sits above the repetitions,
// overlapping the zeros of the topmost period.
type PeriodicConstant struct {
	Period          *big.Int
	PeriodMSBZeroes uint
	PeriodSize      uint
	Header          *big.Int
	HeaderSize      uint
	I               uint
	J               int
}

// Repetitions returns the number of times the period is repeated.
func (p PeriodicConstant) Repetitions() *big.Int {
	reps := math.Pow2(p.I)
	//
	if p.J >= 0 {
		reps.Add(reps, math.Pow2(uint(p.J)))
	}
	//
	return reps
}

// Value computes the constant described.
func (p PeriodicConstant) Value() *big.Int {
	var (
		reps  = p.Repetitions()
		ones  = math.Mask(uint(reps.Uint64()) * p.PeriodSize)
		value = new(big.Int).Mul(p.Period, ones)
	)
	// period * (2^(ps*reps) - 1) / (2^ps - 1)
	value.Quo(value, math.Mask(p.PeriodSize))
	//
	if p.Header != nil && p.Header.Sign() > 0 {
		top := new(big.Int).Lsh(p.Header, p.totalShift(reps))
		value.Add(value, top)
	}
	//
	return value
}

// Validate checks the description is consistent.
func (p PeriodicConstant) Validate() error {
	switch {
	case p.Period == nil || p.Period.Sign() <= 0:
		return shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "period must be positive")
	case p.PeriodMSBZeroes >= p.PeriodSize || math.BitLen(p.Period) > p.PeriodSize-p.PeriodMSBZeroes:
		return shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "period %s does not fit in %d bits with %d leading zeros",
			p.Period, p.PeriodSize, p.PeriodMSBZeroes)
	case p.I > MaxPeriodicExponent:
		return shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "i=%d exceeds %d", p.I, MaxPeriodicExponent)
	case p.J > int(p.I):
		return shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "j=%d must not exceed i=%d", p.J, p.I)
	case p.J < -1:
		return shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "j=%d must be at least -1", p.J)
	}
	//
	if p.Header != nil {
		if p.Header.Sign() < 0 || math.BitLen(p.Header) > p.HeaderSize {
			return shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "header %s does not fit in %d bits",
				p.Header, p.HeaderSize)
		}
	}
	//
	return nil
}

// Name returns the entity name of a multiplier by this constant.
func (p PeriodicConstant) Name(xsize uint) string {
	var (
		header = big.NewInt(0)
		period = new(big.Int).Lsh(p.Period, p.PeriodMSBZeroes)
		j      = fmt.Sprintf("%d", p.J)
	)
	//
	if p.Header != nil {
		header = p.Header
	}
	//
	if p.J < 0 {
		j = fmt.Sprintf("M%d", -p.J)
	}
	//
	return fmt.Sprintf("IntConstMultPeriodic_%d_%s_%d_%s_%d_%d_%s", xsize, header, p.HeaderSize, period,
		p.PeriodSize, p.I, j)
}

func (p PeriodicConstant) totalShift(reps *big.Int) uint {
	return uint(reps.Uint64())*p.PeriodSize - p.PeriodMSBZeroes
}

// NewPeriodic synthesises a multiplier by a periodic constant.  The period is
// built once, then doubled I times.
func NewPeriodic(cfg *config.Config, xsize uint, pc PeriodicConstant) (*IntConstMult, error) {
	opts, err := NewOptions(cfg)
	if err != nil {
		return nil, err
	}
	//
	dag, err := BuildPeriodic(pc, xsize)
	if err != nil {
		return nil, err
	}
	//
	n := pc.Value()
	log.Infof("building a periodic tree for %s", n)
	//
	return newMult(pc.Name(xsize), xsize, n, "periodic", dag, opts)
}

// BuildPeriodic constructs the tree of a periodic constant.
func BuildPeriodic(pc PeriodicConstant, xsize uint) (*shiftadd.Dag, error) {
	if err := pc.Validate(); err != nil {
		return nil, err
	} else if xsize == 0 {
		return nil, shiftadd.Errorf(shiftadd.InvalidInput, "periodic", "input width must be positive")
	}
	//
	dag, err := FromRight{}.Build(pc.Period, xsize)
	if err != nil {
		return nil, err
	}
	// powers[k] multiplies by 2^k repetitions of the period
	var (
		ps     = pc.PeriodSize
		zeros  = pc.PeriodMSBZeroes
		powers = []shiftadd.NodeID{dag.Result()}
		result shiftadd.NodeID
	)
	//
	for k := uint(1); k <= pc.I; k++ {
		prev := powers[k-1]
		powers = append(powers, dag.Provide(shiftadd.Add, prev, ps<<(k-1), prev))
	}
	//
	switch {
	case pc.Header == nil || pc.Header.Sign() == 0:
		if pc.J < 0 {
			result = powers[pc.I]
		} else {
			result = dag.Provide(shiftadd.Add, powers[pc.J], ps<<pc.I, powers[pc.I])
		}
	default:
		header, err := FromRight{}.Build(pc.Header, xsize)
		if err != nil {
			return nil, err
		}
		//
		h, err := dag.Append(header)
		if err != nil {
			return nil, err
		}
		//
		switch {
		case pc.J < 0:
			result = dag.Provide(shiftadd.Add, h, (ps<<pc.I)-zeros, powers[pc.I])
		case int(pc.I) == pc.J:
			next := dag.Provide(shiftadd.Add, powers[pc.I], ps<<pc.I, powers[pc.I])
			result = dag.Provide(shiftadd.Add, h, (ps<<(pc.I+1))-zeros, next)
		default:
			tmp := dag.Provide(shiftadd.Add, h, (ps<<pc.J)-zeros, powers[pc.J])
			result = dag.Provide(shiftadd.Add, tmp, ps<<pc.I, powers[pc.I])
		}
	}
	//
	dag.SetResult(result)
	//
	return dag, nil
}
