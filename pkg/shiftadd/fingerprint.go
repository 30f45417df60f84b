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
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/consensys/go-constmult/pkg/util/math"
)

// Fingerprint evaluates a node over the scalar field of BLS12-377 at a given
// point.  Two nodes computing different constants (below the field modulus)
// agree on a random point with negligible probability.
func (p *Dag) Fingerprint(id NodeID, r *fr.Element) fr.Element {
	values := make([]fr.Element, len(p.nodes))
	//
	for _, k := range p.PostOrder(id) {
		var (
			n = &p.nodes[k]
			v = &values[k]
		)
		//
		switch n.Op {
		case Leaf:
			v.Set(r)
		case Add:
			v.Add(shiftElement(&values[n.I], n.Shift), &values[n.J])
		case Sub:
			v.Sub(shiftElement(&values[n.I], n.Shift), &values[n.J])
		case RSub:
			v.Sub(&values[n.J], shiftElement(&values[n.I], n.Shift))
		case Shift:
			v.Set(shiftElement(&values[n.I], n.Shift))
		case Neg:
			v.Neg(&values[n.I])
		}
	}
	//
	return values[id]
}

// Verify checks that the outputs of this Dag compute the expected constant by
// comparing fingerprints at a random point.
func (p *Dag) Verify(expected *big.Int) error {
	return p.VerifyHeads(p.Outputs(), expected)
}

// VerifyHeads checks that the sum of the given (shifted) heads computes the
// expected constant.
func (p *Dag) VerifyHeads(heads []Head, expected *big.Int) error {
	var (
		r        fr.Element
		actual   fr.Element
		constant fr.Element
	)
	//
	if _, err := r.SetRandom(); err != nil {
		return err
	}
	//
	for _, h := range heads {
		fp := p.Fingerprint(h.Node, &r)
		actual.Add(&actual, shiftElement(&fp, h.Shift))
	}
	//
	constant.SetBigInt(expected)
	constant.Mul(&constant, &r)
	//
	if !actual.Equal(&constant) {
		return Errorf(InternalInconsistency, "verify", "outputs do not compute %s", expected)
	}
	//
	return nil
}

// shiftElement returns e * 2^s.
func shiftElement(e *fr.Element, s uint) *fr.Element {
	var (
		pow fr.Element
		res fr.Element
	)
	//
	pow.SetBigInt(math.Pow2(s))
	res.Mul(e, &pow)
	//
	return &res
}
