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
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
)

// VectorFile holds test vectors for multiplying inputs of a given width by
// several constants.  For example, {"width": 4, "constants": [3], "vectors":
// [{"x": 5, "products": [15]}]} holds a single vector.
type VectorFile struct {
	Width     uint       `json:"width"`
	Constants []*big.Int `json:"constants"`
	Vectors   []Vector   `json:"vectors"`
}

// Vector pairs an input with the product by each constant.
type Vector struct {
	X        *big.Int   `json:"x"`
	Products []*big.Int `json:"products"`
}

// NewVectorFile computes the vectors of a multiplier for its standard test
// cases, followed by the given inputs.
func NewVectorFile(m *IntConstMCM, inputs []*big.Int) *VectorFile {
	file := &VectorFile{Width: m.xsize, Constants: m.Constants()}
	//
	for _, tc := range m.StandardTestCases() {
		file.Vectors = append(file.Vectors, Vector{tc.X, tc.Expected})
	}
	//
	for _, x := range inputs {
		file.Vectors = append(file.Vectors, Vector{x, m.Emulate(x)})
	}
	//
	return file
}

// ReadVectorFile reads test vectors in JSON notation.
func ReadVectorFile(filename string) (*VectorFile, error) {
	var file VectorFile
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	} else if err = json.Unmarshal(bytes, &file); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	//
	for k, v := range file.Vectors {
		if v.X == nil || len(v.Products) != len(file.Constants) {
			return nil, fmt.Errorf("%s: vector %d is malformed", filename, k)
		}
	}
	//
	return &file, nil
}

// WriteVectorFile writes test vectors in JSON notation.
func WriteVectorFile(filename string, file *VectorFile) error {
	bytes, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	//
	return errors.Wrapf(os.WriteFile(filename, append(bytes, '\n'), 0644), "writing %s", filename)
}

// TestCases converts these vectors into test cases.
func (f *VectorFile) TestCases() []TestCase {
	cases := make([]TestCase, len(f.Vectors))
	//
	for k, v := range f.Vectors {
		cases[k] = TestCase{v.X, v.Products}
	}
	//
	return cases
}
