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
package main

import (
	"fmt"
	"math/big"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"

	"github.com/consensys/go-constmult/pkg/constmult"
	"github.com/consensys/go-constmult/pkg/softmult"
)

const copyrightHolder = "Consensys Software Inc."

// constants for which multiplication functions are generated.
var constants = []int64{3, 5, 10, 179, 1000}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-constmult")
	//
	var data mulData
	//
	for _, c := range constants {
		fn, err := newFunction(c)
		assertNoError(err, "for constant %d", c)
		//
		data.Functions = append(data.Functions, fn)
	}
	//
	assertNoError(bgen.Generate(data, "softmult", "templates",
		bavard.Entry{
			File:      "../../mul.go",
			Templates: []string{"mul.go.tmpl"},
		},
		bavard.Entry{
			File:      "../../mul_test.go",
			Templates: []string{"mul.test.go.tmpl"},
		},
	), "generating multipliers")
	// run gofmt on whole directory
	runCmd("gofmt", "-w", "../../")
}

type mulData struct {
	Functions []function
}

type function struct {
	Name     string
	Constant string
	Steps    []step
	Result   string
}

type step struct {
	Dst  string
	Expr string
}

// newFunction lowers the right-to-left Booth tree of a constant, which keeps
// the generated code independent of cost heuristics.
func newFunction(c int64) (function, error) {
	dag, err := constmult.FromRight{}.Build(big.NewInt(c), 64)
	if err != nil {
		return function{}, err
	}
	//
	program, err := softmult.NewProgram(dag)
	if err != nil {
		return function{}, err
	}
	//
	fn := function{
		Name:     fmt.Sprintf("Mul%d", c),
		Constant: fmt.Sprintf("%d", c),
		Result:   softmult.RegisterName(program.Result),
	}
	//
	for _, s := range program.Steps {
		fn.Steps = append(fn.Steps, step{softmult.RegisterName(s.Dst), s.Expr(softmult.RegisterName)})
	}
	//
	return fn, nil
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
