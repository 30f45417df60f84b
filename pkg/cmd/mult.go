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
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/go-constmult/pkg/constmult"
	"github.com/consensys/go-constmult/pkg/softmult"
)

var multCmd = &cobra.Command{
	Use:   "mult [flags] constant",
	Short: "synthesise a multiplier by a constant.",
	Long: `Synthesise a pipelined shift-and-add multiplier by a given
	non-negative constant, printing the selected tree and optionally
	its VHDL.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg   = getConfig(cmd)
			width = GetUint(cmd, "width")
			n     = parseConstants(args)[0]
		)
		//
		m, err := constmult.NewMult(cfg, width, n)
		exitOnError(err)
		//
		circuit, err := m.Netlist()
		exitOnError(err)
		//
		fmt.Printf("%s: %d bits x %s -> %d bits (%s)\n", m.Name(), width, n, m.RSize(), m.Heuristic())
		//
		if m.Dag() != nil {
			fmt.Print(m.Dag().Show())
		}
		//
		printCircuit(circuit)
		//
		if GetFlag(cmd, "tests") {
			printTestCases(m.StandardTestCases())
		}
		//
		if GetFlag(cmd, "software") {
			program, err := softmult.NewProgram(m.Dag())
			exitOnError(err)
			fmt.Print(program)
		}
		//
		if filename := GetString(cmd, "vhdl"); filename != "" {
			log.Debugf("writing %s", filename)
			writeCircuit(filename, circuit)
		}
	},
}

func printTestCases(cases []constmult.TestCase) {
	rows := [][]string{{"X", "R"}}
	//
	for _, tc := range cases {
		row := []string{tc.X.String()}
		//
		for _, e := range tc.Expected {
			row = append(row, e.String())
		}
		//
		rows = append(rows, row)
	}
	//
	printTable(rows)
}

func init() {
	rootCmd.AddCommand(multCmd)
	multCmd.Flags().String("vhdl", "", "write VHDL to the given file (or - for stdout)")
	multCmd.Flags().Bool("tests", false, "print standard test cases")
	multCmd.Flags().Bool("software", false, "print the equivalent 64-bit software multiplier")
}
