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

	"github.com/spf13/cobra"

	"github.com/consensys/go-constmult/pkg/constmult"
)

var mcmCmd = &cobra.Command{
	Use:   "mcm [flags] constant constant...",
	Short: "synthesise a multiplier by several constants.",
	Long: `Synthesise a single circuit multiplying one input by several
	constants, sharing the adders common to their trees.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg       = getConfig(cmd)
			width     = GetUint(cmd, "width")
			constants = parseConstants(args)
		)
		//
		mcm, err := constmult.NewMCM(cfg, width, constants)
		exitOnError(err)
		//
		circuit, err := mcm.Netlist()
		exitOnError(err)
		//
		fmt.Printf("%s: %d constants over %d bits\n", mcm.Name(), len(constants), width)
		//
		if group := mcm.Group(); group != nil {
			cost, err := group.Cost()
			exitOnError(err)
			//
			fmt.Print(group.Dag().Show())
			fmt.Printf("nodes: %d, cost: %d\n", group.LiveCount(), cost)
		}
		//
		printCircuit(circuit)
		//
		if GetFlag(cmd, "tests") {
			printTestCases(mcm.StandardTestCases())
		}
		//
		if filename := GetString(cmd, "vhdl"); filename != "" {
			writeCircuit(filename, circuit)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcmCmd)
	mcmCmd.Flags().String("vhdl", "", "write VHDL to the given file (or - for stdout)")
	mcmCmd.Flags().Bool("tests", false, "print standard test cases")
}
