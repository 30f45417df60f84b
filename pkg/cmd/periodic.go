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

	"github.com/spf13/cobra"

	"github.com/consensys/go-constmult/pkg/constmult"
)

var periodicCmd = &cobra.Command{
	Use:   "periodic [flags]",
	Short: "synthesise a multiplier by a periodic constant.",
	Long: `Synthesise a multiplier by a constant made of a repeated bit
	pattern, optionally topped by a header.  The period is repeated 2^i
	times, or 2^i+2^j times when j is not negative.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg   = getConfig(cmd)
			width = GetUint(cmd, "width")
			pc    = constmult.PeriodicConstant{
				Period:          parseConstants([]string{GetString(cmd, "period")})[0],
				PeriodMSBZeroes: GetUint(cmd, "period-zeros"),
				PeriodSize:      GetUint(cmd, "period-size"),
				Header:          parseConstants([]string{GetString(cmd, "header")})[0],
				HeaderSize:      GetUint(cmd, "header-size"),
				I:               GetUint(cmd, "i"),
				J:               GetInt(cmd, "j"),
			}
		)
		//
		m, err := constmult.NewPeriodic(cfg, width, pc)
		exitOnError(err)
		//
		circuit, err := m.Netlist()
		exitOnError(err)
		//
		fmt.Printf("%s: %d bits x %s -> %d bits\n", m.Name(), width, m.Constant(), m.RSize())
		fmt.Print(m.Dag().Show())
		printCircuit(circuit)
		//
		if filename := GetString(cmd, "vhdl"); filename != "" {
			writeCircuit(filename, circuit)
		}
	},
}

func init() {
	rootCmd.AddCommand(periodicCmd)
	periodicCmd.Flags().String("period", "1", "the repeated pattern, without its leading zeros")
	periodicCmd.Flags().Uint("period-zeros", 0, "the number of leading zeros in each period")
	periodicCmd.Flags().Uint("period-size", 1, "the width of each period, including its leading zeros")
	periodicCmd.Flags().String("header", "0", "the header above the repetitions")
	periodicCmd.Flags().Uint("header-size", 0, "the width of the header")
	periodicCmd.Flags().Uint("i", 0, "repeat the period 2^i times")
	periodicCmd.Flags().Int("j", -1, "additionally repeat the period 2^j times (when not negative)")
	periodicCmd.Flags().String("vhdl", "", "write VHDL to the given file (or - for stdout)")
}
