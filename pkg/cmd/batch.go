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
	"golang.org/x/sync/errgroup"

	"github.com/consensys/go-constmult/pkg/constmult"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] constant constant...",
	Short: "synthesise independent multipliers for several constants.",
	Long: `Synthesise a separate multiplier for each constant, concurrently,
	and report their costs in the order given.`,
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
			results   = make([]*constmult.IntConstMult, len(constants))
			circuits  = make([]*constmult.Circuit, len(constants))
			group     errgroup.Group
		)
		//
		group.SetLimit(max(1, int(GetUint(cmd, "jobs"))))
		//
		for k, n := range constants {
			group.Go(func() error {
				m, err := constmult.NewMult(cfg, width, n)
				if err != nil {
					return err
				}
				//
				circuit, err := m.Netlist()
				if err != nil {
					return err
				}
				//
				results[k], circuits[k] = m, circuit
				//
				return nil
			})
		}
		//
		exitOnError(group.Wait())
		//
		rows := [][]string{{"constant", "heuristic", "cost", "depth", "latency", "tree"}}
		//
		for k, m := range results {
			row := []string{m.Constant().String(), m.Heuristic(), "0", "0",
				fmt.Sprintf("%d", circuits[k].Schedule.Latency), "0"}
			//
			if dag := m.Dag(); dag != nil {
				cost, _ := dag.OutputCost()
				depth, _ := dag.OutputDepth()
				row[2], row[3], row[5] = fmt.Sprintf("%d", cost), fmt.Sprintf("%d", depth), dag.String()
			}
			//
			rows = append(rows, row)
		}
		//
		printTable(rows)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Uint("jobs", 4, "the maximum number of constants synthesised at once")
}
