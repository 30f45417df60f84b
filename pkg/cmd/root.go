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
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/go-constmult/pkg/metrics"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// registry collects metrics when --metrics is given.
var registry *prometheus.Registry

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "go-constmult",
	Short: "A generator of constant multipliers.",
	Long:  "A generator of shift-and-add multipliers by integer constants, for FPGA pipelines.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if GetFlag(cmd, "metrics") {
			registry = prometheus.NewRegistry()
			//
			if err := metrics.Register(registry); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if registry != nil {
			if err := metrics.Dump(registry, os.Stdout); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("go-constmult ")
			if Version != "" {
				// Built via "make"
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Printf("%s", info.Main.Version)
			} else {
				// Unknown, perhaps "go run"
				fmt.Printf("(unknown version)")
			}
			fmt.Println()
		} else {
			fmt.Println(cmd.UsageString())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("config", "", "read configuration from a YAML file")
	rootCmd.PersistentFlags().String("target", "", "set the target (e.g. generic, zynq7000, virtex6, kintex7)")
	rootCmd.PersistentFlags().Float64("frequency", 0, "set the target frequency (MHz)")
	rootCmd.PersistentFlags().String("priority", "", "optimise for combined, area or latency")
	rootCmd.PersistentFlags().Bool("combinatorial", false, "disable pipelining")
	rootCmd.PersistentFlags().Bool("addchain", false, "also try addition chains")
	rootCmd.PersistentFlags().Int("heads", -1, "produce a multi-head output after the given number of rounds")
	rootCmd.PersistentFlags().Bool("metrics", false, "print synthesis metrics on completion")
	rootCmd.PersistentFlags().UintP("width", "w", 8, "set the input width")
}
