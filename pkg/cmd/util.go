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
	"math/big"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/constmult"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected int, or exits if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetFloat gets an expected float, or exits if an error arises.
func GetFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// getConfig reads the configuration file (if given), then applies any flags
// which override it.
func getConfig(cmd *cobra.Command) *config.Config {
	var (
		cfg = config.Default()
		err error
	)
	//
	if filename := GetString(cmd, "config"); filename != "" {
		cfg, err = config.Load(filename)
		exitOnError(err)
	}
	//
	flags := cmd.Flags()
	//
	if flags.Changed("target") {
		cfg.Target = GetString(cmd, "target")
	}
	//
	if flags.Changed("frequency") {
		cfg.FrequencyMHz = GetFloat(cmd, "frequency")
	}
	//
	if flags.Changed("priority") {
		cfg.Priority = GetString(cmd, "priority")
	}
	//
	if flags.Changed("combinatorial") {
		cfg.Pipeline = !GetFlag(cmd, "combinatorial")
	}
	//
	if flags.Changed("addchain") {
		cfg.AdditionChain = GetFlag(cmd, "addchain")
	}
	//
	if flags.Changed("heads") {
		cfg.HeadLevels = GetInt(cmd, "heads")
	}
	//
	exitOnError(cfg.Validate())
	//
	return cfg
}

// parseConstants parses a list of non-negative integer constants, given in
// decimal or with a 0x / 0b prefix.
func parseConstants(args []string) []*big.Int {
	constants := make([]*big.Int, len(args))
	//
	for k, arg := range args {
		n, ok := new(big.Int).SetString(arg, 0)
		if !ok {
			exitOnError(fmt.Errorf("invalid constant \"%s\"", arg))
		}
		//
		constants[k] = n
	}
	//
	return constants
}

// writeCircuit writes the VHDL of a circuit to a given file, or to stdout
// when the filename is "-".
func writeCircuit(filename string, circuit *constmult.Circuit) {
	if filename == "-" {
		exitOnError(circuit.Netlist.WriteVHDL(os.Stdout))
		return
	}
	//
	f, err := os.Create(filename)
	exitOnError(errors.Wrapf(err, "creating %s", filename))
	//
	defer f.Close()
	//
	exitOnError(errors.Wrapf(circuit.Netlist.WriteVHDL(f), "writing %s", filename))
}

// printCircuit summarises the schedule and outputs of a circuit.
func printCircuit(circuit *constmult.Circuit) {
	fmt.Printf("latency: %d stage(s)\n", circuit.Schedule.Latency)
	//
	for k, p := range circuit.Products {
		var outputs []string
		//
		for _, out := range p.Outputs {
			outputs = append(outputs, fmt.Sprintf("%s[%d]<<%d", out.Signal, out.Width, out.Offset))
		}
		//
		fmt.Printf("product %d (%d bits): %s\n", k, p.Width, strings.Join(outputs, " + "))
	}
}

// printTable prints rows in aligned columns, truncating the last column to
// the width of the terminal.
func printTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	//
	var (
		widths = make([]int, len(rows[0]))
		limit  = terminalWidth()
	)
	//
	for _, row := range rows {
		for k, cell := range row {
			widths[k] = max(widths[k], len(cell))
		}
	}
	//
	for _, row := range rows {
		var sb strings.Builder
		//
		for k, cell := range row {
			if k+1 < len(row) {
				sb.WriteString(fmt.Sprintf("%-*s  ", widths[k], cell))
			} else {
				sb.WriteString(cell)
			}
		}
		//
		line := sb.String()
		if len(line) > limit {
			line = line[:limit-3] + "..."
		}
		//
		fmt.Println(line)
	}
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 3 {
		return width
	}
	//
	return 130
}

func exitOnError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}
