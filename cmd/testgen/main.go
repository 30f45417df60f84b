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
	"math/rand"
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/go-constmult/pkg/config"
	"github.com/consensys/go-constmult/pkg/constmult"
	"github.com/consensys/go-constmult/pkg/util/math"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().UintP("width", "w", 8, "Input width")
	rootCmd.Flags().Uint("count", 8, "Number of random inputs")
	rootCmd.Flags().Int64("seed", 1, "Random seed")
	rootCmd.Flags().String("dir", "testdata", "Output directory")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen [flags] constant constant...",
	Short: "Test vector generation utility for go-constmult.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		width, _ := cmd.Flags().GetUint("width")
		count, _ := cmd.Flags().GetUint("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		dir, _ := cmd.Flags().GetString("dir")
		// Parse constants
		constants := make([]*big.Int, len(args))
		//
		for k, arg := range args {
			n, ok := new(big.Int).SetString(arg, 0)
			if !ok {
				log.Fatalf("invalid constant \"%s\"", arg)
			}
			//
			constants[k] = n
		}
		// Synthesise, so that the vectors carry the circuit's name
		mcm, err := constmult.NewMCM(config.Default(), width, constants)
		if err != nil {
			log.Fatal(err)
		}
		// Generate random inputs
		var (
			rng    = rand.New(rand.NewSource(seed))
			limit  = math.Pow2(width)
			inputs = make([]*big.Int, count)
		)
		//
		for k := range inputs {
			inputs[k] = new(big.Int).Rand(rng, limit)
		}
		// Write out
		filename := path.Join(dir, fmt.Sprintf("%s.json", mcm.Name()))
		//
		if err := constmult.WriteVectorFile(filename, constmult.NewVectorFile(mcm, inputs)); err != nil {
			log.Fatal(err)
		}
		//
		log.Infof("wrote %d vectors to %s", len(inputs)+len(mcm.StandardTestCases()), filename)
	},
}
