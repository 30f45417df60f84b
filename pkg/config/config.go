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
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/consensys/go-constmult/pkg/target"
)

// DefaultHeuristics lists the tree builders tried for every constant, in the
// order used for breaking ties.
var DefaultHeuristics = []string{"right", "left", "balanced", "euclid", "shifts"}

// Config gathers the settings of a synthesis run.
type Config struct {
	// Target names either a preset, or one of Targets.
	Target string `yaml:"target"`
	// FrequencyMHz overrides the frequency of the target, when positive.
	FrequencyMHz float64 `yaml:"frequency"`
	// Pipeline enables the insertion of registers.
	Pipeline bool `yaml:"pipeline"`
	// Priority is one of "combined", "area" or "latency".
	Priority string `yaml:"priority"`
	// Heuristics lists the tree builders to try.
	Heuristics []string `yaml:"heuristics"`
	// AdditionChain adds the addition-chain builder to the heuristics.
	AdditionChain bool `yaml:"additionChain"`
	// HeadLevels selects multi-head output, after the given number of
	// reduction rounds.  A negative value gives a single result.
	HeadLevels int `yaml:"headLevels"`
	// Targets defines additional targets.
	Targets []target.Model `yaml:"targets"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Target:     target.Generic.Name,
		Pipeline:   true,
		Priority:   "combined",
		Heuristics: append([]string(nil), DefaultHeuristics...),
		HeadLevels: -1,
	}
}

// Load reads a configuration from a YAML file.  Settings missing from the file
// keep their default values.
func Load(filename string) (*Config, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration %s", filename)
	}
	//
	cfg, err := Parse(bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing configuration %s", filename)
	}
	//
	return cfg, nil
}

// Parse reads a configuration from YAML text.
func Parse(bytes []byte) (*Config, error) {
	cfg := Default()
	//
	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, err
	}
	//
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	//
	return cfg, nil
}

// Validate checks this configuration is consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Priority) {
	case "combined", "area", "latency":
	default:
		return fmt.Errorf("unknown priority \"%s\"", c.Priority)
	}
	//
	if c.FrequencyMHz < 0 {
		return fmt.Errorf("negative frequency %g", c.FrequencyMHz)
	} else if len(c.Heuristics) == 0 && !c.AdditionChain {
		return fmt.Errorf("no heuristics enabled")
	}
	//
	for _, h := range c.Heuristics {
		if !isHeuristic(h) {
			return fmt.Errorf("unknown heuristic \"%s\"", h)
		}
	}
	//
	for _, m := range c.Targets {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	//
	_, err := c.ResolveTarget()
	//
	return err
}

// ResolveTarget determines the target model of this configuration, applying
// any frequency override.
func (c *Config) ResolveTarget() (target.Model, error) {
	model, ok := c.findTarget()
	//
	if !ok {
		return target.Model{}, fmt.Errorf("unknown target \"%s\"", c.Target)
	} else if c.FrequencyMHz > 0 {
		model = model.WithFrequency(c.FrequencyMHz)
	}
	//
	return model, nil
}

func (c *Config) findTarget() (target.Model, bool) {
	for _, m := range c.Targets {
		if strings.EqualFold(m.Name, c.Target) {
			return m, true
		}
	}
	//
	return target.Lookup(c.Target)
}

func isHeuristic(name string) bool {
	for _, h := range DefaultHeuristics {
		if h == name {
			return true
		}
	}
	//
	return name == "addchain"
}
