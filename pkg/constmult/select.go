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
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-constmult/pkg/shiftadd"
)

// Priority determines what the cost function minimises.
type Priority int

const (
	// Latency minimises the depth of the adder tree.
	Latency Priority = -1
	// Combined minimises the product of adder cost and depth.
	Combined Priority = 0
	// Area minimises the number of full adders.
	Area Priority = 1
)

// ParsePriority parses a priority from its name.
func ParsePriority(name string) (Priority, error) {
	switch strings.ToLower(name) {
	case "combined", "":
		return Combined, nil
	case "area":
		return Area, nil
	case "latency":
		return Latency, nil
	}
	//
	return Combined, fmt.Errorf("unknown priority \"%s\"", name)
}

func (p Priority) String() string {
	switch p {
	case Area:
		return "area"
	case Latency:
		return "latency"
	default:
		return "combined"
	}
}

// CostF evaluates a candidate Dag under a given priority.
func CostF(dag *shiftadd.Dag, priority Priority) (uint, error) {
	cost, err := dag.OutputCost()
	if err != nil {
		return 0, err
	}
	//
	depth, err := dag.OutputDepth()
	if err != nil {
		return 0, err
	}
	//
	switch priority {
	case Area:
		return cost, nil
	case Latency:
		return depth, nil
	default:
		return cost * depth, nil
	}
}

// Candidate is the outcome of running one tree builder.
type Candidate struct {
	Builder string
	Dag     *shiftadd.Dag
	Err     error
}

// FindBest returns the index of the cheapest candidate under the given
// priority.  Ties are broken by the lower area and then by the lowest index.  Failed candidates are skipped, and an error is returned only when
// every candidate failed.
func FindBest(candidates []Candidate, priority Priority) (int, error) {
	var (
		best     = -1
		bestCost uint
		bestArea uint
		errs     []string
	)
	//
	for i, c := range candidates {
		if c.Err != nil || c.Dag == nil {
			errs = append(errs, fmt.Sprintf("%s: %v", c.Builder, c.Err))
			continue
		}
		//
		cost, err := CostF(c.Dag, priority)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", c.Builder, err))
			continue
		}
		//
		area, err := CostF(c.Dag, Area)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", c.Builder, err))
			continue
		}
		//
		if best < 0 || cost < bestCost || (cost == bestCost && area < bestArea) {
			best, bestCost, bestArea = i, cost, area
		}
	}
	//
	if best < 0 {
		return -1, shiftadd.Errorf(shiftadd.InvalidInput, "select", "no candidate succeeded (%s)",
			strings.Join(errs, "; "))
	}
	//
	if len(errs) > 0 {
		log.Debugf("skipped failed candidates: %s", strings.Join(errs, "; "))
	}
	//
	return best, nil
}

// logCandidate reports the costs of a candidate under every priority.
func logCandidate(c Candidate) {
	if c.Err != nil {
		log.Debugf("building %s failed: %v", c.Builder, c.Err)
		return
	}
	//
	cost, _ := CostF(c.Dag, Combined)
	area, _ := CostF(c.Dag, Area)
	latency, _ := CostF(c.Dag, Latency)
	//
	log.Debugf("building %s: cost=%d area=%d latency=%d", c.Builder, cost, area, latency)
}
