/*
Copyright © 2018 the LBFlow authors.
This file is part of LBFlow.

LBFlow is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

LBFlow is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with LBFlow.  If not, see <http://www.gnu.org/licenses/>.
*/

package lbflow

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"time"
)

// NodeManipulator is a function that operates on a single lattice node.
type NodeManipulator func(n int)

// Calculations concurrently runs calculators on every node index in
// [0, numNodes). Each node is visited by exactly one goroutine, so the
// calculators may write to per-node state without locking.
func Calculations(numNodes int, calculators ...NodeManipulator) {
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > numNodes {
		nprocs = numNodes
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < numNodes; ii += nprocs {
				for _, f := range calculators {
					f(ii)
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}

// TakeStep returns a function that advances the simulation by one
// time step.
func TakeStep() DomainManipulator {
	return func(s *Simulation) error {
		s.LBM.TakeStep()
		s.Iteration++
		return nil
	}
}

// SteadyStateConvergenceCheck checks whether a steady-state simulation is
// finished and sets the Done flag if it is. If numIterations > 0, the
// simulation is finished after that number of iterations have completed.
// Otherwise, every checkPeriod iterations the total kinetic energy in the
// domain is compared to the value at the last check, and the simulation
// is finished when the relative change is less than tolerance.
// Status messages are sent over c if it is not nil.
func SteadyStateConvergenceCheck(numIterations, checkPeriod int, tolerance float64, c chan string) DomainManipulator {
	if checkPeriod < 1 {
		checkPeriod = 1
	}
	oldSum := 0.
	sinceLastCheck := 0

	return func(s *Simulation) error {
		sinceLastCheck++
		if numIterations > 0 {
			if s.Iteration >= numIterations {
				s.Done = true
			}
			return nil
		}
		if sinceLastCheck < checkPeriod {
			return nil
		}
		sinceLastCheck = 0
		newSum := KineticEnergy(s.Lattice().Velocity())
		converged, msg := checkConvergence(newSum, oldSum, tolerance, "kinetic energy")
		if c != nil {
			c <- msg
		}
		oldSum = newSum
		if converged {
			s.Done = true
		}
		return nil
	}
}

// KineticEnergy returns the sum of u·u/2 over all nodes.
func KineticEnergy(u []Vector) float64 {
	var sum float64
	for _, v := range u {
		sum += InnerProduct(v[:], v[:]) / 2
	}
	return sum
}

func checkConvergence(newSum, oldSum, tolerance float64, name string) (bool, string) {
	var bias float64
	if newSum != oldSum {
		bias = (newSum - oldSum) / oldSum
	}
	msg := fmt.Sprintf("%v: total difference = %3.2g%% from last check.", name, bias*100)
	if math.Abs(bias) > tolerance || math.IsInf(bias, 0) || math.IsNaN(bias) {
		return false, msg
	}
	return true, msg
}

// Log writes simulation status messages to w every period iterations.
func Log(w io.Writer, period int) DomainManipulator {
	if period < 1 {
		period = 1
	}
	startTime := time.Now()
	stepTime := time.Now()

	return func(s *Simulation) error {
		if s.Iteration%period != 0 {
			return nil
		}
		_, err := fmt.Fprintf(w, "Iteration %-6d  walltime=%6.3gh  Δwalltime=%4.2gs  "+
			"mass=%.6g  energy=%.6g\n",
			s.Iteration, time.Since(startTime).Hours(),
			time.Since(stepTime).Seconds(), totalMass(s), KineticEnergy(s.Lattice().Velocity()))
		stepTime = time.Now()
		return err
	}
}

func totalMass(s *Simulation) float64 {
	type massTotaler interface {
		TotalMass() float64
	}
	if m, ok := s.CollisionModel().(massTotaler); ok {
		return m.TotalMass()
	}
	return math.NaN()
}
