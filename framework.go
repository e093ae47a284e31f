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

	"github.com/spatialmodel/lbflow/geometry"
)

// Version gives the version number.
const Version = "0.1.0"

// Simulation holds the state of a lattice Boltzmann simulation and the
// functions that set it up, advance it and finish it.
type Simulation struct {
	*LBM

	// Geometry holds the material of every node, if the setup
	// function marks them.
	Geometry *geometry.SuperGeometry

	// InitFuncs are run once, in order, by Init.
	InitFuncs []DomainManipulator

	// RunFuncs are run in order, repeatedly, until Done is set.
	RunFuncs []DomainManipulator

	// CleanupFuncs are run once, in order, after the run loop.
	CleanupFuncs []DomainManipulator

	// Iteration is the number of completed time steps.
	Iteration int

	// Done is set by a RunFunc to end the run loop.
	Done bool
}

// DomainManipulator is a function that operates on a simulation.
type DomainManipulator func(s *Simulation) error

// Init runs s.InitFuncs.
func (s *Simulation) Init() error {
	for _, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Run runs s.RunFuncs until one of them sets s.Done, and then runs
// s.CleanupFuncs.
func (s *Simulation) Run() error {
	if len(s.RunFuncs) == 0 {
		return fmt.Errorf("lbflow: no RunFuncs to run")
	}
	if s.LBM == nil {
		return fmt.Errorf("lbflow: simulation has not been initialized")
	}
	for !s.Done {
		for _, f := range s.RunFuncs {
			if err := f(s); err != nil {
				return err
			}
		}
	}
	return s.Cleanup()
}

// Cleanup runs s.CleanupFuncs.
func (s *Simulation) Cleanup() error {
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}
