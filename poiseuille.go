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

	"github.com/ctessum/geom"
	"github.com/spatialmodel/lbflow/geometry"
)

// Materials of the channel nodes in addition to geometry.Fluid.
const (
	MaterialWall          = 2 // bottom and top rows
	MaterialPeriodicFluid = 3 // fluid in the first and last columns
	MaterialPeriodicWall  = 4 // corners, both wall and periodic
)

// PoiseuilleConfig describes a body-force-driven channel flow. The
// channel runs in the x direction, with no-slip walls on the bottom and
// top rows of nodes and periodic inflow and outflow.
type PoiseuilleConfig struct {
	Nx, Ny  int     // number of nodes along and across the channel
	Force   float64 // body force in the x direction, lattice units
	Tau     float64 // relaxation time
	Density float64 // initial density
}

// DefaultPoiseuilleConfig returns a 34 by 18 node channel with force
// 0.001 and relaxation time 0.8.
func DefaultPoiseuilleConfig() PoiseuilleConfig {
	return PoiseuilleConfig{
		Nx:      34,
		Ny:      18,
		Force:   0.001,
		Tau:     0.8,
		Density: 1,
	}
}

// Validate checks that the configuration describes a stable channel.
func (c PoiseuilleConfig) Validate() error {
	if c.Nx < 2 {
		return fmt.Errorf("lbflow: channel length %d must be at least 2 nodes", c.Nx)
	}
	if c.Ny < 3 {
		return fmt.Errorf("lbflow: channel height %d must be at least 3 nodes", c.Ny)
	}
	if c.Tau <= 0.5 {
		return fmt.Errorf("lbflow: relaxation time %g must be greater than 0.5", c.Tau)
	}
	if c.Density <= 0 {
		return fmt.Errorf("lbflow: density %g must be positive", c.Density)
	}
	return nil
}

// Viscosity returns the lattice kinematic viscosity (tau-0.5)/3.
func (c PoiseuilleConfig) Viscosity() float64 { return (c.Tau - 0.5) / 3 }

// AnalyticVelocity returns the steady-state x velocity at row y. The
// walls are half way between the wall nodes and the first fluid nodes.
func (c PoiseuilleConfig) AnalyticVelocity(y int) float64 {
	yy := float64(y)
	top := float64(c.Ny) - 1.5
	if yy <= 0.5 || yy >= top {
		return 0
	}
	return c.Force / (2 * c.Viscosity()) * (yy - 0.5) * (top - yy)
}

// AnalyticProfile returns AnalyticVelocity for every row.
func (c PoiseuilleConfig) AnalyticProfile() []float64 {
	u := make([]float64, c.Ny)
	for y := range u {
		u[y] = c.AnalyticVelocity(y)
	}
	return u
}

// Geometry marks the channel nodes by material: walls along the bottom
// and top rows, fluid between them, and periodic materials in the first
// and last columns. The domain is periodic in x.
func (c PoiseuilleConfig) Geometry() (*geometry.SuperGeometry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cg := geometry.NewCuboidGeometry(0, 0, 1, c.Nx, c.Ny, 1)
	cg.SetIsPeriodic(true, false)
	sg := geometry.NewSuperGeometry(cg)

	w, h := float64(c.Nx-1), float64(c.Ny-1)
	channel := geometry.NewIndicatorCuboid(geom.Point{X: w, Y: h}, geom.Point{}, 0)
	fluid := geometry.NewIndicatorCuboid(geom.Point{X: w, Y: h - 2}, geom.Point{Y: 1}, 0)
	sg.RenameInside(geometry.DoNothing, MaterialWall, channel)
	sg.RenameInside(MaterialWall, geometry.Fluid, fluid)
	sg.Clean()
	if sg.CheckForErrors() {
		return nil, fmt.Errorf("lbflow: channel geometry has fluid next to empty nodes")
	}
	for _, x := range []float64{0, w} {
		port := geometry.NewIndicatorCuboid(geom.Point{Y: h}, geom.Point{X: x}, 0)
		sg.RenameInside(geometry.Fluid, MaterialPeriodicFluid, port)
		sg.RenameInside(MaterialWall, MaterialPeriodicWall, port)
	}
	return sg, nil
}

// Setup returns a function that builds the lattice, the forced
// collision model, streaming and the wall and periodic boundaries. The
// boundary nodes are taken from the materials set by Geometry.
func (c PoiseuilleConfig) Setup() DomainManipulator {
	return func(s *Simulation) error {
		sg, err := c.Geometry()
		if err != nil {
			return err
		}
		s.Geometry = sg
		lm := NewLattice(c.Nx, c.Ny, 1, Vector{})
		cm := NewCollisionNsf(lm, c.Density)
		cm.SetTau(c.Tau)
		cm.SetForce(Vector{c.Force, 0})
		s.LBM = NewLBM(lm, cm, NewStream(lm))

		walls := NewBounceBack(lm, cm)
		for _, n := range sg.Nodes(MaterialWall, MaterialPeriodicWall) {
			walls.AddNode(sg.MotherLatticeR(n))
		}
		periodic := NewPeriodic(lm)
		for _, n := range sg.Nodes(MaterialPeriodicFluid, MaterialPeriodicWall) {
			periodic.AddNode(sg.MotherLatticeR(n))
		}
		s.AddBoundaryCondition(walls)
		s.AddBoundaryCondition(periodic)
		return nil
	}
}

// VelocityProfile returns the x velocity of every node in column x.
func VelocityProfile(lm *Lattice, x int) []float64 {
	u := lm.Velocity()
	out := make([]float64, lm.Ny())
	for y := range out {
		out[y] = u[lm.Index(x, y)][0]
	}
	return out
}
