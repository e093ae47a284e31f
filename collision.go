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

	"gonum.org/v1/gonum/floats"
)

// CollisionModel relaxes the distribution functions towards equilibrium.
type CollisionModel interface {
	// ComputeEquilibriumDistribution recalculates the equilibrium
	// distribution from the current density and velocity fields.
	ComputeEquilibriumDistribution()

	// Collide applies the collision step to df in place.
	Collide(df Field)

	// AddNodeToSkip excludes node n from collision.
	AddNodeToSkip(n int)

	// EquilibriumDistribution returns the most recently computed
	// equilibrium distribution.
	EquilibriumDistribution() Field
}

// MacroscopicUpdater is implemented by collision models that can
// recompute density and velocity from the distribution functions.
type MacroscopicUpdater interface {
	ComputeMacroscopicProperties(df Field)
}

// Collision holds the state shared by BGK collision models: the density
// and equilibrium distribution of every node, the nodes excluded from
// collision, and the relaxation time.
type Collision struct {
	lm    *Lattice
	rho   []float64
	edf   Field
	skip  []bool
	tau   float64
	csSqr float64
}

// newCollision creates a collision base with uniform density rho0 and
// relaxation time 1, and computes the initial equilibrium distribution.
func newCollision(lm *Lattice, rho0 float64) Collision {
	nn := lm.NumNodes()
	c := Collision{
		lm:    lm,
		rho:   make([]float64, nn),
		edf:   NewField(nn),
		skip:  make([]bool, nn),
		tau:   1,
		csSqr: lm.Speed() * lm.Speed() / 3,
	}
	for n := range c.rho {
		c.rho[n] = rho0
	}
	c.ComputeEquilibriumDistribution()
	return c
}

// ComputeEquilibriumDistribution recalculates the equilibrium distribution
// of every node from the current density and the lattice velocity field.
func (c *Collision) ComputeEquilibriumDistribution() {
	e := c.lm.DiscreteVelocities()
	w := c.lm.Weights()
	u := c.lm.Velocity()
	Calculations(len(c.edf), func(n int) {
		uSqr := u[n].Dot(u[n]) / (2 * c.csSqr)
		for i := 0; i < NumDirections; i++ {
			eu := e[i].Dot(u[n]) / c.csSqr
			c.edf[n][i] = c.rho[n] * w[i] * (1 + eu*(1+eu/2) - uSqr)
		}
	})
}

// EquilibriumDistribution returns the equilibrium distribution. The
// field is shared with the collision model.
func (c *Collision) EquilibriumDistribution() Field { return c.edf }

// Density returns the density field.
func (c *Collision) Density() []float64 { return c.rho }

// SetDensity sets the density of every node to rho and recomputes the
// equilibrium distribution.
func (c *Collision) SetDensity(rho float64) {
	for n := range c.rho {
		c.rho[n] = rho
	}
	c.ComputeEquilibriumDistribution()
}

// SetDensityField replaces the density field. It panics if the length
// does not match the number of nodes.
func (c *Collision) SetDensityField(rho []float64) {
	if len(rho) != len(c.rho) {
		panic(fmt.Errorf("lbflow: density field has %d nodes, lattice has %d", len(rho), len(c.rho)))
	}
	copy(c.rho, rho)
	c.ComputeEquilibriumDistribution()
}

// TotalMass returns the sum of the density over all nodes.
func (c *Collision) TotalMass() float64 { return floats.Sum(c.rho) }

// AddNodeToSkip excludes node n from collision.
func (c *Collision) AddNodeToSkip(n int) { c.skip[n] = true }

// IsSkipped returns whether node n is excluded from collision.
func (c *Collision) IsSkipped(n int) bool { return c.skip[n] }

// Tau returns the relaxation time.
func (c *Collision) Tau() float64 { return c.tau }

// SetTau sets the relaxation time.
func (c *Collision) SetTau(tau float64) {
	if tau <= 0.5 {
		panic(fmt.Errorf("lbflow: relaxation time %g must be greater than 0.5", tau))
	}
	c.tau = tau
}

// CollisionNsf is a BGK collision model with a body force term
// (Guo forcing).
type CollisionNsf struct {
	Collision
	force []Vector
}

// NewCollisionNsf creates a forced BGK collision model with uniform
// density rho0, zero force and relaxation time 1.
func NewCollisionNsf(lm *Lattice, rho0 float64) *CollisionNsf {
	return &CollisionNsf{
		Collision: newCollision(lm, rho0),
		force:     make([]Vector, lm.NumNodes()),
	}
}

// Force returns the body force field.
func (c *CollisionNsf) Force() []Vector { return c.force }

// SetForce sets the body force at every node to f.
func (c *CollisionNsf) SetForce(f Vector) {
	for n := range c.force {
		c.force[n] = f
	}
}

// SetForceField replaces the body force field. It panics if the length
// does not match the number of nodes.
func (c *CollisionNsf) SetForceField(f []Vector) {
	if len(f) != len(c.force) {
		panic(fmt.Errorf("lbflow: force field has %d nodes, lattice has %d", len(f), len(c.force)))
	}
	copy(c.force, f)
}

// Collide relaxes df towards the equilibrium distribution and adds the
// forcing term. Skipped nodes are left unchanged.
func (c *CollisionNsf) Collide(df Field) {
	e := c.lm.DiscreteVelocities()
	w := c.lm.Weights()
	u := c.lm.Velocity()
	omega := 1 / c.tau
	prefactor := 1 - 0.5/c.tau
	Calculations(len(df), func(n int) {
		if c.skip[n] {
			return
		}
		for i := 0; i < NumDirections; i++ {
			eu := e[i].Dot(u[n]) / c.csSqr
			src := e[i].Sub(u[n]).Add(e[i].Scale(eu)).Scale(1 / c.csSqr).Dot(c.force[n])
			df[n][i] += omega*(c.edf[n][i]-df[n][i]) + prefactor*w[i]*src
		}
	})
}

// ComputeMacroscopicProperties updates the density and the lattice
// velocity field from df. Skipped nodes keep their density and have
// zero velocity.
func (c *CollisionNsf) ComputeMacroscopicProperties(df Field) {
	e := c.lm.DiscreteVelocities()
	u := c.lm.Velocity()
	Calculations(len(df), func(n int) {
		if c.skip[n] {
			u[n] = Vector{}
			return
		}
		var rho float64
		var mom Vector
		for i := 0; i < NumDirections; i++ {
			rho += df[n][i]
			mom = mom.Add(e[i].Scale(df[n][i]))
		}
		c.rho[n] = rho
		u[n] = mom.Add(c.force[n].Scale(0.5)).Scale(1 / rho)
	})
}
