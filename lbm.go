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

import "fmt"

// LBM advances the distribution functions of a lattice in time using
// a collision model, a streaming model and a list of boundary
// conditions.
type LBM struct {
	lm  *Lattice
	cm  CollisionModel
	sm  StreamModel
	bcs []BoundaryCondition
	df  Field
}

// NewLBM creates a time stepper. The distribution functions start at
// the collision model's equilibrium distribution.
func NewLBM(lm *Lattice, cm CollisionModel, sm StreamModel) *LBM {
	return &LBM{
		lm: lm,
		cm: cm,
		sm: sm,
		df: cm.EquilibriumDistribution().Copy(),
	}
}

// AddBoundaryCondition registers bc. Boundary conditions are applied in
// the order they were added.
func (l *LBM) AddBoundaryCondition(bc BoundaryCondition) { l.bcs = append(l.bcs, bc) }

// Lattice returns the lattice model.
func (l *LBM) Lattice() *Lattice { return l.lm }

// CollisionModel returns the collision model.
func (l *LBM) CollisionModel() CollisionModel { return l.cm }

// DF returns the current distribution functions.
func (l *LBM) DF() Field { return l.df }

// SetDF replaces the distribution functions.
func (l *LBM) SetDF(df Field) error {
	if len(df) != l.lm.NumNodes() {
		return fmt.Errorf("lbflow: distribution has %d nodes, lattice has %d", len(df), l.lm.NumNodes())
	}
	l.df = df
	return nil
}

// TakeStep advances the simulation by one time step.
func (l *LBM) TakeStep() {
	l.cm.ComputeEquilibriumDistribution()
	l.cm.Collide(l.df)
	for _, bc := range l.bcs {
		if bc.IsBeforeStream() {
			bc.UpdateNodes(l.df, false)
		}
	}
	l.df = l.sm.Stream(l.df)
	for _, bc := range l.bcs {
		if bc.IsDuringStream() {
			bc.UpdateNodes(l.df, true)
		}
		if !bc.IsBeforeStream() {
			bc.UpdateNodes(l.df, false)
		}
	}
	if mu, ok := l.cm.(MacroscopicUpdater); ok {
		mu.ComputeMacroscopicProperties(l.df)
	}
}
