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
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestTakeStepAtRest(t *testing.T) {
	lm := NewLattice(5, 4, 1, Vector{})
	cm := NewCollisionNsf(lm, 1)
	l := NewLBM(lm, cm, NewStream(lm))
	p := NewPeriodic(lm)
	for n := 0; n < lm.NumNodes(); n++ {
		if lm.DetermineOrientation(n) != NotEdge {
			x, y := lm.Coords(n)
			p.AddNode(x, y)
		}
	}
	l.AddBoundaryCondition(p)
	for i := 0; i < 10; i++ {
		l.TakeStep()
	}
	w := lm.Weights()
	for n, f := range l.DF() {
		for i := range f {
			if absDifferent(f[i], w[i], testTolerance) {
				t.Errorf("node %d direction %d: want %g, got %g", n, i, w[i], f[i])
			}
		}
	}
	if m := cm.TotalMass(); different(m, 20, testTolerance) {
		t.Errorf("mass should be conserved: %g", m)
	}
}

// afterOnly is a boundary condition that is applied after streaming.
type afterOnly struct {
	calls []bool
}

func (a *afterOnly) IsBeforeStream() bool { return false }
func (a *afterOnly) IsDuringStream() bool { return false }
func (a *afterOnly) UpdateNodes(df Field, isModifyStream bool) {
	a.calls = append(a.calls, isModifyStream)
}

func TestTakeStepBoundaryOrder(t *testing.T) {
	lm := NewLattice(3, 3, 1, Vector{})
	l := NewLBM(lm, NewCollisionNsf(lm, 1), NewStream(lm))
	a := &afterOnly{}
	l.AddBoundaryCondition(a)
	l.TakeStep()
	if len(a.calls) != 1 || a.calls[0] {
		t.Errorf("after-stream condition calls: %v", a.calls)
	}
	if err := l.SetDF(NewField(2)); err == nil {
		t.Error("expected error for wrong field size")
	}
}

func poiseuilleSimulation(cfg PoiseuilleConfig, iterations int) *Simulation {
	return &Simulation{
		InitFuncs: []DomainManipulator{cfg.Setup()},
		RunFuncs: []DomainManipulator{
			TakeStep(),
			SteadyStateConvergenceCheck(iterations, 0, 0, nil),
		},
	}
}

func TestPoiseuille(t *testing.T) {
	cfg := DefaultPoiseuilleConfig()
	s := poiseuilleSimulation(cfg, 3000)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if s.Iteration != 3000 {
		t.Errorf("iterations: want 3000, got %d", s.Iteration)
	}
	sim := VelocityProfile(s.Lattice(), cfg.Nx/2)

	// Every column should have the same profile.
	other := VelocityProfile(s.Lattice(), 0)
	for y := range sim {
		if absDifferent(sim[y], other[y], 1.e-10) {
			t.Errorf("row %d: column profiles differ: %g vs %g", y, sim[y], other[y])
		}
	}

	c, err := CompareProfiles(sim, cfg.AnalyticProfile())
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxRelativeError > 0.02 {
		t.Errorf("maximum error relative to analytic solution is %g", c.MaxRelativeError)
	}
	if c.RSquared < 0.999 {
		t.Errorf("analytic regression R² = %g", c.RSquared)
	}

	y, u := FluidRows(sim)
	p, err := FitParabola(y, u)
	if err != nil {
		t.Fatal(err)
	}
	if p.RSquared < 0.999 {
		t.Errorf("parabola fit R² = %g", p.RSquared)
	}
	if p.C >= 0 {
		t.Errorf("profile should be concave, C = %g", p.C)
	}

	f, err := os.Open("testdata/poiseuille_reference.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ref, err := ReadReferenceProfile(f)
	if err != nil {
		t.Fatal(err)
	}
	c, err = CompareProfiles(sim, ref.Ux)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxRelativeError > 0.03 {
		t.Errorf("maximum error relative to reference is %g", c.MaxRelativeError)
	}
}

func TestSteadyStateConvergence(t *testing.T) {
	cfg := DefaultPoiseuilleConfig()
	c := make(chan string, 1000)
	var log bytes.Buffer
	s := &Simulation{
		InitFuncs: []DomainManipulator{cfg.Setup()},
		RunFuncs: []DomainManipulator{
			TakeStep(),
			SteadyStateConvergenceCheck(0, 100, 1.e-4, c),
			Log(&log, 500),
		},
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	close(c)
	var msgs int
	for range c {
		msgs++
	}
	if msgs == 0 {
		t.Error("no convergence messages")
	}
	if s.Iteration != msgs*100 {
		t.Errorf("%d iterations but %d checks", s.Iteration, msgs)
	}
	if !strings.Contains(log.String(), "Iteration 500") {
		t.Errorf("log output: %s", log.String())
	}
	u := VelocityProfile(s.Lattice(), 0)
	an := cfg.AnalyticProfile()
	if different(u[cfg.Ny/2], an[cfg.Ny/2], 0.02) {
		t.Errorf("centerline velocity: want %g, got %g", an[cfg.Ny/2], u[cfg.Ny/2])
	}
}

func TestRunWithoutRunFuncs(t *testing.T) {
	s := &Simulation{}
	if err := s.Run(); err == nil {
		t.Error("expected error")
	}
}
