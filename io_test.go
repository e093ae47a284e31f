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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func outputSimulation(t *testing.T) *Simulation {
	lm := NewLattice(4, 3, 1, Vector{})
	u := make([]Vector, lm.NumNodes())
	for n := range u {
		x, y := lm.Coords(n)
		u[n] = Vector{0.01 * float64(x), -0.02 * float64(y)}
	}
	lm.SetVelocity(u)
	cm := NewCollisionNsf(lm, 1.5)
	return &Simulation{LBM: NewLBM(lm, cm, NewStream(lm))}
}

func TestOutputterResults(t *testing.T) {
	s := outputSimulation(t)
	o, err := NewOutputter("", map[string]string{
		"Ux":     "ux",
		"Speed":  "sqrt(ux*ux + uy*uy)",
		"Speed2": "Speed * 2",
		"Mom":    "rho * ux",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rho", "ux", "uy"}
	got := o.ModelVariablesUsed()
	if len(got) != len(want) {
		t.Fatalf("model variables: want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("model variables: want %v, got %v", want, got)
		}
	}
	r, err := o.Results(s)
	if err != nil {
		t.Fatal(err)
	}
	x, y := 3, 2
	ux, uy := 0.03, -0.04
	if v := r["Ux"].Get(y, x); absDifferent(v, ux, testTolerance) {
		t.Errorf("Ux: want %g, got %g", ux, v)
	}
	speed := math.Sqrt(ux*ux + uy*uy)
	if v := r["Speed"].Get(y, x); absDifferent(v, speed, testTolerance) {
		t.Errorf("Speed: want %g, got %g", speed, v)
	}
	if v := r["Speed2"].Get(y, x); absDifferent(v, 2*speed, testTolerance) {
		t.Errorf("Speed2: want %g, got %g", 2*speed, v)
	}
	if v := r["Mom"].Get(y, x); absDifferent(v, 1.5*ux, testTolerance) {
		t.Errorf("Mom: want %g, got %g", 1.5*ux, v)
	}
}

func TestOutputterErrors(t *testing.T) {
	for name, vars := range map[string]map[string]string{
		"undefined":  {"A": "pressure"},
		"bad name":   {"1A": "ux"},
		"recursive":  {"A": "B", "B": "A + 1"},
		"bad syntax": {"A": "ux +* 2"},
	} {
		if _, err := NewOutputter("", vars, nil); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestOutput(t *testing.T) {
	s := outputSimulation(t)
	dir, err := ioutil.TempDir("", "lbflow")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	fname := filepath.Join(dir, "out.nc")
	o, err := NewOutputter(fname, map[string]string{"Ux": "ux", "Uy": "uy"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.CleanupFuncs = []DomainManipulator{o.Output()}
	if err := s.Cleanup(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	uy, err := ReadOutput(f, "Uy")
	if err != nil {
		t.Fatal(err)
	}
	if uy.Shape[0] != 3 || uy.Shape[1] != 4 {
		t.Fatalf("shape: %v", uy.Shape)
	}
	if v := uy.Get(2, 1); absDifferent(v, -0.04, testTolerance) {
		t.Errorf("Uy: want -0.04, got %g", v)
	}
	if _, err := ReadOutput(f, "Missing"); err == nil {
		t.Error("expected error for missing variable")
	}
}
