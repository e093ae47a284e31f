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
	"strings"
	"testing"

	"github.com/ctessum/unit"
)

func TestUnitConverter(t *testing.T) {
	c := NewUnitConverter(1.2, 0.5, 2.4, 3, 0.1, 1000, 101325)
	if c.ConversionLength() != 1.2 {
		t.Errorf("length conversion: want 1.2, got %g", c.ConversionLength())
	}
	tests := []struct {
		name      string
		have, want float64
	}{
		{"time", c.ConversionTime(), 0.5},
		{"velocity", c.ConversionVelocity(), 2.4},
		{"density", c.ConversionDensity(), 1000},
		{"mass", c.ConversionMass(), 1000 * 1.2 * 1.2 * 1.2},
		{"viscosity", c.ConversionViscosity(), 1.2 * 1.2 / 0.5},
		{"force", c.ConversionForce(), 1000 * 1.2 * 1.2 * 1.2 * 1.2 / 0.25},
		{"pressure", c.ConversionPressure(), 1000 * 1.2 * 1.2 * 1.2 * 1.2 / 0.25 / 1.44},
		{"resolution", float64(c.Resolution()), 2},
		{"tau", c.LatticeRelaxationTime(), 0.1/2.88*3 + 0.5},
		{"lattice velocity", c.CharLatticeVelocity(), 3 / 2.4},
		{"Reynolds number", c.ReynoldsNumber(), 72},
		{"phys length", c.PhysLength(10), 12},
		{"lattice length", c.LatticeLength(12), 10},
		{"lattice time", float64(c.LatticeTime(2.4)), 5},
		{"phys pressure", c.PhysPressure(0), 101325},
		{"lattice pressure", c.LatticePressure(c.PhysPressure(0.25)), 0.25},
		{"velocity round trip", c.LatticeVelocity(c.PhysVelocity(0.7)), 0.7},
	}
	for _, test := range tests {
		if different(test.have, test.want, testTolerance) {
			t.Errorf("%s: want %g, got %g", test.name, test.want, test.have)
		}
	}
}

func TestUnitConverterVariants(t *testing.T) {
	t.Run("resolution and relaxation time", func(t *testing.T) {
		c := NewUnitConverterFromResolutionAndRelaxationTime(20, 0.8, 1, 1, 0.1, 1, 0)
		if c.Resolution() != 20 {
			t.Errorf("resolution: %d", c.Resolution())
		}
		if different(c.LatticeRelaxationTime(), 0.8, testTolerance) {
			t.Errorf("tau: %g", c.LatticeRelaxationTime())
		}
		if different(c.CharLatticeVelocity(), 0.05, testTolerance) {
			t.Errorf("lattice velocity: %g", c.CharLatticeVelocity())
		}
		if different(c.ReynoldsNumber(), 10, testTolerance) {
			t.Errorf("Re: %g", c.ReynoldsNumber())
		}
	})
	t.Run("resolution and lattice velocity", func(t *testing.T) {
		c := NewUnitConverterFromResolutionAndLatticeVelocity(10, 0.1, 2, 4, 0.01, 1, 0)
		if c.Resolution() != 10 {
			t.Errorf("resolution: %d", c.Resolution())
		}
		if different(c.CharLatticeVelocity(), 0.1, testTolerance) {
			t.Errorf("lattice velocity: %g", c.CharLatticeVelocity())
		}
	})
	t.Run("relaxation time and lattice velocity", func(t *testing.T) {
		c := NewUnitConverterFromRelaxationTimeAndLatticeVelocity(0.9, 0.05, 1, 2, 0.01, 1, 0)
		if different(c.LatticeRelaxationTime(), 0.9, testTolerance) {
			t.Errorf("tau: %g", c.LatticeRelaxationTime())
		}
		if different(c.CharLatticeVelocity(), 0.05, testTolerance) {
			t.Errorf("lattice velocity: %g", c.CharLatticeVelocity())
		}
	})
}

func TestUnitConverterFromUnits(t *testing.T) {
	c, err := NewUnitConverterFromUnits(
		unit.New(1.2, unit.Meter),
		unit.New(0.5, unit.Second),
		unit.New(2.4, unit.Meter),
		unit.New(3, unit.MeterPerSecond),
		unit.New(0.1, Meter2PerSecond),
		unit.New(1000, unit.KilogramPerMeter3),
		unit.New(0, unit.Pascal),
	)
	if err != nil {
		t.Fatal(err)
	}
	if c.ConversionLength() != 1.2 {
		t.Errorf("length conversion: want 1.2, got %g", c.ConversionLength())
	}
	_, err = NewUnitConverterFromUnits(
		unit.New(1.2, unit.Second),
		unit.New(0.5, unit.Second),
		unit.New(2.4, unit.Meter),
		unit.New(3, unit.MeterPerSecond),
		unit.New(0.1, Meter2PerSecond),
		unit.New(1000, unit.KilogramPerMeter3),
		unit.New(0, unit.Pascal),
	)
	if err == nil || !strings.Contains(err.Error(), "lattice spacing") {
		t.Errorf("expected lattice spacing dimension error, got %v", err)
	}
}

func TestUnitConverterPrint(t *testing.T) {
	var buf bytes.Buffer
	NewUnitConverterFromResolutionAndRelaxationTime(20, 0.8, 1, 1, 0.1, 1, 0).Print(&buf)
	if !strings.Contains(buf.String(), "Reynolds number") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
