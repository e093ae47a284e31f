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

	"github.com/ctessum/unit"
)

// Meter2PerSecond is the dimension of kinematic viscosity.
var Meter2PerSecond = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -1}

// UnitConverter converts quantities between physical (SI) units and
// lattice units.
type UnitConverter struct {
	convLength    float64
	convTime      float64
	convVelocity  float64
	convDensity   float64
	convMass      float64
	convViscosity float64
	convForce     float64
	convPressure  float64

	resolution          int
	latticeTau          float64
	charLatticeVelocity float64

	charPhysLength   float64
	charPhysVelocity float64
	physViscosity    float64
	physDensity      float64
	charPhysPressure float64
}

// NewUnitConverter creates a converter from the physical lattice spacing
// dx [m], time step dt [s], characteristic length [m] and velocity [m/s],
// kinematic viscosity [m²/s], density [kg/m³] and characteristic
// pressure [Pa].
func NewUnitConverter(dx, dt, charPhysLength, charPhysVelocity, physViscosity,
	physDensity, charPhysPressure float64) *UnitConverter {
	c := &UnitConverter{
		convLength:       dx,
		convTime:         dt,
		convVelocity:     dx / dt,
		convDensity:      physDensity,
		convMass:         physDensity * dx * dx * dx,
		convViscosity:    dx * dx / dt,
		charPhysLength:   charPhysLength,
		charPhysVelocity: charPhysVelocity,
		physViscosity:    physViscosity,
		physDensity:      physDensity,
		charPhysPressure: charPhysPressure,
	}
	c.convForce = c.convMass * dx / (dt * dt)
	c.convPressure = c.convForce / (dx * dx)
	c.resolution = int(charPhysLength/dx + 0.5)
	c.latticeTau = physViscosity/c.convViscosity*3 + 0.5
	c.charLatticeVelocity = charPhysVelocity / c.convVelocity
	return c
}

// NewUnitConverterFromUnits is like NewUnitConverter but takes
// dimensioned quantities, and returns an error if any of them has the
// wrong dimensions.
func NewUnitConverterFromUnits(dx, dt, charPhysLength, charPhysVelocity, physViscosity,
	physDensity, charPhysPressure *unit.Unit) (*UnitConverter, error) {
	checks := []struct {
		name string
		u    *unit.Unit
		d    unit.Dimensions
	}{
		{"lattice spacing", dx, unit.Meter},
		{"time step", dt, unit.Second},
		{"characteristic length", charPhysLength, unit.Meter},
		{"characteristic velocity", charPhysVelocity, unit.MeterPerSecond},
		{"viscosity", physViscosity, Meter2PerSecond},
		{"density", physDensity, unit.KilogramPerMeter3},
		{"characteristic pressure", charPhysPressure, unit.Pascal},
	}
	for _, c := range checks {
		if c.u == nil {
			return nil, fmt.Errorf("lbflow: missing %s", c.name)
		}
		if err := c.u.Check(c.d); err != nil {
			return nil, fmt.Errorf("lbflow: %s: %v", c.name, err)
		}
	}
	return NewUnitConverter(dx.Value(), dt.Value(), charPhysLength.Value(),
		charPhysVelocity.Value(), physViscosity.Value(), physDensity.Value(),
		charPhysPressure.Value()), nil
}

// NewUnitConverterFromResolutionAndRelaxationTime chooses dx and dt so
// that the characteristic length spans resolution nodes and the lattice
// relaxation time is tau.
func NewUnitConverterFromResolutionAndRelaxationTime(resolution int, tau,
	charPhysLength, charPhysVelocity, physViscosity, physDensity, charPhysPressure float64) *UnitConverter {
	dx := charPhysLength / float64(resolution)
	dt := (tau - 0.5) / 3 * dx * dx / physViscosity
	return NewUnitConverter(dx, dt, charPhysLength, charPhysVelocity,
		physViscosity, physDensity, charPhysPressure)
}

// NewUnitConverterFromResolutionAndLatticeVelocity chooses dx and dt so
// that the characteristic length spans resolution nodes and the
// characteristic velocity is latticeVelocity in lattice units.
func NewUnitConverterFromResolutionAndLatticeVelocity(resolution int, latticeVelocity,
	charPhysLength, charPhysVelocity, physViscosity, physDensity, charPhysPressure float64) *UnitConverter {
	dx := charPhysLength / float64(resolution)
	dt := latticeVelocity / charPhysVelocity * dx
	return NewUnitConverter(dx, dt, charPhysLength, charPhysVelocity,
		physViscosity, physDensity, charPhysPressure)
}

// NewUnitConverterFromRelaxationTimeAndLatticeVelocity chooses dx and dt
// so that the lattice relaxation time is tau and the characteristic
// velocity is latticeVelocity in lattice units.
func NewUnitConverterFromRelaxationTimeAndLatticeVelocity(tau, latticeVelocity,
	charPhysLength, charPhysVelocity, physViscosity, physDensity, charPhysPressure float64) *UnitConverter {
	dx := physViscosity * latticeVelocity / charPhysVelocity * 3 / (tau - 0.5)
	dt := latticeVelocity / charPhysVelocity * dx
	return NewUnitConverter(dx, dt, charPhysLength, charPhysVelocity,
		physViscosity, physDensity, charPhysPressure)
}

// Resolution returns the number of nodes across the characteristic length.
func (c *UnitConverter) Resolution() int { return c.resolution }

// LatticeRelaxationTime returns the BGK relaxation time in lattice units.
func (c *UnitConverter) LatticeRelaxationTime() float64 { return c.latticeTau }

// CharLatticeVelocity returns the characteristic velocity in lattice units.
func (c *UnitConverter) CharLatticeVelocity() float64 { return c.charLatticeVelocity }

// ReynoldsNumber returns U*L/ν.
func (c *UnitConverter) ReynoldsNumber() float64 {
	return c.charPhysVelocity * c.charPhysLength / c.physViscosity
}

// ConversionLength returns the physical length of one lattice spacing [m].
func (c *UnitConverter) ConversionLength() float64 { return c.convLength }

// ConversionTime returns the physical duration of one time step [s].
func (c *UnitConverter) ConversionTime() float64 { return c.convTime }

// ConversionVelocity returns dx/dt [m/s].
func (c *UnitConverter) ConversionVelocity() float64 { return c.convVelocity }

// ConversionDensity returns the physical density of lattice density 1 [kg/m³].
func (c *UnitConverter) ConversionDensity() float64 { return c.convDensity }

// ConversionMass returns the mass conversion factor [kg].
func (c *UnitConverter) ConversionMass() float64 { return c.convMass }

// ConversionViscosity returns dx²/dt [m²/s].
func (c *UnitConverter) ConversionViscosity() float64 { return c.convViscosity }

// ConversionForce returns the force conversion factor [N].
func (c *UnitConverter) ConversionForce() float64 { return c.convForce }

// ConversionPressure returns the pressure conversion factor [Pa].
func (c *UnitConverter) ConversionPressure() float64 { return c.convPressure }

func (c *UnitConverter) PhysLength(latticeLength float64) float64 {
	return latticeLength * c.convLength
}
func (c *UnitConverter) LatticeLength(physLength float64) float64 {
	return physLength / c.convLength
}
func (c *UnitConverter) PhysTime(latticeTime float64) float64 {
	return latticeTime * c.convTime
}
func (c *UnitConverter) LatticeTime(physTime float64) int {
	return int(physTime/c.convTime + 0.5)
}
func (c *UnitConverter) PhysVelocity(latticeVelocity float64) float64 {
	return latticeVelocity * c.convVelocity
}
func (c *UnitConverter) LatticeVelocity(physVelocity float64) float64 {
	return physVelocity / c.convVelocity
}
func (c *UnitConverter) PhysDensity(latticeDensity float64) float64 {
	return latticeDensity * c.convDensity
}
func (c *UnitConverter) LatticeDensity(physDensity float64) float64 {
	return physDensity / c.convDensity
}
func (c *UnitConverter) PhysViscosity(latticeViscosity float64) float64 {
	return latticeViscosity * c.convViscosity
}
func (c *UnitConverter) LatticeViscosity() float64 {
	return c.physViscosity / c.convViscosity
}
func (c *UnitConverter) PhysForce(latticeForce float64) float64 {
	return latticeForce * c.convForce
}
func (c *UnitConverter) LatticeForce(physForce float64) float64 {
	return physForce / c.convForce
}

// PhysPressure converts a lattice pressure to a physical pressure,
// relative to the characteristic pressure.
func (c *UnitConverter) PhysPressure(latticePressure float64) float64 {
	return latticePressure*c.convPressure + c.charPhysPressure
}

// LatticePressure converts a physical pressure to lattice units.
func (c *UnitConverter) LatticePressure(physPressure float64) float64 {
	return (physPressure - c.charPhysPressure) / c.convPressure
}

// Print writes a summary of the converter to w.
func (c *UnitConverter) Print(w io.Writer) {
	fmt.Fprintln(w, "----------------- UnitConverter information -----------------")
	fmt.Fprintln(w, "-- Parameters:")
	fmt.Fprintf(w, "Resolution:                       N=      %d\n", c.resolution)
	fmt.Fprintf(w, "Lattice relaxation time:          tau=    %g\n", c.latticeTau)
	fmt.Fprintf(w, "Characteristic lattice velocity:  uLatt=  %g\n", c.charLatticeVelocity)
	fmt.Fprintf(w, "Characteristic physical length:   L=      %g m\n", c.charPhysLength)
	fmt.Fprintf(w, "Characteristic physical velocity: U=      %g m/s\n", c.charPhysVelocity)
	fmt.Fprintf(w, "Physical kinematic viscosity:     nu=     %g m²/s\n", c.physViscosity)
	fmt.Fprintf(w, "Physical density:                 rho=    %g kg/m³\n", c.physDensity)
	fmt.Fprintf(w, "Characteristic physical pressure: p=      %g Pa\n", c.charPhysPressure)
	fmt.Fprintf(w, "Reynolds number:                  Re=     %g\n", c.ReynoldsNumber())
	fmt.Fprintln(w, "-- Conversion factors:")
	fmt.Fprintf(w, "Length:    %g m\n", c.convLength)
	fmt.Fprintf(w, "Time:      %g s\n", c.convTime)
	fmt.Fprintf(w, "Velocity:  %g m/s\n", c.convVelocity)
	fmt.Fprintf(w, "Density:   %g kg/m³\n", c.convDensity)
	fmt.Fprintf(w, "Mass:      %g kg\n", c.convMass)
	fmt.Fprintf(w, "Viscosity: %g m²/s\n", c.convViscosity)
	fmt.Fprintf(w, "Force:     %g N\n", c.convForce)
	fmt.Fprintf(w, "Pressure:  %g Pa\n", c.convPressure)
	fmt.Fprintln(w, "-------------------------------------------------------------")
}
