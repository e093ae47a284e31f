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

	"github.com/BurntSushi/toml"
	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Parabola is the fit u(y) = A + B*y + C*y².
type Parabola struct {
	A, B, C  float64
	RSquared float64
}

// At evaluates the parabola at y.
func (p Parabola) At(y float64) float64 { return p.A + p.B*y + p.C*y*y }

// FitParabola finds the least-squares parabola through the points
// (y[i], u[i]).
func FitParabola(y, u []float64) (Parabola, error) {
	if len(y) != len(u) {
		return Parabola{}, fmt.Errorf("lbflow: fitting %d positions to %d values", len(y), len(u))
	}
	if len(y) < 3 {
		return Parabola{}, fmt.Errorf("lbflow: need at least 3 points to fit a parabola, have %d", len(y))
	}
	a := mat.NewDense(len(y), 3, nil)
	for i, yy := range y {
		a.Set(i, 0, 1)
		a.Set(i, 1, yy)
		a.Set(i, 2, yy*yy)
	}
	b := mat.NewDense(len(u), 1, append([]float64(nil), u...))
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return Parabola{}, fmt.Errorf("lbflow: fitting parabola: %v", err)
	}
	p := Parabola{A: x.At(0, 0), B: x.At(1, 0), C: x.At(2, 0)}

	mean := stat.Mean(u, nil)
	var ssRes, ssTot float64
	for i, yy := range y {
		r := u[i] - p.At(yy)
		ssRes += r * r
		ssTot += (u[i] - mean) * (u[i] - mean)
	}
	if ssTot == 0 {
		p.RSquared = 1
	} else {
		p.RSquared = 1 - ssRes/ssTot
	}
	return p, nil
}

// FluidRows returns the rows strictly between the two wall rows of a
// channel with ny rows, and the corresponding entries of profile.
func FluidRows(profile []float64) (y, u []float64) {
	for i := 1; i < len(profile)-1; i++ {
		y = append(y, float64(i))
		u = append(u, profile[i])
	}
	return y, u
}

// ProfileComparison summarizes the agreement between a simulated and a
// reference velocity profile.
type ProfileComparison struct {
	Slope, Intercept, RSquared float64 // linear regression of simulated on reference
	RMSE                       float64 // root mean square error
	MaxRelativeError           float64 // largest error relative to the reference maximum
}

// CompareProfiles compares sim to ref, which must have the same length.
func CompareProfiles(sim, ref []float64) (ProfileComparison, error) {
	if len(sim) != len(ref) {
		return ProfileComparison{}, fmt.Errorf("lbflow: comparing profiles of lengths %d and %d", len(sim), len(ref))
	}
	if len(sim) < 2 {
		return ProfileComparison{}, fmt.Errorf("lbflow: need at least 2 points to compare profiles")
	}
	var c ProfileComparison
	c.Slope, c.Intercept, c.RSquared, _, _, _ = stats.LinearRegression(ref, sim)
	c.RMSE = floats.Distance(sim, ref, 2) / math.Sqrt(float64(len(sim)))
	refMax := floats.Max(ref)
	for i := range sim {
		e := math.Abs(sim[i]-ref[i]) / refMax
		if e > c.MaxRelativeError || math.IsNaN(e) {
			c.MaxRelativeError = e
		}
	}
	return c, nil
}

// ProfilePlot writes a PNG plot of the simulated and analytic velocity
// profiles to w.
func ProfilePlot(w io.Writer, title string, sim, analytic []float64) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = "x velocity (lattice units)"
	p.Y.Label.Text = "Row"
	simXY := make(plotter.XYs, len(sim))
	for i, v := range sim {
		simXY[i].X = v
		simXY[i].Y = float64(i)
	}
	anXY := make(plotter.XYs, len(analytic))
	for i, v := range analytic {
		anXY[i].X = v
		anXY[i].Y = float64(i)
	}
	if err = plotutil.AddLinePoints(p, "Simulated", simXY, "Analytic", anXY); err != nil {
		return err
	}
	p.X.Min = 0.
	wt, err := p.WriterTo(4*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// ReferenceProfile is a stored velocity profile for regression checks.
type ReferenceProfile struct {
	Case       string
	Nx, Ny     int
	Force      float64
	Tau        float64
	Iterations int
	Column     int
	Ux         []float64
}

// ReadReferenceProfile reads a reference profile in TOML format.
func ReadReferenceProfile(r io.Reader) (*ReferenceProfile, error) {
	ref := new(ReferenceProfile)
	if _, err := toml.DecodeReader(r, ref); err != nil {
		return nil, fmt.Errorf("lbflow: reading reference profile: %v", err)
	}
	if len(ref.Ux) != ref.Ny {
		return nil, fmt.Errorf("lbflow: reference profile has %d values but Ny is %d", len(ref.Ux), ref.Ny)
	}
	return ref, nil
}

// WriteReferenceProfile writes ref to w in TOML format.
func WriteReferenceProfile(w io.Writer, ref *ReferenceProfile) error {
	if err := toml.NewEncoder(w).Encode(ref); err != nil {
		return fmt.Errorf("lbflow: writing reference profile: %v", err)
	}
	return nil
}
