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

// Package lbflow is a two-dimensional lattice Boltzmann fluid solver
// using the D2Q9 lattice.
package lbflow

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Direction is the index of a discrete velocity of the D2Q9 lattice.
type Direction int

// Lattice directions, in storage order.
const (
	Center Direction = iota
	East
	North
	West
	South
	NorthEast
	NorthWest
	SouthWest
	SouthEast
)

// NumDirections is the number of discrete velocities in the D2Q9 lattice.
const NumDirections = 9

// opposite holds the direction pointing the other way for each direction.
var opposite = [NumDirections]Direction{Center, West, South, East, North,
	SouthWest, SouthEast, NorthEast, NorthWest}

// Opposite returns the direction pointing the opposite way.
func (d Direction) Opposite() Direction { return opposite[d] }

// Edge classifies the position of a node relative to the domain boundary.
type Edge int

// Node classifications. Corners take priority over sides.
const (
	NotEdge Edge = iota
	RightEdge
	UpperEdge
	LeftEdge
	LowerEdge
	UpperRight
	UpperLeft
	LowerLeft
	LowerRight
)

// numEdges is the number of node classifications.
const numEdges = int(LowerRight) + 1

var edgeNames = [numEdges]string{"not edge", "right", "upper", "left", "lower",
	"upper right", "upper left", "lower left", "lower right"}

func (e Edge) String() string {
	if e < NotEdge || int(e) >= len(edgeNames) {
		return fmt.Sprintf("Edge(%d)", int(e))
	}
	return edgeNames[e]
}

// IsCorner returns whether e is one of the four corner classes.
func (e Edge) IsCorner() bool { return e >= UpperRight && e <= LowerRight }

// Vector is a two-component vector.
type Vector [2]float64

// Add returns v + o.
func (v Vector) Add(o Vector) Vector { return Vector{v[0] + o[0], v[1] + o[1]} }

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{v[0] - o[0], v[1] - o[1]} }

// Scale returns s*v.
func (v Vector) Scale(s float64) Vector { return Vector{s * v[0], s * v[1]} }

// Dot returns the inner product of v and o.
func (v Vector) Dot(o Vector) float64 { return v[0]*o[0] + v[1]*o[1] }

// InnerProduct returns the inner product of a and b. It panics if the
// lengths differ.
func InnerProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Errorf("lbflow: inner product of vectors with lengths %d and %d", len(a), len(b)))
	}
	return floats.Dot(a, b)
}

// Field holds a distribution function value for every lattice node and
// direction, indexed as [node][direction].
type Field [][NumDirections]float64

// NewField returns a zeroed field for n nodes.
func NewField(n int) Field { return make(Field, n) }

// Copy returns a deep copy of f.
func (f Field) Copy() Field {
	o := make(Field, len(f))
	copy(o, f)
	return o
}

// Lattice is the D2Q9 lattice model. It holds the grid dimensions,
// the immutable weight and discrete velocity tables and the macroscopic
// velocity of every node.
type Lattice struct {
	nx, ny int
	c      float64
	e      [NumDirections]Vector
	w      [NumDirections]float64
	u      []Vector
}

// NewLattice creates a D2Q9 lattice with nx by ny nodes, lattice speed c,
// and the velocity of every node set to u0.
func NewLattice(nx, ny int, c float64, u0 Vector) *Lattice {
	if nx <= 0 || ny <= 0 {
		panic(fmt.Errorf("lbflow: invalid lattice size %dx%d", nx, ny))
	}
	lm := &Lattice{
		nx: nx,
		ny: ny,
		c:  c,
		w: [NumDirections]float64{4. / 9,
			1. / 9, 1. / 9, 1. / 9, 1. / 9,
			1. / 36, 1. / 36, 1. / 36, 1. / 36},
	}
	unit := [NumDirections]Vector{{0, 0},
		{1, 0}, {0, 1}, {-1, 0}, {0, -1},
		{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	for i, e := range unit {
		lm.e[i] = e.Scale(c)
	}
	lm.u = make([]Vector, nx*ny)
	for n := range lm.u {
		lm.u[n] = u0
	}
	return lm
}

// Nx returns the number of nodes in the x direction.
func (lm *Lattice) Nx() int { return lm.nx }

// Ny returns the number of nodes in the y direction.
func (lm *Lattice) Ny() int { return lm.ny }

// NumNodes returns nx*ny.
func (lm *Lattice) NumNodes() int { return lm.nx * lm.ny }

// NumDimensions is always 2.
func (lm *Lattice) NumDimensions() int { return 2 }

// NumDirections is always 9.
func (lm *Lattice) NumDirections() int { return NumDirections }

// Speed returns the lattice propagation speed c.
func (lm *Lattice) Speed() float64 { return lm.c }

// Weights returns the lattice weights.
func (lm *Lattice) Weights() [NumDirections]float64 { return lm.w }

// DiscreteVelocities returns the discrete velocities scaled by c.
func (lm *Lattice) DiscreteVelocities() [NumDirections]Vector { return lm.e }

// Velocity returns the macroscopic velocity field. The slice is shared
// with the lattice.
func (lm *Lattice) Velocity() []Vector { return lm.u }

// SetVelocity replaces the velocity field. It panics if the length
// does not match the number of nodes.
func (lm *Lattice) SetVelocity(u []Vector) {
	if len(u) != lm.NumNodes() {
		panic(fmt.Errorf("lbflow: velocity field has %d nodes, lattice has %d", len(u), lm.NumNodes()))
	}
	copy(lm.u, u)
}

// Index returns the node index of lattice coordinates (x, y).
func (lm *Lattice) Index(x, y int) int { return y*lm.nx + x }

// Coords returns the lattice coordinates of node n.
func (lm *Lattice) Coords(n int) (x, y int) { return n % lm.nx, n / lm.nx }

// DetermineOrientation classifies node n as a side, a corner or an
// interior node.
func (lm *Lattice) DetermineOrientation(n int) Edge {
	left := n%lm.nx == 0
	right := n%lm.nx == lm.nx-1
	lower := n/lm.nx == 0
	upper := n/lm.nx == lm.ny-1
	switch {
	case upper && right:
		return UpperRight
	case upper && left:
		return UpperLeft
	case lower && left:
		return LowerLeft
	case lower && right:
		return LowerRight
	case right:
		return RightEdge
	case upper:
		return UpperEdge
	case left:
		return LeftEdge
	case lower:
		return LowerEdge
	}
	return NotEdge
}
