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

// Package geometry holds the rectangular blocks (cuboids) that a
// simulation domain is decomposed into, and the indicator shapes used
// to carve them.
package geometry

import (
	"fmt"
	"io"
	"math"

	"github.com/ctessum/geom"
)

// Unweighted is the weight of a cuboid whose weight has never been set.
const Unweighted = math.MaxInt64

// Cuboid is a rectangular block of nx by ny lattice nodes. The node
// with lattice coordinates (0, 0) sits at the origin and neighboring
// nodes are deltaR apart.
type Cuboid struct {
	origin geom.Point
	deltaR float64
	nx, ny int
	weight int
}

// NewCuboid creates a cuboid with its lower left node at (x, y).
func NewCuboid(x, y, deltaR float64, nx, ny int) *Cuboid {
	return &Cuboid{
		origin: geom.Point{X: x, Y: y},
		deltaR: deltaR,
		nx:     nx,
		ny:     ny,
		weight: Unweighted,
	}
}

// Origin returns the physical position of node (0, 0).
func (c *Cuboid) Origin() geom.Point { return c.origin }

// DeltaR returns the node spacing.
func (c *Cuboid) DeltaR() float64 { return c.deltaR }

// Nx returns the number of nodes in the x direction.
func (c *Cuboid) Nx() int { return c.nx }

// Ny returns the number of nodes in the y direction.
func (c *Cuboid) Ny() int { return c.ny }

// Weight returns the number of nodes assigned to the cuboid, or
// Unweighted.
func (c *Cuboid) Weight() int { return c.weight }

// SetWeight sets the weight of the cuboid.
func (c *Cuboid) SetWeight(w int) { c.weight = w }

// PhysPerimeter returns the physical perimeter.
func (c *Cuboid) PhysPerimeter() float64 {
	return 2*c.deltaR*float64(c.ny) + 2*c.deltaR*float64(c.nx)
}

// LatticePerimeter returns the number of nodes on the perimeter.
func (c *Cuboid) LatticePerimeter() int {
	if c.nx < 2 || c.ny < 2 {
		return c.nx * c.ny
	}
	return 2*c.nx + 2*c.ny - 4
}

// PhysVolume returns the physical area.
func (c *Cuboid) PhysVolume() float64 {
	return c.deltaR * float64(c.ny) * c.deltaR * float64(c.nx)
}

// LatticeVolume returns the number of nodes.
func (c *Cuboid) LatticeVolume() int { return c.nx * c.ny }

// Bounds returns the bounding box of the cuboid's nodes.
func (c *Cuboid) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: c.origin,
		Max: geom.Point{
			X: c.origin.X + float64(c.nx-1)*c.deltaR,
			Y: c.origin.Y + float64(c.ny-1)*c.deltaR,
		},
	}
}

// PhysR returns the physical position of the node at lattice
// coordinates (xi, yi).
func (c *Cuboid) PhysR(xi, yi int) geom.Point {
	return geom.Point{
		X: c.origin.X + c.deltaR*float64(xi),
		Y: c.origin.Y + c.deltaR*float64(yi),
	}
}

// LatticeR returns the lattice coordinates of the node nearest to p.
func (c *Cuboid) LatticeR(p geom.Point) (xi, yi int) {
	xi = int(math.Floor((p.X-c.origin.X)/c.deltaR + 0.5))
	yi = int(math.Floor((p.Y-c.origin.Y)/c.deltaR + 0.5))
	return
}

// FloorLatticeR returns the lattice coordinates of the node below and to
// the left of p.
func (c *Cuboid) FloorLatticeR(p geom.Point) (xi, yi int) {
	xi = int(math.Floor((p.X - c.origin.X) / c.deltaR))
	yi = int(math.Floor((p.Y - c.origin.Y) / c.deltaR))
	return
}

// Divide splits the cuboid into numCol by numRow children, listed column
// by column. Nodes left over after an even split go to the first
// columns and rows.
func (c *Cuboid) Divide(numCol, numRow int) []*Cuboid {
	return c.divide(numCol, numRow, nil)
}

func (c *Cuboid) divide(numCol, numRow int, out []*Cuboid) []*Cuboid {
	x := c.origin.X
	for i := 0; i < numCol; i++ {
		y := c.origin.Y
		nx := (c.nx + numCol - 1 - i) / numCol
		for j := 0; j < numRow; j++ {
			ny := (c.ny + numRow - 1 - j) / numRow
			out = append(out, NewCuboid(x, y, c.deltaR, nx, ny))
			y += float64(ny) * c.deltaR
		}
		x += float64(nx) * c.deltaR
	}
	return out
}

// DivideN splits the cuboid into count children whose shapes are as
// close as possible to the shape of the parent. It panics if count is
// not positive.
func (c *Cuboid) DivideN(count int) []*Cuboid {
	return c.divideN(count, nil)
}

func (c *Cuboid) divideN(count int, out []*Cuboid) []*Cuboid {
	if count <= 0 {
		panic(fmt.Errorf("geometry: cannot divide cuboid into %d pieces", count))
	}
	bestRatio := float64(c.nx) / float64(c.ny)
	bestDiff := math.Inf(1)
	numCol, numRow := 1, count
	for col := 1; col <= count; col++ {
		row := count / col
		diff := math.Abs(bestRatio - float64(col)/float64(row))
		if diff < bestDiff {
			bestDiff = diff
			numCol, numRow = col, row
		}
	}
	rest := count - numCol*numRow
	if rest == 0 {
		return c.divide(numCol, numRow, out)
	}

	vol := float64(c.nx) * float64(c.ny)
	if float64(numCol)/float64(numRow) < bestRatio && numRow >= rest {
		// Insert an extra cuboid into each of the top rest rows.
		nySame := int(vol * float64(numCol*(numRow-rest)) / float64(count) / float64(c.nx))
		bottom := NewCuboid(c.origin.X, c.origin.Y, c.deltaR, c.nx, nySame)
		top := NewCuboid(c.origin.X, c.origin.Y+c.deltaR*float64(nySame), c.deltaR,
			c.nx, c.ny-nySame)
		out = bottom.divide(numCol, numRow-rest, out)
		return top.divide(numCol+1, rest, out)
	}
	// Insert an extra cuboid into each of the right rest columns.
	nxSame := int(vol*float64(numRow*(numCol-rest))/float64(count)/float64(c.ny) + 0.9999)
	left := NewCuboid(c.origin.X, c.origin.Y, c.deltaR, nxSame, c.ny)
	right := NewCuboid(c.origin.X+c.deltaR*float64(nxSame), c.origin.Y, c.deltaR,
		c.nx-nxSame, c.ny)
	out = left.divide(numCol-rest, numRow, out)
	return right.divide(rest, numRow+1, out)
}

// Resize moves the origin to node (xi, yi) and sets the extent to nx by
// ny nodes.
func (c *Cuboid) Resize(xi, yi, nx, ny int) {
	c.origin.X += c.deltaR * float64(xi)
	c.origin.Y += c.deltaR * float64(yi)
	c.nx = nx
	c.ny = ny
}

// ContainPoint reports whether (x, y) falls within the cuboid after it
// is extended by overlap nodes on every side. Each node owns the square
// of side deltaR around it.
func (c *Cuboid) ContainPoint(x, y float64, overlap int) bool {
	ov := float64(overlap)
	return c.origin.X-(0.5+ov)*c.deltaR <= x &&
		c.origin.X+(float64(c.nx)-0.5+ov)*c.deltaR > x &&
		c.origin.Y-(0.5+ov)*c.deltaR <= y &&
		c.origin.Y+(float64(c.ny)-0.5+ov)*c.deltaR > y
}

// ContainPointIndex is like ContainPoint, and also returns the lattice
// coordinates of the point counted from the corner of the extended
// cuboid.
func (c *Cuboid) ContainPointIndex(x, y float64, overlap int) (xi, yi int, ok bool) {
	if !c.ContainPoint(x, y, overlap) {
		return 0, 0, false
	}
	ov := float64(overlap) * c.deltaR
	xi = int(math.Floor((x-c.origin.X+ov)/c.deltaR + 0.5))
	yi = int(math.Floor((y-c.origin.Y+ov)/c.deltaR + 0.5))
	return xi, yi, true
}

// CheckIntersection reports whether the rectangle with corners (x0, y0)
// and (x1, y1) intersects the nodes of the cuboid extended by overlap.
func (c *Cuboid) CheckIntersection(x0, y0, x1, y1 float64, overlap int) bool {
	ov := float64(overlap)
	xa := math.Max(c.origin.X-ov*c.deltaR, x0)
	ya := math.Max(c.origin.Y-ov*c.deltaR, y0)
	xb := math.Min(c.origin.X+(float64(c.nx-1)+ov)*c.deltaR, x1)
	yb := math.Min(c.origin.Y+(float64(c.ny-1)+ov)*c.deltaR, y1)
	return xb >= xa && yb >= ya
}

// CheckPointIntersection reports whether (x, y) intersects the nodes of
// the cuboid extended by overlap.
func (c *Cuboid) CheckPointIntersection(x, y float64, overlap int) bool {
	return c.CheckIntersection(x, y, x, y, overlap)
}

// IntersectionIndex is like CheckIntersection, and also returns the
// lattice index range of the intersection, counted from the corner of
// the extended cuboid. If there is no intersection the range is empty
// (xi0 > xi1 and yi0 > yi1).
func (c *Cuboid) IntersectionIndex(x0, y0, x1, y1 float64, overlap int) (xi0, yi0, xi1, yi1 int, ok bool) {
	if !c.CheckIntersection(x0, y0, x1, y1, overlap) {
		return 1, 1, 0, 0, false
	}
	ov := float64(overlap)
	xi0 = maxInt(int((x0-c.origin.X)/c.deltaR+ov+0.5), 0)
	yi0 = maxInt(int((y0-c.origin.Y)/c.deltaR+ov+0.5), 0)
	xi1 = minInt(int((x1-c.origin.X)/c.deltaR+ov+0.5), c.nx-1+2*overlap)
	yi1 = minInt(int((y1-c.origin.Y)/c.deltaR+ov+0.5), c.ny-1+2*overlap)
	return xi0, yi0, xi1, yi1, true
}

// Print writes a table describing the cuboid to w.
func (c *Cuboid) Print(w io.Writer) {
	fmt.Fprintln(w, "==== Cuboid information =====")
	fmt.Fprintln(w, "Parameter          | Variable | Value")
	fmt.Fprintf(w, "Lower left corner  | (x, y)   | (%g, %g)\n", c.origin.X, c.origin.Y)
	fmt.Fprintf(w, "Node spacing       | Delta R  | %g\n", c.deltaR)
	fmt.Fprintf(w, "Perimeter          |          | %g\n", c.PhysPerimeter())
	fmt.Fprintf(w, "Volume             |          | %g\n", c.PhysVolume())
	fmt.Fprintf(w, "Extent             | (nx, ny) | (%d, %d)\n", c.nx, c.ny)
	fmt.Fprintf(w, "Nodes at perimeter |          | %d\n", c.LatticePerimeter())
	fmt.Fprintf(w, "Nodes in volume    |          | %d\n", c.LatticeVolume())
	fmt.Fprintln(w, "-----------------------------")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
