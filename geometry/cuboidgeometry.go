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

package geometry

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// CuboidGeometry is a mother cuboid covering the whole domain and the
// child cuboids it has been decomposed into.
//
// The spatial index used by GlobalCuboidIndex is rebuilt lazily after
// any change, so a CuboidGeometry is not safe for concurrent use while
// it is being modified.
type CuboidGeometry struct {
	mother   *Cuboid
	cuboids  []*Cuboid
	periodic [2]bool

	index *rtree.Rtree
}

// cuboidCell is the footprint of a child cuboid in the spatial index.
type cuboidCell struct {
	geom.Polygon
	index int
}

// NewCuboidGeometry creates an nx by ny node domain with its lower left
// node at (x, y), split into nc children.
func NewCuboidGeometry(x, y, deltaR float64, nx, ny, nc int) *CuboidGeometry {
	cg := &CuboidGeometry{mother: NewCuboid(x, y, deltaR, nx, ny)}
	cg.cuboids = []*Cuboid{NewCuboid(x, y, deltaR, nx, ny)}
	cg.Split(0, nc)
	return cg
}

// NewCuboidGeometryFromIndicator creates a domain covering ind with node
// spacing deltaR, splits it into nc children and shrinks the children to
// the nodes inside ind.
func NewCuboidGeometryFromIndicator(ind Indicator, deltaR float64, nc int) *CuboidGeometry {
	min, max := ind.Min(), ind.Max()
	nx := int((max.X-min.X)/deltaR + 1.5)
	ny := int((max.Y-min.Y)/deltaR + 1.5)
	cg := NewCuboidGeometry(min.X, min.Y, deltaR, nx, ny, nc)
	cg.Shrink(ind)
	return cg
}

// Add appends c to the children.
func (cg *CuboidGeometry) Add(c *Cuboid) {
	cg.cuboids = append(cg.cuboids, c)
	cg.index = nil
}

// Remove deletes child i. Later children move down by one.
func (cg *CuboidGeometry) Remove(i int) {
	cg.cuboids = append(cg.cuboids[:i], cg.cuboids[i+1:]...)
	cg.index = nil
}

// Split replaces child i with n pieces, appended after the remaining
// children.
func (cg *CuboidGeometry) Split(i, n int) {
	children := cg.cuboids[i].DivideN(n)
	cg.Remove(i)
	cg.cuboids = append(cg.cuboids, children...)
}

// Shrink trims every child to the bounding box of its nodes that are
// inside ind and sets its weight to the number of those nodes. Children
// with no nodes inside are removed. The mother cuboid is then shrunk to
// cover the remaining children.
func (cg *CuboidGeometry) Shrink(ind Indicator) {
	for i := len(cg.cuboids) - 1; i >= 0; i-- {
		c := cg.cuboids[i]
		full := 0
		minX, minY := math.MaxInt64, math.MaxInt64
		maxX, maxY := math.MinInt64, math.MinInt64
		for x := 0; x < c.Nx(); x++ {
			for y := 0; y < c.Ny(); y++ {
				if !ind.IsInside(cg.PhysR(i, x, y)) {
					continue
				}
				full++
				minX, minY = minInt(minX, x), minInt(minY, y)
				maxX, maxY = maxInt(maxX, x), maxInt(maxY, y)
			}
		}
		if full == 0 {
			cg.Remove(i)
			continue
		}
		c.SetWeight(full)
		c.Resize(minX, minY, maxX-minX+1, maxY-minY+1)
	}
	cg.index = nil
	if len(cg.cuboids) == 0 {
		return
	}
	lo, hi := cg.MinPhysR(), cg.MaxPhysR()
	dR := cg.MinDeltaR()
	cg.mother = NewCuboid(lo.X, lo.Y, dR,
		int((hi.X-lo.X)/dR+0.5), int((hi.Y-lo.Y)/dR+0.5))
}

// Cuboid returns child i. Changes made to the returned cuboid are
// reflected in the geometry.
func (cg *CuboidGeometry) Cuboid(i int) *Cuboid {
	if i < 0 || i >= len(cg.cuboids) {
		panic(fmt.Errorf("geometry: cuboid %d out of range [0, %d)", i, len(cg.cuboids)))
	}
	cg.index = nil
	return cg.cuboids[i]
}

// NumCuboids returns the number of children.
func (cg *CuboidGeometry) NumCuboids() int { return len(cg.cuboids) }

// MotherCuboid returns the cuboid covering the whole domain.
func (cg *CuboidGeometry) MotherCuboid() *Cuboid { return cg.mother }

// SetIsPeriodic sets whether the domain wraps around in x and in y.
func (cg *CuboidGeometry) SetIsPeriodic(x, y bool) { cg.periodic = [2]bool{x, y} }

// IsPeriodic returns whether the domain wraps around in x and in y.
func (cg *CuboidGeometry) IsPeriodic() (x, y bool) { return cg.periodic[0], cg.periodic[1] }

// PhysR returns the physical position of node (xi, yi) of child i,
// wrapped back into the mother cuboid along periodic directions.
func (cg *CuboidGeometry) PhysR(i, xi, yi int) geom.Point {
	p := cg.cuboids[i].PhysR(xi, yi)
	o := cg.mother.Origin()
	dR := cg.mother.DeltaR()
	p.X = wrapPeriodic(cg.periodic[0], p.X, o.X, dR, cg.mother.Nx())
	p.Y = wrapPeriodic(cg.periodic[1], p.Y, o.Y, dR, cg.mother.Ny())
	return p
}

func wrapPeriodic(periodic bool, p, o, dR float64, n int) float64 {
	if !periodic {
		return p
	}
	l := dR * float64(n)
	p = math.Mod(p-o+l, l)
	if p*p < 1e-3*dR*dR {
		p = 0
	}
	return p + o
}

// GlobalCuboidIndex returns the index of the first child that contains
// (x, y) when extended by overlap nodes, or -1 if there is none.
func (cg *CuboidGeometry) GlobalCuboidIndex(x, y float64, overlap int) int {
	if len(cg.cuboids) == 0 {
		return -1
	}
	if cg.index == nil {
		cg.buildIndex()
	}
	pad := (float64(overlap) + 1) * cg.MaxDeltaR()
	query := &geom.Bounds{
		Min: geom.Point{X: x - pad, Y: y - pad},
		Max: geom.Point{X: x + pad, Y: y + pad},
	}
	var hits []int
	for _, g := range cg.index.SearchIntersect(query) {
		hits = append(hits, g.(*cuboidCell).index)
	}
	sort.Ints(hits)
	for _, i := range hits {
		if cg.cuboids[i].ContainPoint(x, y, overlap) {
			return i
		}
	}
	return -1
}

// buildIndex inserts the area owned by each child into a new tree.
func (cg *CuboidGeometry) buildIndex() {
	cg.index = rtree.NewTree(25, 50)
	for i, c := range cg.cuboids {
		h := 0.5 * c.DeltaR()
		b := c.Bounds()
		cg.index.Insert(&cuboidCell{
			Polygon: geom.Polygon{{
				{X: b.Min.X - h, Y: b.Min.Y - h},
				{X: b.Max.X + h, Y: b.Min.Y - h},
				{X: b.Max.X + h, Y: b.Max.Y + h},
				{X: b.Min.X - h, Y: b.Max.Y + h},
			}},
			index: i,
		})
	}
}

// HasCuboid returns the index of the child containing p and whether
// there is one.
func (cg *CuboidGeometry) HasCuboid(p geom.Point) (int, bool) {
	i := cg.GlobalCuboidIndex(p.X, p.Y, 0)
	return i, i >= 0
}

// LatticeR returns the child containing p and the lattice coordinates of
// the node nearest to p within it.
func (cg *CuboidGeometry) LatticeR(p geom.Point) (i, xi, yi int, ok bool) {
	i, ok = cg.HasCuboid(p)
	if !ok {
		return -1, 0, 0, false
	}
	xi, yi = cg.cuboids[i].LatticeR(p)
	return i, xi, yi, true
}

// FloorLatticeR returns the child containing p and the lattice
// coordinates of the node below and to the left of p within it.
func (cg *CuboidGeometry) FloorLatticeR(p geom.Point) (i, xi, yi int, ok bool) {
	i, ok = cg.HasCuboid(p)
	if !ok {
		return -1, 0, 0, false
	}
	xi, yi = cg.cuboids[i].FloorLatticeR(p)
	return i, xi, yi, true
}

// MinPhysR returns the lowest child origin in each direction.
func (cg *CuboidGeometry) MinPhysR() geom.Point {
	out := cg.cuboids[0].Origin()
	for _, c := range cg.cuboids {
		out.X = math.Min(out.X, c.Origin().X)
		out.Y = math.Min(out.Y, c.Origin().Y)
	}
	return out
}

// MaxPhysR returns the highest child upper edge, origin + n*deltaR, in
// each direction.
func (cg *CuboidGeometry) MaxPhysR() geom.Point {
	out := geom.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range cg.cuboids {
		out.X = math.Max(out.X, c.Origin().X+c.DeltaR()*float64(c.Nx()))
		out.Y = math.Max(out.Y, c.Origin().Y+c.DeltaR()*float64(c.Ny()))
	}
	return out
}

// stat returns the minimum and maximum of f over the children.
func (cg *CuboidGeometry) stat(f func(c *Cuboid) float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, c := range cg.cuboids {
		v := f(c)
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return
}

// MinDeltaR returns the smallest child node spacing.
func (cg *CuboidGeometry) MinDeltaR() float64 {
	min, _ := cg.stat(func(c *Cuboid) float64 { return c.DeltaR() })
	return min
}

// MaxDeltaR returns the largest child node spacing.
func (cg *CuboidGeometry) MaxDeltaR() float64 {
	_, max := cg.stat(func(c *Cuboid) float64 { return c.DeltaR() })
	return max
}

func aspect(c *Cuboid) float64 { return float64(c.Nx()) / float64(c.Ny()) }

// MinRatio returns the smallest child nx/ny, or 1 if every child is
// wider than it is tall.
func (cg *CuboidGeometry) MinRatio() float64 {
	min, _ := cg.stat(aspect)
	return math.Min(min, 1)
}

// MaxRatio returns the largest child nx/ny, or 1 if every child is
// taller than it is wide.
func (cg *CuboidGeometry) MaxRatio() float64 {
	_, max := cg.stat(aspect)
	return math.Max(max, 1)
}

// MinPhysVolume returns the smallest child area in physical units.
func (cg *CuboidGeometry) MinPhysVolume() float64 {
	min, _ := cg.stat(func(c *Cuboid) float64 { return c.PhysVolume() })
	return min
}

// MaxPhysVolume returns the largest child area in physical units.
func (cg *CuboidGeometry) MaxPhysVolume() float64 {
	_, max := cg.stat(func(c *Cuboid) float64 { return c.PhysVolume() })
	return max
}

// MinLatticeVolume returns the smallest child node count.
func (cg *CuboidGeometry) MinLatticeVolume() int {
	min, _ := cg.stat(func(c *Cuboid) float64 { return float64(c.LatticeVolume()) })
	return int(min)
}

// MaxLatticeVolume returns the largest child node count.
func (cg *CuboidGeometry) MaxLatticeVolume() int {
	_, max := cg.stat(func(c *Cuboid) float64 { return float64(c.LatticeVolume()) })
	return int(max)
}

// MinWeight returns the smallest child weight, counting an unweighted
// child as its full node count.
func (cg *CuboidGeometry) MinWeight() int {
	min, _ := cg.stat(func(c *Cuboid) float64 { return float64(NodeWeight(c)) })
	return int(min)
}

// MaxWeight returns the largest child weight, counting an unweighted
// child as its full node count.
func (cg *CuboidGeometry) MaxWeight() int {
	_, max := cg.stat(func(c *Cuboid) float64 { return float64(NodeWeight(c)) })
	return int(max)
}

// NodeWeight returns the weight of c, or its node count if it is
// unweighted.
func NodeWeight(c *Cuboid) int {
	if c.Weight() == Unweighted {
		return c.LatticeVolume()
	}
	return c.Weight()
}

// Print writes summary statistics of the children to w.
func (cg *CuboidGeometry) Print(w io.Writer) {
	fmt.Fprintln(w, "===== Cuboid Structure Statistics =====")
	fmt.Fprintln(w, " Parameter         | Value")
	fmt.Fprintf(w, " Number of Cuboids | %d\n", cg.NumCuboids())
	if cg.NumCuboids() > 0 {
		fmt.Fprintf(w, " Delta (min)       | %g\n", cg.MinDeltaR())
		fmt.Fprintf(w, " Delta (max)       | %g\n", cg.MaxDeltaR())
		fmt.Fprintf(w, " Ratio (min)       | %g\n", cg.MinRatio())
		fmt.Fprintf(w, " Ratio (max)       | %g\n", cg.MaxRatio())
		fmt.Fprintf(w, " Nodes (min)       | %d\n", cg.MinLatticeVolume())
		fmt.Fprintf(w, " Nodes (max)       | %d\n", cg.MaxLatticeVolume())
		fmt.Fprintf(w, " Weight (min)      | %d\n", cg.MinWeight())
		fmt.Fprintf(w, " Weight (max)      | %d\n", cg.MaxWeight())
	}
	fmt.Fprintln(w, "---------------------------------------")
}

// PrintExtended writes the mother cuboid and every child to w.
func (cg *CuboidGeometry) PrintExtended(w io.Writer) {
	fmt.Fprintln(w, "Mother cuboid:")
	cg.mother.Print(w)
	for i, c := range cg.cuboids {
		fmt.Fprintf(w, "Cuboid #%d:\n", i)
		c.Print(w)
	}
}
