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
)

// SuperGeometry holds the material grids of every child of a cuboid
// geometry. A node just outside of one child reads its material from
// the child that owns that position, wrapping along periodic
// directions, so cleaning and renaming work across child borders.
type SuperGeometry struct {
	cg     *CuboidGeometry
	blocks []*BlockGeometry
}

// Node is a node of one child cuboid.
type Node struct {
	Cuboid int
	X, Y   int
}

// NewSuperGeometry creates a material grid for every child of cg. Every
// node starts as DoNothing.
func NewSuperGeometry(cg *CuboidGeometry) *SuperGeometry {
	sg := &SuperGeometry{cg: cg}
	for i := 0; i < cg.NumCuboids(); i++ {
		bg := NewBlockGeometry(cg.Cuboid(i), i)
		i := i
		bg.outside = func(x, y int) int { return sg.neighborMaterial(i, x, y) }
		sg.blocks = append(sg.blocks, bg)
	}
	return sg
}

// CuboidGeometry returns the decomposition the grids cover.
func (sg *SuperGeometry) CuboidGeometry() *CuboidGeometry { return sg.cg }

// NumBlocks returns the number of grids.
func (sg *SuperGeometry) NumBlocks() int { return len(sg.blocks) }

// Block returns the grid of child i.
func (sg *SuperGeometry) Block(i int) *BlockGeometry { return sg.blocks[i] }

// neighborMaterial returns the material at node (x, y) of child i, which
// is outside of that child.
func (sg *SuperGeometry) neighborMaterial(i, x, y int) int {
	j, xj, yj, ok := sg.cg.LatticeR(sg.cg.PhysR(i, x, y))
	if !ok {
		return DoNothing
	}
	b := sg.blocks[j]
	if !b.inside(xj, yj) {
		return DoNothing
	}
	return b.material[yj*b.Nx()+xj]
}

// Material returns the material of node (x, y) of child i.
func (sg *SuperGeometry) Material(i, x, y int) int { return sg.blocks[i].Material(x, y) }

// SetMaterial sets the material of node (x, y) of child i.
func (sg *SuperGeometry) SetMaterial(i, x, y, m int) { sg.blocks[i].SetMaterial(x, y, m) }

// PhysR returns the physical position of node (x, y) of child i.
func (sg *SuperGeometry) PhysR(i, x, y int) geom.Point { return sg.cg.PhysR(i, x, y) }

// MotherLatticeR returns the coordinates of n in the lattice of the
// whole domain.
func (sg *SuperGeometry) MotherLatticeR(n Node) (x, y int) {
	return sg.cg.MotherCuboid().LatticeR(sg.cg.Cuboid(n.Cuboid).PhysR(n.X, n.Y))
}

// Nodes returns every node whose material is one of materials, child by
// child, then by column, then by row.
func (sg *SuperGeometry) Nodes(materials ...int) []Node {
	var out []Node
	for i, b := range sg.blocks {
		for x := 0; x < b.Nx(); x++ {
			for y := 0; y < b.Ny(); y++ {
				m := b.Material(x, y)
				for _, mm := range materials {
					if m == mm {
						out = append(out, Node{Cuboid: i, X: x, Y: y})
						break
					}
				}
			}
		}
	}
	return out
}

// Rename changes every node of material from to material to.
func (sg *SuperGeometry) Rename(from, to int) {
	for _, b := range sg.blocks {
		b.Rename(from, to)
	}
}

// RenameInside changes nodes of material from that are inside ind to
// material to.
func (sg *SuperGeometry) RenameInside(from, to int, ind Indicator) {
	for _, b := range sg.blocks {
		b.RenameInside(from, to, ind)
	}
}

// RenameInterior changes nodes of material from to material to when
// every node within xOffset and yOffset of them is also material from.
func (sg *SuperGeometry) RenameInterior(from, to, xOffset, yOffset int) {
	for _, b := range sg.blocks {
		b.RenameInterior(from, to, xOffset, yOffset)
	}
}

// RenameToward changes nodes of material from to material to unless
// every node in the box spanned by the node and the offset dir is
// material test.
func (sg *SuperGeometry) RenameToward(from, to, test int, dir [2]int) {
	for _, b := range sg.blocks {
		b.RenameToward(from, to, test, dir)
	}
}

// RenameBoundary is BlockGeometry.RenameBoundary with the discrete
// normal taken over the whole domain.
func (sg *SuperGeometry) RenameBoundary(from, to, fluid int, ind Indicator) {
	sg.RenameInside(from, to, ind)
	n := sg.Statistics().DiscreteNormal(to, DefaultMaxNorm)
	for _, b := range sg.blocks {
		b.restoreBoundary(from, to, fluid, ind, n)
	}
}

func (sg *SuperGeometry) sum(f func(b *BlockGeometry) int) int {
	var n int
	for _, b := range sg.blocks {
		n += f(b)
	}
	return n
}

// Clean turns boundary nodes that have no fluid neighbor into DoNothing
// and returns how many were changed.
func (sg *SuperGeometry) Clean() int { return sg.sum((*BlockGeometry).Clean) }

// OuterClean turns fluid nodes that touch a DoNothing node into
// DoNothing and returns how many were changed.
func (sg *SuperGeometry) OuterClean() int { return sg.sum((*BlockGeometry).OuterClean) }

// InnerClean turns boundary nodes with fluid on three sides into fluid
// and returns how many were changed.
func (sg *SuperGeometry) InnerClean() int { return sg.sum((*BlockGeometry).InnerClean) }

// InnerCleanMaterial is InnerClean restricted to nodes of material m.
func (sg *SuperGeometry) InnerCleanMaterial(m int) int {
	return sg.sum(func(b *BlockGeometry) int { return b.InnerCleanMaterial(m) })
}

// CheckForErrors reports whether any DoNothing node touches a fluid
// node.
func (sg *SuperGeometry) CheckForErrors() bool {
	for _, b := range sg.blocks {
		if b.CheckForErrors() {
			return true
		}
	}
	return false
}

// Statistics returns the material statistics of the whole domain.
func (sg *SuperGeometry) Statistics() *SuperStatistics {
	return &SuperStatistics{sg: sg}
}

// SuperStatistics combines the material statistics of every child.
// Bounding boxes are in physical coordinates since the children do not
// share a lattice.
type SuperStatistics struct {
	sg *SuperGeometry
}

func (s *SuperStatistics) each(f func(bs *MaterialStatistics)) {
	for _, b := range s.sg.blocks {
		f(b.Statistics())
	}
}

// Materials returns the materials present, in increasing order.
func (s *SuperStatistics) Materials() []int {
	seen := make(map[int]bool)
	s.each(func(bs *MaterialStatistics) {
		for _, m := range bs.Materials() {
			seen[m] = true
		}
	})
	out := make([]int, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// NumMaterials returns the number of different materials present.
func (s *SuperStatistics) NumMaterials() int { return len(s.Materials()) }

// Count returns the number of nodes of material m.
func (s *SuperStatistics) Count(m int) int {
	var n int
	s.each(func(bs *MaterialStatistics) { n += bs.Count(m) })
	return n
}

// Total returns the number of nodes that are not DoNothing.
func (s *SuperStatistics) Total() int {
	var n int
	s.each(func(bs *MaterialStatistics) { n += bs.Total() })
	return n
}

// bounds returns the physical bounding box of material m.
func (s *SuperStatistics) bounds(m int) (lo, hi geom.Point, ok bool) {
	s.each(func(bs *MaterialStatistics) {
		if bs.Count(m) == 0 {
			return
		}
		l, h := bs.MinPhysR(m), bs.MaxPhysR(m)
		if !ok {
			lo, hi, ok = l, h, true
			return
		}
		lo = geom.Point{X: math.Min(lo.X, l.X), Y: math.Min(lo.Y, l.Y)}
		hi = geom.Point{X: math.Max(hi.X, h.X), Y: math.Max(hi.Y, h.Y)}
	})
	return
}

// MinPhysR returns the lower left corner of the bounding box of
// material m.
func (s *SuperStatistics) MinPhysR(m int) geom.Point {
	lo, _, _ := s.bounds(m)
	return lo
}

// MaxPhysR returns the upper right corner of the bounding box of
// material m.
func (s *SuperStatistics) MaxPhysR(m int) geom.Point {
	_, hi, _ := s.bounds(m)
	return hi
}

// PhysExtent returns MaxPhysR - MinPhysR.
func (s *SuperStatistics) PhysExtent(m int) geom.Point {
	lo, hi, _ := s.bounds(m)
	return geom.Point{X: hi.X - lo.X, Y: hi.Y - lo.Y}
}

// PhysRadius returns half of PhysExtent.
func (s *SuperStatistics) PhysRadius(m int) geom.Point {
	e := s.PhysExtent(m)
	return geom.Point{X: 0.5 * e.X, Y: 0.5 * e.Y}
}

// CenterPhysR returns the center of the bounding box of material m.
func (s *SuperStatistics) CenterPhysR(m int) geom.Point {
	lo, r := s.MinPhysR(m), s.PhysRadius(m)
	return geom.Point{X: lo.X + r.X, Y: lo.Y + r.Y}
}

// Type classifies node (x, y) of child i.
func (s *SuperStatistics) Type(i, x, y int) NodeType {
	return s.sg.blocks[i].Statistics().Type(x, y)
}

// Normal returns the unit vector pointing from the nodes of material m
// toward the fluid over the whole domain.
func (s *SuperStatistics) Normal(m int) [2]float64 {
	var nx, ny float64
	s.each(func(bs *MaterialStatistics) {
		x, y := bs.normalSum(m)
		nx += x
		ny += y
	})
	return unit(nx, ny)
}

// DiscreteNormal returns the lattice direction no longer than maxNorm
// that is closest to Normal(m).
func (s *SuperStatistics) DiscreteNormal(m int, maxNorm float64) [2]int {
	return discretize(s.Normal(m), maxNorm)
}

// Print writes the count and physical bounding box of each material to
// w.
func (s *SuperStatistics) Print(w io.Writer) {
	for _, m := range s.Materials() {
		lo, hi, _ := s.bounds(m)
		fmt.Fprintf(w, "MaterialNumber=%d count=%d MinPhysR=(%g, %g) MaxPhysR=(%g, %g)\n",
			m, s.Count(m), lo.X, lo.Y, hi.X, hi.Y)
	}
}
