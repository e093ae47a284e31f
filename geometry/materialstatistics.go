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

// DefaultMaxNorm is the longest lattice direction considered when
// discretizing a normal, which admits the diagonals.
const DefaultMaxNorm = 1.1

// BoundaryType classifies a boundary node by the shape of the wall
// around it.
type BoundaryType int

// Boundary node classifications.
const (
	FlatBoundary BoundaryType = iota
	ExternalCorner
	InternalCorner
)

// NodeType is the boundary classification of a node and its discrete
// normal. The normal is zero for fluid and DoNothing nodes.
type NodeType struct {
	Type   BoundaryType
	Normal [2]int
}

// MaterialStatistics holds the number of nodes of each material in a
// block and their bounding boxes.
type MaterialStatistics struct {
	bg       *BlockGeometry
	count    map[int]int
	min, max map[int][2]int
}

func newMaterialStatistics(bg *BlockGeometry) *MaterialStatistics {
	s := &MaterialStatistics{
		bg:    bg,
		count: make(map[int]int),
		min:   make(map[int][2]int),
		max:   make(map[int][2]int),
	}
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			m := bg.Material(x, y)
			if s.count[m] == 0 {
				s.min[m] = [2]int{x, y}
				s.max[m] = [2]int{x, y}
			} else {
				lo, hi := s.min[m], s.max[m]
				s.min[m] = [2]int{minInt(lo[0], x), minInt(lo[1], y)}
				s.max[m] = [2]int{maxInt(hi[0], x), maxInt(hi[1], y)}
			}
			s.count[m]++
		}
	}
	return s
}

// Materials returns the materials present, in increasing order.
func (s *MaterialStatistics) Materials() []int {
	out := make([]int, 0, len(s.count))
	for m := range s.count {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// NumMaterials returns the number of different materials present.
func (s *MaterialStatistics) NumMaterials() int { return len(s.count) }

// Count returns the number of nodes of material m.
func (s *MaterialStatistics) Count(m int) int { return s.count[m] }

// Total returns the number of nodes that are not DoNothing.
func (s *MaterialStatistics) Total() int {
	var n int
	for m, c := range s.count {
		if m != DoNothing {
			n += c
		}
	}
	return n
}

// MinLatticeR returns the lower left corner of the bounding box of
// material m.
func (s *MaterialStatistics) MinLatticeR(m int) (x, y int) { return s.min[m][0], s.min[m][1] }

// MaxLatticeR returns the upper right corner of the bounding box of
// material m.
func (s *MaterialStatistics) MaxLatticeR(m int) (x, y int) { return s.max[m][0], s.max[m][1] }

// LatticeExtent returns the size of the bounding box of material m in
// nodes, less one.
func (s *MaterialStatistics) LatticeExtent(m int) (x, y int) {
	return s.max[m][0] - s.min[m][0], s.max[m][1] - s.min[m][1]
}

// MinPhysR returns the physical position of MinLatticeR.
func (s *MaterialStatistics) MinPhysR(m int) geom.Point { return s.bg.PhysR(s.MinLatticeR(m)) }

// MaxPhysR returns the physical position of MaxLatticeR.
func (s *MaterialStatistics) MaxPhysR(m int) geom.Point { return s.bg.PhysR(s.MaxLatticeR(m)) }

// PhysExtent returns MaxPhysR - MinPhysR.
func (s *MaterialStatistics) PhysExtent(m int) geom.Point {
	lo, hi := s.MinPhysR(m), s.MaxPhysR(m)
	return geom.Point{X: hi.X - lo.X, Y: hi.Y - lo.Y}
}

// PhysRadius returns half of PhysExtent.
func (s *MaterialStatistics) PhysRadius(m int) geom.Point {
	e := s.PhysExtent(m)
	return geom.Point{X: 0.5 * e.X, Y: 0.5 * e.Y}
}

// CenterPhysR returns the center of the bounding box of material m.
func (s *MaterialStatistics) CenterPhysR(m int) geom.Point {
	lo, r := s.MinPhysR(m), s.PhysRadius(m)
	return geom.Point{X: lo.X + r.X, Y: lo.Y + r.Y}
}

func isWall(m int) bool { return m != Fluid && m != DoNothing }

// Type classifies boundary node (x, y) from the materials around it.
// Later matches take priority, so corners win over flat walls.
func (s *MaterialStatistics) Type(x, y int) NodeType {
	bg := s.bg
	var t NodeType
	if !isWall(bg.Material(x, y)) {
		return t
	}
	up, down := bg.Material(x, y+1), bg.Material(x, y-1)
	right, left := bg.Material(x+1, y), bg.Material(x-1, y)
	ur, dr := bg.Material(x+1, y+1), bg.Material(x+1, y-1)
	ul, dl := bg.Material(x-1, y+1), bg.Material(x-1, y-1)

	if isWall(up) && isWall(down) {
		if right == Fluid {
			t = NodeType{FlatBoundary, [2]int{-1, 0}}
		}
		if left == Fluid {
			t = NodeType{FlatBoundary, [2]int{1, 0}}
		}
	}
	if isWall(right) && isWall(left) {
		if up == Fluid {
			t = NodeType{FlatBoundary, [2]int{0, -1}}
		}
		if down == Fluid {
			t = NodeType{FlatBoundary, [2]int{0, 1}}
		}
	}
	if isWall(right) {
		if isWall(up) && ur == Fluid {
			t = NodeType{ExternalCorner, [2]int{-1, -1}}
		}
		if isWall(down) && dr == Fluid {
			t = NodeType{ExternalCorner, [2]int{-1, 1}}
		}
	}
	if isWall(left) {
		if isWall(up) && ul == Fluid {
			t = NodeType{ExternalCorner, [2]int{1, -1}}
		}
		if isWall(down) && dl == Fluid {
			t = NodeType{ExternalCorner, [2]int{1, 1}}
		}
	}
	if isWall(left) {
		if isWall(down) && dl == DoNothing {
			t = NodeType{InternalCorner, [2]int{-1, -1}}
		}
		if isWall(up) && ul == DoNothing {
			t = NodeType{InternalCorner, [2]int{-1, 1}}
		}
	}
	if isWall(right) {
		if isWall(down) && dr == DoNothing {
			t = NodeType{InternalCorner, [2]int{1, -1}}
		}
		if isWall(up) && ur == DoNothing {
			t = NodeType{InternalCorner, [2]int{1, 1}}
		}
	}
	return t
}

// NormalAt returns the sum of the unit directions from (x, y) toward
// its fluid neighbors, with each component clamped to ±1.
func (s *MaterialStatistics) NormalAt(x, y int) [2]int {
	bg := s.bg
	var n [2]int
	if bg.Material(x-1, y) == Fluid {
		n[0] = -1
	}
	if bg.Material(x+1, y) == Fluid {
		n[0] = 1
	}
	if bg.Material(x, y-1) == Fluid {
		n[1] = -1
	}
	if bg.Material(x, y+1) == Fluid {
		n[1] = 1
	}
	return n
}

// normalSum adds NormalAt over every node of material m.
func (s *MaterialStatistics) normalSum(m int) (nx, ny float64) {
	if s.count[m] == 0 {
		return 0, 0
	}
	x0, y0 := s.MinLatticeR(m)
	x1, y1 := s.MaxLatticeR(m)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			if s.bg.Material(x, y) == m {
				n := s.NormalAt(x, y)
				nx += float64(n[0])
				ny += float64(n[1])
			}
		}
	}
	return nx, ny
}

// Normal returns the unit vector pointing from the nodes of material m
// toward the fluid, or zero if there is no such direction.
func (s *MaterialStatistics) Normal(m int) [2]float64 {
	nx, ny := s.normalSum(m)
	return unit(nx, ny)
}

// DiscreteNormal returns the lattice direction no longer than maxNorm
// that is closest to Normal(m).
func (s *MaterialStatistics) DiscreteNormal(m int, maxNorm float64) [2]int {
	return discretize(s.Normal(m), maxNorm)
}

func unit(x, y float64) [2]float64 {
	norm := math.Hypot(x, y)
	if norm > 0 {
		return [2]float64{x / norm, y / norm}
	}
	return [2]float64{x, y}
}

// discretize returns the lattice direction with the largest cosine to n.
// Ties go to the last direction checked.
func discretize(n [2]float64, maxNorm float64) [2]int {
	var out [2]int
	var best float64
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			norm := math.Hypot(float64(x), float64(y))
			if norm == 0 || norm >= maxNorm {
				continue
			}
			if c := (float64(x)*n[0] + float64(y)*n[1]) / norm; c >= best {
				best = c
				out = [2]int{x, y}
			}
		}
	}
	return out
}

// Check reports whether every node within xOffset and yOffset of (x, y)
// is material m.
func (s *MaterialStatistics) Check(m, x, y, xOffset, yOffset int) bool {
	for i := -xOffset; i <= xOffset; i++ {
		for j := -yOffset; j <= yOffset; j++ {
			if s.bg.Material(x+i, y+j) != m {
				return false
			}
		}
	}
	return true
}

// Find returns the first node, scanning along y within each column,
// for which Check succeeds.
func (s *MaterialStatistics) Find(m, xOffset, yOffset int) (x, y int, ok bool) {
	for x = 0; x < s.bg.Nx(); x++ {
		for y = 0; y < s.bg.Ny(); y++ {
			if s.Check(m, x, y, xOffset, yOffset) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Print writes the count and bounding box of each material to w.
func (s *MaterialStatistics) Print(w io.Writer) {
	for _, m := range s.Materials() {
		fmt.Fprintf(w, "MaterialNumber=%d count=%d MinLatticeR=(%d, %d) MaxLatticeR=(%d, %d)\n",
			m, s.count[m], s.min[m][0], s.min[m][1], s.max[m][0], s.max[m][1])
	}
}
