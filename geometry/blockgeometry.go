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

	"github.com/ctessum/geom"
)

// Material numbers with a fixed meaning. Any other positive material
// number marks a kind of boundary node.
const (
	// DoNothing marks nodes that are not part of the simulation.
	DoNothing = 0
	// Fluid marks nodes in the interior of the flow.
	Fluid = 1
)

// renameScratch is a material number used while renaming in two passes.
const renameScratch = 9999

// BlockGeometry holds the material number of every node of one cuboid.
type BlockGeometry struct {
	cuboid   *Cuboid
	index    int
	material []int

	// outside returns the material of a node outside of the cuboid. If
	// it is nil such nodes are DoNothing.
	outside func(x, y int) int

	stats *MaterialStatistics
}

// NewBlockGeometry creates a material grid over c, which is child index
// of its cuboid geometry. Every node starts as DoNothing.
func NewBlockGeometry(c *Cuboid, index int) *BlockGeometry {
	return &BlockGeometry{
		cuboid:   c,
		index:    index,
		material: make([]int, c.Nx()*c.Ny()),
	}
}

// Cuboid returns the cuboid the grid covers.
func (bg *BlockGeometry) Cuboid() *Cuboid { return bg.cuboid }

// Index returns the global index of the cuboid.
func (bg *BlockGeometry) Index() int { return bg.index }

// Nx returns the number of nodes in the x direction.
func (bg *BlockGeometry) Nx() int { return bg.cuboid.Nx() }

// Ny returns the number of nodes in the y direction.
func (bg *BlockGeometry) Ny() int { return bg.cuboid.Ny() }

// Origin returns the physical position of node (0, 0).
func (bg *BlockGeometry) Origin() geom.Point { return bg.cuboid.Origin() }

// DeltaR returns the node spacing.
func (bg *BlockGeometry) DeltaR() float64 { return bg.cuboid.DeltaR() }

// PhysR returns the physical position of node (x, y).
func (bg *BlockGeometry) PhysR(x, y int) geom.Point { return bg.cuboid.PhysR(x, y) }

func (bg *BlockGeometry) inside(x, y int) bool {
	return x >= 0 && x < bg.Nx() && y >= 0 && y < bg.Ny()
}

// Material returns the material of node (x, y). Nodes outside of the
// cuboid belong to the neighboring cuboid, or are DoNothing if there
// is none.
func (bg *BlockGeometry) Material(x, y int) int {
	if bg.inside(x, y) {
		return bg.material[y*bg.Nx()+x]
	}
	if bg.outside != nil {
		return bg.outside(x, y)
	}
	return DoNothing
}

// SetMaterial sets the material of node (x, y). It panics if the node
// is outside of the cuboid.
func (bg *BlockGeometry) SetMaterial(x, y, m int) {
	if !bg.inside(x, y) {
		panic(fmt.Errorf("geometry: node (%d, %d) is outside of a %dx%d block", x, y, bg.Nx(), bg.Ny()))
	}
	bg.material[y*bg.Nx()+x] = m
	bg.stats = nil
}

// Statistics returns the material statistics of the grid. They are
// recomputed after any change.
func (bg *BlockGeometry) Statistics() *MaterialStatistics {
	if bg.stats == nil {
		bg.stats = newMaterialStatistics(bg)
	}
	return bg.stats
}

// neighbors8 are the offsets of the surrounding nodes.
var neighbors8 = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

func (bg *BlockGeometry) anyNeighbor(x, y, m int) bool {
	for _, o := range neighbors8 {
		if bg.Material(x+o[0], y+o[1]) == m {
			return true
		}
	}
	return false
}

// Clean turns boundary nodes that have no fluid neighbor into DoNothing
// and returns how many were changed.
func (bg *BlockGeometry) Clean() int {
	var n int
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			m := bg.Material(x, y)
			if m != Fluid && m != DoNothing && !bg.anyNeighbor(x, y, Fluid) {
				bg.SetMaterial(x, y, DoNothing)
				n++
			}
		}
	}
	return n
}

// OuterClean turns fluid nodes that touch a DoNothing node into
// DoNothing and returns how many were changed.
func (bg *BlockGeometry) OuterClean() int {
	var n int
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if bg.Material(x, y) == Fluid && bg.anyNeighbor(x, y, DoNothing) {
				bg.SetMaterial(x, y, DoNothing)
				n++
			}
		}
	}
	return n
}

// InnerClean turns boundary nodes with fluid on three sides into fluid
// and returns how many were changed.
func (bg *BlockGeometry) InnerClean() int {
	return bg.innerClean(func(m int) bool { return m != Fluid && m != DoNothing })
}

// InnerCleanMaterial is InnerClean restricted to nodes of material m.
func (bg *BlockGeometry) InnerCleanMaterial(m int) int {
	return bg.innerClean(func(mm int) bool { return mm == m && m != Fluid && m != DoNothing })
}

func (bg *BlockGeometry) innerClean(match func(m int) bool) int {
	var n int
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if !match(bg.Material(x, y)) {
				continue
			}
			e := bg.Material(x+1, y) == Fluid
			w := bg.Material(x-1, y) == Fluid
			u := bg.Material(x, y+1) == Fluid
			d := bg.Material(x, y-1) == Fluid
			if (u && d && (e || w)) || (e && w && (u || d)) {
				bg.SetMaterial(x, y, Fluid)
				n++
			}
		}
	}
	return n
}

// CheckForErrors reports whether any DoNothing node touches a fluid
// node, which would let fluid stream out of the domain.
func (bg *BlockGeometry) CheckForErrors() bool {
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if bg.Material(x, y) == DoNothing && bg.anyNeighbor(x, y, Fluid) {
				return true
			}
		}
	}
	return false
}

// Rename changes every node of material from to material to.
func (bg *BlockGeometry) Rename(from, to int) {
	for i, m := range bg.material {
		if m == from {
			bg.material[i] = to
		}
	}
	bg.stats = nil
}

// RenameInside changes nodes of material from that are inside ind to
// material to.
func (bg *BlockGeometry) RenameInside(from, to int, ind Indicator) {
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if bg.Material(x, y) == from && ind.IsInside(bg.PhysR(x, y)) {
				bg.SetMaterial(x, y, to)
			}
		}
	}
}

// RenameInterior changes nodes of material from to material to when
// every node within xOffset and yOffset of them is also material from.
func (bg *BlockGeometry) RenameInterior(from, to, xOffset, yOffset int) {
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if bg.Material(x, y) != from {
				continue
			}
			found := true
			for i := -xOffset; i <= xOffset && found; i++ {
				for j := -yOffset; j <= yOffset; j++ {
					m := bg.Material(x+i, y+j)
					if m != from && m != renameScratch {
						found = false
						break
					}
				}
			}
			if found {
				bg.SetMaterial(x, y, renameScratch)
			}
		}
	}
	bg.Rename(renameScratch, to)
}

// RenameToward changes nodes of material from to material to unless
// every node in the box spanned by the node and the offset dir is
// material test.
func (bg *BlockGeometry) RenameToward(from, to, test int, dir [2]int) {
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if bg.Material(x, y) != from {
				continue
			}
			valid := true
			for i := minInt(dir[0], 0); i <= maxInt(dir[0], 0); i++ {
				for j := minInt(dir[1], 0); j <= maxInt(dir[1], 0); j++ {
					if (i != 0 || j != 0) && bg.Material(x+i, y+j) != test {
						valid = false
					}
				}
			}
			if !valid {
				bg.SetMaterial(x, y, to)
			}
		}
	}
}

// RenameBoundary changes boundary nodes of material from inside ind to
// material to, and then changes back any of them that do not have two
// fluid nodes of material fluid on the inside along the discrete
// normal of the renamed set and a DoNothing node on the outside.
func (bg *BlockGeometry) RenameBoundary(from, to, fluid int, ind Indicator) {
	bg.RenameInside(from, to, ind)
	bg.restoreBoundary(from, to, fluid, ind, bg.Statistics().DiscreteNormal(to, DefaultMaxNorm))
}

func (bg *BlockGeometry) restoreBoundary(from, to, fluid int, ind Indicator, n [2]int) {
	for x := 0; x < bg.Nx(); x++ {
		for y := 0; y < bg.Ny(); y++ {
			if bg.Material(x, y) != to || !ind.IsInside(bg.PhysR(x, y)) {
				continue
			}
			if bg.Material(x+n[0], y+n[1]) != fluid ||
				bg.Material(x+2*n[0], y+2*n[1]) != fluid ||
				bg.Material(x-n[0], y-n[1]) != DoNothing {
				bg.SetMaterial(x, y, from)
			}
		}
	}
}

// PrintLayer writes the material grid to w, one row per line with the
// top row first.
func (bg *BlockGeometry) PrintLayer(w io.Writer) {
	for y := bg.Ny() - 1; y >= 0; y-- {
		for x := 0; x < bg.Nx(); x++ {
			if x > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, bg.Material(x, y))
		}
		fmt.Fprintln(w)
	}
}

// PrintNode writes the materials of node (x, y) and its neighbors to w
// in the same layout as PrintLayer.
func (bg *BlockGeometry) PrintNode(w io.Writer, x, y int) {
	for j := 1; j >= -1; j-- {
		fmt.Fprintf(w, "%d %d %d\n", bg.Material(x-1, y+j), bg.Material(x, y+j), bg.Material(x+1, y+j))
	}
}
