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

import "fmt"

// PeriodicNode is a node handled by a periodic boundary.
type PeriodicNode struct {
	Index    int
	Edge     Edge
	IsCorner bool
	DF       [NumDirections]float64
}

// wrap is a direction and the offset of the node it is fetched from
// across the periodic boundary.
type wrap struct {
	dir    Direction
	offset int
}

// Periodic wraps the distribution functions that stream out of one side
// of the domain back in through the opposite side. Before streaming it
// saves the values that the edge nodes would have pulled from outside
// the grid, and after streaming it writes them into place.
type Periodic struct {
	lm    *Lattice
	nodes []PeriodicNode
	wraps [numEdges][]wrap
}

// NewPeriodic creates a periodic boundary for lm.
func NewPeriodic(lm *Lattice) *Periodic {
	nx := lm.Nx()
	width := nx - 1
	height := (lm.Ny() - 1) * nx
	return &Periodic{
		lm: lm,
		wraps: [numEdges][]wrap{
			LowerLeft: {{East, width}, {North, height}, {NorthEast, width + height},
				{NorthWest, 1 + height}, {SouthEast, width + nx}},
			LowerRight: {{North, height}, {West, -width}, {NorthEast, -1 + height},
				{NorthWest, -width + height}, {SouthWest, -width + nx}},
			UpperLeft: {{East, width}, {South, -height}, {NorthEast, width - nx},
				{SouthWest, 1 - height}, {SouthEast, width - height}},
			UpperRight: {{West, -width}, {South, -height}, {NorthWest, -width - nx},
				{SouthWest, -width - height}, {SouthEast, -1 - height}},
			RightEdge: {{West, -width}, {NorthWest, -width - nx}, {SouthWest, -width + nx}},
			UpperEdge: {{South, -height}, {SouthWest, 1 - height}, {SouthEast, -1 - height}},
			LeftEdge:  {{East, width}, {NorthEast, width - nx}, {SouthEast, width + nx}},
			LowerEdge: {{North, height}, {NorthEast, -1 + height}, {NorthWest, 1 + height}},
		},
	}
}

// AddNode adds the node at lattice coordinates (x, y) to the boundary.
// It panics if the node is not on the edge of the domain.
func (p *Periodic) AddNode(x, y int) {
	n := p.lm.Index(x, y)
	e := p.lm.DetermineOrientation(n)
	if e == NotEdge {
		panic(fmt.Errorf("lbflow: periodic node (%d, %d) is not on an edge", x, y))
	}
	p.nodes = append(p.nodes, PeriodicNode{Index: n, Edge: e, IsCorner: e.IsCorner()})
}

// Nodes returns the boundary nodes.
func (p *Periodic) Nodes() []PeriodicNode { return p.nodes }

// IsBeforeStream is always true.
func (p *Periodic) IsBeforeStream() bool { return true }

// IsDuringStream is always true.
func (p *Periodic) IsDuringStream() bool { return true }

// UpdateNodes saves the wrapped values from df when isModifyStream is
// false and writes them into df when it is true.
func (p *Periodic) UpdateNodes(df Field, isModifyStream bool) {
	for i := range p.nodes {
		node := &p.nodes[i]
		var ws []wrap
		if node.Edge > NotEdge && int(node.Edge) < numEdges {
			ws = p.wraps[node.Edge]
		}
		if len(ws) == 0 {
			panic(fmt.Errorf("lbflow: periodic node %d: %v is not a side", node.Index, node.Edge))
		}
		if isModifyStream {
			for _, w := range ws {
				df[node.Index][w.dir] = node.DF[w.dir]
			}
			continue
		}
		node.DF = [NumDirections]float64{}
		for _, w := range ws {
			node.DF[w.dir] = df[node.Index+w.offset][w.dir]
		}
	}
}
