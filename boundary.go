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

// BoundaryCondition modifies the distribution functions of a set of
// boundary nodes. The time stepping loop calls UpdateNodes with
// isModifyStream false before streaming when IsBeforeStream is true,
// and with isModifyStream true after streaming when IsDuringStream is
// true. Conditions that are neither applied before nor during
// streaming are applied after streaming with isModifyStream false.
type BoundaryCondition interface {
	IsBeforeStream() bool
	IsDuringStream() bool
	UpdateNodes(df Field, isModifyStream bool)
}

// BounceBackNode is a node handled by a bounce-back boundary.
type BounceBackNode struct {
	Index int
	DF    [NumDirections]float64
}

// BounceBack is a no-slip wall. With a collision model it is the
// full-way scheme: wall nodes are excluded from collision and their
// distribution functions are reflected in place before streaming.
// Without one it is the half-way scheme: post-collision values leaving
// the domain are saved before streaming and returned in the opposite
// direction afterwards.
type BounceBack struct {
	lm      *Lattice
	cm      CollisionModel
	nodes   []BounceBackNode
	edges   []Edge
	halfway bool
}

// NewBounceBack creates a bounce-back boundary. If cm is nil the
// half-way scheme is used.
func NewBounceBack(lm *Lattice, cm CollisionModel) *BounceBack {
	return &BounceBack{
		lm:      lm,
		cm:      cm,
		halfway: cm == nil,
	}
}

// outgoingDirections lists the directions that leave the domain through
// each edge class. Interior nodes have none.
var outgoingDirections = [numEdges][]Direction{
	RightEdge:  {East, NorthEast, SouthEast},
	UpperEdge:  {North, NorthEast, NorthWest},
	LeftEdge:   {West, NorthWest, SouthWest},
	LowerEdge:  {South, SouthWest, SouthEast},
	UpperRight: {East, North, NorthEast, NorthWest, SouthEast},
	UpperLeft:  {North, West, NorthEast, NorthWest, SouthWest},
	LowerLeft:  {West, South, NorthWest, SouthWest, SouthEast},
	LowerRight: {East, South, NorthEast, SouthWest, SouthEast},
}

// AddNode adds the node at lattice coordinates (x, y) to the boundary.
// The half-way scheme panics if the node is not on the edge of the
// domain, since no direction leaves the domain through it.
func (bb *BounceBack) AddNode(x, y int) {
	n := bb.lm.Index(x, y)
	e := bb.lm.DetermineOrientation(n)
	if bb.halfway && e == NotEdge {
		panic(fmt.Errorf("lbflow: half-way bounce-back node (%d, %d) is not on an edge", x, y))
	}
	bb.nodes = append(bb.nodes, BounceBackNode{Index: n})
	bb.edges = append(bb.edges, e)
	if !bb.halfway {
		bb.cm.AddNodeToSkip(n)
	}
}

// Nodes returns the boundary nodes.
func (bb *BounceBack) Nodes() []BounceBackNode { return bb.nodes }

// IsHalfway reports whether the half-way scheme is used.
func (bb *BounceBack) IsHalfway() bool { return bb.halfway }

// IsBeforeStream is always true.
func (bb *BounceBack) IsBeforeStream() bool { return true }

// IsDuringStream is true for the half-way scheme.
func (bb *BounceBack) IsDuringStream() bool { return bb.halfway }

// UpdateNodes applies the boundary condition to df.
func (bb *BounceBack) UpdateNodes(df Field, isModifyStream bool) {
	if bb.halfway {
		bb.updateHalfway(df, isModifyStream)
		return
	}
	if isModifyStream {
		return
	}
	for _, node := range bb.nodes {
		f := &df[node.Index]
		f[East], f[West] = f[West], f[East]
		f[North], f[South] = f[South], f[North]
		f[NorthEast], f[SouthWest] = f[SouthWest], f[NorthEast]
		f[NorthWest], f[SouthEast] = f[SouthEast], f[NorthWest]
	}
}

func (bb *BounceBack) updateHalfway(df Field, isModifyStream bool) {
	if !isModifyStream {
		for i := range bb.nodes {
			bb.nodes[i].DF = df[bb.nodes[i].Index]
		}
		return
	}
	for i, node := range bb.nodes {
		ds := outgoingDirections[bb.edges[i]]
		if len(ds) == 0 {
			panic(fmt.Errorf("lbflow: bounce-back node %d: %v is not a side", node.Index, bb.edges[i]))
		}
		for _, d := range ds {
			df[node.Index][d.Opposite()] = node.DF[d]
		}
	}
}
