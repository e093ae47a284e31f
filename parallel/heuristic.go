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

package parallel

import (
	"github.com/spatialmodel/lbflow/geometry"
)

const (
	// DefaultRatioFullEmpty is the default cost of a node inside the
	// domain shape.
	DefaultRatioFullEmpty = 1.0
	// DefaultEmptyCellWeight is the default cost of a node outside it.
	DefaultEmptyCellWeight = 0.0
)

// CuboidWeights returns the cost of each cuboid in cg: ratioFullEmpty
// for every node inside the domain shape plus emptyCellWeight for every
// node outside it. Each of the two terms is truncated to an integer
// before they are summed.
func CuboidWeights(cg *geometry.CuboidGeometry, ratioFullEmpty, emptyCellWeight float64) []int {
	w := make([]int, cg.NumCuboids())
	for i := range w {
		c := cg.Cuboid(i)
		full := float64(geometry.NodeWeight(c))
		empty := float64(c.LatticeVolume()) - full
		w[i] = int(emptyCellWeight*empty) + int(ratioFullEmpty*full)
	}
	return w
}

// Assign distributes cuboids with the given weights over size ranks.
// The heaviest unassigned cuboid goes to the least loaded rank until
// every cuboid is assigned. Ties go to the lowest index. The returned
// slice holds the rank of each cuboid.
func Assign(weights []int, size int) []int {
	ranks := make([]int, len(weights))
	assigned := make([]bool, len(weights))
	load := make([]int, size)
	for n := 0; n < len(weights); n++ {
		heaviest := -1
		for i, w := range weights {
			if !assigned[i] && (heaviest < 0 || w > weights[heaviest]) {
				heaviest = i
			}
		}
		lightest := 0
		for r := 1; r < size; r++ {
			if load[r] < load[lightest] {
				lightest = r
			}
		}
		assigned[heaviest] = true
		load[lightest] += weights[heaviest]
		ranks[heaviest] = lightest
	}
	return ranks
}

// NewHeuristicLoadBalancer assigns the cuboids of cg to the ranks of t
// by weight, and returns the load balancer of the calling rank. Every
// rank computes the same assignment.
func NewHeuristicLoadBalancer(cg *geometry.CuboidGeometry, t Topology, ratioFullEmpty, emptyCellWeight float64) *LoadBalancer {
	nc := cg.NumCuboids()
	lb := &LoadBalancer{
		local: make(map[int]int, nc),
		rank:  make(map[int]int, nc),
	}
	if t.Size() == 1 {
		for i := 0; i < nc; i++ {
			lb.global = append(lb.global, i)
			lb.local[i] = i
			lb.rank[i] = t.Rank()
		}
		lb.size = nc
		return lb
	}

	ranks := Assign(CuboidWeights(cg, ratioFullEmpty, emptyCellWeight), t.Size())
	for i, r := range ranks {
		if r == t.Rank() {
			lb.local[i] = len(lb.global)
			lb.global = append(lb.global, i)
		}
		lb.rank[i] = r
	}
	lb.size = len(lb.global)
	return lb
}
