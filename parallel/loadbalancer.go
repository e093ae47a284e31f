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
	"fmt"
	"io"
	"reflect"
	"sort"
)

// LoadBalancer records which rank owns each cuboid, and translates
// between global cuboid indices and the local indices of the cuboids
// owned by one rank.
type LoadBalancer struct {
	size   int
	local  map[int]int // global -> local
	global []int       // local -> global
	rank   map[int]int // global -> rank
}

// NewLoadBalancer creates a load balancer owning size cuboids. The maps
// are copied.
func NewLoadBalancer(size int, local map[int]int, global []int, rank map[int]int) *LoadBalancer {
	lb := &LoadBalancer{
		size:   size,
		local:  make(map[int]int, len(local)),
		global: append([]int(nil), global...),
		rank:   make(map[int]int, len(rank)),
	}
	for k, v := range local {
		lb.local[k] = v
	}
	for k, v := range rank {
		lb.rank[k] = v
	}
	return lb
}

// Size returns the number of cuboids owned by this rank.
func (lb *LoadBalancer) Size() int { return lb.size }

// LocalIndexOK returns the local index of global cuboid g and whether
// this rank owns it.
func (lb *LoadBalancer) LocalIndexOK(g int) (int, bool) {
	l, ok := lb.local[g]
	return l, ok
}

// LocalIndex returns the local index of global cuboid g. It panics if
// this rank does not own g.
func (lb *LoadBalancer) LocalIndex(g int) int {
	l, ok := lb.local[g]
	if !ok {
		panic(fmt.Errorf("parallel: cuboid %d has no local index", g))
	}
	return l
}

// GlobalIndexOK returns the global index of local cuboid l and whether
// it exists.
func (lb *LoadBalancer) GlobalIndexOK(l int) (int, bool) {
	if l < 0 || l >= len(lb.global) {
		return 0, false
	}
	return lb.global[l], true
}

// GlobalIndex returns the global index of local cuboid l. It panics if l
// is out of range.
func (lb *LoadBalancer) GlobalIndex(l int) int {
	g, ok := lb.GlobalIndexOK(l)
	if !ok {
		panic(fmt.Errorf("parallel: local cuboid %d out of range [0, %d)", l, len(lb.global)))
	}
	return g
}

// RankOK returns the rank that owns global cuboid g and whether g is
// assigned.
func (lb *LoadBalancer) RankOK(g int) (int, bool) {
	r, ok := lb.rank[g]
	return r, ok
}

// Rank returns the rank that owns global cuboid g. It panics if g is not
// assigned.
func (lb *LoadBalancer) Rank(g int) int {
	r, ok := lb.rank[g]
	if !ok {
		panic(fmt.Errorf("parallel: cuboid %d is not assigned to a rank", g))
	}
	return r
}

// IsLocal reports whether global cuboid g is owned by the calling rank
// of t.
func (lb *LoadBalancer) IsLocal(t Topology, g int) bool {
	return lb.Rank(g) == t.Rank()
}

// Equal reports whether lb and o hold the same assignment.
func (lb *LoadBalancer) Equal(o *LoadBalancer) bool {
	return lb.size == o.size &&
		reflect.DeepEqual(lb.local, o.local) &&
		reflect.DeepEqual(lb.global, o.global) &&
		reflect.DeepEqual(lb.rank, o.rank)
}

// Swap exchanges the contents of lb and o.
func (lb *LoadBalancer) Swap(o *LoadBalancer) {
	*lb, *o = *o, *lb
}

// NumBlocks returns the number of blocks the load balancer occupies
// when serialized: the size, the three collection lengths and one per
// entry.
func (lb *LoadBalancer) NumBlocks() int {
	return 4 + len(lb.global) + len(lb.local) + len(lb.rank)
}

// Print writes the assignment to w.
func (lb *LoadBalancer) Print(w io.Writer) {
	fmt.Fprintf(w, "size = %d\n", lb.size)
	for i, g := range lb.global {
		fmt.Fprintf(w, "global[%d] = %d\n", i, g)
	}
	for _, g := range sortedKeys(lb.local) {
		fmt.Fprintf(w, "local[%d] = %d\n", g, lb.local[g])
	}
	for _, g := range sortedKeys(lb.rank) {
		fmt.Fprintf(w, "rank[%d] = %d\n", g, lb.rank[g])
	}
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
