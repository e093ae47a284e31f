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

import "testing"

func TestBounceBackFullway(t *testing.T) {
	lm := NewLattice(3, 3, 1, Vector{})
	cm := NewCollisionNsf(lm, 1)
	bb := NewBounceBack(lm, cm)
	if !bb.IsBeforeStream() || bb.IsDuringStream() || bb.IsHalfway() {
		t.Fatal("full-way bounce-back should only be applied before streaming")
	}
	bb.AddNode(1, 1)
	if !cm.IsSkipped(4) {
		t.Error("wall node should be excluded from collision")
	}
	df := NewField(lm.NumNodes())
	df[4] = [NumDirections]float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	bb.UpdateNodes(df, false)
	want := [NumDirections]float64{0, 3, 4, 1, 2, 7, 8, 5, 6}
	if df[4] != want {
		t.Errorf("want %v, got %v", want, df[4])
	}
	bb.UpdateNodes(df, true)
	if df[4] != want {
		t.Errorf("stream pass should not change the node: %v", df[4])
	}
}

func TestBounceBackHalfway(t *testing.T) {
	lm := NewLattice(4, 3, 1, Vector{})
	bb := NewBounceBack(lm, nil)
	if !bb.IsBeforeStream() || !bb.IsDuringStream() || !bb.IsHalfway() {
		t.Fatal("half-way bounce-back should be applied before and during streaming")
	}
	for x := 0; x < lm.Nx(); x++ {
		bb.AddNode(x, 0)
	}
	df := constantField(lm.NumNodes(), func(n int) [NumDirections]float64 {
		var f [NumDirections]float64
		for i := range f {
			f[i] = float64(10*n + i)
		}
		return f
	})
	bb.UpdateNodes(df, false)
	out := NewStream(lm).Stream(df)
	bb.UpdateNodes(out, true)

	// Lower side node: N, NE and NW come back from S, SW and SE.
	if out[1][North] != 14 || out[1][NorthEast] != 17 || out[1][NorthWest] != 18 {
		t.Errorf("lower side node: %v", out[1])
	}
	if out[1][East] != 1 || out[1][West] != 23 {
		t.Errorf("lower side node should stream along the wall: %v", out[1])
	}
	// Lower left corner also returns W, NW and SW.
	want := map[Direction]float64{East: 3, North: 4, SouthEast: 6, NorthEast: 7, NorthWest: 8}
	for d, v := range want {
		if out[0][d] != v {
			t.Errorf("lower left corner direction %d: want %g, got %g", d, v, out[0][d])
		}
	}
	// Lower right corner returns E, NE and SE.
	want = map[Direction]float64{West: 31, North: 34, SouthWest: 35, NorthWest: 38, NorthEast: 37}
	for d, v := range want {
		if out[3][d] != v {
			t.Errorf("lower right corner direction %d: want %g, got %g", d, v, out[3][d])
		}
	}
}

func TestBounceBackHalfwayNotEdge(t *testing.T) {
	bb := NewBounceBack(NewLattice(5, 5, 1, Vector{}), nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	bb.AddNode(2, 2)
}

func TestBounceBackHalfwayInteriorUpdate(t *testing.T) {
	lm := NewLattice(5, 5, 1, Vector{})
	bb := NewBounceBack(lm, nil)
	bb.AddNode(0, 2)
	bb.edges[0] = NotEdge
	df := NewField(lm.NumNodes())
	bb.UpdateNodes(df, false)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	bb.UpdateNodes(df, true)
}

func TestPeriodicNotEdge(t *testing.T) {
	p := NewPeriodic(NewLattice(3, 3, 1, Vector{}))
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	p.AddNode(1, 1)
}

func TestPeriodicUnknownEdge(t *testing.T) {
	for _, e := range []Edge{NotEdge, Edge(-1), Edge(numEdges)} {
		lm := NewLattice(3, 3, 1, Vector{})
		p := NewPeriodic(lm)
		p.AddNode(0, 1)
		p.nodes[0].Edge = e
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%v: expected panic", e)
				}
			}()
			p.UpdateNodes(NewField(lm.NumNodes()), false)
		}()
	}
}

// periodicStep applies a periodic boundary around the whole domain and
// streams df.
func periodicStep(lm *Lattice, df Field) Field {
	p := NewPeriodic(lm)
	for n := 0; n < lm.NumNodes(); n++ {
		if lm.DetermineOrientation(n) != NotEdge {
			x, y := lm.Coords(n)
			p.AddNode(x, y)
		}
	}
	p.UpdateNodes(df, false)
	out := NewStream(lm).Stream(df)
	p.UpdateNodes(out, true)
	return out
}

func TestPeriodic(t *testing.T) {
	lm := NewLattice(6, 8, 1, Vector{})
	nx, ny := lm.Nx(), lm.Ny()
	t.Run("horizontal", func(t *testing.T) {
		out := periodicStep(lm, constantField(lm.NumNodes(), func(n int) [NumDirections]float64 {
			return horizontalNodes[n%2]
		}))
		for n := range out {
			if out[n] != horizontalWant[n%2] {
				t.Errorf("node %d: want %v, got %v", n, horizontalWant[n%2], out[n])
			}
		}
	})
	t.Run("vertical", func(t *testing.T) {
		out := periodicStep(lm, constantField(lm.NumNodes(), func(n int) [NumDirections]float64 {
			return verticalNodes[(n/nx)%2]
		}))
		for n := range out {
			if out[n] != verticalWant[(n/nx)%2] {
				t.Errorf("node %d: want %v, got %v", n, verticalWant[(n/nx)%2], out[n])
			}
		}
	})
	t.Run("NE-SW", func(t *testing.T) {
		k := func(n int) int { return (n + n/nx) % 3 }
		out := periodicStep(lm, constantField(lm.NumNodes(), func(n int) [NumDirections]float64 {
			return fill(float64(k(n)))
		}))
		ne := [3]float64{1, 2, 0}
		sw := [3]float64{2, 0, 1}
		for n := range out {
			wantNE, wantSW := ne[k(n)], sw[k(n)]
			if n/nx == 0 {
				wantNE = float64(k(n))
			}
			if n/nx == ny-1 {
				wantSW = float64(k(n))
			}
			if out[n][NorthEast] != wantNE {
				t.Errorf("node %d NE: want %g, got %g", n, wantNE, out[n][NorthEast])
			}
			if out[n][SouthWest] != wantSW {
				t.Errorf("node %d SW: want %g, got %g", n, wantSW, out[n][SouthWest])
			}
		}
	})
	t.Run("NW-SE", func(t *testing.T) {
		k := func(n int) int { return (n - n/nx) % 3 }
		out := periodicStep(lm, constantField(lm.NumNodes(), func(n int) [NumDirections]float64 {
			return fill(float64(k(n)))
		}))
		nw := [3]float64{2, 0, 1}
		se := [3]float64{1, 2, 0}
		for n := range out {
			wantNW, wantSE := nw[k(n)], se[k(n)]
			if n/nx == 0 {
				wantNW = float64(k(n))
			}
			if n/nx == ny-1 {
				wantSE = float64(k(n))
			}
			if out[n][NorthWest] != wantNW {
				t.Errorf("node %d NW: want %g, got %g", n, wantNW, out[n][NorthWest])
			}
			if out[n][SouthEast] != wantSE {
				t.Errorf("node %d SE: want %g, got %g", n, wantSE, out[n][SouthEast])
			}
		}
	})
}
