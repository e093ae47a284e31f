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

import (
	"testing"

	"github.com/spatialmodel/lbflow/geometry"
)

func TestPoiseuilleGeometry(t *testing.T) {
	cfg := DefaultPoiseuilleConfig()
	cfg.Nx, cfg.Ny = 6, 5
	sg, err := cfg.Geometry()
	if err != nil {
		t.Fatal(err)
	}
	// Rows from the top, x increasing to the right.
	want := [][]int{
		{4, 2, 2, 2, 2, 4},
		{3, 1, 1, 1, 1, 3},
		{3, 1, 1, 1, 1, 3},
		{3, 1, 1, 1, 1, 3},
		{4, 2, 2, 2, 2, 4},
	}
	for row, ms := range want {
		y := cfg.Ny - 1 - row
		for x, m := range ms {
			if have := sg.Material(0, x, y); have != m {
				t.Errorf("node (%d, %d): want material %d, have %d", x, y, m, have)
			}
		}
	}
	stats := sg.Statistics()
	counts := map[int]int{
		geometry.Fluid:        12,
		MaterialWall:          8,
		MaterialPeriodicFluid: 6,
		MaterialPeriodicWall:  4,
	}
	for m, c := range counts {
		if stats.Count(m) != c {
			t.Errorf("material %d: want %d nodes, have %d", m, c, stats.Count(m))
		}
	}
	if stats.Total() != cfg.Nx*cfg.Ny {
		t.Errorf("every node should be marked, have %d", stats.Total())
	}
}

func TestPoiseuilleGeometryInvalid(t *testing.T) {
	cfg := DefaultPoiseuilleConfig()
	cfg.Ny = 2
	if _, err := cfg.Geometry(); err == nil {
		t.Error("expected error for a channel without fluid rows")
	}
}

func TestPoiseuilleSetupBoundaries(t *testing.T) {
	cfg := DefaultPoiseuilleConfig()
	s := &Simulation{InitFuncs: []DomainManipulator{cfg.Setup()}}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if s.Geometry == nil {
		t.Fatal("setup should keep the material geometry")
	}
	lm := s.Lattice()
	cm := s.CollisionModel().(*CollisionNsf)
	for n := 0; n < lm.NumNodes(); n++ {
		_, y := lm.Coords(n)
		wall := y == 0 || y == cfg.Ny-1
		if cm.IsSkipped(n) != wall {
			t.Errorf("node %d: wall %v, skipped %v", n, wall, cm.IsSkipped(n))
		}
	}
	walls := s.Geometry.Nodes(MaterialWall, MaterialPeriodicWall)
	if len(walls) != 2*cfg.Nx {
		t.Errorf("want %d wall nodes, have %d", 2*cfg.Nx, len(walls))
	}
	periodic := s.Geometry.Nodes(MaterialPeriodicFluid, MaterialPeriodicWall)
	if len(periodic) != 2*cfg.Ny {
		t.Errorf("want %d periodic nodes, have %d", 2*cfg.Ny, len(periodic))
	}
	for _, n := range periodic {
		x, y := s.Geometry.MotherLatticeR(n)
		if x != 0 && x != cfg.Nx-1 {
			t.Errorf("periodic node (%d, %d) is not on an open end", x, y)
		}
	}
}
