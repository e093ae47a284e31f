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
	"bytes"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-10

type wantCuboid struct {
	x, y   float64
	nx, ny int
}

func checkCuboids(t *testing.T, want []wantCuboid, have []*Cuboid) {
	t.Helper()
	require.Len(t, have, len(want))
	for i, w := range want {
		c := have[i]
		assert.InDelta(t, w.x, c.Origin().X, tol, "cuboid %d x", i)
		assert.InDelta(t, w.y, c.Origin().Y, tol, "cuboid %d y", i)
		assert.Equal(t, w.nx, c.Nx(), "cuboid %d nx", i)
		assert.Equal(t, w.ny, c.Ny(), "cuboid %d ny", i)
	}
}

func TestCuboidProperties(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
	assert.Equal(t, geom.Point{X: 1.2, Y: 3.4}, c.Origin())
	assert.Equal(t, 0.1, c.DeltaR())
	assert.Equal(t, 20, c.Nx())
	assert.Equal(t, 60, c.Ny())
	assert.Equal(t, Unweighted, c.Weight())
	assert.InDelta(t, 16.0, c.PhysPerimeter(), tol)
	assert.Equal(t, 156, c.LatticePerimeter())
	assert.InDelta(t, 12.0, c.PhysVolume(), tol)
	assert.Equal(t, 1200, c.LatticeVolume())

	c.SetWeight(42)
	assert.Equal(t, 42, c.Weight())

	b := c.Bounds()
	assert.InDelta(t, 1.2, b.Min.X, tol)
	assert.InDelta(t, 3.4, b.Min.Y, tol)
	assert.InDelta(t, 3.1, b.Max.X, tol)
	assert.InDelta(t, 9.3, b.Max.Y, tol)

	thin := NewCuboid(0, 0, 1, 1, 5)
	assert.Equal(t, 5, thin.LatticePerimeter())
}

func TestCuboidResize(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
	c.Resize(2, 3, 4, 5)
	assert.InDelta(t, 1.4, c.Origin().X, tol)
	assert.InDelta(t, 3.7, c.Origin().Y, tol)
	assert.Equal(t, 4, c.Nx())
	assert.Equal(t, 5, c.Ny())
}

func TestCuboidDivide(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 23, 67)
	children := c.Divide(7, 11)
	require.Len(t, children, 77)

	xs := []float64{1.2, 1.6, 2.0, 2.3, 2.6, 2.9, 3.2}
	nxs := []int{4, 4, 3, 3, 3, 3, 3}
	for col := 0; col < 7; col++ {
		y := 3.4
		for row := 0; row < 11; row++ {
			ny := 6
			if row == 0 {
				ny = 7
			}
			child := children[col*11+row]
			assert.InDelta(t, xs[col], child.Origin().X, tol, "col %d row %d", col, row)
			assert.InDelta(t, y, child.Origin().Y, tol, "col %d row %d", col, row)
			assert.Equal(t, nxs[col], child.Nx())
			assert.Equal(t, ny, child.Ny())
			assert.Equal(t, Unweighted, child.Weight())
			y += float64(ny) * 0.1
		}
	}
}

func TestCuboidDivideN(t *testing.T) {
	t.Run("even", func(t *testing.T) {
		c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
		var want []wantCuboid
		for _, x := range []float64{1.2, 2.2} {
			for _, y := range []float64{3.4, 4.9, 6.4, 7.9} {
				want = append(want, wantCuboid{x, y, 10, 15})
			}
		}
		checkCuboids(t, want, c.DivideN(8))
	})
	t.Run("extra row", func(t *testing.T) {
		c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
		var want []wantCuboid
		for _, x := range []float64{1.2, 2.2} {
			for k := 0; k < 6; k++ {
				want = append(want, wantCuboid{x, 3.4 + 0.8*float64(k), 10, 8})
			}
		}
		want = append(want,
			wantCuboid{1.2, 8.2, 7, 12},
			wantCuboid{1.9, 8.2, 7, 12},
			wantCuboid{2.6, 8.2, 6, 12},
		)
		checkCuboids(t, want, c.DivideN(15))
	})
	t.Run("extra column", func(t *testing.T) {
		c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
		var want []wantCuboid
		for k := 0; k < 6; k++ {
			want = append(want, wantCuboid{1.2, 3.4 + float64(k), 10, 10})
		}
		ys := []float64{3.4, 4.3, 5.2, 6.1, 7.0, 7.8, 8.6}
		nys := []int{9, 9, 9, 9, 8, 8, 8}
		for k := range ys {
			want = append(want, wantCuboid{2.2, ys[k], 10, nys[k]})
		}
		have := c.DivideN(13)
		checkCuboids(t, want, have)

		var volume int
		for _, child := range have {
			volume += child.LatticeVolume()
		}
		assert.Equal(t, c.LatticeVolume(), volume)
	})
	t.Run("invalid count", func(t *testing.T) {
		c := NewCuboid(0, 0, 1, 4, 4)
		assert.Panics(t, func() { c.DivideN(0) })
	})
}

func TestCuboidContainPoint(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
	tests := []struct {
		x, y    float64
		overlap int
		want    bool
	}{
		{x: 1.16, y: 3.36, want: true},
		{x: 3.14, y: 9.34, want: true},
		{x: 1.14, y: 3.4, want: false},
		{x: 3.16, y: 5, want: false},
		{x: 2, y: 9.36, want: false},
		{x: 1.14, y: 3.4, overlap: 1, want: true},
		{x: 3.16, y: 9.36, overlap: 1, want: true},
		{x: 1.04, y: 3.4, overlap: 1, want: false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, c.ContainPoint(test.x, test.y, test.overlap),
			"(%g, %g) overlap %d", test.x, test.y, test.overlap)
	}

	xi, yi, ok := c.ContainPointIndex(1.26, 3.44, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, xi)
	assert.Equal(t, 0, yi)

	xi, yi, ok = c.ContainPointIndex(1.26, 3.44, 2)
	assert.True(t, ok)
	assert.Equal(t, 3, xi)
	assert.Equal(t, 2, yi)

	_, _, ok = c.ContainPointIndex(0, 0, 0)
	assert.False(t, ok)
}

func TestCuboidCheckIntersection(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 20, 60)

	assert.True(t, c.CheckIntersection(0, 0, 1.27, 3.47, 0))
	assert.False(t, c.CheckIntersection(0, 0, 1, 1, 0))
	assert.True(t, c.CheckIntersection(0, 0, 1.15, 3.35, 1))

	xi0, yi0, xi1, yi1, ok := c.IntersectionIndex(0, 0, 1.27, 3.47, 0)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 0, 1, 1}, []int{xi0, yi0, xi1, yi1})

	xi0, yi0, xi1, yi1, ok = c.IntersectionIndex(1.5, 4, 100, 100, 1)
	assert.True(t, ok)
	assert.Equal(t, []int{4, 7, 21, 61}, []int{xi0, yi0, xi1, yi1})

	xi0, yi0, xi1, yi1, ok = c.IntersectionIndex(0, 0, 1, 1, 0)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 1, 0, 0}, []int{xi0, yi0, xi1, yi1})

	assert.True(t, c.CheckPointIntersection(2, 5, 0))
	assert.False(t, c.CheckPointIntersection(3.12, 5, 0))
	assert.True(t, c.CheckPointIntersection(3.12, 5, 1))
}

func TestCuboidLatticeR(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
	p := c.PhysR(3, 4)
	assert.InDelta(t, 1.5, p.X, tol)
	assert.InDelta(t, 3.8, p.Y, tol)

	xi, yi := c.LatticeR(geom.Point{X: 1.26, Y: 3.44})
	assert.Equal(t, 1, xi)
	assert.Equal(t, 0, yi)

	xi, yi = c.FloorLatticeR(geom.Point{X: 1.26, Y: 3.44})
	assert.Equal(t, 0, xi)
	assert.Equal(t, 0, yi)

	xi, yi = c.FloorLatticeR(geom.Point{X: 1.15, Y: 3.35})
	assert.Equal(t, -1, xi)
	assert.Equal(t, -1, yi)
}

func TestCuboidPrint(t *testing.T) {
	c := NewCuboid(1.2, 3.4, 0.1, 20, 60)
	var b bytes.Buffer
	c.Print(&b)
	assert.Contains(t, b.String(), "(1.2, 3.4)")
	assert.Contains(t, b.String(), "(20, 60)")
	assert.Contains(t, b.String(), "| 1200")
}
