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
	"math"

	"github.com/ctessum/geom"
)

// Indicator describes a shape in physical space.
type Indicator interface {
	// IsInside reports whether p is within the shape.
	IsInside(p geom.Point) bool
	// Min and Max are the corners of the axis-aligned box the
	// shape is meshed over.
	Min() geom.Point
	Max() geom.Point
}

// insideTolerance is how far outside an edge a point may be and still
// count as inside.
const insideTolerance = 1e-10

// IndicatorCuboid is a rectangle, optionally rotated about its center.
type IndicatorCuboid struct {
	center           geom.Point
	xLength, yLength float64
	theta            float64
	min, max         geom.Point
}

// NewIndicatorCuboid creates a rectangle of the given extent with its
// lower left corner at origin, rotated by theta radians about its
// center.
func NewIndicatorCuboid(extent, origin geom.Point, theta float64) *IndicatorCuboid {
	return &IndicatorCuboid{
		center:  geom.Point{X: origin.X + 0.5*extent.X, Y: origin.Y + 0.5*extent.Y},
		xLength: extent.X,
		yLength: extent.Y,
		theta:   theta,
		min:     origin,
		max:     geom.Point{X: origin.X + extent.X, Y: origin.Y + extent.Y},
	}
}

// NewCenteredIndicatorCuboid creates an xLength by yLength rectangle
// centered on center and rotated counterclockwise by theta radians.
func NewCenteredIndicatorCuboid(xLength, yLength float64, center geom.Point, theta float64) *IndicatorCuboid {
	return &IndicatorCuboid{
		center:  center,
		xLength: xLength,
		yLength: yLength,
		theta:   -theta,
		min:     geom.Point{X: center.X - 0.5*xLength, Y: center.Y - 0.5*yLength},
		max:     geom.Point{X: center.X + 0.5*xLength, Y: center.Y + 0.5*yLength},
	}
}

// Min returns the lower left corner of the unrotated rectangle.
func (ic *IndicatorCuboid) Min() geom.Point { return ic.min }

// Max returns the upper right corner of the unrotated rectangle.
func (ic *IndicatorCuboid) Max() geom.Point { return ic.max }

// Center returns the center of the rectangle.
func (ic *IndicatorCuboid) Center() geom.Point { return ic.center }

// Range returns Max - Min.
func (ic *IndicatorCuboid) Range() geom.Point {
	return geom.Point{X: ic.max.X - ic.min.X, Y: ic.max.Y - ic.min.Y}
}

// IsInside reports whether p is within the rectangle. Points on the
// boundary are inside.
func (ic *IndicatorCuboid) IsInside(p geom.Point) bool {
	sin, cos := math.Sincos(ic.theta)
	dx, dy := p.X-ic.center.X, p.Y-ic.center.Y
	x := ic.center.X + dx*cos - dy*sin
	y := ic.center.Y + dx*sin + dy*cos
	return within(math.Abs(ic.center.X-x), 0.5*ic.xLength) &&
		within(math.Abs(ic.center.Y-y), 0.5*ic.yLength)
}

func within(d, half float64) bool {
	return d < half || math.Abs(d-half) < insideTolerance
}
