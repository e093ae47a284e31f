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

// StreamModel propagates distribution functions to neighboring nodes.
type StreamModel interface {
	Stream(df Field) Field
}

// Stream is the pull streaming scheme for the D2Q9 lattice.
// Values that would come from outside the grid are left as they were
// so that boundary conditions can fill them in.
type Stream struct {
	lm *Lattice
}

// NewStream creates a streaming model for lm.
func NewStream(lm *Lattice) *Stream { return &Stream{lm: lm} }

// Stream returns a new field in which every direction of every node has
// been pulled from its upstream neighbor. df is not modified.
func (s *Stream) Stream(df Field) Field {
	nx := s.lm.Nx()
	ny := s.lm.Ny()
	out := df.Copy()
	Calculations(len(df), func(n int) {
		left := n%nx == 0
		right := n%nx == nx-1
		lower := n/nx == 0
		upper := n/nx == ny-1
		if !left {
			out[n][East] = df[n-1][East]
		}
		if !lower {
			out[n][North] = df[n-nx][North]
		}
		if !right {
			out[n][West] = df[n+1][West]
		}
		if !upper {
			out[n][South] = df[n+nx][South]
		}
		if !lower && !left {
			out[n][NorthEast] = df[n-nx-1][NorthEast]
		}
		if !lower && !right {
			out[n][NorthWest] = df[n-nx+1][NorthWest]
		}
		if !upper && !right {
			out[n][SouthWest] = df[n+nx+1][SouthWest]
		}
		if !upper && !left {
			out[n][SouthEast] = df[n+nx-1][SouthEast]
		}
	})
	return out
}
