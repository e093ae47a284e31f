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

// Package parallel assigns the cuboids of a decomposed domain to the
// processes (ranks) of a parallel run.
package parallel

import "fmt"

// Topology describes the calling process's place in a parallel run.
type Topology interface {
	// Rank is the calling process's index in [0, Size).
	Rank() int
	// Size is the number of processes.
	Size() int
}

// SingleProcess is a run with one process.
type SingleProcess struct{}

// Rank is always 0.
func (SingleProcess) Rank() int { return 0 }

// Size is always 1.
func (SingleProcess) Size() int { return 1 }

// Static is a fixed rank within a run of fixed size. It is used to plan
// a decomposition for a process other than the calling one.
type Static struct {
	rank, size int
}

// NewStatic returns rank out of size processes. It panics if rank is not
// in [0, size).
func NewStatic(rank, size int) Static {
	if size < 1 || rank < 0 || rank >= size {
		panic(fmt.Errorf("parallel: invalid rank %d of %d", rank, size))
	}
	return Static{rank: rank, size: size}
}

func (s Static) Rank() int { return s.rank }
func (s Static) Size() int { return s.size }
