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
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/DataDog/zstd"
)

// Checkpoint is the saved state of a simulation.
type Checkpoint struct {
	Nx, Ny    int
	Iteration int
	DF        Field
	Velocity  []Vector
	Density   []float64
}

type densityHolder interface {
	Density() []float64
	SetDensityField([]float64)
}

// Save returns a function that saves the state of the simulation to w
// as a zstd-compressed gob stream
// (format description at https://golang.org/pkg/encoding/gob/).
func Save(w io.Writer) DomainManipulator {
	return func(s *Simulation) error {
		lm := s.Lattice()
		cp := Checkpoint{
			Nx:        lm.Nx(),
			Ny:        lm.Ny(),
			Iteration: s.Iteration,
			DF:        s.DF(),
			Velocity:  lm.Velocity(),
		}
		if d, ok := s.CollisionModel().(densityHolder); ok {
			cp.Density = d.Density()
		}
		return WriteCheckpoint(w, &cp)
	}
}

// WriteCheckpoint writes cp to w.
func WriteCheckpoint(w io.Writer, cp *Checkpoint) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cp); err != nil {
		return fmt.Errorf("lbflow.Save: %v", err)
	}
	b, err := zstd.CompressLevel(nil, buf.Bytes(), zstd.DefaultCompression)
	if err != nil {
		return fmt.Errorf("lbflow.Save: compressing: %v", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("lbflow.Save: %v", err)
	}
	return nil
}

// ReadCheckpoint reads a checkpoint previously written by Save.
func ReadCheckpoint(r io.Reader) (*Checkpoint, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lbflow.Load: %v", err)
	}
	b, err = zstd.Decompress(nil, b)
	if err != nil {
		return nil, fmt.Errorf("lbflow.Load: decompressing: %v", err)
	}
	cp := new(Checkpoint)
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(cp); err != nil {
		return nil, fmt.Errorf("lbflow.Load: %v", err)
	}
	return cp, nil
}

// Load returns a function that restores a simulation from a previously
// Saved checkpoint. The simulation must already have a lattice of the
// same size.
func Load(r io.Reader) DomainManipulator {
	return func(s *Simulation) error {
		if s.LBM == nil {
			return fmt.Errorf("lbflow.Load: simulation has not been initialized")
		}
		cp, err := ReadCheckpoint(r)
		if err != nil {
			return err
		}
		lm := s.Lattice()
		if cp.Nx != lm.Nx() || cp.Ny != lm.Ny() {
			return fmt.Errorf("lbflow.Load: checkpoint is %dx%d but lattice is %dx%d",
				cp.Nx, cp.Ny, lm.Nx(), lm.Ny())
		}
		if err := s.SetDF(cp.DF); err != nil {
			return err
		}
		lm.SetVelocity(cp.Velocity)
		if d, ok := s.CollisionModel().(densityHolder); ok && cp.Density != nil {
			d.SetDensityField(cp.Density)
		}
		s.Iteration = cp.Iteration
		return nil
	}
}
