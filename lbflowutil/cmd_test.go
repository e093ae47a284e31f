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


package lbflowutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spatialmodel/lbflow"
)

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "LBFlow v" + lbflow.Version; !strings.Contains(buf.String(), want) {
		t.Errorf("output %q does not contain %q", buf.String(), want)
	}
}

func TestPoiseuilleAndValidate(t *testing.T) {
	dir, err := ioutil.TempDir("", "lbflow")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)

	outputFile := filepath.Join(dir, "poiseuille.nc")
	Cfg.Set("OutputFile", outputFile)
	Cfg.Set("NumIterations", 3000)
	Cfg.Set("LogPeriod", 1000)
	Root.SetArgs([]string{"run", "poiseuille"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".nc", ".log", ".checkpoint", ".png"} {
		if _, err := os.Stat(filepath.Join(dir, "poiseuille"+ext)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
	if !strings.Contains(buf.String(), "simulation complete") {
		t.Errorf("log does not report completion:\n%s", buf.String())
	}

	f, err := os.Open(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ux, err := lbflow.ReadOutput(f, "ux")
	if err != nil {
		t.Fatal(err)
	}
	if ux.Shape[0] != 18 || ux.Shape[1] != 34 {
		t.Fatalf("output shape %v", ux.Shape)
	}
	if v := ux.Get(8, 17); v < 0.3 || v > 0.33 {
		t.Errorf("centerline velocity %g", v)
	}
	if v := ux.Get(0, 17); v != 0 {
		t.Errorf("wall velocity %g", v)
	}

	t.Run("validate", func(t *testing.T) {
		buf.Reset()
		Cfg.Set("Checkpoint", filepath.Join(dir, "poiseuille.checkpoint"))
		Cfg.Set("ReferenceProfile", "../testdata/poiseuille_reference.toml")
		Cfg.Set("Tolerance", 0.03)
		Root.SetArgs([]string{"validate"})
		if err := Root.Execute(); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Max relative error") {
			t.Errorf("validate output:\n%s", buf.String())
		}
	})

	t.Run("validate tight", func(t *testing.T) {
		Cfg.Set("Tolerance", 1.e-12)
		defer Cfg.Set("Tolerance", 0.03)
		Root.SetArgs([]string{"validate"})
		if err := Root.Execute(); err == nil {
			t.Error("expected tolerance error")
		}
	})
}

func TestValidateTruncatedCheckpoint(t *testing.T) {
	dir, err := ioutil.TempDir("", "lbflow")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cpFile := filepath.Join(dir, "truncated.checkpoint")
	f, err := os.Create(cpFile)
	if err != nil {
		t.Fatal(err)
	}
	cp := &lbflow.Checkpoint{Nx: 34, Ny: 18, Velocity: make([]lbflow.Vector, 3)}
	if err := lbflow.WriteCheckpoint(f, cp); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var buf bytes.Buffer
	err = Validate(&buf, cpFile, "../testdata/poiseuille_reference.toml", 0.03)
	if err == nil || !strings.Contains(err.Error(), "3 velocities") {
		t.Errorf("expected velocity count error, got %v", err)
	}
}

func TestDecompose(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)

	Cfg.Set("Geometry.OriginX", 1.2)
	Cfg.Set("Geometry.OriginY", 3.4)
	Cfg.Set("Geometry.ExtentX", 6.0)
	Cfg.Set("Geometry.ExtentY", 7.0)
	Cfg.Set("Geometry.DeltaR", 0.5)
	Cfg.Set("Geometry.NumCuboids", 7)
	Cfg.Set("Ranks", 2)
	Root.SetArgs([]string{"decompose"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		" Number of Cuboids | 7\n",
		"Cuboid #6:\n",
		" Rank 0    | Cuboids [2 4 5] | Load 87\n",
		" Rank 1    | Cuboids [0 1 3 6] | Load 108\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestUnits(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)

	Cfg.Set("Units.Resolution", 16)
	Cfg.Set("Units.Tau", 0.8)
	Cfg.Set("Units.Viscosity", 0.1)
	Root.SetArgs([]string{"units"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"N=      16\n", "Re=     10\n", "Length:    0.0625 m\n"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, buf.String())
		}
	}
}
