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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/lbflow"
	"github.com/spatialmodel/lbflow/geometry"
	"github.com/spf13/cast"
)

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again.")
	}
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("lbflow: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkSiblingFile fills in a default path next to outputFile, with
// extension ext, if f isn't specified.
func checkSiblingFile(f, outputFile, ext string) string {
	if f == "" {
		return strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ext
	}
	return os.ExpandEnv(f)
}

// checkInputFile expands environment variables in f and makes sure
// that it exists. name is the configuration variable f came from.
func checkInputFile(f, name string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify the %s configuration variable", name)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("lbflow: problem with %s: %v", name, err)
	}
	return f, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v
	case map[string]interface{}:
		return cast.ToStringMapString(v)
	case string:
		o := make(map[string]string)
		if v == "" {
			return o
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			panic(fmt.Errorf("invalid JSON for variable %s: %v", varName, err))
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for getStringMapString variable %s: %#v", varName, i))
	}
}

// PoiseuilleConfig unmarshals a viper configuration for a channel flow.
func PoiseuilleConfig(cfg *viper.Viper) (lbflow.PoiseuilleConfig, error) {
	c := lbflow.PoiseuilleConfig{
		Nx:      cfg.GetInt("Poiseuille.Nx"),
		Ny:      cfg.GetInt("Poiseuille.Ny"),
		Force:   cfg.GetFloat64("Poiseuille.Force"),
		Tau:     cfg.GetFloat64("Poiseuille.Tau"),
		Density: cfg.GetFloat64("Poiseuille.Density"),
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("parsing Poiseuille configuration: %v", err)
	}
	return c, nil
}

// Decomposition describes how a domain is divided into cuboids and
// spread over processes.
type Decomposition struct {
	Domain     *geometry.IndicatorCuboid
	DeltaR     float64
	NumCuboids int
	Ranks      int

	RatioFullEmpty, EmptyCellWeight float64
}

// DecomposeConfig unmarshals a viper configuration for a domain
// decomposition.
func DecomposeConfig(cfg *viper.Viper) (*Decomposition, error) {
	extent := geom.Point{X: cfg.GetFloat64("Geometry.ExtentX"), Y: cfg.GetFloat64("Geometry.ExtentY")}
	origin := geom.Point{X: cfg.GetFloat64("Geometry.OriginX"), Y: cfg.GetFloat64("Geometry.OriginY")}
	d := &Decomposition{
		DeltaR:          cfg.GetFloat64("Geometry.DeltaR"),
		NumCuboids:      cfg.GetInt("Geometry.NumCuboids"),
		Ranks:           cfg.GetInt("Ranks"),
		RatioFullEmpty:  cfg.GetFloat64("RatioFullEmpty"),
		EmptyCellWeight: cfg.GetFloat64("EmptyCellWeight"),
	}

	vars := []float64{extent.X, extent.Y, d.DeltaR}
	varNames := []string{"Geometry.ExtentX", "Geometry.ExtentY", "Geometry.DeltaR"}
	for i, v := range vars {
		if !(v > 0) {
			return nil, fmt.Errorf("parsing decomposition configuration: %s=%g but should be >0", varNames[i], v)
		}
	}
	ints := []int{d.NumCuboids, d.Ranks}
	varNames = []string{"Geometry.NumCuboids", "Ranks"}
	for i, v := range ints {
		if v < 1 {
			return nil, fmt.Errorf("parsing decomposition configuration: %s=%d but should be >0", varNames[i], v)
		}
	}
	if d.RatioFullEmpty < 0 || d.EmptyCellWeight < 0 {
		return nil, fmt.Errorf("parsing decomposition configuration: RatioFullEmpty=%g and "+
			"EmptyCellWeight=%g must not be negative", d.RatioFullEmpty, d.EmptyCellWeight)
	}
	d.Domain = geometry.NewIndicatorCuboid(extent, origin, cfg.GetFloat64("Geometry.Theta"))
	return d, nil
}

// UnitConverter unmarshals a viper configuration for a unit converter.
func UnitConverter(cfg *viper.Viper) (*lbflow.UnitConverter, error) {
	resolution := cfg.GetInt("Units.Resolution")
	if resolution < 1 {
		return nil, fmt.Errorf("parsing units configuration: Units.Resolution=%d but should be >0", resolution)
	}
	tau := cfg.GetFloat64("Units.Tau")
	if tau <= 0.5 {
		return nil, fmt.Errorf("parsing units configuration: Units.Tau=%g but should be >0.5", tau)
	}
	vars := []float64{
		cfg.GetFloat64("Units.CharLength"),
		cfg.GetFloat64("Units.CharVelocity"),
		cfg.GetFloat64("Units.Viscosity"),
		cfg.GetFloat64("Units.Density"),
	}
	varNames := []string{"Units.CharLength", "Units.CharVelocity", "Units.Viscosity", "Units.Density"}
	for i, v := range vars {
		if !(v > 0) {
			return nil, fmt.Errorf("parsing units configuration: %s=%g but should be >0", varNames[i], v)
		}
	}
	return lbflow.NewUnitConverterFromResolutionAndRelaxationTime(resolution, tau,
		vars[0], vars[1], vars[2], vars[3], cfg.GetFloat64("Units.CharPressure")), nil
}
