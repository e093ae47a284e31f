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


// Package lbflowutil holds the command-line interface to LBFlow.
package lbflowutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/lbflow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to LBFlow.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Poiseuille.Nx",
			usage: `
              Poiseuille.Nx is the number of lattice nodes along the channel.`,
			defaultVal: 34,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "Poiseuille.Ny",
			usage: `
              Poiseuille.Ny is the number of lattice nodes across the channel,
              including the two rows of wall nodes.`,
			defaultVal: 18,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "Poiseuille.Force",
			usage: `
              Poiseuille.Force is the body force driving the flow, in lattice units.`,
			defaultVal: 0.001,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "Poiseuille.Tau",
			usage: `
              Poiseuille.Tau is the relaxation time. It must be greater than 0.5.`,
			defaultVal: 0.8,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "Poiseuille.Density",
			usage: `
              Poiseuille.Density is the initial fluid density.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "NumIterations",
			usage: `
              NumIterations is the number of time steps to run. If it is
              less than 1, the simulation runs until the total kinetic energy
              converges.`,
			shorthand:  "n",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "CheckPeriod",
			usage: `
              CheckPeriod is the number of time steps between convergence checks.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "ConvergenceTolerance",
			usage: `
              ConvergenceTolerance is the relative change in total kinetic energy
              between checks below which the simulation is considered converged.`,
			defaultVal: 1.e-8,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "LogPeriod",
			usage: `
              LogPeriod is the number of time steps between status messages.`,
			defaultVal: 500,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the NetCDF file where the results
              should be written. It can contain environment variables.`,
			shorthand:  "o",
			defaultVal: "lbflow_output.nc",
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank, the logfile
              will be saved in the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "CheckpointFile",
			usage: `
              CheckpointFile is the path where the final simulation state is saved.
              If it is left blank, it is saved next to the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path where a PNG plot of the simulated and analytic
              velocity profiles is saved. If it is left blank, it is saved next to
              the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "ProfileColumn",
			usage: `
              ProfileColumn is the lattice column the velocity profile is taken
              from. Negative values select the middle of the channel.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which variables should be written to the
              output file, with their expressions. The expressions can use the
              model variables x, y, rho, ux and uy, other output variables, and
              the functions exp, sqrt, abs and pow.`,
			defaultVal: map[string]string{
				"rho":   "rho",
				"ux":    "ux",
				"uy":    "uy",
				"speed": "sqrt(ux*ux+uy*uy)",
			},
			flagsets: []*pflag.FlagSet{poiseuilleCmd.Flags()},
		},
		{
			name: "Geometry.OriginX",
			usage: `
              Geometry.OriginX is the x coordinate of the lower left corner of
              the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Geometry.OriginY",
			usage: `
              Geometry.OriginY is the y coordinate of the lower left corner of
              the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Geometry.ExtentX",
			usage: `
              Geometry.ExtentX is the width of the domain.`,
			defaultVal: 33.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Geometry.ExtentY",
			usage: `
              Geometry.ExtentY is the height of the domain.`,
			defaultVal: 17.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Geometry.Theta",
			usage: `
              Geometry.Theta is the counter-clockwise rotation of the domain
              about its origin, in radians.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Geometry.DeltaR",
			usage: `
              Geometry.DeltaR is the lattice spacing.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Geometry.NumCuboids",
			usage: `
              Geometry.NumCuboids is the number of cuboids to divide the
              domain into.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Ranks",
			usage: `
              Ranks is the number of processes to distribute the cuboids over.`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "RatioFullEmpty",
			usage: `
              RatioFullEmpty is the computational cost of a node inside the domain.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "EmptyCellWeight",
			usage: `
              EmptyCellWeight is the computational cost of a node outside the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{decomposeCmd.Flags()},
		},
		{
			name: "Checkpoint",
			usage: `
              Checkpoint is the path to a checkpoint saved by 'run poiseuille'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
		{
			name: "ReferenceProfile",
			usage: `
              ReferenceProfile is the path to a TOML file holding a reference
              velocity profile. It can contain environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/lbflow/testdata/poiseuille_reference.toml",
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
		{
			name: "Tolerance",
			usage: `
              Tolerance is the largest allowed difference between the simulated
              and reference profiles, relative to the reference maximum.`,
			defaultVal: 0.03,
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
		{
			name: "Units.Resolution",
			usage: `
              Units.Resolution is the number of lattice nodes across the
              characteristic length.`,
			defaultVal: 16,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
		{
			name: "Units.Tau",
			usage: `
              Units.Tau is the lattice relaxation time.`,
			defaultVal: 0.8,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
		{
			name: "Units.CharLength",
			usage: `
              Units.CharLength is the characteristic length in m.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
		{
			name: "Units.CharVelocity",
			usage: `
              Units.CharVelocity is the characteristic velocity in m/s.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
		{
			name: "Units.Viscosity",
			usage: `
              Units.Viscosity is the kinematic viscosity in m²/s.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
		{
			name: "Units.Density",
			usage: `
              Units.Density is the fluid density in kg/m³.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
		{
			name: "Units.CharPressure",
			usage: `
              Units.CharPressure is the characteristic pressure in Pa.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{unitsCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("LBFLOW")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(v)
				set.StringP(option.name, option.shorthand, b.String(), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	runCmd.AddCommand(poiseuilleCmd)
	Root.AddCommand(decomposeCmd)
	Root.AddCommand(validateCmd)
	Root.AddCommand(unitsCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("lbflow: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "lbflow",
	Short: "A two-dimensional lattice Boltzmann flow solver.",
	Long: `LBFlow is a two-dimensional (D2Q9) lattice Boltzmann solver for
incompressible flows, with tools to decompose a domain into cuboids and
balance them over processes.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'LBFLOW_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of LBFlow.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("LBFlow v%s\n", lbflow.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs an LBFlow simulation. Use the subcommands specified below to
choose a case. (Currently 'poiseuille' is the only available case.)`,
	DisableAutoGenTag: true,
}

// poiseuilleCmd runs a body-force-driven channel flow.
var poiseuilleCmd = &cobra.Command{
	Use:   "poiseuille",
	Short: "Run a body-force-driven channel flow.",
	Long: `poiseuille runs a channel flow driven by a uniform body force, with
no-slip walls at the top and bottom and periodic inflow and outflow, until
it reaches steady state. It writes the flow field, a checkpoint, a plot
of the velocity profile and a log file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := PoiseuilleConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		return Run(
			cmd,
			checkSiblingFile(Cfg.GetString("LogFile"), outputFile, ".log"),
			outputFile,
			checkSiblingFile(Cfg.GetString("CheckpointFile"), outputFile, ".checkpoint"),
			checkSiblingFile(Cfg.GetString("PlotFile"), outputFile, ".png"),
			outputVars,
			c,
			Cfg.GetInt("NumIterations"),
			Cfg.GetInt("CheckPeriod"),
			Cfg.GetInt("LogPeriod"),
			Cfg.GetInt("ProfileColumn"),
			Cfg.GetFloat64("ConvergenceTolerance"),
		)
	},
	DisableAutoGenTag: true,
}

// decomposeCmd divides a domain into cuboids and assigns them to ranks.
var decomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "Divide a domain into cuboids and balance them over processes.",
	Long: `decompose divides a rectangular domain into cuboids, shrinks them to
the domain, and prints the cuboids and the processes they are assigned to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := DecomposeConfig(Cfg)
		if err != nil {
			return err
		}
		return Decompose(cmd.OutOrStdout(), d)
	},
	DisableAutoGenTag: true,
}

// validateCmd compares a saved simulation to a reference profile.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compare a checkpoint to a reference velocity profile.",
	Long: `validate reads a checkpoint saved by 'run poiseuille' and compares
the velocity profile in the column named by the reference profile to the
reference values. It fails if the largest relative error exceeds Tolerance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, err := checkInputFile(Cfg.GetString("Checkpoint"), "Checkpoint")
		if err != nil {
			return err
		}
		ref, err := checkInputFile(Cfg.GetString("ReferenceProfile"), "ReferenceProfile")
		if err != nil {
			return err
		}
		return Validate(cmd.OutOrStdout(), cp, ref, Cfg.GetFloat64("Tolerance"))
	},
	DisableAutoGenTag: true,
}

// unitsCmd prints the conversion between physical and lattice units.
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Print the conversion between physical and lattice units.",
	Long: `units chooses the lattice spacing and time step from the resolution and
relaxation time, and prints the resulting conversion factors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		uc, err := UnitConverter(Cfg)
		if err != nil {
			return err
		}
		uc.Print(cmd.OutOrStdout())
		return nil
	},
	DisableAutoGenTag: true,
}
