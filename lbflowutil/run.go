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
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/lbflow"
	"github.com/spatialmodel/lbflow/geometry"
	"github.com/spatialmodel/lbflow/parallel"
	"github.com/spf13/cobra"
)

func newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.Out = w
	logger.Formatter = &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}
	logger.Level = logrus.InfoLevel
	return logger
}

// Run runs a channel flow simulation until it converges or NumIterations
// time steps have been taken.
//
// CobraCommand is the cobra.Command instance where Run is called from.
// Log messages are written to its output and to LogFile.
//
// OutputFile is the path where the NetCDF results are written, with the
// variables in OutputVariables. CheckpointFile receives the final state
// of the simulation and PlotFile a PNG plot of the velocity profile in
// column profileColumn, which is compared to the analytic solution.
//
// NumIterations is the number of iterations to calculate. If < 1, the
// simulation runs until the relative change in kinetic energy between
// checks, every checkPeriod steps, is less than tolerance. Status is
// logged every logPeriod steps.
func Run(CobraCommand *cobra.Command, LogFile, OutputFile, CheckpointFile, PlotFile string,
	OutputVariables map[string]string, c lbflow.PoiseuilleConfig,
	NumIterations, checkPeriod, logPeriod, profileColumn int, tolerance float64) error {

	startTime := time.Now()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("lbflow: problem creating log file: %v", err)
	}
	var out io.Writer = os.Stdout
	if CobraCommand != nil {
		out = CobraCommand.OutOrStdout()
	}
	logger := newLogger(io.MultiWriter(out, logfile))

	// Start functions to receive and log status messages.
	cConverge := make(chan string)
	statusR, statusW := io.Pipe()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		for msg := range cConverge {
			logger.Info(msg)
		}
		wg.Done()
	}()
	go func() {
		s := bufio.NewScanner(statusR)
		for s.Scan() {
			logger.Info(s.Text())
		}
		wg.Done()
	}()
	defer func() { // Wait for the logging to finish.
		close(cConverge)
		statusW.Close()
		wg.Wait()
		logfile.Close()
	}()

	o, err := lbflow.NewOutputter(OutputFile, OutputVariables, nil)
	if err != nil {
		return err
	}
	if profileColumn < 0 || profileColumn >= c.Nx {
		profileColumn = c.Nx / 2
	}

	logger.WithFields(logrus.Fields{
		"nx":        c.Nx,
		"ny":        c.Ny,
		"force":     c.Force,
		"tau":       c.Tau,
		"viscosity": c.Viscosity(),
	}).Info("starting Poiseuille simulation")

	s := &lbflow.Simulation{
		InitFuncs: []lbflow.DomainManipulator{
			c.Setup(),
		},
		RunFuncs: []lbflow.DomainManipulator{
			lbflow.TakeStep(),
			lbflow.Log(statusW, logPeriod),
			lbflow.SteadyStateConvergenceCheck(NumIterations, checkPeriod, tolerance, cConverge),
		},
		CleanupFuncs: []lbflow.DomainManipulator{
			o.Output(),
			saveCheckpoint(CheckpointFile),
			profileReport(logger, c, profileColumn, PlotFile),
		},
	}
	if err = s.Init(); err != nil {
		return err
	}
	stats := s.Geometry.Statistics()
	logger.WithFields(logrus.Fields{
		"fluid":          stats.Count(geometry.Fluid),
		"wall":           stats.Count(lbflow.MaterialWall),
		"periodic fluid": stats.Count(lbflow.MaterialPeriodicFluid),
		"periodic wall":  stats.Count(lbflow.MaterialPeriodicWall),
	}).Info("marked channel nodes")
	if err = s.Run(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"iterations": s.Iteration,
		"walltime":   time.Since(startTime).String(),
		"output":     OutputFile,
		"checkpoint": CheckpointFile,
	}).Info("simulation complete")
	return nil
}

// saveCheckpoint returns a function that saves the simulation state to
// the file at path.
func saveCheckpoint(path string) lbflow.DomainManipulator {
	return func(s *lbflow.Simulation) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("lbflow: problem creating checkpoint file: %v", err)
		}
		if err = lbflow.Save(f)(s); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

// profileReport returns a function that compares the velocity profile in
// column to the analytic solution, logs the result and plots both
// profiles to plotFile.
func profileReport(logger logrus.FieldLogger, c lbflow.PoiseuilleConfig, column int, plotFile string) lbflow.DomainManipulator {
	return func(s *lbflow.Simulation) error {
		sim := lbflow.VelocityProfile(s.Lattice(), column)
		analytic := c.AnalyticProfile()
		cmp, err := lbflow.CompareProfiles(sim, analytic)
		if err != nil {
			return err
		}
		p, err := lbflow.FitParabola(lbflow.FluidRows(sim))
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"column":        column,
			"slope":         cmp.Slope,
			"r2":            cmp.RSquared,
			"rmse":          cmp.RMSE,
			"max_rel_error": cmp.MaxRelativeError,
			"fit_r2":        p.RSquared,
			"fit_curvature": p.C,
		}).Info("velocity profile compared to analytic solution")

		f, err := os.Create(plotFile)
		if err != nil {
			return fmt.Errorf("lbflow: problem creating plot file: %v", err)
		}
		if err = lbflow.ProfilePlot(f, fmt.Sprintf("Poiseuille flow, column %d", column), sim, analytic); err != nil {
			f.Close()
			return fmt.Errorf("lbflow: plotting velocity profile: %v", err)
		}
		return f.Close()
	}
}

// Decompose divides the domain of d into cuboids and writes the cuboids
// and their assignment to ranks to w.
func Decompose(w io.Writer, d *Decomposition) error {
	cg := geometry.NewCuboidGeometryFromIndicator(d.Domain, d.DeltaR, d.NumCuboids)
	if cg.NumCuboids() == 0 {
		return fmt.Errorf("lbflow: the domain does not contain any lattice nodes")
	}
	cg.Print(w)
	cg.PrintExtended(w)

	weights := parallel.CuboidWeights(cg, d.RatioFullEmpty, d.EmptyCellWeight)
	fmt.Fprintln(w, "===== Load Balance =====")
	for r := 0; r < d.Ranks; r++ {
		lb := parallel.NewHeuristicLoadBalancer(cg, parallel.NewStatic(r, d.Ranks),
			d.RatioFullEmpty, d.EmptyCellWeight)
		cuboids := make([]int, lb.Size())
		var load int
		for l := range cuboids {
			cuboids[l] = lb.GlobalIndex(l)
			load += weights[cuboids[l]]
		}
		fmt.Fprintf(w, " Rank %-4d | Cuboids %v | Load %d\n", r, cuboids, load)
	}
	return nil
}

// Validate compares the velocity profile saved in the checkpoint at
// checkpointFile to the reference profile in referenceFile and writes
// the comparison to w. It returns an error if the largest difference
// relative to the reference maximum is greater than tolerance.
func Validate(w io.Writer, checkpointFile, referenceFile string, tolerance float64) error {
	rf, err := os.Open(referenceFile)
	if err != nil {
		return fmt.Errorf("lbflow: opening reference profile: %v", err)
	}
	defer rf.Close()
	ref, err := lbflow.ReadReferenceProfile(rf)
	if err != nil {
		return err
	}

	cf, err := os.Open(checkpointFile)
	if err != nil {
		return fmt.Errorf("lbflow: opening checkpoint: %v", err)
	}
	defer cf.Close()
	cp, err := lbflow.ReadCheckpoint(cf)
	if err != nil {
		return err
	}

	if cp.Nx != ref.Nx || cp.Ny != ref.Ny {
		return fmt.Errorf("lbflow: checkpoint is %dx%d but reference profile is for %dx%d",
			cp.Nx, cp.Ny, ref.Nx, ref.Ny)
	}
	if ref.Column < 0 || ref.Column >= cp.Nx {
		return fmt.Errorf("lbflow: reference column %d is outside of the lattice", ref.Column)
	}
	if len(cp.Velocity) != cp.Nx*cp.Ny {
		return fmt.Errorf("lbflow: checkpoint has %d velocities but the lattice has %d nodes",
			len(cp.Velocity), cp.Nx*cp.Ny)
	}
	sim := make([]float64, cp.Ny)
	for y := range sim {
		sim[y] = cp.Velocity[y*cp.Nx+ref.Column][0]
	}
	c, err := lbflow.CompareProfiles(sim, ref.Ux)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Case %s, column %d, %d iterations\n", ref.Case, ref.Column, cp.Iteration)
	fmt.Fprintf(w, " Slope              | %.6g\n", c.Slope)
	fmt.Fprintf(w, " Intercept          | %.6g\n", c.Intercept)
	fmt.Fprintf(w, " R²                 | %.6g\n", c.RSquared)
	fmt.Fprintf(w, " RMSE               | %.6g\n", c.RMSE)
	fmt.Fprintf(w, " Max relative error | %.6g\n", c.MaxRelativeError)
	if c.MaxRelativeError > tolerance {
		return fmt.Errorf("lbflow: maximum relative error %g is greater than tolerance %g",
			c.MaxRelativeError, tolerance)
	}
	return nil
}
