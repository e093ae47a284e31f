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
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ModelVariables are the per-node variables that output expressions
// may refer to, with their descriptions.
var ModelVariables = map[string]string{
	"x":   "Lattice x coordinate",
	"y":   "Lattice y coordinate",
	"rho": "Density",
	"ux":  "x component of velocity",
	"uy":  "y component of velocity",
}

// Outputter writes simulation results to a NetCDF file.
//
// outputVariables maps the names of the variables to be written to
// expressions that define how they should be calculated. The expressions
// can use the variables in ModelVariables, other output variables, and
// functions.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	expressions     map[string]*govaluate.EvaluableExpression
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction
}

// NewOutputter initializes a new Outputter and adds a set of default
// output functions: 'exp(x)', 'sqrt(x)', 'abs(x)' and 'pow(x, y)'.
func NewOutputter(fileName string, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp":  oneArg("exp", math.Exp),
		"sqrt": oneArg("sqrt", math.Sqrt),
		"abs":  oneArg("abs", math.Abs),
		"pow": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("lbflow: got %d arguments for function 'pow', but needs 2", len(arg))
			}
			return math.Pow(arg[0].(float64), arg[1].(float64)), nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	vars := make(map[string]string, len(outputVariables))
	for k, v := range outputVariables {
		vars[k] = v
	}
	o := &Outputter{
		fileName:        fileName,
		outputVariables: vars,
		outputFunctions: defaultOutputFuncs,
	}
	if err := checkOutputNames(o.outputVariables); err != nil {
		return nil, err
	}
	if err := o.checkForDerivatives(); err != nil {
		return nil, err
	}
	return o, nil
}

func oneArg(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("lbflow: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		return f(arg[0].(float64)), nil
	}
}

// removeDuplicates removes all duplicated strings from a slice, returning a
// slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

// checkForDerivatives parses the output expressions, substituting output
// variables that are used in other output expressions with their own
// definitions, and records the model variables that are needed.
func (o *Outputter) checkForDerivatives() error {
	o.expressions = make(map[string]*govaluate.EvaluableExpression)
	var model []string
	for _, key := range sortedKeys(o.outputVariables) {
		expr, err := o.expand(key, map[string]bool{})
		if err != nil {
			return err
		}
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.outputFunctions)
		if err != nil {
			return fmt.Errorf("lbflow: output variable '%s': %v", key, err)
		}
		for _, v := range removeDuplicates(e.Vars()) {
			if _, ok := ModelVariables[v]; !ok {
				return fmt.Errorf("lbflow: undefined variable name '%s' in output variable '%s'", v, key)
			}
			model = append(model, v)
		}
		o.expressions[key] = e
	}
	o.modelVariables = removeDuplicates(model)
	sort.Strings(o.modelVariables)
	return nil
}

// expand returns the expression for key with any references to other
// output variables replaced by their parenthesized definitions.
func (o *Outputter) expand(key string, visiting map[string]bool) (string, error) {
	if visiting[key] {
		return "", fmt.Errorf("lbflow: output variable '%s' is defined in terms of itself", key)
	}
	visiting[key] = true
	defer delete(visiting, key)

	val := o.outputVariables[key]
	e, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
	if err != nil {
		return "", fmt.Errorf("lbflow: output variable '%s': %v", key, err)
	}
	for _, v := range removeDuplicates(e.Vars()) {
		def, ok := o.outputVariables[v]
		if !ok || def == v {
			continue
		}
		sub, err := o.expand(v, visiting)
		if err != nil {
			return "", err
		}
		// Only replace whole identifiers, so that 'u' does not match
		// inside 'ux'.
		re := regexp.MustCompile(`(^|[^A-Za-z0-9_])` + regexp.QuoteMeta(v) + `($|[^A-Za-z0-9_])`)
		for re.MatchString(val) {
			val = re.ReplaceAllString(val, "${1}("+sub+")${2}")
		}
	}
	return val, nil
}

// checkOutputNames checks that output variable names are valid NetCDF
// variable names.
func checkOutputNames(o map[string]string) error {
	for key := range o {
		ok, err := regexp.MatchString(`^[A-Za-z]\w*$`, key)
		if err != nil {
			panic(err)
		}
		if !ok {
			return fmt.Errorf("lbflow: output variable name '%s' includes unsupported characters", key)
		}
	}
	return nil
}

// ModelVariablesUsed returns the model variables that the output
// expressions depend on.
func (o *Outputter) ModelVariablesUsed() []string { return o.modelVariables }

// Results calculates the output variables for every node. The results
// are arrays with shape (ny, nx).
func (o *Outputter) Results(s *Simulation) (map[string]*sparse.DenseArray, error) {
	lm := s.Lattice()
	nx, ny := lm.Nx(), lm.Ny()
	var rho []float64
	if d, ok := s.CollisionModel().(densityHolder); ok {
		rho = d.Density()
	}
	u := lm.Velocity()

	out := make(map[string]*sparse.DenseArray, len(o.expressions))
	for name := range o.expressions {
		out[name] = sparse.ZerosDense(ny, nx)
	}
	params := make(map[string]interface{}, len(ModelVariables))
	for n := 0; n < lm.NumNodes(); n++ {
		x, y := lm.Coords(n)
		params["x"] = float64(x)
		params["y"] = float64(y)
		params["ux"] = u[n][0]
		params["uy"] = u[n][1]
		params["rho"] = math.NaN()
		if rho != nil {
			params["rho"] = rho[n]
		}
		for name, e := range o.expressions {
			v, err := e.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("lbflow: evaluating output variable '%s': %v", name, err)
			}
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("lbflow: output variable '%s' is not numeric", name)
			}
			out[name].Set(f, y, x)
		}
	}
	return out, nil
}

// Output returns a function that writes the output variables to the
// Outputter's file in NetCDF format.
func (o *Outputter) Output() DomainManipulator {
	return func(s *Simulation) error {
		results, err := o.Results(s)
		if err != nil {
			return err
		}
		lm := s.Lattice()
		vars := sortedKeys(o.outputVariables)

		h := cdf.NewHeader([]string{"y", "x"}, []int{lm.Ny(), lm.Nx()})
		for _, v := range vars {
			h.AddVariable(v, []string{"y", "x"}, []float64{0.})
			h.AddAttribute(v, "description", o.outputVariables[v])
		}
		h.Define()
		for _, err := range h.Check() {
			return fmt.Errorf("lbflow: creating output netcdf file: %v", err)
		}

		ff, err := os.Create(o.fileName)
		if err != nil {
			return fmt.Errorf("lbflow: creating output netcdf file: %v", err)
		}
		defer ff.Close()
		f, err := cdf.Create(ff, h)
		if err != nil {
			return fmt.Errorf("lbflow: creating output netcdf file: %v", err)
		}
		for _, v := range vars {
			data := results[v].Elements
			w := f.Writer(v, []int{0, 0}, []int{lm.Ny(), lm.Nx()})
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("lbflow: writing variable %s to netcdf file: %v", v, err)
			}
		}
		return ff.Close()
	}
}

// ReadOutput reads a variable written by Output from a NetCDF file.
// The result has shape (ny, nx).
func ReadOutput(r cdf.ReaderWriterAt, variable string) (*sparse.DenseArray, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("lbflow: opening netcdf output: %v", err)
	}
	dims := f.Header.Lengths(variable)
	if len(dims) != 2 {
		return nil, fmt.Errorf("lbflow: variable '%s' not found in netcdf output", variable)
	}
	rd := f.Reader(variable, nil, nil)
	buf := rd.Zero(-1)
	if _, err := rd.Read(buf); err != nil {
		return nil, fmt.Errorf("lbflow: reading variable '%s': %v", variable, err)
	}
	out := sparse.ZerosDense(dims...)
	copy(out.Elements, buf.([]float64))
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
