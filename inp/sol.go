// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// StepData holds the nodal solution at one (completed) time step
type StepData struct {
	T    float64              `json:"t"`    // time
	Dt   float64              `json:"dt"`   // time step size
	Vals map[string][]float64 `json:"vals"` // variable name => values at vertices [nverts]
}

// SolHistory holds the sequence of solutions produced by the (external) time integrator
type SolHistory struct {
	Steps []*StepData `json:"steps"` // all steps

	// derived
	FnamePath string   // complete filename path
	Vars      []string // sorted variable names
}

// ReadSol reads a solution history file
//  nverts -- number of vertices in mesh; all variables must have nverts values
func ReadSol(dir, fn string, nverts int) (o *SolHistory, err error) {

	// read file
	o = new(SolHistory)
	o.FnamePath = filepath.Join(dir, fn)
	b, err := os.ReadFile(o.FnamePath)
	if err != nil {
		return nil, chk.Err("cannot read solution file %q:\n%v", o.FnamePath, err)
	}

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal solution file %q:\n%v", o.FnamePath, err)
	}

	// check
	if len(o.Steps) < 1 {
		return nil, chk.Err("solution file %q has no steps", o.FnamePath)
	}
	first := o.Steps[0]
	for key := range first.Vals {
		o.Vars = append(o.Vars, key)
	}
	sort.Strings(o.Vars)
	for i, stp := range o.Steps {
		if len(stp.Vals) != len(o.Vars) {
			return nil, chk.Err("step %d of solution file %q has %d variables; %d were expected", i, o.FnamePath, len(stp.Vals), len(o.Vars))
		}
		for _, key := range o.Vars {
			vals, ok := stp.Vals[key]
			if !ok {
				return nil, chk.Err("step %d of solution file %q does not have variable %q", i, o.FnamePath, key)
			}
			if len(vals) != nverts {
				return nil, chk.Err("step %d of solution file %q: variable %q has %d values; %d were expected", i, o.FnamePath, key, len(vals), nverts)
			}
		}
		if i > 0 && stp.T < o.Steps[i-1].T {
			return nil, chk.Err("times in solution file %q must be increasing: t[%d]=%g < t[%d]=%g", o.FnamePath, i, stp.T, i-1, o.Steps[i-1].T)
		}
	}
	return
}
