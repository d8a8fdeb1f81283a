// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions used as reference fields
package ana

import (
	"sort"

	"github.com/cpmech/gopost/pp"
	"github.com/cpmech/gosl/chk"
)

// Solution defines a scalar analytical solution
type Solution interface {
	Init(prms map[string]float64) error         // initialises parameters
	Calc(x []float64) (u float64, g [3]float64) // value and gradient at x
}

// allocators holds all available solutions
var allocators = map[string]func() Solution{
	"linear":   func() Solution { return new(Linear) },
	"cylinder": func() Solution { return new(PressCylin) },
}

// Types returns the sorted names of available solutions
func Types() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Field implements pp.FieldAccessor with an analytical solution
type Field struct {
	name string   // variable name
	sol  Solution // solution
}

// New returns a new analytical field
//  name -- variable name given to the field; e.g. "uana"
//  typ  -- type of solution; e.g. "cylinder"
func New(name, typ string, prms map[string]float64) (o *Field, err error) {
	allocator, ok := allocators[typ]
	if !ok {
		return nil, chk.Err("analytical solution %q is not available", typ)
	}
	sol := allocator()
	err = sol.Init(prms)
	if err != nil {
		return nil, chk.Err("cannot initialise analytical solution %q:\n%v", typ, err)
	}
	return &Field{name, sol}, nil
}

// Var returns the variable name
func (o *Field) Var() string { return o.name }

// At returns the analytical value and gradient at the real coordinates of qp
func (o *Field) At(qp pp.Qp) (val pp.FieldValue, err error) {
	val.U, val.Grad = o.sol.Calc(qp.X[:qp.Ndim])
	return
}

// Linear implements u = c0 + cx·x + cy·y + cz·z
type Linear struct {
	C0 float64    // constant
	C  [3]float64 // gradient
}

// Init initialises parameters: "c0", "cx", "cy", "cz"
func (o *Linear) Init(prms map[string]float64) (err error) {
	for key, val := range prms {
		switch key {
		case "c0":
			o.C0 = val
		case "cx":
			o.C[0] = val
		case "cy":
			o.C[1] = val
		case "cz":
			o.C[2] = val
		default:
			return chk.Err("parameter %q of linear solution is invalid", key)
		}
	}
	return
}

// Calc computes u and ∇u
func (o *Linear) Calc(x []float64) (u float64, g [3]float64) {
	u = o.C0
	for i := range x {
		u += o.C[i] * x[i]
	}
	return u, o.C
}
