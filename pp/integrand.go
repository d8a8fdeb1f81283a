// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Integrand computes the contribution of one quadrature point.
//  Note: Eval must not have side effects; it is called concurrently for different cells
type Integrand interface {
	Ncomp() int                                                           // number of components of result
	Needs() (vars, props []string)                                        // variables and properties required
	Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error // res[ncomp] := f(qp)
}

// Finaliser post-processes the globally reduced values; e.g. sqrt of norms
type Finaliser interface {
	Finalise(vals []float64) []float64
}

// Pointwise is implemented by integrands whose point values are combined with the
// diagnostic operator instead of being weighted and summed; e.g. extreme values.
// Only max and min are accepted for them
type Pointwise interface {
	Pointwise() bool
}

// ScalarFunc defines a scalar function of a quadrature point
type ScalarFunc func(qp Qp, flds *Fields, mats MaterialAccessor) (float64, error)

// Scalar wraps a ScalarFunc into an Integrand with one component
type Scalar struct {
	vars  []string   // required variables
	props []string   // required properties
	fcn   ScalarFunc // the function
}

// NewScalar returns a new scalar integrand
func NewScalar(vars, props []string, fcn ScalarFunc) *Scalar {
	return &Scalar{vars, props, fcn}
}

// Ncomp returns 1
func (o *Scalar) Ncomp() int { return 1 }

// Needs returns the required variables and properties
func (o *Scalar) Needs() (vars, props []string) { return o.vars, o.props }

// Eval evaluates the function
func (o *Scalar) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) (err error) {
	res[0], err = o.fcn(qp, flds, mats)
	return
}

// Params holds the parameters to allocate integrands
type Params struct {
	Var   string // variable name
	Prop  string // property name
	Extra string // extra flags in keycode format; e.g. "!abs"
}

// Allocator defines a function to allocate integrands
type Allocator func(prm *Params) (Integrand, error)

// allocators holds all available integrands
var allocators = make(map[string]Allocator)

// SetAllocator registers a new integrand type
//  Note: panics if name has been registered already
func SetAllocator(name string, fcn Allocator) {
	if _, ok := allocators[name]; ok {
		chk.Panic("integrand type %q has been already registered", name)
	}
	allocators[name] = fcn
}

// NewIntegrand allocates a new integrand of type name
func NewIntegrand(name string, prm *Params) (Integrand, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("integrand type %q is not available", name)
	}
	if prm == nil {
		prm = new(Params)
	}
	return allocator(prm)
}

// IntegrandTypes returns the sorted names of all registered integrands
func IntegrandTypes() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
