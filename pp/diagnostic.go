// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gosl/chk"
)

// Diagnostic holds one configured postprocessor
type Diagnostic struct {
	Name      string    // name of diagnostic; e.g. "mass"
	Integrand Integrand // per point computation
	Blocks    *Blocks   // participating blocks
	Op        Op        // reduction operator
	Nip       int       // number of integration points; 0 => default
}

// NewDiagnostic configures a new diagnostic checking that all variables and properties
// required by the integrand are available
func NewDiagnostic(name string, itg Integrand, blocks *Blocks, op Op, nip int, flds *Fields, mats MaterialAccessor) (o *Diagnostic, err error) {

	// check
	if itg == nil {
		return nil, chk.Err("diagnostic %q: integrand must be given", name)
	}
	if itg.Ncomp() < 1 {
		return nil, chk.Err("diagnostic %q: number of components must be positive. %d is invalid", name, itg.Ncomp())
	}
	if !op.Valid() {
		return nil, chk.Err("diagnostic %q: reduction operator must be given explicitly", name)
	}
	if p, ok := itg.(Pointwise); ok && p.Pointwise() && op != OpMax && op != OpMin {
		return nil, chk.Err("diagnostic %q: point values can only be reduced with max or min. %v is invalid", name, op)
	}
	if nip < 0 {
		return nil, chk.Err("diagnostic %q: number of integration points must not be negative. %d is invalid", name, nip)
	}

	// needs
	vars, props := itg.Needs()
	for _, v := range vars {
		if !flds.Has(v) {
			return nil, newErr(UnknownVariable, "diagnostic %q requires variable %q which is not attached", name, v)
		}
	}
	for _, p := range props {
		if mats == nil || !mats.Has(p) {
			return nil, newErr(UnknownProperty, "diagnostic %q requires property %q which is not provided", name, p)
		}
	}

	// results
	if blocks == nil {
		blocks = new(Blocks)
	}
	o = &Diagnostic{name, itg, blocks, op, nip}
	return
}

// ReadDiagnostic configures a diagnostic from input data
func ReadDiagnostic(dat *inp.DiagData, msh *inp.Mesh, flds *Fields, mats MaterialAccessor) (o *Diagnostic, err error) {
	itg, err := NewIntegrand(dat.Type, &Params{Var: dat.Var, Prop: dat.Prop, Extra: dat.Extra})
	if err != nil {
		return nil, chk.Err("diagnostic %q:\n%v", dat.Name, err)
	}
	blocks, err := NewBlocks(dat.Blocks, msh.Tags)
	if err != nil {
		return
	}
	op, err := ParseOp(dat.Reduce)
	if err != nil {
		return nil, chk.Err("diagnostic %q:\n%v", dat.Name, err)
	}
	return NewDiagnostic(dat.Name, itg, blocks, op, dat.Nip, flds, mats)
}
