// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"sort"
	"sync"
)

// FieldValue holds the value and gradient of a scalar variable at one quadrature point
type FieldValue struct {
	U    float64    // value
	Grad [3]float64 // gradient w.r.t real coordinates (only the first ndim components are used)
}

// FieldAccessor gives read-only access to one variable at quadrature points
type FieldAccessor interface {
	Var() string                          // variable name
	At(qp Qp) (val FieldValue, err error) // value and gradient at qp; must not modify qp
}

// Solution holds a snapshot of nodal values of all variables for one step
//  Note: values are read-only during an evaluation pass
type Solution struct {
	mu    sync.RWMutex
	vals  map[string][]float64 // variable => nodal values [nverts]
	ts    TimeState            // time state of snapshot
	valid bool                 // snapshot has been made current
}

// NewSolution returns a new (not yet current) solution
func NewSolution() *Solution {
	return &Solution{vals: make(map[string][]float64)}
}

// Update makes vals the current snapshot for step ts.Step
func (o *Solution) Update(ts TimeState, vals map[string][]float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vals = vals
	o.ts = ts
	o.valid = true
}

// Invalidate marks the snapshot as out of date (e.g. while the solver is running)
func (o *Solution) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.valid = false
}

// Time returns the time state of the snapshot
func (o *Solution) Time() TimeState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.ts
}

// Has tells whether the snapshot contains variable name
func (o *Solution) Has(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.vals[name]
	return ok
}

// Values returns the nodal values of variable name checking that the snapshot is current for step
func (o *Solution) Values(name string, step int) (vals []float64, err error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.valid {
		return nil, newErr(StaleField, "solution has not been made current for step %d", step)
	}
	if o.ts.Step != step {
		return nil, newErr(StaleField, "solution belongs to step %d but step %d is being evaluated", o.ts.Step, step)
	}
	vals, ok := o.vals[name]
	if !ok {
		return nil, newErr(UnknownVariable, "solution does not have variable %q", name)
	}
	return
}

// Fields returns a set of nodal fields backed by this solution
func (o *Solution) Fields(names ...string) *Fields {
	flds := NewFields()
	for _, name := range names {
		flds.Add(NewNodalField(o, name))
	}
	return flds
}

// NodalField interpolates nodal values with shape functions
type NodalField struct {
	name string    // variable name
	sol  *Solution // solution
}

// NewNodalField returns a new field accessor for variable name of solution
func NewNodalField(sol *Solution, name string) *NodalField {
	return &NodalField{name, sol}
}

// Var returns the variable name
func (o *NodalField) Var() string { return o.name }

// At returns u = Σ S_m u_m and ∇u = Σ G_m u_m
func (o *NodalField) At(qp Qp) (val FieldValue, err error) {
	vals, err := o.sol.Values(o.name, qp.Time.Step)
	if err != nil {
		return
	}
	for m, v := range qp.Verts {
		if v < 0 || v >= len(vals) {
			return val, newErr(MissingValue, "variable %q has no value at vertex %d of cell %d", o.name, v, qp.Cid)
		}
		val.U += qp.S[m] * vals[v]
		for i := 0; i < qp.Ndim; i++ {
			val.Grad[i] += qp.G[m][i] * vals[v]
		}
	}
	return
}

// Fields holds independent field accessors keyed by variable name
type Fields struct {
	acc map[string]FieldAccessor
}

// NewFields returns a new set of fields
func NewFields(accessors ...FieldAccessor) (o *Fields) {
	o = &Fields{make(map[string]FieldAccessor)}
	for _, a := range accessors {
		o.Add(a)
	}
	return
}

// Add adds (or replaces) an accessor
func (o *Fields) Add(a FieldAccessor) {
	o.acc[a.Var()] = a
}

// Has tells whether variable name is attached
func (o *Fields) Has(name string) bool {
	if o == nil {
		return false
	}
	_, ok := o.acc[name]
	return ok
}

// Names returns the sorted variable names
func (o *Fields) Names() (names []string) {
	if o == nil {
		return
	}
	for name := range o.acc {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// At returns the value and gradient of variable name at qp
func (o *Fields) At(name string, qp Qp) (val FieldValue, err error) {
	if !o.Has(name) {
		return val, newErr(UnknownVariable, "variable %q is not attached", name)
	}
	return o.acc[name].At(qp)
}
