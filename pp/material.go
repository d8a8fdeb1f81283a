// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"sync"

	"github.com/cpmech/gopost/inp"
)

// MaterialAccessor gives read-only access to material properties at quadrature points.
// Values are computed elsewhere; the accessor only forwards the point identity.
type MaterialAccessor interface {
	Has(name string) bool                    // property is provided
	Get(name string, qp Qp) (float64, error) // value of property at qp
}

// MatCache holds property values per cell and integration point computed by an
// external material model for one step
type MatCache struct {
	mu    sync.RWMutex
	names map[string]bool              // declared properties
	vals  map[string]map[int][]float64 // property => cell id => values [nip]
	step  int                          // step of values
	began bool                         // Begin has been called
}

// NewMatCache returns a new cache for the given property names
func NewMatCache(names ...string) (o *MatCache) {
	o = &MatCache{names: make(map[string]bool), vals: make(map[string]map[int][]float64)}
	for _, name := range names {
		o.names[name] = true
	}
	return
}

// Begin clears the cache and starts collecting values for step
func (o *MatCache) Begin(step int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vals = make(map[string]map[int][]float64)
	o.step = step
	o.began = true
}

// Set sets the values of property name at all integration points of cell cid
func (o *MatCache) Set(name string, cid int, vals []float64) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.names[name] {
		return newErr(UnknownProperty, "property %q has not been declared in cache", name)
	}
	m, ok := o.vals[name]
	if !ok {
		m = make(map[int][]float64)
		o.vals[name] = m
	}
	m[cid] = append([]float64{}, vals...)
	return
}

// Has tells whether property name has been declared
func (o *MatCache) Has(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.names[name]
}

// Get returns the cached value of property name at qp
func (o *MatCache) Get(name string, qp Qp) (val float64, err error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.began || o.step != qp.Time.Step {
		return 0, newErr(StaleField, "material cache does not hold values for step %d", qp.Time.Step)
	}
	if !o.names[name] {
		return 0, newErr(UnknownProperty, "property %q is not available", name)
	}
	vals, ok := o.vals[name][qp.Cid]
	if !ok || qp.Index >= len(vals) {
		return 0, newErr(MissingValue, "property %q has no value at point %d of cell %d", name, qp.Index, qp.Cid)
	}
	return vals[qp.Index], nil
}

// BlockProps holds constant properties per block
type BlockProps struct {
	props map[int]map[string]float64 // tag => name => value
	names map[string]bool            // all names
}

// NewBlockProps returns constant properties from materials file data
func NewBlockProps(mat *inp.MatFile) (o *BlockProps) {
	o = &BlockProps{make(map[int]map[string]float64), make(map[string]bool)}
	if mat == nil {
		return
	}
	for _, blk := range mat.Blocks {
		o.SetBlock(blk.Tag, blk.Props)
	}
	return
}

// SetBlock sets the properties of block tag
func (o *BlockProps) SetBlock(tag int, props map[string]float64) {
	m := make(map[string]float64)
	for name, val := range props {
		m[name] = val
		o.names[name] = true
	}
	o.props[tag] = m
}

// Has tells whether any block provides property name
func (o *BlockProps) Has(name string) bool {
	return o.names[name]
}

// Get returns the value of property name in the block of qp
func (o *BlockProps) Get(name string, qp Qp) (val float64, err error) {
	val, ok := o.props[qp.Tag][name]
	if !ok {
		return 0, newErr(MissingValue, "property %q is not given for block %d (cell %d)", name, qp.Tag, qp.Cid)
	}
	return
}

// Materials combines several providers; the first one having a property answers for it
type Materials []MaterialAccessor

// Has tells whether any provider has property name
func (o Materials) Has(name string) bool {
	for _, p := range o {
		if p.Has(name) {
			return true
		}
	}
	return false
}

// Get returns the value of property name from the first provider that has it
func (o Materials) Get(name string, qp Qp) (float64, error) {
	for _, p := range o {
		if p.Has(name) {
			return p.Get(name, qp)
		}
	}
	return 0, newErr(UnknownProperty, "property %q is not available", name)
}
