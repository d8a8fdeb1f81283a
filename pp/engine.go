// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pp implements element postprocessors: quadrature integration of
// point expressions over blocks of cells and reduction across partitions
package pp

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gopost/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// State defines the state of an engine
type State int32

// engine states
const (
	Idle         State = iota // waiting for Evaluate
	Accumulating              // integrating local cells
	Reducing                  // combining partitions
	Done                      // result is available
)

// String returns the name of state
func (s State) String() string {
	switch s {
	case Accumulating:
		return "Accumulating"
	case Reducing:
		return "Reducing"
	case Done:
		return "Done"
	}
	return "Idle"
}

// Result holds the reduced values of one diagnostic at one step
type Result struct {
	Name   string    // name of diagnostic
	Step   int       // step index
	T      float64   // time
	Values []float64 // reduced (and finalised) values
	Nelems int       // number of participating cells in all partitions
}

// Value returns the first component
func (o *Result) Value() float64 {
	return o.Values[0]
}

// Engine integrates diagnostics over the cells of one partition
type Engine struct {
	Msh      *inp.Mesh  // the mesh
	Part     int        // partition; -1 => all cells
	Coord    CoordSys   // coordinate system
	Comm     Collective // collective among partitions
	Nworkers int        // number of concurrent workers
	Verbose  bool       // show messages

	cells []*inp.Cell  // local cells sorted by id
	mu    sync.Mutex   // one evaluation at a time
	state atomic.Int32 // current State
}

// NewEngine returns a new engine
//  Input:
//   msh      -- the mesh
//   part     -- partition id; use -1 to select all cells
//   coord    -- coordinate system
//   comm     -- collective; nil => Serial
//   nworkers -- number of concurrent workers; 0 => number of CPUs
func NewEngine(msh *inp.Mesh, part int, coord CoordSys, comm Collective, nworkers int) (o *Engine, err error) {
	if msh == nil {
		return nil, chk.Err("engine requires a mesh")
	}
	if comm == nil {
		comm = Serial{}
	}
	if nworkers < 1 {
		nworkers = runtime.NumCPU()
	}
	o = &Engine{Msh: msh, Part: part, Coord: coord, Comm: comm, Nworkers: nworkers}
	for _, cell := range msh.Cells {
		if part < 0 || cell.Part == part {
			o.cells = append(o.cells, cell)
		}
	}
	return
}

// Cells returns the local cells
func (o *Engine) Cells() []*inp.Cell {
	return o.cells
}

// State returns the current state
func (o *Engine) State() State {
	return State(o.state.Load())
}

// setState sets state
func (o *Engine) setState(s State) {
	o.state.Store(int32(s))
}

// Evaluate integrates diagnostic d over the local cells and reduces the result across
// all partitions. Either all partitions obtain the same result or all of them fail.
//  Input:
//   d    -- the diagnostic
//   ts   -- time state; the solution must be current for ts.Step
//   flds -- fields
//   mats -- materials; may be nil if d requires no properties
func (o *Engine) Evaluate(d *Diagnostic, ts TimeState, flds *Fields, mats MaterialAccessor) (res *Result, err error) {

	// one evaluation at a time
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.setState(Idle)

	// accumulate
	o.setState(Accumulating)
	ncomp := d.Integrand.Ncomp()
	acc := make([]float64, ncomp)
	d.Op.Reset(acc)
	nelems, lerr := o.accumulate(acc, d, ts, flds, mats)
	if o.Verbose {
		io.Pf("> %s: partition %d: %d cells\n", d.Name, o.Comm.Rank(), nelems)
	}

	// status: number of failed partitions and number of cells
	o.setState(Reducing)
	status := []float64{0, float64(nelems)}
	if lerr != nil {
		status[0] = 1
	}
	err = o.Comm.AllReduce(OpSum, status)
	if err != nil {
		return nil, err
	}
	if status[0] > 0 {
		if lerr != nil {
			return nil, lerr
		}
		return nil, newErr(PeerFailure, "diagnostic %q failed in %d other partition(s) at step %d", d.Name, int(status[0]), ts.Step)
	}
	nelems = int(status[1])

	// values
	err = o.Comm.AllReduce(d.Op, acc)
	if err != nil {
		return nil, err
	}
	if d.Op == OpAvg {
		if nelems > 0 {
			floats.Scale(1.0/float64(nelems), acc)
		}
	}
	if fin, ok := d.Integrand.(Finaliser); ok {
		if nelems > 0 {
			acc = fin.Finalise(acc)
		} else {
			acc = make([]float64, len(fin.Finalise(make([]float64, ncomp))))
			d.Op.Reset(acc)
		}
	}

	// results
	o.setState(Done)
	res = &Result{Name: d.Name, Step: ts.Step, T: ts.T, Values: acc, Nelems: nelems}
	return
}

// accumulate integrates d over the participating local cells and combines the cell
// contributions into acc in ascending cell order
func (o *Engine) accumulate(acc []float64, d *Diagnostic, ts TimeState, flds *Fields, mats MaterialAccessor) (nelems int, err error) {

	// participating cells and integration points
	var cells []*inp.Cell
	ips := make(map[string][]shp.Ipoint)
	for _, cell := range o.cells {
		if !d.Blocks.Contains(cell.Tag) {
			continue
		}
		if _, ok := ips[cell.Type]; !ok {
			ips[cell.Type], err = shp.GetIps(cell.Type, d.Nip)
			if err != nil {
				return 0, err
			}
		}
		cells = append(cells, cell)
	}
	nelems = len(cells)
	if nelems == 0 {
		return
	}

	// workers
	nworkers := min(o.Nworkers, nelems)
	wids := make(chan int, nworkers)
	shapes := make([]map[string]*shp.Shape, nworkers)
	for i := 0; i < nworkers; i++ {
		wids <- i
		shapes[i] = make(map[string]*shp.Shape)
	}

	// cell contributions
	slots := make([][]float64, nelems)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(nworkers)
	for k, cell := range cells {
		k, cell := k, cell
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			wid := <-wids
			defer func() { wids <- wid }()
			shape, ok := shapes[wid][cell.Type]
			if !ok {
				shape = shp.Get(cell.Type, wid+1)
				shapes[wid][cell.Type] = shape
			}
			res, e := o.integrate(d, cell, shape, ips[cell.Type], ts, flds, mats)
			if e != nil {
				return e
			}
			slots[k] = res
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return
	}

	// combine
	for _, res := range slots {
		d.Op.Combine(acc, res)
	}
	return
}

// integrate computes the contribution of one cell
func (o *Engine) integrate(d *Diagnostic, cell *inp.Cell, shape *shp.Shape, ips []shp.Ipoint, ts TimeState, flds *Fields, mats MaterialAccessor) (res []float64, err error) {
	e, err := NewElem(cell, o.Msh, shape, ips, o.Coord)
	if err != nil {
		return
	}
	ncomp := d.Integrand.Ncomp()
	pointwise := false
	if p, ok := d.Integrand.(Pointwise); ok {
		pointwise = p.Pointwise()
	}
	res = make([]float64, ncomp)
	if pointwise {
		d.Op.Reset(res)
	}
	val := make([]float64, ncomp)
	for idx := 0; idx < e.Nip(); idx++ {
		qp, err := e.Qp(idx, ts)
		if err != nil {
			return nil, err
		}
		for i := range val {
			val[i] = 0
		}
		err = d.Integrand.Eval(val, qp, flds, mats)
		if err != nil {
			return nil, err
		}
		if pointwise {
			d.Op.Combine(res, val)
		} else {
			floats.AddScaled(res, qp.JxW, val)
		}
	}
	return
}
