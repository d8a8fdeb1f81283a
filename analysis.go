// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gopost/ana"
	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gopost/mpicomm"
	"github.com/cpmech/gopost/out"
	"github.com/cpmech/gopost/pp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"golang.org/x/sync/errgroup"
)

// Analysis evaluates all diagnostics of a simulation at all steps of its solution history
type Analysis struct {
	Sim      *inp.Simulation // simulation data
	Coord    pp.CoordSys     // coordinate system
	Nparts   int             // number of in-process partitions; <= 1 => serial
	Nworkers int             // number of workers per partition
	Verbose  bool            // show messages
	Table    *out.Table      // results (filled by partition 0)
}

// NewAnalysis reads simulation data and returns a new analysis
//  nparts and nworkers override the values in the simulation file if positive
func NewAnalysis(simfnpath, alias string, nparts, nworkers int, verbose bool) (o *Analysis, err error) {
	o = new(Analysis)
	o.Sim, err = inp.ReadSim(simfnpath, alias)
	if err != nil {
		return nil, err
	}
	o.Coord, err = pp.ParseCoordSys(o.Sim.Data.Coord)
	if err != nil {
		return nil, err
	}
	o.Nparts = o.Sim.Data.Nparts
	if nparts > 0 {
		o.Nparts = nparts
	}
	o.Nworkers = o.Sim.Data.Nworkers
	if nworkers > 0 {
		o.Nworkers = nworkers
	}
	o.Verbose = verbose || o.Sim.Data.Verbose
	o.Table = out.NewTable(o.Sim.Key)
	return
}

// Run evaluates all diagnostics
//  Note: with MPI, process rank handles the rank-th partition id of the mesh;
//        otherwise partitions are handled by goroutines sharing a pp.Group
func (o *Analysis) Run() (err error) {

	// distributed run
	if mpicomm.IsOn() {
		comm := mpicomm.New()
		parts, err := partitions(o.Sim.Msh, comm.Size())
		if err != nil {
			return err
		}
		return o.runPart(parts[comm.Rank()], comm)
	}

	// serial run
	if o.Nparts <= 1 {
		return o.runPart(-1, pp.Serial{})
	}

	// in-process partitions
	parts, err := partitions(o.Sim.Msh, o.Nparts)
	if err != nil {
		return
	}
	group := pp.NewGroup(o.Nparts)
	var g errgroup.Group
	for rank, part := range parts {
		g.Go(func() (err error) {
			m := group.Member(rank)
			defer func() {
				if err != nil {
					m.Leave()
				}
			}()
			return o.runPart(part, m)
		})
	}
	return g.Wait()
}

// partitions returns the partition ids of msh; member rank of a collective with size
// members handles partition parts[rank]. Every cell must belong to exactly one member
func partitions(msh *inp.Mesh, size int) (parts []int, err error) {
	if len(msh.Parts) != size {
		return nil, chk.Err("mesh has %d partitions %v but %d partitions were requested", len(msh.Parts), msh.Parts, size)
	}
	return msh.Parts, nil
}

// runPart evaluates all diagnostics over the cells of partition part
func (o *Analysis) runPart(part int, comm pp.Collective) (err error) {

	// engine
	eng, err := pp.NewEngine(o.Sim.Msh, part, o.Coord, comm, o.Nworkers)
	if err != nil {
		return
	}
	root := comm.Rank() == 0
	eng.Verbose = o.Verbose && root

	// fields and materials
	sol := pp.NewSolution()
	flds := sol.Fields(o.Sim.Sol.Vars...)
	for _, ad := range o.Sim.Analytic {
		fld, err := ana.New(ad.Name, ad.Type, ad.Prms)
		if err != nil {
			return err
		}
		flds.Add(fld)
	}
	mats := pp.NewBlockProps(o.Sim.Mat)

	// diagnostics
	diags := make([]*pp.Diagnostic, len(o.Sim.Diagnostics))
	for i, dat := range o.Sim.Diagnostics {
		diags[i], err = pp.ReadDiagnostic(dat, o.Sim.Msh, flds, mats)
		if err != nil {
			return
		}
	}
	if eng.Verbose {
		io.Pforan("%d diagnostics; %d steps; %d partition(s)\n", len(diags), len(o.Sim.Sol.Steps), comm.Size())
	}

	// steps
	for step, stp := range o.Sim.Sol.Steps {
		ts := pp.TimeState{T: stp.T, Dt: stp.Dt, Step: step}
		sol.Update(ts, stp.Vals)
		for _, d := range diags {
			res, err := eng.Evaluate(d, ts, flds, mats)
			if err != nil {
				if pp.IsFatal(err) {
					return err
				}
				return chk.Err("diagnostic %q failed at step %d (t=%g):\n%v", d.Name, step, stp.T, err)
			}
			if root {
				err = o.Table.Add(res)
				if err != nil {
					return err
				}
			}
		}
		sol.Invalidate()
	}
	return
}

// Save saves the results table
func (o *Analysis) Save() error {
	return o.Table.Save(o.Sim.DirOut, o.Sim.EncType, o.Verbose)
}
