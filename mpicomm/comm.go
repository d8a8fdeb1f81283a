// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpicomm implements the collective of postprocessors over MPI
package mpicomm

import (
	"github.com/cpmech/gopost/pp"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

// Start starts MPI
func Start() {
	mpi.Start()
}

// Stop stops MPI
func Stop() {
	mpi.Stop()
}

// IsOn tells whether MPI is running with more than one process
func IsOn() bool {
	return mpi.IsOn() && mpi.WorldSize() > 1
}

// Rank returns the rank of this process in the world communicator; 0 if MPI is off
func Rank() int {
	if mpi.IsOn() {
		return mpi.WorldRank()
	}
	return 0
}

// Comm implements pp.Collective with MPI; each process holds one partition
type Comm struct {
	c *mpi.Communicator
}

// New returns the collective of all processes
//  Note: MPI must have been started
func New() *Comm {
	return &Comm{mpi.NewCommunicator(nil)}
}

// Rank returns the rank of this process
func (o *Comm) Rank() int { return o.c.Rank() }

// Size returns the number of processes
func (o *Comm) Size() int { return o.c.Size() }

// AllReduce combines vals of all processes. Processes must agree on the operator and
// number of values; otherwise all of them fail with ReductionMismatch
func (o *Comm) AllReduce(op pp.Op, vals []float64) (err error) {

	// agreement
	code := []int{int(op), len(vals)}
	lo := make([]int, 2)
	hi := make([]int, 2)
	o.c.AllReduceMinI(lo, code)
	o.c.AllReduceMaxI(hi, code)
	err = agree(lo, hi)
	if err != nil {
		return
	}
	if len(vals) == 0 {
		return
	}

	// combine
	orig := make([]float64, len(vals))
	copy(orig, vals)
	switch op {
	case pp.OpMax:
		o.c.AllReduceMax(vals, orig)
	case pp.OpMin:
		o.c.AllReduceMin(vals, orig)
	default:
		o.c.AllReduceSum(vals, orig)
	}
	return
}

// agree checks that the minimum (lo) and maximum (hi) of {op, len} are equal
func agree(lo, hi []int) error {
	if lo[0] != hi[0] || !pp.Op(lo[0]).Valid() {
		return &pp.Error{Kind: pp.ReductionMismatch, Msg: io.Sf("processes disagree on reduction operator: %v != %v", pp.Op(lo[0]), pp.Op(hi[0]))}
	}
	if lo[1] != hi[1] {
		return &pp.Error{Kind: pp.ReductionMismatch, Msg: io.Sf("processes disagree on number of values: %d != %d", lo[1], hi[1])}
	}
	return nil
}
