// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_op01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("op01. reduction operators")

	for name, correct := range map[string]Op{"sum": OpSum, "max": OpMax, "MIN": OpMin, "avg": OpAvg, "average": OpAvg} {
		op, err := ParseOp(name)
		require.NoError(tst, err)
		chk.Int(tst, name, int(op), int(correct))
	}
	_, err := ParseOp("")
	require.Error(tst, err)
	_, err = ParseOp("product")
	require.Error(tst, err)

	chk.Float64(tst, "identity(sum)", 1e-17, OpSum.Identity(), 0)
	chk.Float64(tst, "identity(avg)", 1e-17, OpAvg.Identity(), 0)
	if !math.IsInf(OpMax.Identity(), -1) || !math.IsInf(OpMin.Identity(), 1) {
		tst.Errorf("identities of max and min are incorrect")
	}

	a := []float64{1, 5}
	OpMax.Combine(a, []float64{3, 2})
	chk.Array(tst, "max", 1e-17, a, []float64{3, 5})
	OpMin.Combine(a, []float64{4, 1})
	chk.Array(tst, "min", 1e-17, a, []float64{3, 1})
	OpSum.Combine(a, []float64{1, 1})
	chk.Array(tst, "sum", 1e-17, a, []float64{4, 2})
	if Op(0).Valid() || Op(9).Valid() {
		tst.Errorf("invalid operators should be detected")
	}
}

// runGroup calls fcn concurrently for all members of a new group and returns the errors
func runGroup(size int, timeout time.Duration, fcn func(m *GroupMember) error) (errs []error) {
	g := NewGroup(size)
	g.SetTimeout(timeout)
	errs = make([]error, size)
	var wg sync.WaitGroup
	for rank := 0; rank < size; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[rank] = fcn(g.Member(rank))
		}()
	}
	wg.Wait()
	return
}

func Test_group01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("group01. all-reduce")

	results := make([][]float64, 3)
	errs := runGroup(3, 0, func(m *GroupMember) (err error) {
		chk.Int(tst, "size", m.Size(), 3)
		r := float64(m.Rank())
		for round := 0; round < 5; round++ {
			sum := []float64{r, 1}
			err = m.AllReduce(OpSum, sum)
			if err != nil {
				return
			}
			mx := []float64{r, -r}
			err = m.AllReduce(OpMax, mx)
			if err != nil {
				return
			}
			results[m.Rank()] = append(sum, mx...)
		}
		return
	})
	for rank, err := range errs {
		require.NoError(tst, err)
		io.Pforan("rank %d: %v\n", rank, results[rank])
		chk.Array(tst, "results", 1e-17, results[rank], []float64{3, 3, 2, 0})
	}

	// serial
	vals := []float64{1, 2}
	require.NoError(tst, Serial{}.AllReduce(OpMin, vals))
	chk.Array(tst, "serial", 1e-17, vals, []float64{1, 2})
	require.ErrorIs(tst, Serial{}.AllReduce(Op(0), vals), ErrReductionMismatch)
}

func Test_group02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("group02. mismatch")

	// different operators
	errs := runGroup(3, 0, func(m *GroupMember) error {
		op := OpSum
		if m.Rank() == 1 {
			op = OpMax
		}
		return m.AllReduce(op, []float64{1})
	})
	for _, err := range errs {
		require.ErrorIs(tst, err, ErrReductionMismatch)
		if !IsFatal(err) {
			tst.Errorf("ReductionMismatch must be fatal")
		}
	}

	// different lengths
	errs = runGroup(2, 0, func(m *GroupMember) error {
		return m.AllReduce(OpSum, make([]float64, 1+m.Rank()))
	})
	for _, err := range errs {
		require.ErrorIs(tst, err, ErrReductionMismatch)
	}

	// group remains broken
	errs = runGroup(2, 0, func(m *GroupMember) error {
		if err := m.AllReduce(OpSum, []float64{1}); err != nil {
			return err
		}
		if m.Rank() == 0 {
			return m.AllReduce(OpSum, []float64{1})
		}
		return m.AllReduce(OpSum, []float64{1, 2})
	})
	for _, err := range errs {
		require.ErrorIs(tst, err, ErrReductionMismatch)
	}
}

func Test_group03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("group03. member leaves or never arrives")

	// leave
	errs := runGroup(3, 0, func(m *GroupMember) error {
		if m.Rank() == 2 {
			time.Sleep(10 * time.Millisecond)
			m.Leave()
			return nil
		}
		return m.AllReduce(OpSum, []float64{1})
	})
	require.ErrorIs(tst, errs[0], ErrReductionMismatch)
	require.ErrorIs(tst, errs[1], ErrReductionMismatch)
	require.NoError(tst, errs[2])

	// timeout
	errs = runGroup(2, 20*time.Millisecond, func(m *GroupMember) error {
		if m.Rank() == 1 {
			return nil
		}
		return m.AllReduce(OpSum, []float64{1})
	})
	require.ErrorIs(tst, errs[0], ErrReductionMismatch)
	io.Pforan("err = %v\n", errs[0])
}
