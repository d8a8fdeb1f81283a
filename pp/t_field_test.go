// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"testing"

	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_field01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field01. linear field is reproduced exactly")

	// distorted quadrilateral and u = 1 + 2x + 3y
	coords := [][]float64{{0, 0}, {3, 0.5}, {2.5, 2}, {-0.5, 1.5}}
	msh := single(tst, "qua4", coords)
	u := make([]float64, len(coords))
	for i, c := range coords {
		u[i] = 1 + 2*c[0] + 3*c[1]
	}
	sol := NewSolution()
	ts := TimeState{T: 1, Step: 1}
	sol.Update(ts, map[string][]float64{"u": u})
	flds := sol.Fields("u")
	chk.Strings(tst, "names", flds.Names(), []string{"u"})

	e := elem(tst, msh, 0, XYZ)
	for idx := 0; idx < e.Nip(); idx++ {
		qp, err := e.Qp(idx, ts)
		require.NoError(tst, err)
		val, err := flds.At("u", qp)
		require.NoError(tst, err)
		io.Pforan("x = %v  u = %v  ∇u = %v\n", qp.X, val.U, val.Grad)
		chk.Float64(tst, "u", 1e-14, val.U, 1+2*qp.X[0]+3*qp.X[1])
		chk.Array(tst, "∇u", 1e-14, val.Grad[:2], []float64{2, 3})
	}
}

func Test_field02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field02. stale and unknown fields")

	msh := single(tst, "tri3", [][]float64{{0, 0}, {1, 0}, {0, 1}})
	e := elem(tst, msh, 0, XYZ)
	sol := NewSolution()
	flds := sol.Fields("u")

	// never updated
	qp, _ := e.Qp(0, TimeState{Step: 1})
	_, err := flds.At("u", qp)
	require.ErrorIs(tst, err, ErrStaleField)

	// other step
	sol.Update(TimeState{Step: 1}, map[string][]float64{"u": {1, 2, 3}})
	qp, _ = e.Qp(0, TimeState{Step: 2})
	_, err = flds.At("u", qp)
	require.ErrorIs(tst, err, ErrStaleField)

	// current
	qp, _ = e.Qp(0, TimeState{Step: 1})
	_, err = flds.At("u", qp)
	require.NoError(tst, err)

	// invalidated
	sol.Invalidate()
	_, err = flds.At("u", qp)
	require.ErrorIs(tst, err, ErrStaleField)

	// not attached
	_, err = flds.At("p", qp)
	require.ErrorIs(tst, err, ErrUnknownVariable)
	chk.Int(tst, "kind", int(KindOf(err)), int(UnknownVariable))
	if !IsSetup(err) {
		tst.Errorf("UnknownVariable should be a setup error")
	}

	// missing nodal values
	sol.Update(TimeState{Step: 1}, map[string][]float64{"u": {1, 2}})
	_, err = flds.At("u", qp)
	require.ErrorIs(tst, err, ErrMissingValue)
}

func Test_mat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat01. material cache")

	msh := single(tst, "tri3", [][]float64{{0, 0}, {1, 0}, {0, 1}})
	e := elem(tst, msh, 0, XYZ)
	cache := NewMatCache("rho")
	if !cache.Has("rho") || cache.Has("k") {
		tst.Errorf("Has failed")
		return
	}

	// not started
	qp, _ := e.Qp(1, TimeState{Step: 4})
	_, err := cache.Get("rho", qp)
	require.ErrorIs(tst, err, ErrStaleField)

	// fill values
	cache.Begin(4)
	require.NoError(tst, cache.Set("rho", 0, []float64{10, 11, 12}))
	require.ErrorIs(tst, cache.Set("k", 0, []float64{1, 1, 1}), ErrUnknownProperty)
	val, err := cache.Get("rho", qp)
	require.NoError(tst, err)
	chk.Float64(tst, "rho @ ip 1", 1e-17, val, 11)

	// other step
	qp, _ = e.Qp(1, TimeState{Step: 5})
	_, err = cache.Get("rho", qp)
	require.ErrorIs(tst, err, ErrStaleField)

	// missing cell
	cache.Begin(5)
	_, err = cache.Get("rho", qp)
	require.ErrorIs(tst, err, ErrMissingValue)
}

func Test_mat02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat02. block properties")

	msh := strip(tst, []float64{1, 1}, []int{1, 2}, []int{0, 0})
	props := NewBlockProps(&inp.MatFile{Blocks: []*inp.BlockMat{
		{Tag: 1, Props: map[string]float64{"rho": 1, "k": 10}},
		{Tag: 2, Props: map[string]float64{"rho": 7.8}},
	}})
	if !props.Has("rho") || !props.Has("k") || props.Has("E") {
		tst.Errorf("Has failed")
		return
	}

	qp, _ := elem(tst, msh, 1, XYZ).Qp(0, TimeState{})
	val, err := props.Get("rho", qp)
	require.NoError(tst, err)
	chk.Float64(tst, "rho @ block 2", 1e-17, val, 7.8)
	_, err = props.Get("k", qp)
	require.ErrorIs(tst, err, ErrMissingValue)

	// combined providers
	cache := NewMatCache("E")
	cache.Begin(0)
	cache.Set("E", 1, []float64{200, 200, 200, 200})
	mats := Materials{props, cache}
	if !mats.Has("E") || !mats.Has("rho") || mats.Has("nu") {
		tst.Errorf("Has failed")
		return
	}
	val, err = mats.Get("E", qp)
	require.NoError(tst, err)
	chk.Float64(tst, "E", 1e-17, val, 200)
	_, err = mats.Get("nu", qp)
	require.ErrorIs(tst, err, ErrUnknownProperty)
}
