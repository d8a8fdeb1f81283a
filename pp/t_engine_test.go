// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"math"
	"sync"
	"testing"

	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gopost/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_engine01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine01. constant over single cell")

	// general quadrilateral: area by shoelace formula
	coords := [][]float64{{0.5, 0.2}, {3.1, 0.0}, {2.7, 2.4}, {0.1, 1.9}}
	area := 0.0
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		area += coords[i][0]*coords[j][1] - coords[j][0]*coords[i][1]
	}
	area /= 2.0
	io.Pforan("area = %v\n", area)

	msh := single(tst, "qua4", coords)
	eng, err := NewEngine(msh, -1, XYZ, nil, 1)
	require.NoError(tst, err)
	chk.Int(tst, "ncells", len(eng.Cells()), 1)

	c := 3.5
	d := diag(tst, "const", constant(c), nil, OpSum, nil, nil)
	res, err := eng.Evaluate(d, TimeState{}, nil, nil)
	require.NoError(tst, err)
	chk.Float64(tst, "c·V", 1e-14, res.Value(), c*area)
	chk.Int(tst, "nelems", res.Nelems, 1)
	chk.String(tst, eng.State().String(), "Idle")
}

func Test_engine02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine02. reduction policies of cell measures")

	// measures: 1, 2.5, 0.5, 3, 1
	widths := []float64{1, 2.5, 0.5, 3, 1}
	msh := strip(tst, widths, []int{1, 2, 1, 2, 3}, []int{0, 0, 0, 0, 0})
	eng, err := NewEngine(msh, -1, XYZ, nil, 3)
	require.NoError(tst, err)

	vol, _ := NewIntegrand("volume", nil)
	for _, tc := range []struct {
		op      Op
		blocks  []int
		correct float64
	}{
		{OpSum, nil, 8},
		{OpMax, nil, 3},
		{OpMin, nil, 0.5},
		{OpAvg, nil, 1.6},
		{OpMax, []int{1}, 1},
		{OpMin, []int{2, 3}, 1},
		{OpAvg, []int{2}, 2.75},
	} {
		blocks, err := NewBlocks(tc.blocks, msh.Tags)
		require.NoError(tst, err)
		d := diag(tst, "vol", vol, blocks, tc.op, nil, nil)
		res, err := eng.Evaluate(d, TimeState{}, nil, nil)
		require.NoError(tst, err)
		io.Pforan("%-8s blocks=%-6v => %v\n", tc.op, blocks, res.Values)
		chk.Float64(tst, tc.op.String(), 1e-14, res.Value(), tc.correct)
	}
}

func Test_engine03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine03. subset equals independent sum")

	widths := []float64{1, 2, 1.5, 0.5, 1, 2}
	tags := []int{1, 2, 3, 1, 2, 3}
	msh := strip(tst, widths, tags, make([]int, 6))

	// u = x² + y
	u := make([]float64, len(msh.Verts))
	for i, v := range msh.Verts {
		u[i] = v.C[0]*v.C[0] + v.C[1]
	}
	ts := TimeState{T: 2, Dt: 1, Step: 7}
	sol := NewSolution()
	sol.Update(ts, map[string][]float64{"u": u})
	flds := sol.Fields("u")
	itg, err := NewIntegrand("integral", &Params{Var: "u"})
	require.NoError(tst, err)

	// engine
	eng, err := NewEngine(msh, -1, XYZ, nil, 4)
	require.NoError(tst, err)
	blocks, err := NewBlocks([]int{1, 3}, msh.Tags)
	require.NoError(tst, err)
	d := diag(tst, "sub", itg, blocks, OpSum, flds, nil)
	res, err := eng.Evaluate(d, ts, flds, nil)
	require.NoError(tst, err)

	// independent sum over cells with tags 1 and 3
	correct := 0.0
	for _, cell := range msh.Cells {
		if cell.Tag == 2 {
			continue
		}
		e := elem(tst, msh, cell.Id, XYZ)
		for idx := 0; idx < e.Nip(); idx++ {
			qp, _ := e.Qp(idx, ts)
			val, _ := flds.At("u", qp)
			correct += qp.JxW * val.U
		}
	}
	io.Pforan("res = %v  correct = %v\n", res.Value(), correct)
	chk.Float64(tst, "subset", 1e-13, res.Value(), correct)
	chk.Int(tst, "nelems", res.Nelems, 4)
	chk.Int(tst, "step", res.Step, 7)
	chk.Float64(tst, "t", 1e-17, res.T, 2)
}

func Test_engine04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine04. determinism")

	n := 40
	widths := make([]float64, n)
	tags := make([]int, n)
	for i := 0; i < n; i++ {
		widths[i] = 0.1 + 0.37*float64(i%7)
		tags[i] = 1 + i%4
	}
	msh := strip(tst, widths, tags, make([]int, n))
	u := make([]float64, len(msh.Verts))
	for i, v := range msh.Verts {
		u[i] = math.Sin(v.C[0]) + 0.3*v.C[1]
	}
	sol := NewSolution()
	sol.Update(TimeState{}, map[string][]float64{"u": u})
	flds := sol.Fields("u")
	itg, _ := NewIntegrand("l2norm", &Params{Var: "u"})
	d := diag(tst, "l2", itg, nil, OpSum, flds, nil)

	var first float64
	for k, nworkers := range []int{1, 2, 7, 16, 1, 16} {
		eng, err := NewEngine(msh, -1, XYZ, nil, nworkers)
		require.NoError(tst, err)
		res, err := eng.Evaluate(d, TimeState{}, flds, nil)
		require.NoError(tst, err)
		if k == 0 {
			first = res.Value()
			continue
		}
		if res.Value() != first {
			tst.Errorf("nworkers=%d: result %v differs from %v", nworkers, res.Value(), first)
		}
	}
}

func Test_engine05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine05. failed pass leaves no state")

	msh := strip(tst, []float64{1, 1, 1}, []int{1, 1, 1}, []int{0, 0, 0})
	eng, err := NewEngine(msh, -1, XYZ, nil, 2)
	require.NoError(tst, err)

	// integrand failing at cell 1
	bad := NewScalar(nil, nil, func(qp Qp, flds *Fields, mats MaterialAccessor) (float64, error) {
		if qp.Cid == 1 {
			e := elem(tst, msh, qp.Cid, XYZ)
			_, err := e.Qp(qp.Nip, qp.Time)
			return 0, err
		}
		return 1, nil
	})
	res, err := eng.Evaluate(diag(tst, "bad", bad, nil, OpSum, nil, nil), TimeState{}, nil, nil)
	require.ErrorIs(tst, err, ErrOutOfRange)
	if res != nil {
		tst.Errorf("no result should be returned")
	}
	chk.String(tst, eng.State().String(), "Idle")

	// next pass starts fresh
	res, err = eng.Evaluate(diag(tst, "one", constant(1), nil, OpSum, nil, nil), TimeState{}, nil, nil)
	require.NoError(tst, err)
	chk.Float64(tst, "V", 1e-14, res.Value(), 3)

	// stale solution
	sol := NewSolution()
	sol.Update(TimeState{Step: 1}, map[string][]float64{"u": make([]float64, len(msh.Verts))})
	flds := sol.Fields("u")
	itg, _ := NewIntegrand("integral", &Params{Var: "u"})
	d := diag(tst, "u", itg, nil, OpSum, flds, nil)
	_, err = eng.Evaluate(d, TimeState{Step: 2}, flds, nil)
	require.ErrorIs(tst, err, ErrStaleField)
	if IsSetup(err) || IsFatal(err) {
		tst.Errorf("StaleField is a per-pass error")
	}
}

func Test_engine06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine06. setup errors")

	msh := strip(tst, []float64{1, 1}, []int{1, 2}, []int{0, 0})
	sol := NewSolution()
	flds := sol.Fields("u")
	mats := NewBlockProps(&inp.MatFile{Blocks: []*inp.BlockMat{{Tag: 1, Props: map[string]float64{"rho": 1}}}})

	itg, _ := NewIntegrand("property", &Params{Prop: "k"})
	_, err := NewDiagnostic("k", itg, nil, OpSum, 0, flds, mats)
	require.ErrorIs(tst, err, ErrUnknownProperty)
	_, err = NewDiagnostic("k", itg, nil, OpSum, 0, flds, nil)
	require.ErrorIs(tst, err, ErrUnknownProperty)

	itg, _ = NewIntegrand("weighted", &Params{Var: "p", Prop: "rho"})
	_, err = NewDiagnostic("w", itg, nil, OpSum, 0, flds, mats)
	require.ErrorIs(tst, err, ErrUnknownVariable)

	itg, _ = NewIntegrand("weighted", &Params{Var: "u", Prop: "rho"})
	_, err = NewDiagnostic("w", itg, nil, Op(0), 0, flds, mats)
	require.Error(tst, err)
	_, err = NewDiagnostic("w", itg, nil, OpSum, -1, flds, mats)
	require.Error(tst, err)
	_, err = NewDiagnostic("w", itg, nil, OpSum, 0, flds, mats)
	require.NoError(tst, err)

	_, err = ReadDiagnostic(&inp.DiagData{Name: "v", Type: "volume", Blocks: []int{9}, Reduce: "sum"}, msh, flds, mats)
	require.ErrorIs(tst, err, ErrInvalidBlock)
	_, err = ReadDiagnostic(&inp.DiagData{Name: "v", Type: "volume"}, msh, flds, mats)
	require.Error(tst, err)
	_, err = ReadDiagnostic(&inp.DiagData{Name: "v", Type: "unknown", Reduce: "sum"}, msh, flds, mats)
	require.Error(tst, err)

	// invalid number of integration points is a per-pass error
	eng, _ := NewEngine(msh, -1, XYZ, nil, 1)
	vol, _ := NewIntegrand("volume", nil)
	d, err := NewDiagnostic("v", vol, nil, OpSum, 5, nil, nil)
	require.NoError(tst, err)
	_, err = eng.Evaluate(d, TimeState{}, nil, nil)
	require.Error(tst, err)
}

func Test_engine07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine07. partitions")

	n := 12
	widths := make([]float64, n)
	tags := make([]int, n)
	parts := make([]int, n)
	for i := 0; i < n; i++ {
		widths[i] = 0.25 + 0.5*float64(i%5)
		tags[i] = 1 + i%3
		parts[i] = (i * 7) % 3
	}
	msh := strip(tst, widths, tags, parts)
	chk.Ints(tst, "parts", msh.Parts, []int{0, 1, 2})
	u := make([]float64, len(msh.Verts))
	for i, v := range msh.Verts {
		u[i] = 1 + v.C[0]*v.C[1]
	}
	sol := NewSolution()
	ts := TimeState{Step: 3}
	sol.Update(ts, map[string][]float64{"u": u})
	flds := sol.Fields("u")

	mkdiags := func() (diags []*Diagnostic) {
		blocks, _ := NewBlocks([]int{1, 2}, msh.Tags)
		for _, dat := range []struct {
			typ string
			op  Op
		}{{"integral", OpSum}, {"h1seminorm", OpSum}, {"average", OpSum}, {"volume", OpMax}, {"volume", OpAvg}, {"extreme", OpMin}} {
			itg, err := NewIntegrand(dat.typ, &Params{Var: "u"})
			require.NoError(tst, err)
			diags = append(diags, diag(tst, dat.typ, itg, blocks, dat.op, flds, nil))
		}
		return
	}

	// unpartitioned
	eng, _ := NewEngine(msh, -1, XYZ, nil, 2)
	var correct [][]float64
	for _, d := range mkdiags() {
		res, err := eng.Evaluate(d, ts, flds, nil)
		require.NoError(tst, err)
		correct = append(correct, res.Values)
	}
	io.Pforan("correct = %v\n", correct)

	// in-process partitions
	group := NewGroup(3)
	results := make([][][]float64, 3)
	errs := make([]error, 3)
	var wg sync.WaitGroup
	for part := 0; part < 3; part++ {
		part := part
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, _ := NewEngine(msh, part, XYZ, group.Member(part), 2)
			for _, d := range mkdiags() {
				res, err := e.Evaluate(d, ts, flds, nil)
				if err != nil {
					errs[part] = err
					return
				}
				results[part] = append(results[part], res.Values)
			}
		}()
	}
	wg.Wait()
	for part := 0; part < 3; part++ {
		require.NoError(tst, errs[part])
		for k := range correct {
			chk.Array(tst, io.Sf("part %d: diag %d", part, k), 1e-13, results[part][k], correct[k])
		}
	}
}

func Test_engine08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine08. failure in one partition")

	msh := strip(tst, []float64{1, 1, 1, 1}, []int{1, 1, 2, 2}, []int{0, 0, 1, 1})
	mats := NewMatCache("rho")
	mats.Begin(1)
	for _, cell := range msh.Cells {
		if cell.Id != 3 { // missing in partition 1
			mats.Set("rho", cell.Id, []float64{1, 1, 1, 1})
		}
	}
	itg, _ := NewIntegrand("property", &Params{Prop: "rho"})

	group := NewGroup(2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for part := 0; part < 2; part++ {
		part := part
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng, _ := NewEngine(msh, part, XYZ, group.Member(part), 1)
			d, _ := NewDiagnostic("mass", itg, nil, OpSum, 0, nil, mats)
			_, errs[part] = eng.Evaluate(d, TimeState{Step: 1}, nil, mats)
		}()
	}
	wg.Wait()
	io.Pforan("errs = %v\n", errs)
	require.ErrorIs(tst, errs[0], ErrPeerFailure)
	require.ErrorIs(tst, errs[1], ErrMissingValue)
}

func Test_engine09(tst *testing.T) {

	//verbose()
	chk.PrintTitle("engine09. empty selection and axisymmetry")

	msh := strip(tst, []float64{1, 1}, []int{1, 2}, []int{0, 1})
	vol, _ := NewIntegrand("volume", nil)
	blocks, _ := NewBlocks([]int{2}, msh.Tags)

	// partition 0 has no cell of block 2
	eng, _ := NewEngine(msh, 0, XYZ, nil, 1)
	for _, op := range []Op{OpSum, OpMax, OpMin, OpAvg} {
		res, err := eng.Evaluate(diag(tst, "v", vol, blocks, op, nil, nil), TimeState{}, nil, nil)
		require.NoError(tst, err)
		chk.Int(tst, "nelems", res.Nelems, 0)
		if res.Value() != op.Identity() {
			tst.Errorf("%v: empty selection should give %v. %v is incorrect", op, op.Identity(), res.Value())
		}
	}

	// finalised integrands also give the identity
	sol := NewSolution()
	sol.Update(TimeState{}, map[string][]float64{"u": make([]float64, len(msh.Verts))})
	flds := sol.Fields("u")
	for _, typ := range []string{"l2norm", "h1seminorm", "average", "l2error"} {
		itg, err := NewIntegrand(typ, &Params{Var: "u", Extra: "!ref:u"})
		require.NoError(tst, err)
		for _, op := range []Op{OpSum, OpMax, OpMin, OpAvg} {
			res, err := eng.Evaluate(diag(tst, typ, itg, blocks, op, flds, nil), TimeState{}, flds, nil)
			require.NoError(tst, err)
			chk.Int(tst, typ+": nelems", res.Nelems, 0)
			chk.Int(tst, typ+": ncomp", len(res.Values), 1)
			if res.Value() != op.Identity() {
				tst.Errorf("%s %v: empty selection should give %v. %v is incorrect", typ, op, op.Identity(), res.Value())
			}
		}
	}

	// ring r ∈ [1,2]: V = 3π
	eng, _ = NewEngine(msh, 1, RZ, nil, 1)
	res, err := eng.Evaluate(diag(tst, "v", vol, nil, OpSum, nil, nil), TimeState{}, nil, nil)
	require.NoError(tst, err)
	chk.Float64(tst, "V(rz)", 1e-14, res.Value(), 3*math.Pi)

	// higher order rule
	d, _ := NewDiagnostic("v", vol, nil, OpSum, 9, nil, nil)
	res, err = eng.Evaluate(d, TimeState{}, nil, nil)
	require.NoError(tst, err)
	chk.Float64(tst, "V(rz, nip=9)", 1e-14, res.Value(), 3*math.Pi)
	ips, _ := shp.GetIps("qua4", 9)
	chk.Int(tst, "nip", len(ips), 9)
}
