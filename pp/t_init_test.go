// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"testing"

	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gopost/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// strip returns a mesh with one row of unit-height qua4 cells with the given widths
//  x: 0 ... Σ widths;  y: 0 ... 1
func strip(tst *testing.T, widths []float64, tags, parts []int) *inp.Mesh {
	n := len(widths)
	verts := make([]*inp.Vert, 2*(n+1))
	x := 0.0
	for i := 0; i <= n; i++ {
		verts[i] = &inp.Vert{Id: i, C: []float64{x, 0}}
		verts[n+1+i] = &inp.Vert{Id: n + 1 + i, C: []float64{x, 1}}
		if i < n {
			x += widths[i]
		}
	}
	cells := make([]*inp.Cell, n)
	for i := 0; i < n; i++ {
		cells[i] = &inp.Cell{Id: i, Tag: tags[i], Type: "qua4", Part: parts[i], Verts: []int{i, i + 1, n + 2 + i, n + 1 + i}}
	}
	msh, err := inp.NewMesh(verts, cells)
	if err != nil {
		tst.Fatalf("cannot build strip mesh:\n%v", err)
	}
	return msh
}

// single returns a mesh with one cell
func single(tst *testing.T, ctype string, coords [][]float64) *inp.Mesh {
	verts := make([]*inp.Vert, len(coords))
	ids := make([]int, len(coords))
	for i, c := range coords {
		verts[i] = &inp.Vert{Id: i, C: c}
		ids[i] = i
	}
	msh, err := inp.NewMesh(verts, []*inp.Cell{{Id: 0, Tag: 1, Type: ctype, Verts: ids}})
	if err != nil {
		tst.Fatalf("cannot build single cell mesh:\n%v", err)
	}
	return msh
}

// elem returns the element of cell cid with default integration points
func elem(tst *testing.T, msh *inp.Mesh, cid int, coord CoordSys) *Elem {
	cell := msh.Cells[cid]
	ips, err := shp.GetIps(cell.Type, 0)
	if err != nil {
		tst.Fatalf("GetIps failed:\n%v", err)
	}
	e, err := NewElem(cell, msh, shp.Get(cell.Type, 1), ips, coord)
	if err != nil {
		tst.Fatalf("NewElem failed:\n%v", err)
	}
	return e
}

// constant returns an integrand giving c everywhere
func constant(c float64) *Scalar {
	return NewScalar(nil, nil, func(qp Qp, flds *Fields, mats MaterialAccessor) (float64, error) {
		return c, nil
	})
}

// diag returns a new diagnostic and fails the test on errors
func diag(tst *testing.T, name string, itg Integrand, blocks *Blocks, op Op, flds *Fields, mats MaterialAccessor) *Diagnostic {
	d, err := NewDiagnostic(name, itg, blocks, op, 0, flds, mats)
	if err != nil {
		tst.Fatalf("NewDiagnostic failed:\n%v", err)
	}
	return d
}
