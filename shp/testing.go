// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r[0], r[1], r[2], false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// auxiliary
	h := 1e-4
	rTmp := make([]float64, 3)
	Sp := make([]float64, shape.Nverts)
	Sm := make([]float64, shape.Nverts)

	// analytical
	shape.Func(shape.S, shape.DSdR, r[0], r[1], r[2], true)

	// numerical: central differences
	for i := 0; i < shape.Gndim; i++ {
		copy(rTmp, r)
		rTmp[i] = r[i] + h
		shape.Func(Sp, nil, rTmp[0], rTmp[1], rTmp[2], false)
		rTmp[i] = r[i] - h
		shape.Func(Sm, nil, rTmp[0], rTmp[1], rTmp[2], false)
		for n := 0; n < shape.Nverts; n++ {
			dSndRi := (Sp[n] - Sm[n]) / (2.0 * h)
			if verbose {
				io.Pf("  dS%ddR%d @ %5.2f = %v (num: %v)\n", n, i, r, shape.DSdR[n][i], dSndRi)
			}
			if math.Abs(shape.DSdR[n][i]-dSndRi) > tol {
				tst.Errorf("%s: dS%ddR%d failed with err = %g\n", shape.Type, n, i, math.Abs(shape.DSdR[n][i]-dSndRi))
				return
			}
		}
	}
}

// CheckIps checks that the weights of integration points add up to the measure of the reference shape
func CheckIps(tst *testing.T, shape *Shape, ips []Ipoint, tol float64) {
	var sum float64
	for _, ip := range ips {
		sum += ip.W
	}
	var correct float64
	switch shape.BasicType {
	case "lin2":
		correct = 2
	case "qua4":
		correct = 4
	case "hex8":
		correct = 8
	case "tri3":
		correct = 1.0 / 2.0
	case "tet4":
		correct = 1.0 / 6.0
	}
	if math.Abs(sum-correct) > tol {
		tst.Errorf("%s: sum of weights of %d ips failed: %g != %g\n", shape.Type, len(ips), sum, correct)
	}
}
