// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/integrate/quad"
)

// Ipoint holds the natural coordinates and weight of an integration point
type Ipoint struct {
	R, S, T float64 // natural coordinates
	W       float64 // weight
}

// DefaultNip returns the default number of integration points for a given shape
var DefaultNip = map[string]int{
	"lin2": 2,
	"lin3": 3,
	"tri3": 3,
	"tri6": 6,
	"qua4": 4,
	"qua8": 9,
	"qua9": 9,
	"tet4": 4,
	"hex8": 8,
}

// GetIps returns a set of integration points for a given shape
//  Input:
//   geoType -- shape name; e.g. "qua8"
//   nip     -- number of integration points; use 0 to select the default number
//  Note: lin/qua/hex use Gauss-Legendre rules (n, n² and n³ points);
//        tri accepts 1, 3 or 6 points; tet accepts 1 or 4 points
func GetIps(geoType string, nip int) (ips []Ipoint, err error) {
	s, ok := factory[geoType]
	if !ok {
		return nil, chk.Err("cannot find shape type == %q", geoType)
	}
	if nip == 0 {
		nip = DefaultNip[geoType]
	}
	switch s.BasicType {
	case "lin2":
		return legendre(nip, 1), nil
	case "qua4":
		n := intRoot(nip, 2)
		if n < 1 {
			return nil, chk.Err("number of integration points for %q must be a perfect square; nip=%d is invalid", geoType, nip)
		}
		return legendre(n, 2), nil
	case "hex8":
		n := intRoot(nip, 3)
		if n < 1 {
			return nil, chk.Err("number of integration points for %q must be a perfect cube; nip=%d is invalid", geoType, nip)
		}
		return legendre(n, 3), nil
	case "tri3":
		if ips, ok = triIps[nip]; ok {
			return
		}
		return nil, chk.Err("number of integration points for %q must be 1, 3 or 6; nip=%d is invalid", geoType, nip)
	case "tet4":
		if ips, ok = tetIps[nip]; ok {
			return
		}
		return nil, chk.Err("number of integration points for %q must be 1 or 4; nip=%d is invalid", geoType, nip)
	}
	return nil, chk.Err("cannot get integration points for shape type == %q", geoType)
}

// legendre returns tensor-product Gauss-Legendre points with n points per direction
func legendre(n, ndim int) (ips []Ipoint) {
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	switch ndim {
	case 1:
		for i := 0; i < n; i++ {
			ips = append(ips, Ipoint{R: x[i], W: w[i]})
		}
	case 2:
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				ips = append(ips, Ipoint{R: x[i], S: x[j], W: w[i] * w[j]})
			}
		}
	default:
		for k := 0; k < n; k++ {
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					ips = append(ips, Ipoint{R: x[i], S: x[j], T: x[k], W: w[i] * w[j] * w[k]})
				}
			}
		}
	}
	return
}

// intRoot returns n such that n^p == nip; or -1 if nip is not a perfect power
func intRoot(nip, p int) int {
	if nip < 1 {
		return -1
	}
	n := int(math.Round(math.Pow(float64(nip), 1.0/float64(p))))
	m := 1
	for i := 0; i < p; i++ {
		m *= n
	}
	if m != nip {
		return -1
	}
	return n
}

// triIps holds integration points for triangles (Strang and Fix)
var triIps = map[int][]Ipoint{
	1: {
		{R: 1.0 / 3.0, S: 1.0 / 3.0, W: 1.0 / 2.0},
	},
	3: {
		{R: 1.0 / 6.0, S: 1.0 / 6.0, W: 1.0 / 6.0},
		{R: 2.0 / 3.0, S: 1.0 / 6.0, W: 1.0 / 6.0},
		{R: 1.0 / 6.0, S: 2.0 / 3.0, W: 1.0 / 6.0},
	},
	6: {
		{R: 0.445948490915965, S: 0.445948490915965, W: 0.111690794839005},
		{R: 0.108103018168070, S: 0.445948490915965, W: 0.111690794839005},
		{R: 0.445948490915965, S: 0.108103018168070, W: 0.111690794839005},
		{R: 0.091576213509771, S: 0.091576213509771, W: 0.054975871827661},
		{R: 0.816847572980459, S: 0.091576213509771, W: 0.054975871827661},
		{R: 0.091576213509771, S: 0.816847572980459, W: 0.054975871827661},
	},
}

// tetIps holds integration points for tetrahedra
var tetIps = map[int][]Ipoint{
	1: {
		{R: 1.0 / 4.0, S: 1.0 / 4.0, T: 1.0 / 4.0, W: 1.0 / 6.0},
	},
	4: {
		{R: 0.1381966011250105, S: 0.1381966011250105, T: 0.1381966011250105, W: 1.0 / 24.0},
		{R: 0.5854101966249685, S: 0.1381966011250105, T: 0.1381966011250105, W: 1.0 / 24.0},
		{R: 0.1381966011250105, S: 0.5854101966249685, T: 0.1381966011250105, W: 1.0 / 24.0},
		{R: 0.1381966011250105, S: 0.1381966011250105, T: 0.5854101966249685, W: 1.0 / 24.0},
	},
}
