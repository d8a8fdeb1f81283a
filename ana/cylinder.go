// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// PressCylin implements the elastic solution of a thick cylinder under internal
// pressure in plane-strain (Lamé). The field is the radial displacement ur(r)
// with r = sqrt(x² + y²)
//
//               , - - ,
//           , '         ' ,
//         ,                 ,
//        ,      .-'''-.      ,
//       ,      / ↖ ↑ ↗ \      ,
//       ,     |  ← P →  |     ,
//       ,      \ ↙ ↓ ↘ /      ,
//        ,      `-...-'      ,
//         ,                 ,
//           ,            , '
//             ' - , ,  '
type PressCylin struct {

	// input
	a float64 // inner radius
	b float64 // outer radius
	E float64 // Young's modulus
	ν float64 // Poisson's coefficient
	P float64 // internal pressure

	// derived
	coef float64 // P a² (1 + ν) / (E (b² - a²))
}

// Init initialises parameters: "a", "b", "E", "nu", "P"
func (o *PressCylin) Init(prms map[string]float64) (err error) {

	// default values
	o.a = 100    // [mm]
	o.b = 200    // [mm]
	o.E = 210000 // [MPa] Young modulus
	o.ν = 0.3    // [-] Poisson's ratio
	o.P = 100    // [MPa] internal pressure

	// parameters
	for key, val := range prms {
		switch key {
		case "a":
			o.a = val
		case "b":
			o.b = val
		case "E":
			o.E = val
		case "nu", "ν":
			o.ν = val
		case "P":
			o.P = val
		default:
			return chk.Err("parameter %q of cylinder solution is invalid", key)
		}
	}

	// check
	if o.a <= 0 || o.b <= o.a {
		return chk.Err("radii must satisfy 0 < a < b. a=%g, b=%g is invalid", o.a, o.b)
	}
	if o.E <= 0 {
		return chk.Err("Young's modulus must be positive. E=%g is invalid", o.E)
	}

	// derived
	o.coef = o.P * o.a * o.a * (1.0 + o.ν) / (o.E * (o.b*o.b - o.a*o.a))
	return
}

// Ur computes the radial displacement
func (o PressCylin) Ur(r float64) float64 {
	return o.coef * ((1.0-2.0*o.ν)*r + o.b*o.b/r)
}

// DurDr computes the derivative of the radial displacement
func (o PressCylin) DurDr(r float64) float64 {
	return o.coef * ((1.0 - 2.0*o.ν) - o.b*o.b/(r*r))
}

// ElastOuterU computes the radial displacement at the outer surface
func (o PressCylin) ElastOuterU() (ub float64) {
	return 2.0 * o.P * o.b * (1.0 - o.ν*o.ν) * o.a * o.a / (o.E * (o.b*o.b - o.a*o.a))
}

// Stresses computes the radial and tangential stresses
func (o PressCylin) Stresses(r float64) (sr, st float64) {
	c := o.P * o.a * o.a / (o.b*o.b - o.a*o.a)
	sr = c * (1.0 - o.b*o.b/(r*r))
	st = c * (1.0 + o.b*o.b/(r*r))
	return
}

// Calc computes ur and ∇ur
func (o *PressCylin) Calc(x []float64) (u float64, g [3]float64) {
	r := math.Sqrt(x[0]*x[0] + x[1]*x[1])
	u = o.Ur(r)
	d := o.DurDr(r)
	g[0] = d * x[0] / r
	g[1] = d * x[1] / r
	return
}
