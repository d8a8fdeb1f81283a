// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Op defines how element contributions (and partition accumulators) are combined
type Op int

// reduction operators
const (
	OpSum Op = iota + 1 // sum
	OpMax               // maximum
	OpMin               // minimum
	OpAvg               // sum divided by the number of participating elements
)

// ParseOp returns the operator with the given name. The name must be given explicitly
func ParseOp(name string) (op Op, err error) {
	switch strings.ToLower(name) {
	case "sum":
		return OpSum, nil
	case "max":
		return OpMax, nil
	case "min":
		return OpMin, nil
	case "avg", "average":
		return OpAvg, nil
	case "":
		return 0, chk.Err("reduction operator must be given explicitly (sum, max, min or average)")
	}
	return 0, chk.Err("reduction operator %q is invalid; use sum, max, min or average", name)
}

// Valid tells whether op is one of the available operators
func (o Op) Valid() bool {
	return o >= OpSum && o <= OpAvg
}

// String returns the name of operator
func (o Op) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpMax:
		return "max"
	case OpMin:
		return "min"
	case OpAvg:
		return "average"
	}
	return "invalid"
}

// Identity returns the identity element of operator
//  sum and average: 0;  max: -Inf;  min: +Inf
func (o Op) Identity() float64 {
	switch o {
	case OpMax:
		return math.Inf(-1)
	case OpMin:
		return math.Inf(1)
	}
	return 0
}

// Reset fills v with the identity
func (o Op) Reset(v []float64) {
	for i := range v {
		v[i] = o.Identity()
	}
}

// Combine combines src into dst (component-wise). average combines as a sum
func (o Op) Combine(dst, src []float64) {
	switch o {
	case OpMax:
		for i := range dst {
			dst[i] = math.Max(dst[i], src[i])
		}
	case OpMin:
		for i := range dst {
			dst[i] = math.Min(dst[i], src[i])
		}
	default:
		floats.Add(dst, src)
	}
}
