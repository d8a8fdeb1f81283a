// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	SetAllocator("volume", func(prm *Params) (Integrand, error) {
		return new(Volume), nil
	})
	SetAllocator("integral", func(prm *Params) (Integrand, error) {
		if prm.Var == "" {
			return nil, chk.Err("integral requires a variable name")
		}
		scale, err := keyFloat(prm.Extra, "scale", 1)
		if err != nil {
			return nil, err
		}
		return &Integral{Var: prm.Var, Scale: scale}, nil
	})
	SetAllocator("average", func(prm *Params) (Integrand, error) {
		if prm.Var == "" {
			return nil, chk.Err("average requires a variable name")
		}
		return &Average{Var: prm.Var}, nil
	})
	SetAllocator("l2norm", func(prm *Params) (Integrand, error) {
		if prm.Var == "" {
			return nil, chk.Err("l2norm requires a variable name")
		}
		return &L2norm{Var: prm.Var}, nil
	})
	SetAllocator("h1seminorm", func(prm *Params) (Integrand, error) {
		if prm.Var == "" {
			return nil, chk.Err("h1seminorm requires a variable name")
		}
		return &H1seminorm{Var: prm.Var}, nil
	})
	SetAllocator("l2error", func(prm *Params) (Integrand, error) {
		ref, found, err := keycode(prm.Extra, "ref")
		if err != nil {
			return nil, err
		}
		if prm.Var == "" || !found || ref == "" {
			return nil, chk.Err("l2error requires a variable name and a reference field given by \"!ref:name\"")
		}
		return &L2error{Var: prm.Var, Ref: ref}, nil
	})
	SetAllocator("h1error", func(prm *Params) (Integrand, error) {
		ref, found, err := keycode(prm.Extra, "ref")
		if err != nil {
			return nil, err
		}
		if prm.Var == "" || !found || ref == "" {
			return nil, chk.Err("h1error requires a variable name and a reference field given by \"!ref:name\"")
		}
		return &H1error{Var: prm.Var, Ref: ref}, nil
	})
	SetAllocator("gradient", func(prm *Params) (Integrand, error) {
		if prm.Var == "" {
			return nil, chk.Err("gradient requires a variable name")
		}
		return &Gradient{Var: prm.Var}, nil
	})
	SetAllocator("property", func(prm *Params) (Integrand, error) {
		if prm.Prop == "" {
			return nil, chk.Err("property requires a property name")
		}
		return &Property{Prop: prm.Prop}, nil
	})
	SetAllocator("weighted", func(prm *Params) (Integrand, error) {
		if prm.Var == "" || prm.Prop == "" {
			return nil, chk.Err("weighted requires variable and property names")
		}
		return &Weighted{Var: prm.Var, Prop: prm.Prop}, nil
	})
	SetAllocator("extreme", func(prm *Params) (Integrand, error) {
		if prm.Var == "" {
			return nil, chk.Err("extreme requires a variable name")
		}
		_, abs, err := keycode(prm.Extra, "abs")
		if err != nil {
			return nil, err
		}
		return &Extreme{Var: prm.Var, Abs: abs}, nil
	})
}

// keycode returns the value of key in extra flags; e.g. "!abs !scale:2"
func keycode(extra, key string) (val string, found bool, err error) {
	extra = strings.TrimSpace(extra)
	if extra != "" && extra[0] != '!' {
		return "", false, chk.Err("extra flags must start with an exclamation mark. %q is invalid", extra)
	}
	val, found = io.Keycode(extra, key)
	return
}

// keyFloat returns the value of key in extra flags or defaultValue
func keyFloat(extra, key string, defaultValue float64) (float64, error) {
	val, found, err := keycode(extra, key)
	if err != nil {
		return 0, err
	}
	if !found || val == "" {
		return defaultValue, nil
	}
	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, chk.Err("value of %q in %q must be a number. %q is invalid", key, extra, val)
	}
	return res, nil
}

// Volume computes ∫ dΩ
type Volume struct{}

func (o *Volume) Ncomp() int                    { return 1 }
func (o *Volume) Needs() (vars, props []string) { return }
func (o *Volume) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	res[0] = 1
	return nil
}

// Integral computes ∫ scale·u dΩ
type Integral struct {
	Var   string
	Scale float64
}

func (o *Integral) Ncomp() int                    { return 1 }
func (o *Integral) Needs() (vars, props []string) { return []string{o.Var}, nil }
func (o *Integral) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	res[0] = o.Scale * val.U
	return nil
}

// Average computes ∫ u dΩ / ∫ dΩ
type Average struct {
	Var string
}

func (o *Average) Ncomp() int                    { return 2 }
func (o *Average) Needs() (vars, props []string) { return []string{o.Var}, nil }
func (o *Average) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	res[0] = val.U
	res[1] = 1
	return nil
}

// Finalise returns [∫u/∫1]; zero if the measure is zero
func (o *Average) Finalise(vals []float64) []float64 {
	if vals[1] == 0 {
		return []float64{0}
	}
	return []float64{vals[0] / vals[1]}
}

// L2norm computes sqrt(∫ u² dΩ)
type L2norm struct {
	Var string
}

func (o *L2norm) Ncomp() int                    { return 1 }
func (o *L2norm) Needs() (vars, props []string) { return []string{o.Var}, nil }
func (o *L2norm) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	res[0] = val.U * val.U
	return nil
}

func (o *L2norm) Finalise(vals []float64) []float64 {
	return []float64{math.Sqrt(vals[0])}
}

// H1seminorm computes sqrt(∫ ∇u·∇u dΩ)
type H1seminorm struct {
	Var string
}

func (o *H1seminorm) Ncomp() int                    { return 1 }
func (o *H1seminorm) Needs() (vars, props []string) { return []string{o.Var}, nil }
func (o *H1seminorm) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	res[0] = 0
	for i := 0; i < qp.Ndim; i++ {
		res[0] += val.Grad[i] * val.Grad[i]
	}
	return nil
}

func (o *H1seminorm) Finalise(vals []float64) []float64 {
	return []float64{math.Sqrt(vals[0])}
}

// L2error computes sqrt(∫ (u - uref)² dΩ)
type L2error struct {
	Var string // variable
	Ref string // reference field; e.g. analytical solution
}

func (o *L2error) Ncomp() int                    { return 1 }
func (o *L2error) Needs() (vars, props []string) { return []string{o.Var, o.Ref}, nil }
func (o *L2error) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	ref, err := flds.At(o.Ref, qp)
	if err != nil {
		return err
	}
	res[0] = (val.U - ref.U) * (val.U - ref.U)
	return nil
}

func (o *L2error) Finalise(vals []float64) []float64 {
	return []float64{math.Sqrt(vals[0])}
}

// H1error computes sqrt(∫ |∇u - ∇uref|² dΩ)
type H1error struct {
	Var string // variable
	Ref string // reference field
}

func (o *H1error) Ncomp() int                    { return 1 }
func (o *H1error) Needs() (vars, props []string) { return []string{o.Var, o.Ref}, nil }
func (o *H1error) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	ref, err := flds.At(o.Ref, qp)
	if err != nil {
		return err
	}
	res[0] = 0
	for i := 0; i < qp.Ndim; i++ {
		d := val.Grad[i] - ref.Grad[i]
		res[0] += d * d
	}
	return nil
}

func (o *H1error) Finalise(vals []float64) []float64 {
	return []float64{math.Sqrt(vals[0])}
}

// Gradient computes ∫ ∇u dΩ (3 components; unused ones are zero)
type Gradient struct {
	Var string
}

func (o *Gradient) Ncomp() int                    { return 3 }
func (o *Gradient) Needs() (vars, props []string) { return []string{o.Var}, nil }
func (o *Gradient) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	copy(res, val.Grad[:])
	return nil
}

// Property computes ∫ p dΩ; e.g. mass from density
type Property struct {
	Prop string
}

func (o *Property) Ncomp() int                    { return 1 }
func (o *Property) Needs() (vars, props []string) { return nil, []string{o.Prop} }
func (o *Property) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) (err error) {
	res[0], err = mats.Get(o.Prop, qp)
	return
}

// Weighted computes ∫ p·u dΩ; e.g. heat content from heat capacity and temperature
type Weighted struct {
	Var  string
	Prop string
}

func (o *Weighted) Ncomp() int                    { return 1 }
func (o *Weighted) Needs() (vars, props []string) { return []string{o.Var}, []string{o.Prop} }
func (o *Weighted) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	p, err := mats.Get(o.Prop, qp)
	if err != nil {
		return err
	}
	res[0] = p * val.U
	return nil
}

// Extreme gives u (or |u|) at quadrature points; combined with max or min
type Extreme struct {
	Var string
	Abs bool
}

func (o *Extreme) Ncomp() int                    { return 1 }
func (o *Extreme) Needs() (vars, props []string) { return []string{o.Var}, nil }
func (o *Extreme) Pointwise() bool               { return true }
func (o *Extreme) Eval(res []float64, qp Qp, flds *Fields, mats MaterialAccessor) error {
	val, err := flds.At(o.Var, qp)
	if err != nil {
		return err
	}
	res[0] = val.U
	if o.Abs {
		res[0] = math.Abs(val.U)
	}
	return nil
}
