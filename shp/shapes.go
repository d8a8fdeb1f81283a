// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {
	register(&Shape{Type: "lin2", Func: FuncLin2, BasicType: "lin2", Gndim: 1, Nverts: 2,
		NatCoords: [][]float64{{-1, 1}}})

	register(&Shape{Type: "lin3", Func: FuncLin3, BasicType: "lin2", Gndim: 1, Nverts: 3,
		NatCoords: [][]float64{{-1, 1, 0}}})

	register(&Shape{Type: "tri3", Func: FuncTri3, BasicType: "tri3", Gndim: 2, Nverts: 3,
		NatCoords: [][]float64{
			{0, 1, 0},
			{0, 0, 1},
		}})

	register(&Shape{Type: "tri6", Func: FuncTri6, BasicType: "tri3", Gndim: 2, Nverts: 6,
		NatCoords: [][]float64{
			{0, 1, 0, 0.5, 0.5, 0},
			{0, 0, 1, 0, 0.5, 0.5},
		}})

	register(&Shape{Type: "qua4", Func: FuncQua4, BasicType: "qua4", Gndim: 2, Nverts: 4,
		NatCoords: [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		}})

	register(&Shape{Type: "qua8", Func: FuncQua8, BasicType: "qua4", Gndim: 2, Nverts: 8,
		NatCoords: [][]float64{
			{-1, 1, 1, -1, 0, 1, 0, -1},
			{-1, -1, 1, 1, -1, 0, 1, 0},
		}})

	register(&Shape{Type: "qua9", Func: FuncQua9, BasicType: "qua4", Gndim: 2, Nverts: 9,
		NatCoords: [][]float64{
			{-1, 1, 1, -1, 0, 1, 0, -1, 0},
			{-1, -1, 1, 1, -1, 0, 1, 0, 0},
		}})

	register(&Shape{Type: "tet4", Func: FuncTet4, BasicType: "tet4", Gndim: 3, Nverts: 4,
		NatCoords: [][]float64{
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		}})

	register(&Shape{Type: "hex8", Func: FuncHex8, BasicType: "hex8", Gndim: 3, Nverts: 8,
		NatCoords: [][]float64{
			{-1, 1, 1, -1, -1, 1, 1, -1},
			{-1, -1, 1, 1, -1, -1, 1, 1},
			{-1, -1, -1, -1, 1, 1, 1, 1},
		}})
}

// register adds shape to factory
func register(o *Shape) {
	o.init_scratchpad()
	factory[o.Type] = o
}

// FuncLin2 calculates the shape functions (S) and derivatives of shape functions (dSdR) of lin2
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//   -1     0    +1
//    0-----------1-->r
func FuncLin2(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	S[0] = 0.5 * (1.0 - r)
	S[1] = 0.5 * (1.0 + r)
	if !derivs {
		return
	}
	dSdR[0][0] = -0.5
	dSdR[1][0] = 0.5
}

// FuncLin3 calculates the shape functions (S) and derivatives of shape functions (dSdR) of lin3
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//   -1     0    +1
//    0-----2-----1-->r
func FuncLin3(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	S[0] = 0.5 * (r*r - r)
	S[1] = 0.5 * (r*r + r)
	S[2] = 1.0 - r*r
	if !derivs {
		return
	}
	dSdR[0][0] = r - 0.5
	dSdR[1][0] = r + 0.5
	dSdR[2][0] = -2.0 * r
}

// FuncTri3 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tri3
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//    s
//    |
//    2, (0,1)
//    | ',
//    |   ',
//    |     ',
//    |       ',
//    |         ',
//    0-----------1-->r
// (0,0)         (1,0)
func FuncTri3(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	S[0] = 1.0 - r - s
	S[1] = r
	S[2] = s
	if !derivs {
		return
	}
	dSdR[0][0], dSdR[0][1] = -1.0, -1.0
	dSdR[1][0], dSdR[1][1] = 1.0, 0.0
	dSdR[2][0], dSdR[2][1] = 0.0, 1.0
}

// FuncTri6 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tri6
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//    s
//    |
//    2, (0,1)
//    | ',
//    |   ',
//    5     '4
//    |       ',
//    |         ',
//    0-----3-----1-->r
// (0,0)         (1,0)
func FuncTri6(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	u := 1.0 - r - s
	S[0] = u * (2.0*u - 1.0)
	S[1] = r * (2.0*r - 1.0)
	S[2] = s * (2.0*s - 1.0)
	S[3] = 4.0 * r * u
	S[4] = 4.0 * r * s
	S[5] = 4.0 * s * u
	if !derivs {
		return
	}
	dSdR[0][0], dSdR[0][1] = 1.0-4.0*u, 1.0-4.0*u
	dSdR[1][0], dSdR[1][1] = 4.0*r-1.0, 0.0
	dSdR[2][0], dSdR[2][1] = 0.0, 4.0*s-1.0
	dSdR[3][0], dSdR[3][1] = 4.0*(u-r), -4.0*r
	dSdR[4][0], dSdR[4][1] = 4.0*s, 4.0*r
	dSdR[5][0], dSdR[5][1] = -4.0*s, 4.0*(u-s)
}

// FuncQua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//    3-----------2
//    |     s     |
//    |     |     |
//    |     +--r  |
//    |           |
//    |           |
//    0-----------1
func FuncQua4(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	S[0] = (1.0 - r - s + r*s) / 4.0
	S[1] = (1.0 + r - s - r*s) / 4.0
	S[2] = (1.0 + r + s + r*s) / 4.0
	S[3] = (1.0 - r + s - r*s) / 4.0
	if !derivs {
		return
	}
	dSdR[0][0], dSdR[0][1] = (-1.0+s)/4.0, (-1.0+r)/4.0
	dSdR[1][0], dSdR[1][1] = (+1.0-s)/4.0, (-1.0-r)/4.0
	dSdR[2][0], dSdR[2][1] = (+1.0+s)/4.0, (+1.0+r)/4.0
	dSdR[3][0], dSdR[3][1] = (-1.0-s)/4.0, (+1.0-r)/4.0
}

// FuncQua8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua8
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//    3-----6-----2
//    |     s     |
//    |     |     |
//    7     +--r  5
//    |           |
//    |           |
//    0-----4-----1
func FuncQua8(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	S[0] = (1.0 - r) * (1.0 - s) * (-r - s - 1.0) / 4.0
	S[1] = (1.0 + r) * (1.0 - s) * (r - s - 1.0) / 4.0
	S[2] = (1.0 + r) * (1.0 + s) * (r + s - 1.0) / 4.0
	S[3] = (1.0 - r) * (1.0 + s) * (-r + s - 1.0) / 4.0
	S[4] = (1.0 - s) * (1.0 - r*r) / 2.0
	S[5] = (1.0 + r) * (1.0 - s*s) / 2.0
	S[6] = (1.0 + s) * (1.0 - r*r) / 2.0
	S[7] = (1.0 - r) * (1.0 - s*s) / 2.0
	if !derivs {
		return
	}
	dSdR[0][0] = -(1.0 - s) * (-r - r - s) / 4.0
	dSdR[1][0] = (1.0 - s) * (r + r - s) / 4.0
	dSdR[2][0] = (1.0 + s) * (r + r + s) / 4.0
	dSdR[3][0] = -(1.0 + s) * (-r - r + s) / 4.0
	dSdR[4][0] = -(1.0 - s) * r
	dSdR[5][0] = (1.0 - s*s) / 2.0
	dSdR[6][0] = -(1.0 + s) * r
	dSdR[7][0] = -(1.0 - s*s) / 2.0

	dSdR[0][1] = -(1.0 - r) * (-s - s - r) / 4.0
	dSdR[1][1] = -(1.0 + r) * (-s - s + r) / 4.0
	dSdR[2][1] = (1.0 + r) * (s + s + r) / 4.0
	dSdR[3][1] = (1.0 - r) * (s + s - r) / 4.0
	dSdR[4][1] = -(1.0 - r*r) / 2.0
	dSdR[5][1] = -(1.0 + r) * s
	dSdR[6][1] = (1.0 - r*r) / 2.0
	dSdR[7][1] = -(1.0 - r) * s
}

// FuncQua9 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua9
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//    3-----6-----2
//    |     s     |
//    |     |     |
//    7     8--r  5
//    |           |
//    |           |
//    0-----4-----1
func FuncQua9(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	var lr, ls, dlr, dls [3]float64 // 1D quadratic Lagrange polynomials: index 0 => -1, 1 => +1, 2 => 0
	lagrange3(&lr, &dlr, r)
	lagrange3(&ls, &dls, s)
	for m, p := range qua9nodes {
		S[m] = lr[p[0]] * ls[p[1]]
		if derivs {
			dSdR[m][0] = dlr[p[0]] * ls[p[1]]
			dSdR[m][1] = lr[p[0]] * dls[p[1]]
		}
	}
}

// qua9nodes maps qua9 vertices to indices of 1D lin3 nodes
var qua9nodes = [][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {2, 0}, {1, 2}, {2, 1}, {0, 2}, {2, 2}}

// lagrange3 computes the 1D quadratic Lagrange polynomials with nodes at {-1, +1, 0}
func lagrange3(l, dl *[3]float64, x float64) {
	l[0] = 0.5 * (x*x - x)
	l[1] = 0.5 * (x*x + x)
	l[2] = 1.0 - x*x
	dl[0] = x - 0.5
	dl[1] = x + 0.5
	dl[2] = -2.0 * x
}

// FuncTet4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tet4
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
func FuncTet4(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	S[0] = 1.0 - r - s - t
	S[1] = r
	S[2] = s
	S[3] = t
	if !derivs {
		return
	}
	dSdR[0][0], dSdR[0][1], dSdR[0][2] = -1.0, -1.0, -1.0
	dSdR[1][0], dSdR[1][1], dSdR[1][2] = 1.0, 0.0, 0.0
	dSdR[2][0], dSdR[2][1], dSdR[2][2] = 0.0, 1.0, 0.0
	dSdR[3][0], dSdR[3][1], dSdR[3][2] = 0.0, 0.0, 1.0
}

// FuncHex8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of hex8
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//              4________________7
//            ,'|              ,'|
//          ,'  |            ,'  |
//        ,'    |          ,'    |
//      ,'      |        ,'      |
//    5'===============6'        |
//    |         |      |         |
//    |         |      |         |
//    |         0_____ | ________3
//    |       ,'       |       ,'
//    |     ,'         |     ,'
//    |   ,'           |   ,'
//    | ,'             | ,'
//    1________________2'
func FuncHex8(S []float64, dSdR [][]float64, r, s, t float64, derivs bool) {
	for m := 0; m < 8; m++ {
		rm, sm, tm := hex8nat[m][0], hex8nat[m][1], hex8nat[m][2]
		S[m] = (1.0 + r*rm) * (1.0 + s*sm) * (1.0 + t*tm) / 8.0
		if derivs {
			dSdR[m][0] = rm * (1.0 + s*sm) * (1.0 + t*tm) / 8.0
			dSdR[m][1] = sm * (1.0 + r*rm) * (1.0 + t*tm) / 8.0
			dSdR[m][2] = tm * (1.0 + r*rm) * (1.0 + s*sm) / 8.0
		}
	}
}

// hex8nat holds the natural coordinates of hex8 vertices
var hex8nat = [][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}
