// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"math"

	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gopost/shp"
	"github.com/cpmech/gosl/chk"
)

// CoordSys defines the coordinate system used to scale integration weights
type CoordSys int

// coordinate systems
const (
	XYZ        CoordSys = iota // Cartesian: multiplier = 1
	RZ                         // axisymmetric about the y-axis (r == x): multiplier = 2πr
	RSpherical                 // spherically symmetric (r == x): multiplier = 4πr²
)

// ParseCoordSys returns the coordinate system from its name; e.g. "xyz", "rz", "rspherical"
func ParseCoordSys(name string) (c CoordSys, err error) {
	switch name {
	case "", "xyz":
		return XYZ, nil
	case "rz", "axisym":
		return RZ, nil
	case "rspherical":
		return RSpherical, nil
	}
	return XYZ, chk.Err("coordinate system %q is not available", name)
}

// String returns the name of coordinate system
func (o CoordSys) String() string {
	switch o {
	case RZ:
		return "rz"
	case RSpherical:
		return "rspherical"
	}
	return "xyz"
}

// Multiplier returns the coordinate-system factor at point with real coordinates x
func (o CoordSys) Multiplier(x []float64) float64 {
	switch o {
	case RZ:
		return 2.0 * math.Pi * x[0]
	case RSpherical:
		return 4.0 * math.Pi * x[0] * x[0]
	}
	return 1.0
}

// TimeState holds the transient state of an evaluation pass
type TimeState struct {
	T    float64 // current time
	Dt   float64 // current time step size
	Step int     // step index; identifies the solution snapshot that must be current
}

// Qp holds everything known at one quadrature point during one evaluation pass.
// It is created fresh for each point and handed by value to integrands.
//  Note: S, G and Verts are read-only views valid during the call only
type Qp struct {
	Index  int         // index of point in element
	Nip    int         // number of points in element
	Ndim   int         // space dimension
	X      [3]float64  // real coordinates
	W      float64     // quadrature weight
	DetJ   float64     // determinant of Jacobian (length scale for lines)
	Coef   float64     // coordinate-system multiplier
	JxW    float64     // combined integration weight: W * DetJ * Coef
	Volume float64     // measure of element (volume/area/length)
	Cid    int         // cell id
	Tag    int         // cell tag (block id)
	Verts  []int       // vertices of cell
	S      []float64   // [nverts] shape functions
	G      [][]float64 // [nverts][ndim] derivatives of shape functions w.r.t real coordinates
	Time   TimeState   // transient state
}

// Elem holds the geometry of one element computed for one evaluation pass
type Elem struct {
	Cell   *inp.Cell    // the cell
	X      [][]float64  // [ndim][nverts] coordinates of vertices
	Ips    []shp.Ipoint // integration points
	Volume float64      // measure of element
	Coord  CoordSys     // coordinate system

	shape *shp.Shape // private shape structure (scratchpad)
	ndim  int        // space dimension
}

// NewElem computes the geometry of an element
//  Input:
//   cell  -- the cell
//   msh   -- the mesh with vertices' coordinates
//   shape -- private (goroutine) copy of cell's shape; see shp.Get
//   ips   -- integration points
//   coord -- coordinate system
func NewElem(cell *inp.Cell, msh *inp.Mesh, shape *shp.Shape, ips []shp.Ipoint, coord CoordSys) (o *Elem, err error) {
	if shape == nil || shape.Type != cell.Type {
		return nil, chk.Err("shape structure for cell %d of type %q is not available", cell.Id, cell.Type)
	}
	o = &Elem{
		Cell:  cell,
		X:     msh.CoordsMatrix(cell),
		Ips:   ips,
		Coord: coord,
		shape: shape,
		ndim:  msh.Ndim,
	}
	for _, ip := range ips {
		err = shape.CalcAtIp(o.X, ip, true)
		if err != nil {
			return nil, newErr(BadGeometry, "cell %d: %v", cell.Id, err)
		}
		if shape.J < shp.MINDET {
			return nil, newErr(BadGeometry, "cell %d: Jacobian determinant is not positive: %g", cell.Id, shape.J)
		}
		o.Volume += ip.W * shape.J
	}
	return
}

// Nip returns the number of integration points
func (o *Elem) Nip() int {
	return len(o.Ips)
}

// Qp returns the quadrature point context at integration point idx
func (o *Elem) Qp(idx int, ts TimeState) (qp Qp, err error) {

	// check
	if idx < 0 || idx >= len(o.Ips) {
		return qp, newErr(OutOfRange, "cell %d has %d integration points; index %d is invalid", o.Cell.Id, len(o.Ips), idx)
	}

	// shape functions and derivatives
	ip := o.Ips[idx]
	sh := o.shape
	err = sh.CalcAtIp(o.X, ip, true)
	if err != nil {
		return qp, newErr(BadGeometry, "cell %d: %v", o.Cell.Id, err)
	}
	if sh.J < shp.MINDET {
		return qp, newErr(BadGeometry, "cell %d: Jacobian determinant is not positive: %g", o.Cell.Id, sh.J)
	}

	// basic data
	qp.Index = idx
	qp.Nip = len(o.Ips)
	qp.Ndim = o.ndim
	qp.W = ip.W
	qp.DetJ = sh.J
	qp.Volume = o.Volume
	qp.Cid = o.Cell.Id
	qp.Tag = o.Cell.Tag
	qp.Verts = o.Cell.Verts
	qp.Time = ts

	// real coordinates
	copy(qp.X[:], sh.IpRealCoords(o.X, ip))

	// weights
	qp.Coef = o.Coord.Multiplier(qp.X[:])
	qp.JxW = qp.W * qp.DetJ * qp.Coef

	// snapshot of S and G
	qp.S = make([]float64, sh.Nverts)
	copy(qp.S, sh.S)
	qp.G = make([][]float64, sh.Nverts)
	for m := 0; m < sh.Nverts; m++ {
		qp.G[m] = make([]float64, o.ndim)
		if sh.Gndim == 1 {
			for i := 0; i < o.ndim; i++ {
				qp.G[m][i] = sh.Gvec[m] * sh.Jvec3d[i] / sh.J // tangential derivative
			}
			continue
		}
		copy(qp.G[m], sh.G[m])
	}
	return
}
