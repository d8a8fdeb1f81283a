// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or (.toml) file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cpmech/gosl/chk"
)

// Data holds global data for simulations
type Data struct {

	// global information
	Desc     string `json:"desc" toml:"desc"`         // description of simulation
	Meshfile string `json:"meshfile" toml:"meshfile"` // mesh file path
	Solfile  string `json:"solfile" toml:"solfile"`   // solution history file path
	Matfile  string `json:"matfile" toml:"matfile"`   // materials file path; may be empty
	DirOut   string `json:"dirout" toml:"dirout"`     // directory for output; e.g. /tmp/gopost
	Encoder  string `json:"encoder" toml:"encoder"`   // encoder name; e.g. "gob" "json" "msgpack"
	AbsPath  bool   `json:"abspath" toml:"abspath"`   // file names are given in absolute path

	// problem definition and options
	Coord    string `json:"coord" toml:"coord"`       // coordinate system: "xyz", "rz" or "rspherical"
	Nworkers int    `json:"nworkers" toml:"nworkers"` // number of concurrent workers per partition; 0 => number of CPUs
	Nparts   int    `json:"nparts" toml:"nparts"`     // number of in-process partitions (ignored in MPI runs); 0 or 1 => serial
	Verbose  bool   `json:"verbose" toml:"verbose"`   // show messages
}

// DiagData holds data for one diagnostic (postprocessor)
type DiagData struct {
	Name   string `json:"name" toml:"name"`     // name of diagnostic; e.g. "mass"
	Type   string `json:"type" toml:"type"`     // type of integrand; e.g. "integral", "l2norm", "volume"
	Var    string `json:"var" toml:"var"`       // variable name; e.g. "u"
	Prop   string `json:"prop" toml:"prop"`     // material property name; e.g. "rho"
	Blocks []int  `json:"blocks" toml:"blocks"` // blocks (cell tags); empty => all
	Reduce string `json:"reduce" toml:"reduce"` // reduction operator: "sum", "max", "min" or "average"
	Nip    int    `json:"nip" toml:"nip"`       // number of integration points; 0 => use default
	Extra  string `json:"extra" toml:"extra"`   // extra flags (in keycode format)
}

// AnaData holds data for an analytical reference field
type AnaData struct {
	Name string             `json:"name" toml:"name"` // variable name given to the field; e.g. "uana"
	Type string             `json:"type" toml:"type"` // type of analytical solution; e.g. "cylinder"
	Prms map[string]float64 `json:"prms" toml:"prms"` // parameters
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data        Data        `json:"data" toml:"data"`               // global simulation data
	Diagnostics []*DiagData `json:"diagnostics" toml:"diagnostics"` // diagnostics to be evaluated at each step
	Analytic    []*AnaData  `json:"analytic" toml:"analytic"`       // analytical reference fields; may be empty

	// derived
	Key     string      // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	Dir     string      // directory of simulation file
	DirOut  string      // directory to save results
	EncType string      // encoder type
	Msh     *Mesh       // the mesh
	Sol     *SolHistory // solution history
	Mat     *MatFile    // materials; may be nil
}

// ReadSim reads all simulation data from a .sim (JSON) or .toml file
func ReadSim(simfilepath, alias string) (o *Simulation, err error) {

	// new sim
	o = new(Simulation)

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// decode
	ext := strings.ToLower(filepath.Ext(simfilepath))
	if ext == ".toml" {
		_, err = toml.Decode(string(b), o)
	} else {
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := strings.TrimSuffix(filepath.Base(simfilepath), filepath.Ext(simfilepath))
	o.Dir = dir
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/gopost/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" && o.EncType != "msgpack" {
		o.EncType = "json"
	}

	// coordinate system
	if o.Data.Coord == "" {
		o.Data.Coord = "xyz"
	}

	// check diagnostics
	if len(o.Diagnostics) < 1 {
		return nil, chk.Err("ReadSim: at least one diagnostic must be given in %q", simfilepath)
	}
	names := make(map[string]bool)
	for i, dd := range o.Diagnostics {
		if dd.Name == "" {
			return nil, chk.Err("ReadSim: diagnostic %d has no name", i)
		}
		if names[dd.Name] {
			return nil, chk.Err("ReadSim: diagnostic name %q is repeated", dd.Name)
		}
		names[dd.Name] = true
		if dd.Type == "" {
			return nil, chk.Err("ReadSim: diagnostic %q has no type", dd.Name)
		}
	}

	// check analytical fields
	for i, ad := range o.Analytic {
		if ad.Name == "" || ad.Type == "" {
			return nil, chk.Err("ReadSim: analytical field %d needs a name and a type", i)
		}
	}

	// input files
	ddir := dir
	if o.Data.AbsPath {
		ddir = ""
	}

	// read mesh
	o.Msh, err = ReadMsh(ddir, o.Data.Meshfile)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read mesh file:\n%v", err)
	}

	// read solution history
	o.Sol, err = ReadSol(ddir, o.Data.Solfile, len(o.Msh.Verts))
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read solution file:\n%v", err)
	}

	// read materials
	if o.Data.Matfile != "" {
		o.Mat, err = ReadMat(ddir, o.Data.Matfile)
		if err != nil {
			return nil, chk.Err("ReadSim: cannot read materials file:\n%v", err)
		}
	}
	return
}
