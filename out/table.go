// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the handling of diagnostic results: tables, printing and files
package out

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/cpmech/gopost/pp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Series holds the results of one diagnostic along time
type Series struct {
	Name   string      `json:"name" msgpack:"name"`     // name of diagnostic
	Ncomp  int         `json:"ncomp" msgpack:"ncomp"`   // number of components
	Steps  []int       `json:"steps" msgpack:"steps"`   // step indices
	Times  []float64   `json:"times" msgpack:"times"`   // times
	Values [][]float64 `json:"values" msgpack:"values"` // [nsteps][ncomp] values
	Nelems []int       `json:"nelems" msgpack:"nelems"` // number of participating cells
}

// seriesJSON is the json form of Series
type seriesJSON struct {
	Name   string        `json:"name"`
	Ncomp  int           `json:"ncomp"`
	Steps  []int         `json:"steps"`
	Times  []float64     `json:"times"`
	Values [][]jsonFloat `json:"values"`
	Nelems []int         `json:"nelems"`
}

// MarshalJSON encodes the series; non-finite values, e.g. the identity of max over
// an empty selection, are written as the strings "+Inf", "-Inf" or "NaN"
func (o Series) MarshalJSON() ([]byte, error) {
	s := seriesJSON{Name: o.Name, Ncomp: o.Ncomp, Steps: o.Steps, Times: o.Times, Nelems: o.Nelems}
	s.Values = make([][]jsonFloat, len(o.Values))
	for k, vals := range o.Values {
		s.Values[k] = make([]jsonFloat, len(vals))
		for i, v := range vals {
			s.Values[k][i] = jsonFloat(v)
		}
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes a series written by MarshalJSON
func (o *Series) UnmarshalJSON(b []byte) (err error) {
	var s seriesJSON
	err = json.Unmarshal(b, &s)
	if err != nil {
		return
	}
	*o = Series{Name: s.Name, Ncomp: s.Ncomp, Steps: s.Steps, Times: s.Times, Nelems: s.Nelems}
	o.Values = make([][]float64, len(s.Values))
	for k, vals := range s.Values {
		o.Values[k] = make([]float64, len(vals))
		for i, v := range vals {
			o.Values[k][i] = float64(v)
		}
	}
	return
}

// jsonFloat is a float64 whose json form may be "+Inf", "-Inf" or "NaN"
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte(strconv.Quote(strconv.FormatFloat(v, 'g', -1, 64))), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(b []byte) (err error) {
	var v float64
	if len(b) > 0 && b[0] == '"' {
		var str string
		err = json.Unmarshal(b, &str)
		if err != nil {
			return
		}
		v, err = strconv.ParseFloat(str, 64)
		if err != nil || !(math.IsInf(v, 0) || math.IsNaN(v)) {
			return chk.Err("only +Inf, -Inf or NaN may be given as strings. %s is invalid", b)
		}
	} else {
		err = json.Unmarshal(b, &v)
		if err != nil {
			return
		}
	}
	*f = jsonFloat(v)
	return
}

// header holds the first record of a results file
type header struct {
	Key     string   `json:"key" msgpack:"key"`         // simulation key
	Nseries uint32   `json:"nseries" msgpack:"nseries"` // number of series that follow
	Names   []string `json:"names" msgpack:"names"`     // names of series in order
}

// Table holds all series of a simulation
type Table struct {
	Key    string             // simulation key
	Names  []string           // names of diagnostics in order of insertion
	Series map[string]*Series // name => series
}

// NewTable returns a new table
func NewTable(key string) *Table {
	return &Table{Key: key, Series: make(map[string]*Series)}
}

// Add appends a result to the series of its diagnostic
func (o *Table) Add(res *pp.Result) (err error) {
	s, ok := o.Series[res.Name]
	if !ok {
		s = &Series{Name: res.Name, Ncomp: len(res.Values)}
		o.Series[res.Name] = s
		o.Names = append(o.Names, res.Name)
	}
	if len(res.Values) != s.Ncomp {
		return chk.Err("diagnostic %q has %d components but result has %d", res.Name, s.Ncomp, len(res.Values))
	}
	if n := len(s.Steps); n > 0 && res.Step <= s.Steps[n-1] {
		return chk.Err("diagnostic %q: step %d has been added already", res.Name, res.Step)
	}
	s.Steps = append(s.Steps, res.Step)
	s.Times = append(s.Times, res.T)
	s.Values = append(s.Values, append([]float64{}, res.Values...))
	s.Nelems = append(s.Nelems, res.Nelems)
	return
}

// Get returns the series of diagnostic name; nil if not found
func (o *Table) Get(name string) *Series {
	return o.Series[name]
}

// String returns a formatted table with one line per step of the first series
func (o *Table) String() string {
	if len(o.Names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(io.Sf("%6s%14s", "step", "t"))
	for _, name := range o.Names {
		s := o.Series[name]
		if s.Ncomp == 1 {
			b.WriteString(io.Sf("%24s", name))
			continue
		}
		for i := 0; i < s.Ncomp; i++ {
			b.WriteString(io.Sf("%24s", io.Sf("%s[%d]", name, i)))
		}
	}
	b.WriteString("\n")
	first := o.Series[o.Names[0]]
	for k, step := range first.Steps {
		b.WriteString(io.Sf("%6d%14g", step, first.Times[k]))
		for _, name := range o.Names {
			s := o.Series[name]
			for i := 0; i < s.Ncomp; i++ {
				if k < len(s.Values) {
					b.WriteString(io.Sf("%24.15e", s.Values[k][i]))
				} else {
					b.WriteString(io.Sf("%24s", "-"))
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Save saves the table to dir/key_pp.enctype
func (o *Table) Save(dir, enctype string, verbose bool) (err error) {

	// header
	n, err := safecast.Conv[uint32](len(o.Names))
	if err != nil {
		return chk.Err("too many series in table:\n%v", err)
	}
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(header{o.Key, n, o.Names})
	if err != nil {
		return chk.Err("cannot encode header of table:\n%v", err)
	}

	// series
	for _, name := range o.Names {
		err = enc.Encode(o.Series[name])
		if err != nil {
			return chk.Err("cannot encode series %q:\n%v", name, err)
		}
	}
	return save_file(out_path(dir, o.Key, enctype), &buf, verbose)
}

// ReadTable reads a table saved by Save
func ReadTable(dir, key, enctype string) (o *Table, err error) {

	// open file
	fn := out_path(dir, key, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open results file %q:\n%v", fn, err)
	}
	defer fil.Close()
	dec := GetDecoder(fil, enctype)

	// header
	var hdr header
	err = dec.Decode(&hdr)
	if err != nil {
		return nil, chk.Err("cannot decode header of %q:\n%v", fn, err)
	}
	if int(hdr.Nseries) != len(hdr.Names) {
		return nil, chk.Err("header of %q is corrupted: %d series but %d names", fn, hdr.Nseries, len(hdr.Names))
	}

	// series
	o = NewTable(hdr.Key)
	for _, name := range hdr.Names {
		var s Series
		err = dec.Decode(&s)
		if err != nil {
			return nil, chk.Err("cannot decode series %q of %q:\n%v", name, fn, err)
		}
		if s.Name != name {
			return nil, chk.Err("series %q of %q is out of order", name, fn)
		}
		o.Series[name] = &s
		o.Names = append(o.Names, name)
	}
	return
}
