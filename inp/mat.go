// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// BlockMat holds constant material properties of one block
type BlockMat struct {
	Tag   int                `json:"tag"`   // cell tag (block id)
	Desc  string             `json:"desc"`  // description; e.g. "steel"
	Props map[string]float64 `json:"props"` // property name => value; e.g. "rho" => 7.8
}

// MatFile holds all materials data
type MatFile struct {
	Blocks []*BlockMat `json:"blocks"` // materials of blocks

	// derived
	FnamePath string   // complete filename path
	Names     []string // sorted names of all properties
}

// ReadMat reads materials file
func ReadMat(dir, fn string) (o *MatFile, err error) {

	// read file
	o = new(MatFile)
	o.FnamePath = filepath.Join(dir, fn)
	b, err := os.ReadFile(o.FnamePath)
	if err != nil {
		return nil, chk.Err("cannot read materials file %q:\n%v", o.FnamePath, err)
	}

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal materials file %q:\n%v", o.FnamePath, err)
	}

	// check and collect names
	tags := make(map[int]bool)
	names := make(map[string]bool)
	for _, blk := range o.Blocks {
		if tags[blk.Tag] {
			return nil, chk.Err("materials file %q: tag %d is repeated", o.FnamePath, blk.Tag)
		}
		tags[blk.Tag] = true
		for name := range blk.Props {
			names[name] = true
		}
	}
	for name := range names {
		o.Names = append(o.Names, name)
	}
	sort.Strings(o.Names)
	return
}
