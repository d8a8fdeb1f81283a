// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"sort"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Blocks restricts evaluation to cells with selected tags (blocks/subdomains)
//  Note: an empty set matches all cells
type Blocks struct {
	ids []int        // sorted unique ids
	set map[int]bool // membership
}

// NewBlocks returns a new block restriction
//  Input:
//   ids   -- configured block ids; empty => all
//   known -- tags present in mesh; see inp.Mesh.Tags
func NewBlocks(ids, known []int) (o *Blocks, err error) {
	o = &Blocks{set: make(map[int]bool)}
	if len(ids) == 0 {
		return
	}
	valid := make(map[int]bool)
	for _, id := range known {
		valid[id] = true
	}
	o.ids = utl.IntUnique(ids)
	sort.Ints(o.ids)
	for _, id := range o.ids {
		if !valid[id] {
			return nil, newErr(InvalidBlock, "block %d does not exist in mesh. known blocks = %v", id, known)
		}
		o.set[id] = true
	}
	return
}

// Contains tells whether cells tagged with id participate
func (o *Blocks) Contains(id int) bool {
	if o == nil || len(o.ids) == 0 {
		return true
	}
	return o.set[id]
}

// All tells whether all blocks participate
func (o *Blocks) All() bool {
	return o == nil || len(o.ids) == 0
}

// Ids returns a copy of the configured ids
func (o *Blocks) Ids() []int {
	if o == nil {
		return nil
	}
	return append([]int{}, o.ids...)
}

// String returns a representation of blocks
func (o *Blocks) String() string {
	if o.All() {
		return "all"
	}
	return io.Sf("%v", o.ids)
}
