// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"sync"
	"time"
)

// Collective combines values across all partitions
//  Note: AllReduce blocks until every partition has called it; on return vals
//        holds the combined values in all partitions
type Collective interface {
	Rank() int                             // rank of this partition
	Size() int                             // number of partitions
	AllReduce(op Op, vals []float64) error // combine vals in place
}

// Serial is the collective of a single partition
type Serial struct{}

// Rank returns 0
func (o Serial) Rank() int { return 0 }

// Size returns 1
func (o Serial) Size() int { return 1 }

// AllReduce does nothing
func (o Serial) AllReduce(op Op, vals []float64) error {
	if !op.Valid() {
		return newErr(ReductionMismatch, "reduction operator %d is invalid", int(op))
	}
	return nil
}

// Group implements a collective among in-process partitions (goroutines).
// Once a round fails (mismatch, member leaving or timeout) the group is broken
// and all subsequent calls fail with ReductionMismatch.
type Group struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int           // number of members
	timeout time.Duration // maximum waiting time per round; 0 => wait forever

	// current round
	round   int       // round counter
	arrived int       // number of members in current round
	op      Op        // operator of current round
	acc     []float64 // accumulated values
	bad     bool      // members disagree on op or length

	// results
	res    []float64 // result of last completed round
	broken error     // permanent failure
}

// NewGroup returns a new group with size members
func NewGroup(size int) (o *Group) {
	if size < 1 {
		size = 1
	}
	o = &Group{size: size}
	o.cond = sync.NewCond(&o.mu)
	return
}

// SetTimeout sets the maximum time a member waits for the others in one round
func (o *Group) SetTimeout(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeout = d
}

// Member returns the collective of member rank
func (o *Group) Member(rank int) *GroupMember {
	return &GroupMember{o, rank}
}

// Leave marks member rank as gone; waiting and future rounds fail
func (o *Group) Leave(rank int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fail(newErr(ReductionMismatch, "partition %d left the group while others may still be reducing", rank))
}

// fail breaks the group. Lock must be held
func (o *Group) fail(err error) {
	if o.broken == nil {
		o.broken = err
	}
	o.cond.Broadcast()
}

// allReduce runs one round for member rank
func (o *Group) allReduce(rank int, op Op, vals []float64) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.broken != nil {
		return o.broken
	}
	if rank < 0 || rank >= o.size {
		o.fail(newErr(ReductionMismatch, "rank %d is outside group of size %d", rank, o.size))
		return o.broken
	}

	// join round
	round := o.round
	if o.arrived == 0 {
		o.op = op
		o.acc = append([]float64{}, vals...)
		o.bad = !op.Valid()
	} else if op != o.op || len(vals) != len(o.acc) {
		o.bad = true
	} else {
		op.Combine(o.acc, vals)
	}
	o.arrived++

	// last member closes round
	if o.arrived == o.size {
		o.arrived = 0
		if o.bad {
			o.fail(newErr(ReductionMismatch, "partitions disagree on reduction operator or number of values in round %d", round))
			return o.broken
		}
		o.round++
		o.res = o.acc
		copy(vals, o.res)
		o.cond.Broadcast()
		return
	}

	// wait for others
	if o.timeout > 0 {
		timer := time.AfterFunc(o.timeout, func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if o.round == round {
				o.fail(newErr(ReductionMismatch, "partition %d timed out waiting for %d partitions in round %d", rank, o.size-o.arrived, round))
			}
		})
		defer timer.Stop()
	}
	for o.round == round && o.broken == nil {
		o.cond.Wait()
	}
	if o.round == round {
		return o.broken
	}
	copy(vals, o.res)
	return
}

// GroupMember is the collective of one member of a Group
type GroupMember struct {
	group *Group
	rank  int
}

// Rank returns the rank of member
func (o *GroupMember) Rank() int { return o.rank }

// Size returns the number of members
func (o *GroupMember) Size() int { return o.group.size }

// AllReduce combines vals with all other members
func (o *GroupMember) AllReduce(op Op, vals []float64) error {
	return o.group.allReduce(o.rank, op, vals)
}

// Leave leaves the group
func (o *GroupMember) Leave() {
	o.group.Leave(o.rank)
}
