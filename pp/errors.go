// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pp

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// Kind identifies the kind of failure raised by postprocessors
type Kind int

// kinds of errors
const (
	InvalidBlock      Kind = iota + 1 // setup: unknown subdomain identifier
	UnknownProperty                   // setup: material property not available from provider
	UnknownVariable                   // setup: field variable not attached
	OutOfRange                        // pass: integration point index outside element's set
	StaleField                        // pass: solution (or material cache) not current for this step
	MissingValue                      // pass: provider has no value for this element/point
	BadGeometry                       // pass: singular or inverted element
	PeerFailure                       // pass: another partition failed the evaluation
	ReductionMismatch                 // fatal: partitions disagree on the collective reduction
)

var kindNames = map[Kind]string{
	InvalidBlock:      "InvalidBlock",
	UnknownProperty:   "UnknownProperty",
	UnknownVariable:   "UnknownVariable",
	OutOfRange:        "OutOfRange",
	StaleField:        "StaleField",
	MissingValue:      "MissingValue",
	BadGeometry:       "BadGeometry",
	PeerFailure:       "PeerFailure",
	ReductionMismatch: "ReductionMismatch",
}

// String returns the name of kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return io.Sf("Kind(%d)", int(k))
}

// Error holds a postprocessor error
type Error struct {
	Kind Kind   // kind of error
	Msg  string // message
}

// Error returns the message
func (o *Error) Error() string {
	return o.Kind.String() + ": " + o.Msg
}

// Is reports whether target is an *Error with the same Kind
func (o *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == o.Kind
}

// sentinels to be used with errors.Is
var (
	ErrInvalidBlock      = &Error{Kind: InvalidBlock}
	ErrUnknownProperty   = &Error{Kind: UnknownProperty}
	ErrUnknownVariable   = &Error{Kind: UnknownVariable}
	ErrOutOfRange        = &Error{Kind: OutOfRange}
	ErrStaleField        = &Error{Kind: StaleField}
	ErrMissingValue      = &Error{Kind: MissingValue}
	ErrBadGeometry       = &Error{Kind: BadGeometry}
	ErrPeerFailure       = &Error{Kind: PeerFailure}
	ErrReductionMismatch = &Error{Kind: ReductionMismatch}
)

// newErr returns a new *Error
func newErr(kind Kind, msg string, prm ...interface{}) *Error {
	return &Error{Kind: kind, Msg: io.Sf(msg, prm...)}
}

// KindOf returns the Kind of err or 0 if err is not a postprocessor error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsSetup tells whether err was raised while configuring a diagnostic (fatal, before any pass)
func IsSetup(err error) bool {
	switch KindOf(err) {
	case InvalidBlock, UnknownProperty, UnknownVariable:
		return true
	}
	return false
}

// IsFatal tells whether err corrupts the distributed state; the whole run must be stopped
func IsFatal(err error) bool {
	return KindOf(err) == ReductionMismatch
}
