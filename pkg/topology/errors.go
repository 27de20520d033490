// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import "fmt"

// Parse failure reasons
const (
	ReasonIncompleteGroup        = "incomplete group"
	ReasonUnexpectedNumber       = "unexpected number"
	ReasonConflictingArrangement = "conflicting arrangement"
	ReasonMissingCount           = "missing count"
	ReasonInvalidCount           = "invalid count"
	ReasonMisplacedRedundancy    = "redundancy without disperse"
	ReasonDuplicateRedundancy    = "duplicate redundancy"
	ReasonNoUnits                = "no storage units for arrangement"
)

// Validation failure reasons
const (
	ReasonInconsistentTypes     = "inconsistent group types"
	ReasonInconsistentSizes     = "inconsistent group sizes"
	ReasonNoStorage             = "no storage specified"
	ReasonCountMismatch         = "number of storages not matching for type"
	ReasonStripeUnsupported     = "stripe volumes are not supported"
	ReasonUnsupportedReplica    = "unsupported replica count"
	ReasonUnsupportedType       = "unsupported volume type"
	ReasonDisperseUnspecified   = "disperse data/redundancy not specified"
	ReasonDisperseRedundancy    = "invalid redundancy for disperse"
	ReasonDisperseNotOptimal    = "disperse configuration is not optimal"
	ReasonInvalidStorageAddress = "invalid storage address"
)

// LexError reports an input string that is neither a keyword, a number nor
// an address
type LexError struct {
	Pos int
	Raw string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("invalid storage unit %q at position %d: expected a keyword, a number or <node>:<locator>", e.Raw, e.Pos)
}

// ParseError reports a token sequence that violates the grammar
type ParseError struct {
	Reason string
	Token  *Token // Offending token, nil at end of input
}

func (e *ParseError) Error() string {
	if e.Token != nil {
		return fmt.Sprintf("%s at %q (position %d)", e.Reason, e.Token.Raw, e.Token.Pos)
	}
	return e.Reason
}

// InvalidTopologyError reports a well-formed request that violates a
// topology rule
type InvalidTopologyError struct {
	Reason string
	Value  string // Offending value, when there is one
}

func (e *InvalidTopologyError) Error() string {
	if e.Value != "" {
		return e.Reason + ": " + e.Value
	}
	return e.Reason
}

func newParseError(reason string, tok *Token) *ParseError {
	if tok == nil {
		return &ParseError{Reason: reason}
	}
	t := *tok
	return &ParseError{Reason: reason, Token: &t}
}
