// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package topology compiles the positional storage topology language, e.g.
// "replica 3 node1:/a node2:/b node3:/c", into a validated volume layout.
//
// Compilation runs Tokenize, Parse, Validate, then Classify and Flatten. All
// stages are pure and the first violated rule is returned as a *LexError,
// *ParseError or *InvalidTopologyError.
package topology

import (
	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// Topology is a validated, classified request
type Topology struct {
	Request  *Request
	Type     types.VolumeType
	Units    []string              // Flattened unit addresses
	Disperse *types.DisperseScheme // Set for Disperse volumes
}

// GroupSize returns the number of units in each distribute group
func (t *Topology) GroupSize() int {
	return t.Request.GroupSize()
}

// Compile runs the whole pipeline over raw command line arguments
func Compile(raw []string, opts ...Option) (*Topology, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}

	req, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	if err := Validate(req, opts...); err != nil {
		return nil, err
	}

	t := &Topology{
		Request: req,
		Type:    Classify(req),
		Units:   Flatten(req),
	}
	if t.Type == types.VolumeTypeDisperse {
		data, redundancy, _ := req.Groups[0].Disperse()
		t.Disperse = &types.DisperseScheme{Data: data, Redundancy: redundancy}
	}
	return t, nil
}
