// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"strconv"

	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// Option adjusts validation
type Option func(*config)

type config struct {
	advisory func(*InvalidTopologyError)
}

// WithAdvisoryOptimality reports a disperse layout with an odd data count
// through warn instead of rejecting it.
func WithAdvisoryOptimality(warn func(*InvalidTopologyError)) Option {
	return func(c *config) {
		if warn == nil {
			warn = func(*InvalidTopologyError) {}
		}
		c.advisory = warn
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// rule is one validation predicate. check returns the offending value, if
// any, and whether the rule holds.
type rule[T any] struct {
	reason   string
	advisory bool // Downgradable by WithAdvisoryOptimality
	check    func(T) (string, bool)
}

// evaluate runs rules in order and returns the first violation
func evaluate[T any](rules []rule[T], in T, cfg *config) error {
	for _, r := range rules {
		value, ok := r.check(in)
		if ok {
			continue
		}
		err := &InvalidTopologyError{Reason: r.reason, Value: value}
		if r.advisory && cfg.advisory != nil {
			cfg.advisory(err)
			continue
		}
		return err
	}
	return nil
}

// disperseShape is the part of a disperse layout both input paths share
type disperseShape struct {
	data, redundancy int
}

// Rules shared by Validate and CheckCounts. A dispersed group needs more
// than 2*redundancy units, so the minimum group is 2+1.
var disperseRules = []rule[disperseShape]{
	{reason: ReasonDisperseUnspecified, check: func(d disperseShape) (string, bool) {
		return "", d.data > 0 && d.redundancy > 0
	}},
	{reason: ReasonDisperseRedundancy, check: func(d disperseShape) (string, bool) {
		return "", d.data+d.redundancy > 2*d.redundancy
	}},
	// stripe size is data*512, which performs best as a power of two
	{reason: ReasonDisperseNotOptimal, advisory: true, check: func(d disperseShape) (string, bool) {
		return "", d.data%2 == 0
	}},
}

var requestRules = []rule[*Request]{
	{reason: ReasonInconsistentTypes, check: consistentArrangements},
	{reason: ReasonInconsistentSizes, check: func(r *Request) (string, bool) {
		for _, g := range r.Groups {
			if g.Size() != r.GroupSize() {
				return "", false
			}
		}
		return "", true
	}},
	{reason: ReasonNoStorage, check: func(r *Request) (string, bool) {
		return "", r.UnitCount() > 0
	}},
	{reason: ReasonCountMismatch, check: func(r *Request) (string, bool) {
		return "", r.UnitCount()%r.GroupSize() == 0
	}},
	{reason: ReasonStripeUnsupported, check: func(r *Request) (string, bool) {
		return "", r.Groups[0].Arrangement.Kind != KindStripe
	}},
	{reason: ReasonUnsupportedReplica, check: func(r *Request) (string, bool) {
		arr := r.Groups[0].Arrangement
		if arr.Kind != KindReplica {
			return "", true
		}
		n, _ := arr.Count.Get()
		_, ok := types.ReplicaVolumeType(n)
		return strconv.Itoa(n), ok
	}},
}

var addressRules = []rule[*Request]{
	{reason: ReasonInvalidStorageAddress, check: func(r *Request) (string, bool) {
		for _, g := range r.Groups {
			for _, u := range g.Units {
				if err := ValidateAddress(u); err != nil {
					return u, false
				}
			}
		}
		return "", true
	}},
}

func consistentArrangements(r *Request) (string, bool) {
	if len(r.Groups) == 0 {
		return "", true
	}
	first := r.Groups[0].Arrangement
	for _, g := range r.Groups[1:] {
		arr := g.Arrangement
		if arr.Kind != first.Kind {
			return "", false
		}
		if arr.Kind == KindDisperse && arr.Redundancy != first.Redundancy {
			return "", false
		}
	}
	return "", true
}

// Validate checks a parsed request and returns the first violated rule as an
// *InvalidTopologyError. A nil request is treated as empty.
func Validate(req *Request, opts ...Option) error {
	cfg := newConfig(opts)
	if req == nil {
		req = &Request{}
	}

	if err := evaluate(requestRules, req, cfg); err != nil {
		return err
	}

	first := req.Groups[0]
	if first.Arrangement.Kind == KindDisperse {
		data, redundancy, _ := first.Disperse()
		if err := evaluate(disperseRules, disperseShape{data: data, redundancy: redundancy}, cfg); err != nil {
			return err
		}
	}

	return evaluate(addressRules, req, cfg)
}

// counts is the flag-path view of a topology
type counts struct {
	volumeType types.VolumeType
	total      int
	scheme     types.DisperseScheme
}

var countRules = []rule[counts]{
	{reason: ReasonNoStorage, check: func(c counts) (string, bool) {
		return "", c.total > 0
	}},
	{reason: ReasonUnsupportedType, check: func(c counts) (string, bool) {
		switch c.volumeType {
		case types.VolumeTypeReplica1, types.VolumeTypeReplica2, types.VolumeTypeReplica3,
			types.VolumeTypeDisperse, types.VolumeTypeExternal:
			return "", true
		}
		return string(c.volumeType), false
	}},
}

// CheckCounts applies the topology rules to flag input that never went
// through the topology language: a volume type, the number of storage units
// and, for Disperse, the data and redundancy counts. Divisibility is checked
// before the disperse rules, as in Validate, so both accept and reject the
// same layouts with the same reason.
func CheckCounts(vt types.VolumeType, total, data, redundancy int, opts ...Option) error {
	cfg := newConfig(opts)
	c := counts{
		volumeType: vt,
		total:      total,
		scheme:     types.DisperseScheme{Data: data, Redundancy: redundancy},
	}

	if err := evaluate(countRules, c, cfg); err != nil {
		return err
	}

	size := vt.SubvolumeSize(c.scheme)
	if size <= 0 {
		return &InvalidTopologyError{Reason: ReasonDisperseUnspecified}
	}
	if total%size != 0 {
		return &InvalidTopologyError{Reason: ReasonCountMismatch, Value: string(vt)}
	}

	if vt == types.VolumeTypeDisperse {
		return evaluate(disperseRules, disperseShape{data: data, redundancy: redundancy}, cfg)
	}
	return nil
}

// ValidateAddress checks the <node>:<locator> shape of a storage address
func ValidateAddress(addr string) error {
	if _, _, ok := types.SplitAddress(addr); !ok {
		return &InvalidTopologyError{Reason: ReasonInvalidStorageAddress, Value: addr}
	}
	return nil
}
