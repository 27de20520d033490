// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"strconv"
	"strings"
)

// Kind is the replication/dispersion scheme of a distribute group
type Kind int

const (
	KindPlain Kind = iota // No arrangement keyword, one unit per group
	KindReplica
	KindDisperse
	KindStripe // Parsed but never valid
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindReplica:
		return "replica"
	case KindDisperse:
		return "disperse"
	case KindStripe:
		return "stripe"
	default:
		return "unknown"
	}
}

// Count is a number that may be left out of the input
type Count struct {
	value int
	set   bool
}

// CountOf returns a set count
func CountOf(n int) Count {
	return Count{value: n, set: true}
}

// Get returns the count and whether it was given
func (c Count) Get() (int, bool) {
	return c.value, c.set
}

// IsSet reports whether the count was given
func (c Count) IsSet() bool {
	return c.set
}

// Arrangement describes how the units of a group relate to each other.
// Count is the replica or stripe count, or the disperse count (units per
// group including redundancy). Redundancy is only meaningful for disperse.
type Arrangement struct {
	Kind       Kind
	Count      Count
	Redundancy Count
}

// Group is one distribute subvolume
type Group struct {
	Arrangement Arrangement
	Units       []string
}

// Size returns the number of units in the group
func (g Group) Size() int {
	return len(g.Units)
}

// Disperse resolves the data and redundancy counts of a disperse group.
// ok is false when either cannot be resolved to a positive value.
func (g Group) Disperse() (data, redundancy int, ok bool) {
	if g.Arrangement.Kind != KindDisperse {
		return 0, 0, false
	}
	redundancy, set := g.Arrangement.Redundancy.Get()
	if !set || redundancy <= 0 {
		return 0, 0, false
	}
	data = g.Size() - redundancy
	if data <= 0 {
		return 0, 0, false
	}
	return data, redundancy, true
}

// Request is a parsed, not necessarily valid, topology
type Request struct {
	Groups []Group
}

// UnitCount returns the total number of units across all groups
func (r *Request) UnitCount() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Size()
	}
	return n
}

// GroupSize returns the size of the first group, or 0 for an empty request
func (r *Request) GroupSize() int {
	if len(r.Groups) == 0 {
		return 0
	}
	return r.Groups[0].Size()
}

// Args renders the request as canonical topology language arguments.
// Consecutive groups sharing an arrangement are written under one keyword,
// and disperse groups always carry their count.
func (r *Request) Args() []string {
	var args []string
	var prev *Arrangement
	for i := range r.Groups {
		g := r.Groups[i]
		arr := canonical(g)
		if prev == nil || *prev != arr {
			args = append(args, arrangementArgs(arr)...)
			prev = &arr
		}
		args = append(args, g.Units...)
	}
	return args
}

func (r *Request) String() string {
	return strings.Join(r.Args(), " ")
}

func canonical(g Group) Arrangement {
	arr := g.Arrangement
	if arr.Kind == KindDisperse {
		arr.Count = CountOf(g.Size())
	}
	return arr
}

func arrangementArgs(arr Arrangement) []string {
	switch arr.Kind {
	case KindReplica:
		return []string{string(KeywordReplica), strconv.Itoa(arr.Count.value)}
	case KindStripe:
		return []string{string(KeywordStripe), strconv.Itoa(arr.Count.value)}
	case KindDisperse:
		args := []string{string(KeywordDisperse), strconv.Itoa(arr.Count.value)}
		if r, ok := arr.Redundancy.Get(); ok {
			args = append(args, string(KeywordRedundancy), strconv.Itoa(r))
		}
		return args
	}
	return nil
}
