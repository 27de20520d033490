// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// DisperseScheme defines the erasure coding layout of one disperse group
type DisperseScheme struct {
	Data       int `json:"data" yaml:"data"`             // Number of data units per group
	Redundancy int `json:"redundancy" yaml:"redundancy"` // Number of redundancy units per group
}

// Common disperse schemes
var (
	// Disperse2_1 is the smallest viable scheme: 2 data + 1 redundancy
	Disperse2_1 = DisperseScheme{Data: 2, Redundancy: 1}

	// Disperse4_2 tolerates 2 failures with 50% overhead
	Disperse4_2 = DisperseScheme{Data: 4, Redundancy: 2}

	// Disperse8_4 tolerates 4 failures with 50% overhead
	Disperse8_4 = DisperseScheme{Data: 8, Redundancy: 4}

	// DisperseSchemes maps scheme names to predefined schemes
	DisperseSchemes = map[string]DisperseScheme{
		"2+1": Disperse2_1,
		"4+2": Disperse4_2,
		"8+4": Disperse8_4,
	}
)

// ParseDisperseScheme parses a scheme string like "4+2"
func ParseDisperseScheme(s string) (DisperseScheme, error) {
	s = strings.TrimSpace(s)
	if scheme, ok := DisperseSchemes[s]; ok {
		return scheme, nil
	}

	parts := strings.Split(s, "+")
	if len(parts) != 2 {
		return DisperseScheme{}, fmt.Errorf("invalid disperse scheme format %q: expected 'data+redundancy' (e.g., '4+2')", s)
	}

	data, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || data < 1 {
		return DisperseScheme{}, fmt.Errorf("invalid data count in disperse scheme %q: must be positive integer", s)
	}

	redundancy, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || redundancy < 1 {
		return DisperseScheme{}, fmt.Errorf("invalid redundancy count in disperse scheme %q: must be positive integer", s)
	}

	return DisperseScheme{Data: data, Redundancy: redundancy}, nil
}

// String returns the scheme in "data+redundancy" format
func (d DisperseScheme) String() string {
	return fmt.Sprintf("%d+%d", d.Data, d.Redundancy)
}

// GroupSize returns the number of storage units in one disperse group
func (d DisperseScheme) GroupSize() int {
	return d.Data + d.Redundancy
}

// Overhead returns the raw-to-usable capacity ratio (e.g., 1.5 for 4+2)
func (d DisperseScheme) Overhead() float64 {
	if d.Data == 0 {
		return 0
	}
	return float64(d.GroupSize()) / float64(d.Data)
}

// FaultTolerance returns how many units of a group can be lost
func (d DisperseScheme) FaultTolerance() int {
	return d.Redundancy
}
