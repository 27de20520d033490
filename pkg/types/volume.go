// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// VolumeType is the canonical shape of a storage volume
type VolumeType string

const (
	VolumeTypeReplica1 VolumeType = "Replica1"
	VolumeTypeReplica2 VolumeType = "Replica2"
	VolumeTypeReplica3 VolumeType = "Replica3"
	VolumeTypeDisperse VolumeType = "Disperse"
	VolumeTypeExternal VolumeType = "External" // References an existing volume, no bricks
)

// VolumeTypes lists every accepted volume type in flag help order
var VolumeTypes = []VolumeType{
	VolumeTypeReplica1,
	VolumeTypeReplica3,
	VolumeTypeExternal,
	VolumeTypeReplica2,
	VolumeTypeDisperse,
}

// ParseVolumeType parses a volume type name. The empty string is returned as
// the empty type so callers can apply their own default.
func ParseVolumeType(s string) (VolumeType, error) {
	if s == "" {
		return "", nil
	}
	for _, vt := range VolumeTypes {
		if string(vt) == s {
			return vt, nil
		}
	}
	return "", fmt.Errorf("invalid volume type %q: expected one of %s", s, VolumeTypeNames())
}

// VolumeTypeNames returns the accepted names joined for help text
func VolumeTypeNames() string {
	names := make([]string, len(VolumeTypes))
	for i, vt := range VolumeTypes {
		names[i] = string(vt)
	}
	return strings.Join(names, ", ")
}

func (v VolumeType) String() string {
	return string(v)
}

// IsReplica reports whether the type is one of the ReplicaN types
func (v VolumeType) IsReplica() bool {
	return strings.HasPrefix(string(v), "Replica")
}

// ReplicaCount returns N for ReplicaN types and 0 otherwise
func (v VolumeType) ReplicaCount() int {
	if !v.IsReplica() {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(v), "Replica"))
	if err != nil {
		return 0
	}
	return n
}

// SubvolumeSize returns the number of storage units in one distribute group.
// Disperse sizes depend on the scheme and are not known from the type alone.
func (v VolumeType) SubvolumeSize(scheme DisperseScheme) int {
	switch {
	case v.IsReplica():
		return v.ReplicaCount()
	case v == VolumeTypeDisperse:
		return scheme.GroupSize()
	default:
		return 1
	}
}

// ReplicaVolumeType maps a replica count to its volume type
func ReplicaVolumeType(n int) (VolumeType, bool) {
	switch n {
	case 1:
		return VolumeTypeReplica1, true
	case 2:
		return VolumeTypeReplica2, true
	case 3:
		return VolumeTypeReplica3, true
	}
	return "", false
}
