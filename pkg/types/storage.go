// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"strings"
)

// StorageUnitKind identifies what the locator of a storage unit refers to
type StorageUnitKind string

const (
	StorageUnitPath   StorageUnitKind = "path"   // Directory on the node
	StorageUnitPVC    StorageUnitKind = "pvc"    // Persistent volume claim name
	StorageUnitDevice StorageUnitKind = "device" // Raw block device on the node
)

// StorageUnitKinds lists accepted kinds in flag help order
var StorageUnitKinds = []StorageUnitKind{StorageUnitPath, StorageUnitPVC, StorageUnitDevice}

// ParseStorageUnitKind parses a storage unit kind. Empty input yields the
// empty kind.
func ParseStorageUnitKind(s string) (StorageUnitKind, error) {
	if s == "" {
		return "", nil
	}
	for _, k := range StorageUnitKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid storage unit type %q: expected one of path, pvc, device", s)
}

// AddressSeparator separates the node from the locator in a storage address
const AddressSeparator = ":"

// SplitAddress splits "<node>:<locator>" on the first separator.
// ok is false unless both parts are non-empty.
func SplitAddress(addr string) (node, locator string, ok bool) {
	node, locator, found := strings.Cut(addr, AddressSeparator)
	if !found || node == "" || locator == "" {
		return "", "", false
	}
	return node, locator, true
}

// StorageUnit is one device, path or pvc contributed to a volume
type StorageUnit struct {
	Kind    StorageUnitKind
	Node    string // Empty for pvc units
	Locator string
}

// String renders the unit the way it is given on the command line
func (u StorageUnit) String() string {
	if u.Node == "" {
		return u.Locator
	}
	return u.Node + AddressSeparator + u.Locator
}
