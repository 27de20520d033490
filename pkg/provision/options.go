// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapctl/pkg/topology"
	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// PV reclaim policies accepted for a storage
var ReclaimPolicies = []string{"delete", "archive", "retain"}

// Provisioning formats: native places one PV per subdirectory, non-native
// one PV per volume
var Formats = []string{"native", "non-native"}

// Options is the raw flag input of a storage add request
type Options struct {
	Name string

	// StorageUnits holds positional arguments in the topology language
	StorageUnits    []string
	StorageUnitType string

	Type            string
	VolumeID        string
	PVReclaimPolicy string
	Format          string
	SinglePVPerPool bool

	Devices []string
	Paths   []string
	PVCs    []string

	External       string
	GlusterOptions string
	Tiebreaker     string

	// DisperseScheme is "data+redundancy", e.g. "4+2". It implies the
	// Disperse type and excludes DisperseData and DisperseRedundancy.
	DisperseScheme     string
	DisperseData       int
	DisperseRedundancy int

	// DryRun skips the cluster node check
	DryRun bool

	// AllowSuboptimal downgrades an odd disperse data count to a warning
	AllowSuboptimal bool
}

// Error is a flag combination or value the request cannot be built from
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newError(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// External names a volume served by an existing gluster cluster
type External struct {
	Hosts   []string
	Volume  string
	Options string
}

// Plan is a resolved storage add request, ready to be rendered
type Plan struct {
	Name            string
	Type            types.VolumeType
	VolumeID        string
	PVReclaimPolicy string
	Format          string
	SinglePVPerPool bool

	// Units lists devices, then paths, then pvcs, each in input order
	Units []types.StorageUnit

	External   *External
	Tiebreaker *types.StorageUnit
	Disperse   *types.DisperseScheme

	// Topology is set when the units came from the topology language
	Topology *topology.Topology
}

// UnitCount returns the number of storage units the volume is built from
func (p *Plan) UnitCount() int {
	if p.External != nil {
		return 1
	}
	return len(p.Units)
}

func oneOf(value string, allowed []string) bool {
	if value == "" {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
