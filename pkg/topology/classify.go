// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// Classify returns the volume type of a validated request. The result for a
// request that did not pass Validate is the empty type.
func Classify(req *Request) types.VolumeType {
	if req == nil || len(req.Groups) == 0 {
		return ""
	}

	arr := req.Groups[0].Arrangement
	switch arr.Kind {
	case KindPlain:
		return types.VolumeTypeReplica1
	case KindReplica:
		n, _ := arr.Count.Get()
		vt, _ := types.ReplicaVolumeType(n)
		return vt
	case KindDisperse:
		return types.VolumeTypeDisperse
	}
	return ""
}

// Flatten returns every unit address in group order, then unit order. The
// first group-size addresses form the first distribute subvolume.
func Flatten(req *Request) []string {
	if req == nil {
		return nil
	}
	units := make([]string, 0, req.UnitCount())
	for _, g := range req.Groups {
		units = append(units, g.Units...)
	}
	return units
}
