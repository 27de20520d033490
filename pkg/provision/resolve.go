// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/LeeDigitalWorks/zapctl/pkg/logger"
	"github.com/LeeDigitalWorks/zapctl/pkg/topology"
	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// NodeLister returns the names of the nodes in the cluster
type NodeLister interface {
	Nodes(ctx context.Context) ([]string, error)
}

// Resolve validates opts and builds a Plan. Positional storage units are
// compiled with the topology language and override the type, disperse and
// unit flags; otherwise the flag values are checked with the same rules.
// Unless opts.DryRun is set, every device and path must live on a node
// returned by nodes.
func Resolve(ctx context.Context, opts Options, nodes NodeLister) (*Plan, error) {
	log := logger.Ctx(ctx)

	vt, err := types.ParseVolumeType(opts.Type)
	if err != nil {
		return nil, newError("type", "%v", err)
	}
	if opts.DisperseScheme != "" {
		if opts.DisperseData != 0 || opts.DisperseRedundancy != 0 {
			return nil, newError("disperse", "'--disperse' cannot be combined with '--data' or '--redundancy'")
		}
		scheme, err := types.ParseDisperseScheme(opts.DisperseScheme)
		if err != nil {
			return nil, newError("disperse", "%v", err)
		}
		if vt != "" && vt != types.VolumeTypeDisperse {
			return nil, newError("disperse", "'--disperse' option is used only with '--type Disperse'")
		}
		vt = types.VolumeTypeDisperse
		opts.DisperseData, opts.DisperseRedundancy = scheme.Data, scheme.Redundancy
	}
	kind, err := types.ParseStorageUnitKind(opts.StorageUnitType)
	if err != nil {
		return nil, newError("storage_unit_type", "%v", err)
	}
	if !oneOf(opts.PVReclaimPolicy, ReclaimPolicies) {
		return nil, newError("pv_reclaim_policy", "invalid policy %q: expected one of %s", opts.PVReclaimPolicy, strings.Join(ReclaimPolicies, ", "))
	}
	if !oneOf(opts.Format, Formats) {
		return nil, newError("format", "invalid format %q: expected one of %s", opts.Format, strings.Join(Formats, ", "))
	}

	plan := &Plan{
		Name:            opts.Name,
		VolumeID:        opts.VolumeID,
		PVReclaimPolicy: opts.PVReclaimPolicy,
		Format:          opts.Format,
		SinglePVPerPool: opts.SinglePVPerPool,
	}

	if opts.External != "" {
		if vt != "" && vt != types.VolumeTypeExternal {
			return nil, newError("external", "'--external' option is used only with '--type External'")
		}
		node, volume, ok := types.SplitAddress(opts.External)
		if !ok {
			return nil, newError("external", "invalid external storage details, expected <node>:/<volname>")
		}
		if len(opts.StorageUnits) > 0 {
			return nil, newError("external", "storage units cannot be listed for an external volume")
		}
		plan.External = &External{
			Hosts:   strings.Split(node, ","),
			Volume:  strings.Trim(volume, "/"),
			Options: opts.GlusterOptions,
		}
		vt = types.VolumeTypeExternal
	} else if opts.GlusterOptions != "" {
		return nil, newError("gluster_options", "'--gluster_options' is used only with '--type External'")
	}

	if opts.Tiebreaker != "" {
		if vt != types.VolumeTypeReplica2 {
			return nil, newError("tiebreaker", "'--tiebreaker' option should be used only with type 'Replica2'")
		}
		node, path, ok := types.SplitAddress(opts.Tiebreaker)
		if !ok {
			return nil, newError("tiebreaker", "invalid tiebreaker details, expected <node>:/<path>")
		}
		plan.Tiebreaker = &types.StorageUnit{Kind: types.StorageUnitPath, Node: node, Locator: path}
	}

	if vt == "" {
		vt = types.VolumeTypeReplica1
	}

	var validateOpts []topology.Option
	if opts.AllowSuboptimal {
		validateOpts = append(validateOpts, topology.WithAdvisoryOptimality(func(e *topology.InvalidTopologyError) {
			log.Warn().Str("reason", e.Reason).Msg("accepting disperse layout")
		}))
	}

	devices, paths, pvcs := opts.Devices, opts.Paths, opts.PVCs
	data, redundancy := opts.DisperseData, opts.DisperseRedundancy

	if len(opts.StorageUnits) > 0 {
		topo, err := topology.Compile(opts.StorageUnits, validateOpts...)
		if err != nil {
			return nil, err
		}
		plan.Topology = topo
		vt = topo.Type
		log.Debug().
			Str("topology", topo.Request.String()).
			Str("type", string(vt)).
			Int("groups", len(topo.Request.Groups)).
			Msg("compiled storage units")

		if kind == "" {
			return nil, newError("storage_unit_type", "--storage_unit_type is not specified")
		}
		if topo.Disperse != nil {
			data, redundancy = topo.Disperse.Data, topo.Disperse.Redundancy
		}

		switch kind {
		case types.StorageUnitDevice:
			devices = topo.Units
		case types.StorageUnitPath:
			paths = topo.Units
		case types.StorageUnitPVC:
			pvcs = topo.Units
		}
	}

	if plan.Tiebreaker != nil && vt != types.VolumeTypeReplica2 {
		return nil, newError("tiebreaker", "'--tiebreaker' option should be used only with type 'Replica2'")
	}
	plan.Type = vt

	total := len(devices) + len(paths) + len(pvcs)
	if plan.External != nil {
		total = 1
	}
	if err := topology.CheckCounts(vt, total, data, redundancy, validateOpts...); err != nil {
		return nil, err
	}
	if vt == types.VolumeTypeDisperse {
		plan.Disperse = &types.DisperseScheme{Data: data, Redundancy: redundancy}
	}

	for _, dev := range devices {
		node, locator, ok := types.SplitAddress(dev)
		if !ok {
			return nil, newError("device", "invalid storage device details %q, expected <node>:<device>", dev)
		}
		plan.Units = append(plan.Units, types.StorageUnit{Kind: types.StorageUnitDevice, Node: node, Locator: locator})
	}
	for _, path := range paths {
		node, locator, ok := types.SplitAddress(path)
		if !ok {
			return nil, newError("path", "invalid storage path details %q, expected <node>:<path>", path)
		}
		plan.Units = append(plan.Units, types.StorageUnit{Kind: types.StorageUnitPath, Node: node, Locator: locator})
	}
	for _, pvc := range pvcs {
		plan.Units = append(plan.Units, types.StorageUnit{Kind: types.StorageUnitPVC, Locator: pvc})
	}

	if !opts.DryRun && nodes != nil {
		if err := checkNodes(ctx, nodes, plan.Units); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

func checkNodes(ctx context.Context, nodes NodeLister, units []types.StorageUnit) error {
	names, err := nodes.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("list cluster nodes: %w", err)
	}

	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	logger.Ctx(ctx).Info().Strs("nodes", names).Msg("cluster nodes available")

	for _, u := range units {
		if u.Kind == types.StorageUnitPVC {
			continue
		}
		if !known[u.Node] {
			return newError("node", "node name does not appear to be valid: %s", u.String())
		}
	}
	return nil
}
