// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest renders a resolved storage plan as the custom resource the
// storage operator consumes.
package manifest

import (
	"bytes"
	"fmt"

	"github.com/LeeDigitalWorks/zapctl/pkg/provision"
	"github.com/LeeDigitalWorks/zapctl/pkg/types"

	"gopkg.in/yaml.v3"
)

const (
	APIVersion = "storage.zapfs.io/v1alpha1"
	Kind       = "ZapStorage"

	// TiebreakerPort is the port the tiebreaker brick listens on
	TiebreakerPort = 24007
)

type Storage struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

type Metadata struct {
	Name string `yaml:"name"`
}

type Spec struct {
	Type            string      `yaml:"type"`
	Storage         []Unit      `yaml:"storage"`
	PVReclaimPolicy string      `yaml:"pvReclaimPolicy,omitempty"`
	VolumeID        string      `yaml:"volume_id,omitempty"`
	SinglePVPerPool bool        `yaml:"single_pv_per_pool,omitempty"`
	Format          string      `yaml:"format,omitempty"`
	Details         *Details    `yaml:"details,omitempty"`
	Tiebreaker      *Tiebreaker `yaml:"tiebreaker,omitempty"`
	Disperse        *Disperse   `yaml:"disperse,omitempty"`
}

// Unit is one storage entry; exactly one of Device, Path or PVC is set
type Unit struct {
	Node   string `yaml:"node,omitempty"`
	Device string `yaml:"device,omitempty"`
	Path   string `yaml:"path,omitempty"`
	PVC    string `yaml:"pvc,omitempty"`
}

// Details points at an external gluster volume
type Details struct {
	GlusterHosts   []string `yaml:"gluster_hosts"`
	GlusterVolname string   `yaml:"gluster_volname"`
	GlusterOptions string   `yaml:"gluster_options"`
}

type Tiebreaker struct {
	Node string `yaml:"node"`
	Path string `yaml:"path"`
	Port int    `yaml:"port"`
}

type Disperse struct {
	Data       int `yaml:"data"`
	Redundancy int `yaml:"redundancy"`
}

// Build converts a plan into a storage resource. External volumes carry no
// storage entries.
func Build(plan *provision.Plan) *Storage {
	s := &Storage{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   Metadata{Name: plan.Name},
		Spec: Spec{
			Type:            string(plan.Type),
			Storage:         []Unit{},
			PVReclaimPolicy: plan.PVReclaimPolicy,
			VolumeID:        plan.VolumeID,
			SinglePVPerPool: plan.SinglePVPerPool,
			Format:          plan.Format,
		},
	}

	if ext := plan.External; ext != nil {
		s.Spec.Details = &Details{
			GlusterHosts:   ext.Hosts,
			GlusterVolname: ext.Volume,
			GlusterOptions: ext.Options,
		}
		return s
	}

	for _, u := range plan.Units {
		s.Spec.Storage = append(s.Spec.Storage, unit(u))
	}

	if plan.Type == types.VolumeTypeReplica2 && plan.Tiebreaker != nil {
		s.Spec.Tiebreaker = &Tiebreaker{
			Node: plan.Tiebreaker.Node,
			Path: plan.Tiebreaker.Locator,
			Port: TiebreakerPort,
		}
	}

	if plan.Type == types.VolumeTypeDisperse && plan.Disperse != nil {
		s.Spec.Disperse = &Disperse{
			Data:       plan.Disperse.Data,
			Redundancy: plan.Disperse.Redundancy,
		}
	}

	return s
}

func unit(u types.StorageUnit) Unit {
	switch u.Kind {
	case types.StorageUnitDevice:
		return Unit{Node: u.Node, Device: u.Locator}
	case types.StorageUnitPath:
		return Unit{Node: u.Node, Path: u.Locator}
	default:
		return Unit{PVC: u.Locator}
	}
}

// YAML encodes the resource with two-space indentation
func (s *Storage) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal storage manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal storage manifest: %w", err)
	}
	return buf.Bytes(), nil
}
