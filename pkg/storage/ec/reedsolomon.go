// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package ec

import (
	"github.com/LeeDigitalWorks/zapctl/pkg/types"

	"github.com/klauspost/reedsolomon"
)

// ReedSolomonCoder encodes and reconstructs the units of one disperse group
type ReedSolomonCoder struct {
	enc    reedsolomon.Encoder
	scheme types.DisperseScheme
}

// NewReedSolomonCoder creates a Reed-Solomon encoder for a disperse scheme
func NewReedSolomonCoder(scheme types.DisperseScheme) (*ReedSolomonCoder, error) {
	enc, err := reedsolomon.New(scheme.Data, scheme.Redundancy)
	if err != nil {
		return nil, err
	}
	return &ReedSolomonCoder{enc: enc, scheme: scheme}, nil
}

func (r *ReedSolomonCoder) Scheme() types.DisperseScheme {
	return r.scheme
}

// EncodeData splits data into data+redundancy shards
func (r *ReedSolomonCoder) EncodeData(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return make([][]byte, r.scheme.GroupSize()), nil
	}

	shards, err := r.enc.Split(data)
	if err != nil {
		return nil, err
	}
	if err := r.enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards, nil
}

// DecodeData reconstructs missing shards in place
// shards with nil values will be reconstructed
func (r *ReedSolomonCoder) DecodeData(shards [][]byte) error {
	needsReconstruct := false
	for _, s := range shards {
		if s == nil {
			needsReconstruct = true
			break
		}
	}
	if !needsReconstruct {
		return nil
	}
	return r.enc.Reconstruct(shards)
}
