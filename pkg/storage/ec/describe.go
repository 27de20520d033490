// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package ec

import (
	"bytes"
	"fmt"

	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// FragmentSize is the number of bytes each data unit holds per stripe
const FragmentSize = 512

// Summary describes what a disperse scheme means for a volume
type Summary struct {
	Scheme         types.DisperseScheme
	StripeSize     uint64  // Bytes written across all data units per stripe
	Overhead       float64 // Raw capacity per usable byte
	FaultTolerance int     // Units per group that can be lost
}

// StripeSize returns the full-stripe write size for a scheme
func StripeSize(scheme types.DisperseScheme) uint64 {
	return uint64(scheme.Data) * FragmentSize
}

// Describe builds a codec for the scheme and checks that one stripe survives
// the loss of Redundancy units before reporting its properties.
func Describe(scheme types.DisperseScheme) (*Summary, error) {
	coder, err := NewReedSolomonCoder(scheme)
	if err != nil {
		return nil, fmt.Errorf("disperse %s: %w", scheme, err)
	}

	stripe := make([]byte, StripeSize(scheme))
	for i := range stripe {
		stripe[i] = byte(i)
	}

	shards, err := coder.EncodeData(stripe)
	if err != nil {
		return nil, fmt.Errorf("encode stripe: %w", err)
	}
	want := make([][]byte, len(shards))
	for i, s := range shards {
		want[i] = bytes.Clone(s)
	}

	// Lose the leading data units, the hardest case to rebuild
	for i := 0; i < scheme.Redundancy; i++ {
		shards[i] = nil
	}
	if err := coder.DecodeData(shards); err != nil {
		return nil, fmt.Errorf("reconstruct stripe: %w", err)
	}
	for i := range want {
		if !bytes.Equal(want[i], shards[i]) {
			return nil, fmt.Errorf("disperse %s: unit %d did not reconstruct", scheme, i)
		}
	}

	return &Summary{
		Scheme:         scheme,
		StripeSize:     StripeSize(scheme),
		Overhead:       scheme.Overhead(),
		FaultTolerance: scheme.FaultTolerance(),
	}, nil
}
