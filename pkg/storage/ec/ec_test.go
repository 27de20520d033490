// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package ec

import (
	"crypto/rand"
	"testing"

	"github.com/LeeDigitalWorks/zapctl/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTestData creates random data of the specified size
func generateTestData(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	return data
}

func TestReedSolomonCoder_EncodeDecodeBasic(t *testing.T) {
	coder, err := NewReedSolomonCoder(types.Disperse4_2)
	require.NoError(t, err)

	shards, err := coder.EncodeData(generateTestData(t, 1024))
	require.NoError(t, err)
	assert.Len(t, shards, 6) // 4 data + 2 redundancy

	for i, shard := range shards {
		assert.NotNil(t, shard, "shard %d should not be nil", i)
	}

	// No reconstruction needed with every shard present
	assert.NoError(t, coder.DecodeData(shards))
}

func TestReedSolomonCoder_EmptyData(t *testing.T) {
	coder, err := NewReedSolomonCoder(types.Disperse2_1)
	require.NoError(t, err)

	shards, err := coder.EncodeData(nil)
	require.NoError(t, err)
	assert.Len(t, shards, 3)
}

func TestReedSolomonCoder_RecoveryWithMissingShards(t *testing.T) {
	coder, err := NewReedSolomonCoder(types.Disperse4_2)
	require.NoError(t, err)

	shards, err := coder.EncodeData(generateTestData(t, 1024))
	require.NoError(t, err)

	originalShards := make([][]byte, len(shards))
	for i, s := range shards {
		originalShards[i] = append([]byte(nil), s...)
	}

	testCases := []struct {
		name        string
		missingIdxs []int
		shouldWork  bool
	}{
		{name: "missing 1 data unit", missingIdxs: []int{0}, shouldWork: true},
		{name: "missing 2 data units", missingIdxs: []int{0, 1}, shouldWork: true},
		{name: "missing 2 redundancy units", missingIdxs: []int{4, 5}, shouldWork: true},
		{name: "missing 1 data + 1 redundancy", missingIdxs: []int{0, 5}, shouldWork: true},
		{name: "missing 3 units (exceeds tolerance)", missingIdxs: []int{0, 1, 2}, shouldWork: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testShards := make([][]byte, len(originalShards))
			for i, s := range originalShards {
				testShards[i] = append([]byte(nil), s...)
			}
			for _, idx := range tc.missingIdxs {
				testShards[idx] = nil
			}

			err := coder.DecodeData(testShards)
			if tc.shouldWork {
				require.NoError(t, err, "recovery should succeed")
				for i := 0; i < coder.Scheme().Data; i++ {
					assert.Equal(t, originalShards[i], testShards[i], "data unit %d should match", i)
				}
			} else {
				assert.Error(t, err, "recovery should fail with too many missing units")
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme     types.DisperseScheme
		stripeSize uint64
		overhead   float64
	}{
		{types.Disperse2_1, 1024, 1.5},
		{types.Disperse4_2, 2048, 1.5},
		{types.DisperseScheme{Data: 8, Redundancy: 2}, 4096, 1.25},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.scheme.String(), func(t *testing.T) {
			t.Parallel()

			summary, err := Describe(tt.scheme)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, summary.Scheme)
			assert.Equal(t, tt.stripeSize, summary.StripeSize)
			assert.InDelta(t, tt.overhead, summary.Overhead, 0.001)
			assert.Equal(t, tt.scheme.Redundancy, summary.FaultTolerance)
		})
	}
}

func TestDescribe_CodecLimits(t *testing.T) {
	t.Parallel()

	_, err := Describe(types.DisperseScheme{Data: 0, Redundancy: 1})
	assert.Error(t, err)

	_, err = Describe(types.DisperseScheme{Data: -1, Redundancy: 2})
	assert.Error(t, err)
}
