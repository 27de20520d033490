// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/LeeDigitalWorks/zapctl/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitFields(s string) []string {
	return strings.Fields(s)
}

func TestCompile_Replica3(t *testing.T) {
	t.Parallel()

	topo, err := Compile([]string{"replica", "3", "n1:/a", "n2:/b", "n3:/c"})
	require.NoError(t, err)

	require.Len(t, topo.Request.Groups, 1)
	assert.Equal(t, KindReplica, topo.Request.Groups[0].Arrangement.Kind)
	assert.Equal(t, types.VolumeTypeReplica3, topo.Type)
	assert.Equal(t, []string{"n1:/a", "n2:/b", "n3:/c"}, topo.Units)
	assert.Equal(t, 3, topo.GroupSize())
	assert.Nil(t, topo.Disperse)
}

func TestCompile_Types(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  types.VolumeType
	}{
		{"n1:/a", types.VolumeTypeReplica1},
		{"n1:/a n2:/b", types.VolumeTypeReplica1},
		{"replica 1 n1:/a", types.VolumeTypeReplica1},
		{"replica 2 n1:/a n2:/b", types.VolumeTypeReplica2},
		{"replica 3 n1:/a n2:/b n3:/c", types.VolumeTypeReplica3},
		{"disperse 3 redundancy 1 n1:/a n2:/b n3:/c", types.VolumeTypeDisperse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			topo, err := Compile(splitFields(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, topo.Type)
			assert.Equal(t, tt.want, Classify(topo.Request))
		})
	}
}

func TestCompile_DisperseScheme(t *testing.T) {
	t.Parallel()

	topo, err := Compile(splitFields("disperse redundancy 2 a:/1 b:/1 c:/1 d:/1 e:/1 f:/1"))
	require.NoError(t, err)
	require.NotNil(t, topo.Disperse)
	assert.Equal(t, types.DisperseScheme{Data: 4, Redundancy: 2}, *topo.Disperse)
}

func TestCompile_MalformedAddress(t *testing.T) {
	t.Parallel()

	_, err := Compile([]string{"replica", "3", "n1:/a", "badnoaddress", "n3:/c"})
	require.Error(t, err)

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, "badnoaddress", lexErr.Raw)
	assert.Equal(t, 3, lexErr.Pos)
}

func TestCompile_ErrorKinds(t *testing.T) {
	t.Parallel()

	_, err := Compile(splitFields("replica 3 n1:/a"))
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))

	_, err = Compile(splitFields("stripe 2 n1:/a n2:/b"))
	var invalid *InvalidTopologyError
	assert.True(t, errors.As(err, &invalid))
}

func TestClassify_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, types.VolumeType(""), Classify(&Request{}))
	assert.Equal(t, types.VolumeType(""), Classify(nil))
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten(&Request{}))
}

// ============================================================================
// Flatten and Args
// ============================================================================

func TestFlatten_PreservesOrder(t *testing.T) {
	t.Parallel()

	req := &Request{Groups: []Group{
		{Arrangement: Arrangement{Kind: KindReplica, Count: CountOf(2)}, Units: []string{"z:/1", "a:/1"}},
		{Arrangement: Arrangement{Kind: KindReplica, Count: CountOf(2)}, Units: []string{"m:/2", "b:/2"}},
	}}

	want := []string{"z:/1", "a:/1", "m:/2", "b:/2"}
	if diff := cmp.Diff(want, Flatten(req)); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestArgs_Canonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"n1:/a n2:/b", "n1:/a n2:/b"},
		{"REPLICA 3 n1:/a n2:/b n3:/c", "replica 3 n1:/a n2:/b n3:/c"},
		{"replica 2 a:1 b:1 replica 2 a:2 b:2", "replica 2 a:1 b:1 a:2 b:2"},
		{"disperse redundancy 1 a:1 b:1 c:1", "disperse 3 redundancy 1 a:1 b:1 c:1"},
		{"disperse 3 a:1 b:1 c:1", "disperse 3 a:1 b:1 c:1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			req, err := parseString(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.String())
		})
	}
}

func TestArgs_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"n1:/a",
		"n3:/c n1:/a n2:/b",
		"replica 2 n2:/a n1:/a n2:/b n1:/b",
		"replica 3 n1:/a n2:/b n3:/c n1:/d n2:/e n3:/f",
		"disperse 3 redundancy 1 n1:/a n2:/a n3:/a n1:/b n2:/b n3:/b",
		"disperse redundancy 2 n1:/a n2:/a n3:/a n4:/a n5:/a n6:/a disperse redundancy 2 m1:/a m2:/a m3:/a m4:/a m5:/a m6:/a",
	}

	for _, in := range inputs {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			topo, err := Compile(splitFields(in))
			require.NoError(t, err)

			again, err := Compile(topo.Request.Args())
			require.NoError(t, err)

			if diff := cmp.Diff(topo.Units, again.Units); diff != "" {
				t.Errorf("round trip changed unit order (-first +second):\n%s", diff)
			}
			assert.Equal(t, topo.Type, again.Type)
			assert.Equal(t, len(topo.Request.Groups), len(again.Request.Groups))
		})
	}
}

func TestCompile_DivisibilityHolds(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"n1:/a n2:/b n3:/c",
		"replica 2 a:1 b:1 a:2 b:2 a:3 b:3",
		"disperse 3 redundancy 1 a:1 b:1 c:1 a:2 b:2 c:2 a:3 b:3 c:3",
	}

	for _, in := range inputs {
		topo, err := Compile(splitFields(in))
		require.NoError(t, err, in)
		assert.Zero(t, len(topo.Units)%topo.GroupSize(), in)

		if topo.Disperse != nil {
			d := topo.Disperse
			assert.Greater(t, d.GroupSize(), 2*d.Redundancy)
			assert.Positive(t, d.Redundancy)
			assert.Positive(t, d.Data)
			assert.Zero(t, d.Data%2)
		}
	}
}
