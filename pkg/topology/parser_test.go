// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, s string) (*Request, error) {
	t.Helper()

	tokens, err := Tokenize(strings.Fields(s))
	require.NoError(t, err)
	return Parse(tokens)
}

func TestParse_Replica(t *testing.T) {
	t.Parallel()

	req, err := parseString(t, "replica 3 n1:/a n2:/b n3:/c")
	require.NoError(t, err)
	require.Len(t, req.Groups, 1)

	g := req.Groups[0]
	assert.Equal(t, KindReplica, g.Arrangement.Kind)
	n, ok := g.Arrangement.Count.Get()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"n1:/a", "n2:/b", "n3:/c"}, g.Units)
}

func TestParse_ReplicaSplitsRunIntoGroups(t *testing.T) {
	t.Parallel()

	req, err := parseString(t, "replica 2 n1:/a n2:/a n1:/b n2:/b n1:/c n2:/c")
	require.NoError(t, err)
	require.Len(t, req.Groups, 3)
	assert.Equal(t, []string{"n1:/a", "n2:/a"}, req.Groups[0].Units)
	assert.Equal(t, []string{"n1:/b", "n2:/b"}, req.Groups[1].Units)
	assert.Equal(t, []string{"n1:/c", "n2:/c"}, req.Groups[2].Units)
}

func TestParse_Plain(t *testing.T) {
	t.Parallel()

	req, err := parseString(t, "n1:/a n2:/b n3:/c")
	require.NoError(t, err)
	require.Len(t, req.Groups, 3)
	for i, g := range req.Groups {
		assert.Equal(t, KindPlain, g.Arrangement.Kind, "group %d", i)
		assert.Equal(t, 1, g.Size(), "group %d", i)
	}
}

func TestParse_Disperse(t *testing.T) {
	t.Parallel()

	t.Run("count and redundancy", func(t *testing.T) {
		t.Parallel()

		req, err := parseString(t, "disperse 3 redundancy 1 n1:/a n2:/a n3:/a n1:/b n2:/b n3:/b")
		require.NoError(t, err)
		require.Len(t, req.Groups, 2)

		data, redundancy, ok := req.Groups[1].Disperse()
		require.True(t, ok)
		assert.Equal(t, 2, data)
		assert.Equal(t, 1, redundancy)
	})

	t.Run("count deferred", func(t *testing.T) {
		t.Parallel()

		req, err := parseString(t, "disperse redundancy 2 n1:/a n2:/a n3:/a n4:/a n5:/a n6:/a")
		require.NoError(t, err)
		require.Len(t, req.Groups, 1)
		assert.False(t, req.Groups[0].Arrangement.Count.IsSet())

		data, redundancy, ok := req.Groups[0].Disperse()
		require.True(t, ok)
		assert.Equal(t, 4, data)
		assert.Equal(t, 2, redundancy)
	})

	t.Run("redundancy deferred", func(t *testing.T) {
		t.Parallel()

		req, err := parseString(t, "disperse 3 n1:/a n2:/a n3:/a")
		require.NoError(t, err)
		require.Len(t, req.Groups, 1)
		assert.False(t, req.Groups[0].Arrangement.Redundancy.IsSet())

		_, _, ok := req.Groups[0].Disperse()
		assert.False(t, ok)
	})
}

func TestParse_StripeIsSyntacticallyAccepted(t *testing.T) {
	t.Parallel()

	req, err := parseString(t, "stripe 2 n1:/a n2:/a")
	require.NoError(t, err)
	require.Len(t, req.Groups, 1)
	assert.Equal(t, KindStripe, req.Groups[0].Arrangement.Kind)
}

func TestParse_MixedKindsLeftToValidator(t *testing.T) {
	t.Parallel()

	req, err := parseString(t, "n0:/x replica 2 n1:/a n2:/a disperse 3 redundancy 1 n1:/b n2:/b n3:/b")
	require.NoError(t, err)
	require.Len(t, req.Groups, 3)
	assert.Equal(t, KindPlain, req.Groups[0].Arrangement.Kind)
	assert.Equal(t, KindReplica, req.Groups[1].Arrangement.Kind)
	assert.Equal(t, KindDisperse, req.Groups[2].Arrangement.Kind)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		reason string
		token  string // Raw of the offending token, empty when none
	}{
		{"incomplete group", "replica 3 n1:/a n2:/b", ReasonIncompleteGroup, "n2:/b"},
		{"incomplete second group", "replica 2 n1:/a n2:/b n3:/c", ReasonIncompleteGroup, "n3:/c"},
		{"stray number", "3 n1:/a", ReasonUnexpectedNumber, "3"},
		{"number after group", "replica 2 n1:/a n2:/b 4", ReasonUnexpectedNumber, "4"},
		{"extra count", "replica 2 2 n1:/a n2:/b", ReasonUnexpectedNumber, "2"},
		{"replica without count", "replica n1:/a", ReasonMissingCount, "replica"},
		{"stripe without count", "stripe n1:/a", ReasonMissingCount, "stripe"},
		{"redundancy without count", "disperse 3 redundancy n1:/a", ReasonMissingCount, "redundancy"},
		{"zero replica", "replica 0 n1:/a", ReasonInvalidCount, "0"},
		{"zero disperse", "disperse 0 n1:/a", ReasonInvalidCount, "0"},
		{"replica past int32", "replica 2147483648 a:/1", ReasonInvalidCount, "2147483648"},
		{"disperse past int32", "disperse 4294967296 a:/1", ReasonInvalidCount, "4294967296"},
		{"redundancy past int32", "disperse 3 redundancy 2147483648 a:/1 b:/1 c:/1", ReasonInvalidCount, "2147483648"},
		{"count past uint64", "stripe 99999999999999999999999 a:/1", ReasonInvalidCount, "99999999999999999999999"},
		{"conflicting arrangement", "replica 3 disperse 3 n1:/a n2:/b n3:/c", ReasonConflictingArrangement, "disperse"},
		{"redundancy first", "redundancy 1 n1:/a", ReasonMisplacedRedundancy, "redundancy"},
		{"duplicate redundancy", "disperse 3 redundancy 1 redundancy 1 n1:/a n2:/b n3:/c", ReasonDuplicateRedundancy, "redundancy"},
		{"arrangement at end", "n1:/a replica 2", ReasonNoUnits, "replica"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseString(t, tt.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %T: %v", err, err)
			assert.Equal(t, tt.reason, parseErr.Reason)
			require.NotNil(t, parseErr.Token)
			assert.Equal(t, tt.token, parseErr.Token.Raw)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	req, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, req.Groups)
}
