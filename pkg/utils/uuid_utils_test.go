package utils

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDv7_IDsSortInCreationOrder(t *testing.T) {
	ids := make([]string, 0, 64)
	for i := 0; i < 64; i++ {
		id := GenerateUUIDv7()
		require.Equal(t, uuid.Version(7), id.Version())
		ids = append(ids, id.String())
	}

	// ledger rows keyed by these ids list oldest first when ordered by id
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Len(t, uniqueStrings(ids), len(ids))
}

func TestGenerateUUIDv7_FallsBackToRandomID(t *testing.T) {
	orig := newUUIDv7
	t.Cleanup(func() { newUUIDv7 = orig })
	newUUIDv7 = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("clock unavailable")
	}

	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func uniqueStrings(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}
