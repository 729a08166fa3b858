package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForResolvesEveryCounterKey(t *testing.T) {
	keys := []CounterKey{
		CounterBillboards,
		CounterContracts,
		CounterTeamMembers,
		CounterClients,
		CounterTemplates,
	}

	for _, key := range keys {
		t.Run(string(key), func(t *testing.T) {
			count, ok := For(key)
			assert.True(t, ok)
			assert.NotNil(t, count)
		})
	}
}

func TestForRejectsUnknownCounterKey(t *testing.T) {
	count, ok := For(CounterKey("page.views"))
	assert.False(t, ok)
	assert.Nil(t, count)
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := Snapshot{Billboards: 12, Contracts: 4, TeamMembers: 3, Clients: 9}

	out, ok := decodeSnapshot(encodeSnapshot(in))
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, ok := decodeSnapshot("not json")
	assert.False(t, ok)
}
