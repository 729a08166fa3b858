package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known(FeatureTeamInvitations))
	assert.True(t, Known(LimitBillboardsMax))
	assert.False(t, Known(FeatureKey("made.up")))
	assert.False(t, Known(FeatureKey("")))
}

func TestLookupKinds(t *testing.T) {
	f, ok := Lookup(FeatureContractExport)
	assert.True(t, ok)
	assert.Equal(t, KindBool, f.Kind)

	f, ok = Lookup(LimitTeamMembersMax)
	assert.True(t, ok)
	assert.Equal(t, KindLimit, f.Kind)
}

func TestCatalogSortedAndComplete(t *testing.T) {
	all := Catalog()
	assert.Len(t, all, len(catalog))
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1].Key), string(all[i].Key))
	}
	for _, f := range all {
		assert.NotEmpty(t, f.Description)
	}
}
