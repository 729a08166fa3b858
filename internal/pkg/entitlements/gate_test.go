package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(rules map[string]string) (*Gate, *fakeSource) {
	src := &fakeSource{rules: rules}
	return NewGate(NewRuleStoreWith(src, newFakeClockCache())), src
}

func TestAllowsDefaultsWhenRuleAbsent(t *testing.T) {
	gate, _ := newTestGate(nil)

	got, err := gate.Allows("free", FeatureTeamInvitations, false)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = gate.Allows("free", FeatureTeamInvitations, true)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestAllowsTruthyValues(t *testing.T) {
	for _, value := range []string{"1", "true", "yes", "on", "TRUE", "On", "YES"} {
		gate, _ := newTestGate(map[string]string{"pro/team.invitations": value})
		got, err := gate.Allows("pro", FeatureTeamInvitations, false)
		require.NoError(t, err)
		assert.True(t, got, "value %q should allow", value)
	}
}

func TestAllowsFalsyAndMalformedValues(t *testing.T) {
	for _, value := range []string{"0", "false", "no", "off", "", "enabled", "2", "ja"} {
		gate, _ := newTestGate(map[string]string{"pro/team.invitations": value})
		got, err := gate.Allows("pro", FeatureTeamInvitations, true)
		require.NoError(t, err)
		assert.False(t, got, "value %q should deny even with a true default", value)
	}
}

func TestLimitDefaultsWhenRuleAbsent(t *testing.T) {
	gate, _ := newTestGate(nil)

	got, err := gate.Limit("free", LimitBillboardsMax, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	def := 3
	got, err = gate.Limit("free", LimitBillboardsMax, &def)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)
}

func TestLimitValues(t *testing.T) {
	tests := []struct {
		value string
		want  *int
	}{
		{value: "unlimited", want: nil},
		{value: "UNLIMITED", want: nil},
		{value: "15", want: intPtr(15)},
		{value: " 25 ", want: intPtr(25)},
		{value: "abc", want: intPtr(0)},
		{value: "", want: intPtr(0)},
		{value: "-3", want: intPtr(-3)},
	}

	for _, tt := range tests {
		gate, _ := newTestGate(map[string]string{"pro/billboards.max": tt.value})
		got, err := gate.Limit("pro", LimitBillboardsMax, nil)
		require.NoError(t, err)
		if tt.want == nil {
			assert.Nil(t, got, "value %q", tt.value)
		} else {
			require.NotNil(t, got, "value %q", tt.value)
			assert.Equal(t, *tt.want, *got, "value %q", tt.value)
		}
	}
}

func TestParseLimitValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "15", want: 15},
		{in: "15 boards", want: 15},
		{in: "abc", want: 0},
		{in: "", want: 0},
		{in: "-42", want: -42},
		{in: "+7", want: 7},
		{in: "-", want: 0},
	}
	for _, tt := range tests {
		if got := parseLimitValue(tt.in); got != tt.want {
			t.Fatalf("parseLimitValue(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGateErrorsPropagate(t *testing.T) {
	src := &fakeSource{err: assert.AnError}
	gate := NewGate(NewRuleStoreWith(src, newFakeClockCache()))

	_, err := gate.Allows("pro", FeatureTeamInvitations, true)
	assert.Error(t, err)

	_, err = gate.Limit("pro", LimitBillboardsMax, nil)
	assert.Error(t, err)
}

func intPtr(n int) *int { return &n }
