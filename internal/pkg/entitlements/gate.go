package entitlements

import "strings"

// Gate answers "is feature X allowed for plan P" and "what is the numeric
// limit for key K under plan P" against the cached rule store. It never
// mutates rule data.
type Gate struct {
	store *RuleStore
}

func NewGate(store *RuleStore) *Gate {
	return &Gate{store: store}
}

// Allows evaluates a boolean capability flag. An absent rule returns def.
// The stored value counts as true iff it lowercases to one of
// "1", "true", "yes" or "on"; anything else, including "0" and "false",
// is false. Malformed values are not errors.
func (g *Gate) Allows(planID string, key FeatureKey, def bool) (bool, error) {
	raw, ok, err := g.store.Get(planID, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	default:
		return false, nil
	}
}

// Limit evaluates a numeric limit. nil is the "unlimited / no cap" sentinel.
// An absent rule returns def; a stored "unlimited" returns nil; any other
// value is parsed with parseLimitValue.
func (g *Gate) Limit(planID string, key FeatureKey, def *int) (*int, error) {
	raw, ok, err := g.store.Get(planID, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	if strings.EqualFold(strings.TrimSpace(raw), "unlimited") {
		return nil, nil
	}
	n := parseLimitValue(raw)
	return &n, nil
}

// Get exposes the raw cached value for (planID, key).
func (g *Gate) Get(planID string, key FeatureKey) (string, bool, error) {
	return g.store.Get(planID, key)
}

// parseLimitValue reads an optionally signed leading integer and ignores any
// trailing garbage; a value with no leading digits yields 0. This permissive
// cast is a deliberate compatibility decision: tightening it would change
// observable plan enforcement for existing rule rows.
func parseLimitValue(raw string) int {
	s := strings.TrimSpace(raw)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
