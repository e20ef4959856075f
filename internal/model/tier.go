package model

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Tier is the trust/priority class the classification service assigns to a
// link. The zero value is invalid.
type Tier int

const (
	Tier1 Tier = 1 // government and official statistics
	Tier2 Tier = 2 // press and market reports
	Tier3 Tier = 3 // social and user-generated content
)

// AllTiers returns every tier in priority order.
func AllTiers() []Tier {
	return []Tier{Tier1, Tier2, Tier3}
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Tier1, Tier2, Tier3:
		return true
	}
	return false
}

// String returns the tier number as used in filters ("1", "2", "3").
func (t Tier) String() string {
	return strconv.Itoa(int(t))
}

// Label returns a human-readable name for the tier.
func (t Tier) Label() string {
	switch t {
	case Tier1:
		return "government"
	case Tier2:
		return "press/report"
	case Tier3:
		return "social"
	}
	return "unknown"
}

// ParseTier accepts "1", "2", "3" and the webhook keys "tier_1".."tier_3".
func ParseTier(s string) (Tier, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "tier_")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("model: invalid tier %q", s)
	}
	t := Tier(n)
	if !t.Valid() {
		return 0, eris.Errorf("model: tier %d out of range", n)
	}
	return t, nil
}
