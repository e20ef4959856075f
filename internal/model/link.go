package model

// Link is a result URL. Two links are the same only if their strings match
// exactly.
type Link = string

// RankedLink pairs a link with the zero-based position at which it was first
// discovered during search collection. DiscoveryOrder is fixed at
// classification time.
type RankedLink struct {
	Link           Link `json:"link"`
	DiscoveryOrder int  `json:"discovery_order"`
}

// TieredLink is a ranked link tagged with its tier, the unit of work for the
// parse stage.
type TieredLink struct {
	Tier Tier `json:"tier"`
	RankedLink
}

// TierGroups holds the classifier output: ranked links per tier, each in the
// order the classification service returned them.
type TierGroups struct {
	Tier1 []RankedLink `json:"tier_1"`
	Tier2 []RankedLink `json:"tier_2"`
	Tier3 []RankedLink `json:"tier_3"`
}

// Get returns the links for tier t.
func (g TierGroups) Get(t Tier) []RankedLink {
	switch t {
	case Tier1:
		return g.Tier1
	case Tier2:
		return g.Tier2
	case Tier3:
		return g.Tier3
	}
	return nil
}

// Len returns the total number of links across all tiers.
func (g TierGroups) Len() int {
	return len(g.Tier1) + len(g.Tier2) + len(g.Tier3)
}

// Flatten returns every link tagged with its tier, tier 1 first and each tier
// in classifier order.
func (g TierGroups) Flatten() []TieredLink {
	out := make([]TieredLink, 0, g.Len())
	for _, t := range AllTiers() {
		for _, rl := range g.Get(t) {
			out = append(out, TieredLink{Tier: t, RankedLink: rl})
		}
	}
	return out
}
