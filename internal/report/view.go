package report

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/market-research-cli/internal/model"
)

// SortKey selects the column results are ordered by.
type SortKey string

const (
	SortDiscovery SortKey = "discovery"
	SortTier      SortKey = "tier"
)

// ParseSortKey accepts "discovery" (alias "google") and "tier". An empty
// string selects discovery order.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discovery", "google":
		return SortDiscovery, nil
	case "tier":
		return SortTier, nil
	}
	return "", eris.Errorf("report: unknown sort key %q", s)
}

// ParseTierFilter parses a comma-separated tier list such as "1,3". An empty
// string selects every tier.
func ParseTierFilter(s string) ([]model.Tier, error) {
	var tiers []model.Tier
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := model.ParseTier(part)
		if err != nil {
			return nil, eris.Wrap(err, "report: parse tier filter")
		}
		if !slices.Contains(tiers, t) {
			tiers = append(tiers, t)
		}
	}
	return tiers, nil
}

// ViewOptions controls which rows are shown and in what order.
type ViewOptions struct {
	// Tiers limits rows to these tiers. Empty means all tiers.
	Tiers  []model.Tier
	SortBy SortKey
	Desc   bool
}

// View returns the rows matching opts.Tiers, ordered by opts.SortBy. The sort
// is stable, so rows with equal keys keep their input order. rows is never
// modified.
func View(rows []model.ResultRow, opts ViewOptions) []model.ResultRow {
	out := make([]model.ResultRow, 0, len(rows))
	for _, r := range rows {
		if len(opts.Tiers) == 0 || slices.Contains(opts.Tiers, r.Tier) {
			out = append(out, r)
		}
	}

	key := func(r model.ResultRow) int {
		if opts.SortBy == SortTier {
			return int(r.Tier)
		}
		return r.DiscoveryOrder
	}

	slices.SortStableFunc(out, func(a, b model.ResultRow) int {
		if opts.Desc {
			return key(b) - key(a)
		}
		return key(a) - key(b)
	})
	return out
}
