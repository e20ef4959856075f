package pipeline

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-research-cli/internal/model"
	"github.com/sells-group/market-research-cli/pkg/webhook"
)

// ClassifyLinks asks the webhook to group links into tiers and tags each
// returned link with its position in links, matched by exact string. A link
// that shows up in several tiers keeps the same discovery order in each; a
// link the service invented is dropped.
func ClassifyLinks(ctx context.Context, client webhook.Client, links []model.Link, topic string) (model.TierGroups, error) {
	resp, err := client.GroupTiers(ctx, links, topic)
	if err != nil {
		return model.TierGroups{}, eris.Wrap(err, "pipeline: group tiers")
	}

	rank := func(tier model.Tier, tierLinks []string) []model.RankedLink {
		out := make([]model.RankedLink, 0, len(tierLinks))
		for _, l := range tierLinks {
			idx := slices.Index(links, l)
			if idx < 0 {
				zap.L().Warn("classify: dropping link not in search results",
					zap.String("link", l),
					zap.Stringer("tier", tier),
				)
				continue
			}
			out = append(out, model.RankedLink{Link: l, DiscoveryOrder: idx})
		}
		return out
	}

	groups := model.TierGroups{
		Tier1: rank(model.Tier1, resp.Tier1),
		Tier2: rank(model.Tier2, resp.Tier2),
		Tier3: rank(model.Tier3, resp.Tier3),
	}

	zap.L().Info("classify: links grouped",
		zap.Int("tier_1", len(groups.Tier1)),
		zap.Int("tier_2", len(groups.Tier2)),
		zap.Int("tier_3", len(groups.Tier3)),
	)
	return groups, nil
}
