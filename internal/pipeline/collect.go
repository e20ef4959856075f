package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-research-cli/internal/model"
	"github.com/sells-group/market-research-cli/pkg/webhook"
)

// CollectOptions bounds link collection.
type CollectOptions struct {
	// MaxResults caps the requested count.
	MaxResults int
	// MaxPages caps the number of search calls per collection.
	MaxPages int
}

// CollectLinks pages through webhook search results until it holds n unique
// links, in discovery order. The start offset advances by the number of
// items each page returned, so duplicate-only pages still move forward.
// Collection stops early, without error, when a page comes back empty or
// after MaxPages calls; the result then holds fewer than n links.
func CollectLinks(ctx context.Context, client webhook.Client, query string, n int, opts CollectOptions) ([]model.Link, error) {
	if n < 1 {
		return nil, eris.Errorf("pipeline: result count must be positive, got %d", n)
	}
	if opts.MaxResults > 0 && n > opts.MaxResults {
		zap.L().Warn("collect: clamping result count",
			zap.Int("requested", n),
			zap.Int("max", opts.MaxResults),
		)
		n = opts.MaxResults
	}
	maxPages := opts.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	links := make([]model.Link, 0, n)
	seen := make(map[model.Link]struct{}, n)
	start := 0

	for page := 1; len(links) < n; page++ {
		if page > maxPages {
			zap.L().Warn("collect: page limit reached before target count",
				zap.Int("pages", maxPages),
				zap.Int("collected", len(links)),
				zap.Int("target", n),
			)
			break
		}

		resp, err := client.Search(ctx, query, start)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: search at offset %d", start)
		}
		if len(resp.Items) == 0 {
			zap.L().Warn("collect: search exhausted before target count",
				zap.Int("collected", len(links)),
				zap.Int("target", n),
			)
			break
		}

		added := 0
		for _, item := range resp.Items {
			if item.Link == "" {
				continue
			}
			if _, dup := seen[item.Link]; dup {
				continue
			}
			seen[item.Link] = struct{}{}
			links = append(links, item.Link)
			added++
		}

		zap.L().Debug("collect: search page",
			zap.Int("offset", start),
			zap.Int("returned", len(resp.Items)),
			zap.Int("new", added),
			zap.Int("total", len(links)),
		)

		start += len(resp.Items)
	}

	if len(links) > n {
		links = links[:n]
	}
	return links, nil
}
