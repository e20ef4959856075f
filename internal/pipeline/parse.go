package pipeline

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/market-research-cli/internal/model"
	"github.com/sells-group/market-research-cli/pkg/webhook"
)

// DefaultParseTimeout bounds a single parse_page call.
const DefaultParseTimeout = 20 * time.Second

// ErrParseTimeout is the cancellation cause attached to a parse that ran out
// of time.
var ErrParseTimeout = errors.New(model.SentinelTimeout)

// PageParser fetches market-size data per link with a bounded wait and a
// run-scoped cache.
type PageParser struct {
	client  webhook.Client
	cache   *ParseCache
	timeout time.Duration

	// inflight joins concurrent parses of the same link.
	inflight singleflight.Group
}

// NewPageParser creates a parser. A nil cache disables caching; a
// non-positive timeout uses DefaultParseTimeout.
func NewPageParser(client webhook.Client, cache *ParseCache, timeout time.Duration) *PageParser {
	if timeout <= 0 {
		timeout = DefaultParseTimeout
	}
	return &PageParser{client: client, cache: cache, timeout: timeout}
}

// Parse never fails: errors become a "Failed" sentinel page and a timeout
// becomes a "Timeout" sentinel page. Every outcome is cached, and concurrent
// calls for one link share a single request, so a link is requested at most
// once per cache lifetime.
func (p *PageParser) Parse(ctx context.Context, link model.Link) model.ParsedPage {
	if page, ok := p.cached(link); ok {
		return page
	}

	v, _, shared := p.inflight.Do(link, func() (any, error) {
		if page, ok := p.cached(link); ok {
			return page, nil
		}
		page := p.fetch(ctx, link)
		if p.cache != nil {
			p.cache.Set(link, page)
		}
		return page, nil
	})
	if shared {
		zap.L().Debug("parse: joined in-flight request", zap.String("link", link))
	}

	page := v.(model.ParsedPage)
	page.Quotes = slices.Clone(page.Quotes)
	return page
}

func (p *PageParser) cached(link model.Link) (model.ParsedPage, bool) {
	if p.cache == nil {
		return model.ParsedPage{}, false
	}
	page, ok := p.cache.Get(link)
	if ok {
		zap.L().Debug("parse: cache hit", zap.String("link", link))
	}
	return page, ok
}

func (p *PageParser) fetch(ctx context.Context, link model.Link) model.ParsedPage {
	pctx, cancel := context.WithTimeoutCause(ctx, p.timeout, ErrParseTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.ParsePage(pctx, link)
	if err != nil {
		if errors.Is(context.Cause(pctx), ErrParseTimeout) {
			zap.L().Warn("parse: timed out",
				zap.String("link", link),
				zap.Duration("timeout", p.timeout),
			)
			return model.SentinelPage(model.SentinelTimeout)
		}
		zap.L().Warn("parse: failed",
			zap.String("link", link),
			zap.Error(err),
		)
		return model.SentinelPage(model.SentinelFailed)
	}

	zap.L().Debug("parse: done",
		zap.String("link", link),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return model.ParsedPage{
		CurrentMarketSize: resp.CurrentMarketSize,
		FutureMarketSize:  resp.FutureMarketSize,
		Quotes:            resp.Quotes,
	}
}
