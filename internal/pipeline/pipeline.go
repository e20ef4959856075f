package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-research-cli/internal/config"
	"github.com/sells-group/market-research-cli/internal/model"
	"github.com/sells-group/market-research-cli/pkg/webhook"
)

// Pipeline runs one search: query resolution, link collection,
// classification, then batched parsing. Stages run strictly in order.
type Pipeline struct {
	cfg      config.PipelineConfig
	client   webhook.Client
	observer func(model.PipelineState)
	progress ProgressFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver registers fn to receive every state snapshot.
func WithObserver(fn func(model.PipelineState)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// WithProgress registers fn to receive each in-flight parse chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// New creates a Pipeline backed by the given webhook client.
func New(cfg config.PipelineConfig, client webhook.Client, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, client: client}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveSearchQuery returns the search string for q. Topic-only queries are
// searched verbatim; otherwise the webhook builds the string.
func (p *Pipeline) ResolveSearchQuery(ctx context.Context, q model.Query) (string, error) {
	if !q.NeedsResolution() {
		return q.Topic, nil
	}
	s, err := p.client.GetSearchQuery(ctx, webhook.SearchQueryRequest{
		Topic:   q.Topic,
		Year:    q.Year,
		Country: q.Country,
		Region:  q.Region,
	})
	if err != nil {
		return "", eris.Wrap(err, "pipeline: resolve search query")
	}
	return s, nil
}

// Run executes a full search for q, collecting up to n links. The returned
// state is final: StageDone on success, StageFailed alongside a non-nil
// error otherwise. The parse cache lives exactly as long as this call.
func (p *Pipeline) Run(ctx context.Context, q model.Query, n int) (model.PipelineState, error) {
	state := model.NewPipelineState(q)
	log := zap.L().With(zap.String("run_id", state.RunID), zap.String("topic", q.Topic))
	log.Info("pipeline: starting search", zap.Int("count", n))
	p.emit(state)

	phase := func(stage model.Stage, fn func() error) error {
		state = state.WithStage(stage)
		p.emit(state)

		start := time.Now()
		err := fn()
		duration := time.Since(start).Milliseconds()
		if err != nil {
			log.Error("pipeline: phase failed",
				zap.String("phase", string(stage)),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
			state = state.WithError(err)
			p.emit(state)
			return err
		}
		log.Info("pipeline: phase complete",
			zap.String("phase", string(stage)),
			zap.Int64("duration_ms", duration),
		)
		return nil
	}

	err := phase(model.StageResolvingQuery, func() error {
		s, err := p.ResolveSearchQuery(ctx, q)
		if err != nil {
			return err
		}
		state = state.WithSearchQuery(s)
		return nil
	})
	if err != nil {
		return state, err
	}

	err = phase(model.StageCollecting, func() error {
		links, err := CollectLinks(ctx, p.client, state.SearchQuery, n, CollectOptions{
			MaxResults: p.cfg.MaxResults,
			MaxPages:   p.cfg.MaxSearchPages,
		})
		if err != nil {
			return err
		}
		state = state.WithLinks(links)
		return nil
	})
	if err != nil {
		return state, err
	}

	err = phase(model.StageClassifying, func() error {
		groups, err := ClassifyLinks(ctx, p.client, state.Links, q.Topic)
		if err != nil {
			return err
		}
		state = state.WithTiers(groups)
		return nil
	})
	if err != nil {
		return state, err
	}

	cache := NewParseCache(p.cfg.CacheTTL())
	defer cache.Flush()
	parser := NewPageParser(p.client, cache, p.cfg.ParseTimeout())

	err = phase(model.StageParsing, func() error {
		rows, err := ParseAll(ctx, parser, state.Tiers, p.cfg.ChunkSize, func(inFlight []model.TieredLink) {
			state = state.WithInFlight(inFlight)
			p.emit(state)
			if p.progress != nil {
				p.progress(inFlight)
			}
		})
		if err != nil {
			return err
		}
		state = state.WithResults(rows)
		return nil
	})
	if err != nil {
		return state, err
	}

	state = state.WithStage(model.StageDone)
	p.emit(state)
	log.Info("pipeline: search complete",
		zap.Int("links", len(state.Links)),
		zap.Int("results", len(state.Results)),
	)
	return state, nil
}

func (p *Pipeline) emit(s model.PipelineState) {
	if p.observer != nil {
		p.observer(s)
	}
}
