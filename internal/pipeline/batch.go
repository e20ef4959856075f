package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/market-research-cli/internal/model"
)

// DefaultChunkSize is the number of pages parsed concurrently.
const DefaultChunkSize = 5

// ProgressFunc receives the links of each chunk before it is parsed, and an
// empty slice once every chunk has finished.
type ProgressFunc func(inFlight []model.TieredLink)

// ParseAll parses every link in groups, chunkSize at a time. All requests of
// a chunk start before any request of the next chunk, and rows are appended
// in chunk-input order regardless of completion order. The result always has
// groups.Len() rows unless ctx is cancelled between chunks.
func ParseAll(ctx context.Context, parser *PageParser, groups model.TierGroups, chunkSize int, progress ProgressFunc) ([]model.ResultRow, error) {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	if progress == nil {
		progress = func([]model.TieredLink) {}
	}

	work := groups.Flatten()
	rows := make([]model.ResultRow, 0, len(work))

	for start := 0; start < len(work); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return rows, eris.Wrap(err, "pipeline: parse cancelled")
		}

		end := min(start+chunkSize, len(work))
		chunk := work[start:end]
		progress(chunk)

		pages := make([]model.ParsedPage, len(chunk))
		g, gctx := errgroup.WithContext(ctx)
		for i, tl := range chunk {
			g.Go(func() error {
				pages[i] = parser.Parse(gctx, tl.Link)
				return nil
			})
		}
		_ = g.Wait() // Parse never fails

		for i, tl := range chunk {
			rows = append(rows, model.ResultRow{TieredLink: tl, ParsedPage: pages[i]})
		}

		zap.L().Debug("parse: chunk complete",
			zap.Int("chunk_start", start),
			zap.Int("chunk_size", len(chunk)),
			zap.Int("done", len(rows)),
			zap.Int("total", len(work)),
		)
	}

	progress([]model.TieredLink{})
	return rows, nil
}
