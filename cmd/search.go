package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-research-cli/internal/config"
	"github.com/sells-group/market-research-cli/internal/model"
	"github.com/sells-group/market-research-cli/internal/pipeline"
	"github.com/sells-group/market-research-cli/internal/report"
)

type queryFlags struct {
	topic   string
	year    string
	country string
	region  string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.topic, "topic", "", "research topic (required)")
	cmd.Flags().StringVar(&f.year, "year", "", "restrict the search to a year")
	cmd.Flags().StringVar(&f.country, "country", "", "restrict the search to a country")
	cmd.Flags().StringVar(&f.region, "region", "", "restrict the search to a region")
	_ = cmd.MarkFlagRequired("topic")
}

func (f *queryFlags) query() (model.Query, error) {
	return model.NewQuery(f.topic, f.year, f.country, f.region)
}

type searchOptions struct {
	query  queryFlags
	count  int
	tiers  string
	sort   string
	desc   bool
	format string
	output string
}

var searchOpts searchOptions

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search, classify and parse market-size sources for a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}
		ctx, stop := interruptible(cmd)
		defer stop()

		return runSearch(ctx, cfg, searchOpts, os.Stdout)
	},
}

func runSearch(ctx context.Context, c *config.Config, opts searchOptions, stdout io.Writer) error {
	q, err := opts.query.query()
	if err != nil {
		return err
	}
	tiers, err := report.ParseTierFilter(opts.tiers)
	if err != nil {
		return err
	}
	sortKey, err := report.ParseSortKey(opts.sort)
	if err != nil {
		return err
	}
	if report.Format(strings.ToLower(opts.format)) == report.FormatXLSX && opts.output == "" {
		return eris.New("search: xlsx output requires --output")
	}

	p := pipeline.New(c.Pipeline, newWebhookClient(c),
		pipeline.WithProgress(func(inFlight []model.TieredLink) {
			if len(inFlight) == 0 {
				zap.L().Info("parsing complete")
				return
			}
			links := make([]string, len(inFlight))
			for i, tl := range inFlight {
				links[i] = tl.Link
			}
			zap.L().Info("currently parsing", zap.Strings("links", links))
		}),
	)

	state, err := p.Run(ctx, q, opts.count)
	if err != nil {
		return eris.Wrap(err, "search: pipeline run")
	}

	r := report.FromState(state, report.ViewOptions{Tiers: tiers, SortBy: sortKey, Desc: opts.desc})
	return writeReport(r, opts.format, opts.output, stdout)
}

func writeReport(r *report.Report, format, path string, stdout io.Writer) error {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "search: create output file")
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	w, err := report.NewWriter(format, out)
	if err != nil {
		return err
	}
	if err := w.Write(r); err != nil {
		return err
	}

	if path != "" {
		zap.L().Info("report written",
			zap.String("path", path),
			zap.String("format", format),
			zap.Int("results", len(r.Rows)),
		)
	}
	return nil
}

func init() {
	searchOpts.query.register(searchCmd)
	searchCmd.Flags().IntVar(&searchOpts.count, "count", 20, "number of links to collect")
	searchCmd.Flags().StringVar(&searchOpts.tiers, "tiers", "", "comma-separated tiers to show (default all)")
	searchCmd.Flags().StringVar(&searchOpts.sort, "sort", "discovery", "sort by discovery or tier")
	searchCmd.Flags().BoolVar(&searchOpts.desc, "desc", false, "sort descending")
	searchCmd.Flags().StringVar(&searchOpts.format, "format", "table", "output format: table, markdown, json, yaml, xlsx")
	searchCmd.Flags().StringVarP(&searchOpts.output, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(searchCmd)
}
