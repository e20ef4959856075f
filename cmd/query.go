package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/market-research-cli/internal/config"
	"github.com/sells-group/market-research-cli/internal/pipeline"
)

var queryOpts queryFlags

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the search string used for a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("query"); err != nil {
			return err
		}
		ctx, stop := interruptible(cmd)
		defer stop()

		return runQuery(ctx, cfg, queryOpts, os.Stdout)
	},
}

func runQuery(ctx context.Context, c *config.Config, flags queryFlags, stdout io.Writer) error {
	q, err := flags.query()
	if err != nil {
		return err
	}
	s, err := pipeline.New(c.Pipeline, newWebhookClient(c)).ResolveSearchQuery(ctx, q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, s)
	return err
}

func init() {
	queryOpts.register(queryCmd)
	rootCmd.AddCommand(queryCmd)
}
