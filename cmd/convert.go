package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-research-cli/internal/config"
	"github.com/sells-group/market-research-cli/pkg/converter"
)

var convertDownload string

var convertCmd = &cobra.Command{
	Use:   "convert <file.skp>",
	Short: "Upload a SketchUp model for conversion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("convert"); err != nil {
			return err
		}
		ctx, stop := interruptible(cmd)
		defer stop()

		return runConvert(ctx, cfg, args[0], convertDownload, os.Stdout)
	},
}

func runConvert(ctx context.Context, c *config.Config, path, download string, stdout io.Writer) error {
	if err := converter.ValidateFilename(path); err != nil {
		return err
	}

	f := newConverterFetcher(c)
	resp, err := converter.ConvertFile(ctx, newConverterClient(c, f), path)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(stdout, resp.DownloadURL); err != nil {
		return err
	}

	if download == "" {
		return nil
	}
	n, err := f.DownloadToFile(ctx, resp.DownloadURL, download)
	if err != nil {
		return eris.Wrap(err, "convert: download result")
	}
	zap.L().Info("converted file downloaded",
		zap.String("path", download),
		zap.Int64("bytes", n),
	)
	return nil
}

func init() {
	convertCmd.Flags().StringVar(&convertDownload, "download", "", "save the converted file to this path")
	rootCmd.AddCommand(convertCmd)
}
