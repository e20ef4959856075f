package main

import (
	"time"

	"github.com/sells-group/market-research-cli/internal/config"
	"github.com/sells-group/market-research-cli/internal/fetcher"
	"github.com/sells-group/market-research-cli/pkg/converter"
	"github.com/sells-group/market-research-cli/pkg/webhook"
)

func newWebhookClient(c *config.Config) webhook.Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:         c.Webhook.UserAgent,
		Timeout:           time.Duration(c.Webhook.TimeoutSecs) * time.Second,
		RequestsPerSecond: c.Webhook.RequestsPerSecond,
	})
	return webhook.NewClient(c.Webhook.URL, webhook.WithFetcher(f))
}

func newConverterFetcher(c *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.Webhook.UserAgent,
		Timeout:   time.Duration(c.Converter.TimeoutSecs) * time.Second,
	})
}

func newConverterClient(c *config.Config, f fetcher.Fetcher) converter.Client {
	return converter.NewClient(c.Converter.URL, converter.WithFetcher(f))
}
