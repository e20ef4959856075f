package model

// Sentinel values substituted for a parse result after a recoverable failure.
const (
	SentinelFailed  = "Failed"
	SentinelTimeout = "Timeout"
)

// ParsedPage is the market-size extraction returned by the webhook for one
// link.
type ParsedPage struct {
	CurrentMarketSize string   `json:"current_market_size"`
	FutureMarketSize  string   `json:"future_market_size,omitempty"`
	Quotes            []string `json:"quotes"`
}

// SentinelPage returns a ParsedPage with every field set to s.
func SentinelPage(s string) ParsedPage {
	return ParsedPage{
		CurrentMarketSize: s,
		FutureMarketSize:  s,
		Quotes:            []string{s},
	}
}

// IsSentinel reports whether p is a Failed or Timeout placeholder.
func (p ParsedPage) IsSentinel() bool {
	return p.CurrentMarketSize == SentinelFailed || p.CurrentMarketSize == SentinelTimeout
}

// ResultRow joins a tiered link with its parsed page for display.
type ResultRow struct {
	TieredLink
	ParsedPage
}
