package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/market-research-cli/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatTable, FormatMarkdown, FormatJSON, FormatYAML, FormatXLSX}
}

// Report is the rendered outcome of one search run.
type Report struct {
	RunID       string
	Query       model.Query
	SearchQuery string
	Rows        []model.ResultRow
}

// FromState projects the final pipeline state through the view options.
func FromState(s model.PipelineState, opts ViewOptions) *Report {
	return &Report{
		RunID:       s.RunID,
		Query:       s.Query,
		SearchQuery: s.SearchQuery,
		Rows:        View(s.Results, opts),
	}
}

// Writer renders a report to its destination.
type Writer interface {
	Write(r *Report) error
}

// NewWriter returns the writer for format, outputting to w.
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case "", FormatTable:
		return &MarkdownWriter{output: w, tableOnly: true}, nil
	case FormatMarkdown:
		return &MarkdownWriter{output: w}, nil
	case FormatJSON:
		return &JSONWriter{output: w}, nil
	case FormatYAML:
		return &YAMLWriter{output: w}, nil
	case FormatXLSX:
		return &XLSXWriter{output: w}, nil
	}
	return nil, eris.Errorf("report: unknown format %q", format)
}

// row is the flat serialized form of a result.
type row struct {
	Tier              int      `json:"tier" yaml:"tier"`
	TierLabel         string   `json:"tier_label" yaml:"tier_label"`
	DiscoveryOrder    int      `json:"discovery_order" yaml:"discovery_order"`
	Link              string   `json:"link" yaml:"link"`
	CurrentMarketSize string   `json:"current_market_size" yaml:"current_market_size"`
	FutureMarketSize  string   `json:"future_market_size,omitempty" yaml:"future_market_size,omitempty"`
	Quotes            []string `json:"quotes" yaml:"quotes"`
}

type document struct {
	RunID       string `json:"run_id" yaml:"run_id"`
	Topic       string `json:"topic" yaml:"topic"`
	Year        string `json:"year,omitempty" yaml:"year,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Region      string `json:"region,omitempty" yaml:"region,omitempty"`
	SearchQuery string `json:"search_query" yaml:"search_query"`
	Results     []row  `json:"results" yaml:"results"`
}

func toDocument(r *Report) document {
	rows := make([]row, len(r.Rows))
	for i, rr := range r.Rows {
		rows[i] = toRow(rr)
	}
	return document{
		RunID:       r.RunID,
		Topic:       r.Query.Topic,
		Year:        r.Query.Year,
		Country:     r.Query.Country,
		Region:      r.Query.Region,
		SearchQuery: r.SearchQuery,
		Results:     rows,
	}
}

func toRow(rr model.ResultRow) row {
	quotes := rr.Quotes
	if quotes == nil {
		quotes = []string{}
	}
	return row{
		Tier:              int(rr.Tier),
		TierLabel:         rr.Tier.Label(),
		DiscoveryOrder:    rr.DiscoveryOrder,
		Link:              rr.Link,
		CurrentMarketSize: rr.CurrentMarketSize,
		FutureMarketSize:  rr.FutureMarketSize,
		Quotes:            quotes,
	}
}

// displayOrder is the 1-based position shown to users.
func displayOrder(rr model.ResultRow) string {
	return strconv.Itoa(rr.DiscoveryOrder + 1)
}
