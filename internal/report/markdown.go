package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/sells-group/market-research-cli/internal/model"
)

var tableHeader = []string{"#", "Tier", "Link", "Current Size", "Future Size", "Quotes"}

// MarkdownWriter renders results as markdown. In table mode only the result
// table is written; otherwise a full document with a summary and one section
// per tier.
type MarkdownWriter struct {
	output    io.Writer
	tableOnly bool
}

// Write renders r.
func (w *MarkdownWriter) Write(r *Report) error {
	md := markdown.NewMarkdown(w.output)

	if w.tableOnly {
		if len(r.Rows) == 0 {
			md.PlainText("No results.")
			return md.Build()
		}
		md.Table(markdown.TableSet{Header: tableHeader, Rows: tableRows(r.Rows)})
		return md.Build()
	}

	md.H1("Market Research: " + r.Query.Topic)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   summaryRows(r),
	})
	md.PlainText("")

	for _, t := range model.AllTiers() {
		var rows []model.ResultRow
		for _, rr := range r.Rows {
			if rr.Tier == t {
				rows = append(rows, rr)
			}
		}
		if len(rows) == 0 {
			continue
		}
		md.H2("Tier " + t.String() + " (" + t.Label() + ")")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: tableHeader, Rows: tableRows(rows)})
		md.PlainText("")
	}

	if len(r.Rows) == 0 {
		md.PlainText("No results.")
	}
	return md.Build()
}

func summaryRows(r *Report) [][]string {
	rows := [][]string{
		{"Topic", escapeCell(r.Query.Topic)},
	}
	if r.Query.Year != "" {
		rows = append(rows, []string{"Year", escapeCell(r.Query.Year)})
	}
	if r.Query.Country != "" {
		rows = append(rows, []string{"Country", escapeCell(r.Query.Country)})
	}
	if r.Query.Region != "" {
		rows = append(rows, []string{"Region", escapeCell(r.Query.Region)})
	}

	failed := 0
	for _, rr := range r.Rows {
		if rr.IsSentinel() {
			failed++
		}
	}
	return append(rows,
		[]string{"Search Query", escapeCell(r.SearchQuery)},
		[]string{"Results", strconv.Itoa(len(r.Rows))},
		[]string{"Unparsed", strconv.Itoa(failed)},
		[]string{"Run ID", "`" + r.RunID + "`"},
	)
}

func tableRows(rows []model.ResultRow) [][]string {
	out := make([][]string, len(rows))
	for i, rr := range rows {
		out[i] = []string{
			displayOrder(rr),
			rr.Tier.String(),
			escapeCell(rr.Link),
			escapeCell(rr.CurrentMarketSize),
			escapeCell(rr.FutureMarketSize),
			escapeCell(strings.Join(rr.Quotes, " / ")),
		}
	}
	return out
}

// escapeCell keeps a value on one table line and out of the column syntax.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
