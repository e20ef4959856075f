package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/market-research-cli/internal/model"
)

func testReport() *Report {
	ok := result(model.Tier1, 0, "https://stats.gov/solar")
	ok.FutureMarketSize = "$9B by 2030"
	ok.Quotes = []string{"grew 12%", "a | b"}

	failed := model.ResultRow{
		TieredLink: model.TieredLink{Tier: model.Tier3, RankedLink: model.RankedLink{Link: "https://forum.example/t", DiscoveryOrder: 1}},
		ParsedPage: model.SentinelPage(model.SentinelTimeout),
	}

	return &Report{
		RunID:       "run-1",
		Query:       model.Query{Topic: "solar", Year: "2024"},
		SearchQuery: "solar market size 2024",
		Rows:        []model.ResultRow{ok, failed},
	}
}

func TestNewWriter(t *testing.T) {
	for _, f := range Formats() {
		w, err := NewWriter(string(f), &bytes.Buffer{})
		require.NoError(t, err, f)
		assert.NotNil(t, w)
	}

	w, err := NewWriter("", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &MarkdownWriter{}, w)

	_, err = NewWriter("csv", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMarkdownWriter_Document(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("markdown", &buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(testReport()))

	out := buf.String()
	assert.Contains(t, out, "# Market Research: solar")
	assert.Contains(t, out, "solar market size 2024")
	assert.Contains(t, out, "Tier 1 (government)")
	assert.Contains(t, out, "Tier 3 (social)")
	assert.NotContains(t, out, "Tier 2 (")
	assert.Contains(t, out, "https://stats.gov/solar")
	assert.Contains(t, out, `\|`)
	assert.Contains(t, out, model.SentinelTimeout)
}

func TestMarkdownWriter_TableOnly(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("table", &buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(testReport()))

	out := buf.String()
	assert.NotContains(t, out, "# Market Research")
	assert.Contains(t, out, "https://forum.example/t")
	assert.Contains(t, out, "$9B by 2030")
}

func TestMarkdownWriter_NoResults(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("table", &buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(&Report{Query: model.Query{Topic: "x"}}))
	assert.Contains(t, buf.String(), "No results.")
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("json", &buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(testReport()))

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "solar", doc.Topic)
	assert.Equal(t, "2024", doc.Year)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, 1, doc.Results[0].Tier)
	assert.Equal(t, "government", doc.Results[0].TierLabel)
	assert.Equal(t, []string{model.SentinelTimeout}, doc.Results[1].Quotes)
}

func TestJSONWriter_EmptyQuotesIsArray(t *testing.T) {
	r := &Report{Rows: []model.ResultRow{{TieredLink: model.TieredLink{Tier: model.Tier2}}}}

	var buf bytes.Buffer
	require.NoError(t, (&JSONWriter{output: &buf}).Write(r))
	assert.Contains(t, buf.String(), `"quotes": []`)
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("yaml", &buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(testReport()))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, "https://forum.example/t", doc.Results[1].Link)
	assert.Equal(t, 3, doc.Results[1].Tier)
	assert.Equal(t, []string{"grew 12%", "a | b"}, doc.Results[0].Quotes)
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("xlsx", &buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(testReport()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Link", sheet.Rows[0].Cells[3].Value)
	assert.Equal(t, "1", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "https://stats.gov/solar", sheet.Rows[1].Cells[3].Value)
	assert.Equal(t, "2", sheet.Rows[2].Cells[2].Value)
	assert.Equal(t, model.SentinelTimeout, sheet.Rows[2].Cells[4].Value)
}

func TestFromState(t *testing.T) {
	s := model.NewPipelineState(model.Query{Topic: "solar"}).
		WithSearchQuery("solar").
		WithResults([]model.ResultRow{
			result(model.Tier2, 1, "b"),
			result(model.Tier1, 0, "a"),
		})

	r := FromState(s, ViewOptions{Tiers: []model.Tier{model.Tier1}})
	assert.Equal(t, s.RunID, r.RunID)
	assert.Equal(t, []string{"a"}, links(r.Rows))
	assert.Len(t, s.Results, 2)
}
