package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the worksheet results are written to.
const SheetName = "results"

var xlsxHeader = []string{"Tier", "Tier Label", "Discovery Order", "Link", "Current Market Size", "Future Market Size", "Quotes"}

// XLSXWriter renders results as a single-sheet workbook.
type XLSXWriter struct {
	output io.Writer
}

// Write renders r.
func (w *XLSXWriter) Write(r *Report) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, rr := range r.Rows {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(rr.Tier))
		row.AddCell().SetString(rr.Tier.Label())
		row.AddCell().SetInt(rr.DiscoveryOrder + 1)
		row.AddCell().SetString(rr.Link)
		row.AddCell().SetString(rr.CurrentMarketSize)
		row.AddCell().SetString(rr.FutureMarketSize)
		row.AddCell().SetString(strings.Join(rr.Quotes, "\n"))
	}

	if err := f.Write(w.output); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}
