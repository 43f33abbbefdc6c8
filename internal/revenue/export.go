package revenue

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
)

// Money formats are fixed at export time: two decimals for amounts, one
// decimal for percentages. Calculation itself never rounds.

func money(v float64) string   { return fmt.Sprintf("%.2f", v) }
func percent(v float64) string { return fmt.Sprintf("%.1f", v) }

var exportHeader = []string{
	"ID", "Content Type", "Media Type", "Gross Revenue",
	"COS %", "Revenue Post COS", "COC %", "COC Amount", "Revenue Post COC",
	"Yahoo Share %", "OneFootball Share %", "Yahoo Final", "OneFootball Final",
}

func resultRow(r calc.Result) []string {
	return []string{
		r.ID, r.ContentType, r.MediaType, money(r.GrossRevenue),
		percent(r.COS), money(r.RevenuePostCOS), percent(r.COC),
		money(r.COCAmount), money(r.RevenuePostCOC),
		percent(r.YahooRevShare), percent(r.OneFootballRevShare),
		money(r.YahooFinal), money(r.OneFootballFinal),
	}
}

// writeQuotedRow emits a CSV row with every field quoted, so content names
// with commas survive a round trip through any consumer.
func writeQuotedRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := fmt.Fprintln(w, strings.Join(quoted, ","))
	return err
}

// ExportCSV writes calculation results with a trailing totals row.
func ExportCSV(w io.Writer, results []calc.Result) error {
	if err := writeQuotedRow(w, exportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for _, r := range results {
		if err := writeQuotedRow(w, resultRow(r)); err != nil {
			return fmt.Errorf("writing result row: %w", err)
		}
	}

	s := calc.Summarize(results)
	totals := []string{
		"", "TOTAL", "", money(s.GrossRevenue),
		"", "", "", "", "",
		"", "", money(s.YahooTotal), money(s.OneFootballTotal),
	}
	if err := writeQuotedRow(w, totals); err != nil {
		return fmt.Errorf("writing totals row: %w", err)
	}
	return nil
}

// ExportJSON writes results and summary as a single JSON document.
func ExportJSON(w io.Writer, results []calc.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"results": results,
		"summary": calc.Summarize(results),
	})
}

// ExportXLSX writes results to a one-sheet workbook.
func ExportXLSX(w io.Writer, results []calc.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, r := range results {
		for col, v := range resultRow(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.Write(w)
}
