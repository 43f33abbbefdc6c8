package revenue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
)

/*
 * Revenue record ingestion.
 *
 * Partner report exports are messy: preamble rows before the real header,
 * blank spacer columns, media type embedded in a trailing parenthetical on
 * the content name, thousands separators in money columns. Header
 * detection is fuzzy on purpose: the first row carrying both a name-ish
 * and a revenue-ish column is the header, everything above it is ignored.
 */

// ErrNoHeader is returned when no row looks like a record header.
var ErrNoHeader = errors.New("no header row with name and revenue columns found")

type columnMap struct {
	name    int
	media   int // -1 when absent
	revenue int
}

// detectHeader finds the column layout in a candidate header row. The name
// check runs before the media check so a "Content Type" column binds to
// name, not media.
func detectHeader(row []string) (columnMap, bool) {
	cols := columnMap{name: -1, media: -1, revenue: -1}
	for i, cell := range row {
		h := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case h == "":
			continue
		case cols.name < 0 && (strings.Contains(h, "name") || strings.Contains(h, "content")):
			cols.name = i
		case cols.revenue < 0 && (strings.Contains(h, "revenue") || strings.Contains(h, "gross")):
			cols.revenue = i
		case cols.media < 0 && (strings.Contains(h, "media") || strings.Contains(h, "license") || strings.Contains(h, "type")):
			cols.media = i
		}
	}
	return cols, cols.name >= 0 && cols.revenue >= 0
}

// splitParenthetical separates a trailing "(video)" style suffix from a
// content name. The parenthetical wins over any media column: report rows
// like `"OneFootball - X (video)"` carry the authoritative media type
// inline.
func splitParenthetical(name string) (content, media string) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ")") {
		return name, ""
	}
	open := strings.LastIndex(name, "(")
	if open < 0 {
		return name, ""
	}
	media = strings.TrimSpace(name[open+1 : len(name)-1])
	content = strings.TrimSpace(name[:open])
	return content, media
}

func parseMoney(cell string, row int) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0, fmt.Errorf("row %d: empty revenue value", row)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid revenue value %q", row, cell)
	}
	return v, nil
}

// parseRows turns raw cell rows into records. Shared by the CSV and XLSX
// readers.
func parseRows(rows [][]string) ([]calc.Record, error) {
	var cols columnMap
	headerRow := -1
	for i, row := range rows {
		if c, ok := detectHeader(row); ok {
			cols, headerRow = c, i
			break
		}
	}
	if headerRow < 0 {
		return nil, ErrNoHeader
	}

	var records []calc.Record
	for i, row := range rows[headerRow+1:] {
		rowNum := headerRow + 2 + i

		if cols.name >= len(row) || strings.TrimSpace(row[cols.name]) == "" {
			continue // blank spacer row
		}
		if cols.revenue >= len(row) {
			return nil, fmt.Errorf("row %d: missing revenue column", rowNum)
		}

		content, media := splitParenthetical(row[cols.name])
		if media == "" && cols.media >= 0 && cols.media < len(row) {
			media = strings.TrimSpace(row[cols.media])
		}

		gross, err := parseMoney(row[cols.revenue], rowNum)
		if err != nil {
			return nil, err
		}

		records = append(records, calc.Record{
			ID:           strconv.Itoa(len(records) + 1),
			ContentType:  content,
			MediaType:    media,
			GrossRevenue: gross,
		})
	}
	return records, nil
}

// ParseCSV reads revenue records from CSV data.
func ParseCSV(r io.Reader) ([]calc.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return parseRows(rows)
}
