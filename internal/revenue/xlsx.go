package revenue

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
)

// ParseXLSX reads revenue records from the first sheet of an XLSX
// workbook. Header detection and row semantics match ParseCSV.
func ParseXLSX(r io.Reader) ([]calc.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return parseRows(rows)
}
