package revenue

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
)

func TestRunSampleRecordsWithDefaults(t *testing.T) {
	results := Run(nil, SampleRecords(), nil)
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}

	// Text record under default assignments: 12.11 gross, 10% COS, 12% COC.
	r := results[0]
	if math.Abs(r.YahooFinal-5.754672) > 1e-9 {
		t.Errorf("YahooFinal = %v, want 5.754672", r.YahooFinal)
	}
	if math.Abs(r.OneFootballFinal-3.836448) > 1e-9 {
		t.Errorf("OneFootballFinal = %v, want 3.836448", r.OneFootballFinal)
	}
}

func TestRunReportsProgress(t *testing.T) {
	var seen []int
	Run(nil, SampleRecords(), func(done int) { seen = append(seen, done) })
	if len(seen) != 5 || seen[0] != 1 || seen[4] != 5 {
		t.Errorf("progress callbacks = %v", seen)
	}
}

func TestExportCSV(t *testing.T) {
	results := Run(nil, []calc.Record{
		{ID: "1", ContentType: "OneFootball - AC Milan, Srl", MediaType: "Text", GrossRevenue: 12.11},
	}, nil)

	var buf bytes.Buffer
	if err := ExportCSV(&buf, results); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header, row, totals", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"ID","Content Type"`) {
		t.Errorf("header = %s", lines[0])
	}
	// Every field quoted, money at two decimals, percentages at one.
	if !strings.Contains(lines[1], `"OneFootball - AC Milan, Srl"`) {
		t.Errorf("content name not quoted intact: %s", lines[1])
	}
	if !strings.Contains(lines[1], `"12.11"`) || !strings.Contains(lines[1], `"10.0"`) {
		t.Errorf("row formatting: %s", lines[1])
	}
	if !strings.Contains(lines[1], `"5.75"`) || !strings.Contains(lines[1], `"3.84"`) {
		t.Errorf("final amounts not rounded to cents: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"TOTAL"`) {
		t.Errorf("totals row: %s", lines[2])
	}
}

func TestExportJSON(t *testing.T) {
	results := Run(nil, SampleRecords(), nil)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, results); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var doc struct {
		Results []calc.Result `json:"results"`
		Summary calc.Summary  `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Results) != 5 || doc.Summary.Records != 5 {
		t.Errorf("results = %d, summary records = %d", len(doc.Results), doc.Summary.Records)
	}
	if math.Abs(doc.Summary.GrossRevenue-36.95) > 1e-9 {
		t.Errorf("summary gross = %v, want 36.95", doc.Summary.GrossRevenue)
	}
}

func TestExportXLSXRoundTrip(t *testing.T) {
	results := Run(nil, SampleRecords(), nil)

	var buf bytes.Buffer
	if err := ExportXLSX(&buf, results); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	records, err := ParseXLSX(&buf)
	if err != nil {
		t.Fatalf("re-reading exported workbook: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if records[0].ContentType != "OneFootball - AC Milan" {
		t.Errorf("ContentType = %q", records[0].ContentType)
	}
}
