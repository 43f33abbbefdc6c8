package revenue

import "github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"

// SampleRecords returns the bundled July 2025 partner report extract, used
// when a caller wants to exercise rules without uploading a report.
func SampleRecords() []calc.Record {
	return []calc.Record{
		{ID: "1", ContentType: "OneFootball - AC Milan", MediaType: "Text", GrossRevenue: 12.11},
		{ID: "2", ContentType: "OneFootball - AC Milan", MediaType: "Video", GrossRevenue: 19.2},
		{ID: "3", ContentType: "OneFootball - Absolute Chelsea", MediaType: "Text", GrossRevenue: 0.53},
		{ID: "4", ContentType: "OneFootball - AFC Ajax", MediaType: "Video", GrossRevenue: 1.25},
		{ID: "5", ContentType: "OneFootball - AS Monaco", MediaType: "Text", GrossRevenue: 3.86},
	}
}
