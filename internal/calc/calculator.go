package calc

import (
	"strings"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/match"
)

/*
 * Revenue calculation pipeline.
 *
 * Fixed multi-step formula applied per record:
 *
 *   revenue_post_cos = gross * (1 - cos/100)
 *   coc_amount       = revenue_post_cos * coc/100
 *   revenue_post_coc = revenue_post_cos - coc_amount
 *   party_amount     = revenue_post_coc * party_share/100
 *
 * COC is a pure deduction: it is NOT redistributed back into the party
 * shares. Final amounts equal the share amounts. All percentages are whole
 * numbers (10 means 10%). No rounding happens here; presentation layers
 * round at format time so intermediate error never compounds.
 */

// Record is one revenue input row.
type Record struct {
	ID           string  `json:"id"`
	ContentType  string  `json:"contentType"`
	MediaType    string  `json:"mediaType"`
	GrossRevenue float64 `json:"grossRevenue"`
}

// Result carries the full computation trail for one record.
type Result struct {
	ID                  string  `json:"id"`
	ContentType         string  `json:"contentType"`
	MediaType           string  `json:"mediaType"`
	GrossRevenue        float64 `json:"grossRevenue"`
	COS                 float64 `json:"cos"`
	RevenuePostCOS      float64 `json:"revenuePostCOS"`
	COC                 float64 `json:"coc"`
	COCAmount           float64 `json:"cocAmount"`
	RevenuePostCOC      float64 `json:"revenuePostCOC"`
	YahooRevShare       float64 `json:"yahooRevShare"`
	OneFootballRevShare float64 `json:"onefootballRevShare"`
	YahooAmount         float64 `json:"yahooAmount"`
	OneFootballAmount   float64 `json:"onefootballAmount"`
	YahooFinal          float64 `json:"yahooFinal"`
	OneFootballFinal    float64 `json:"onefootballFinal"`
}

// Summary aggregates results across records.
type Summary struct {
	Records          int     `json:"records"`
	GrossRevenue     float64 `json:"grossRevenue"`
	YahooTotal       float64 `json:"yahooTotal"`
	OneFootballTotal float64 `json:"onefootballTotal"`
}

// value reads an assignment, falling back to def when the key is absent or
// zero. Zero falls back because extracted values default to 0 on parse
// failure and a 0% share or cost is never a meaningful extraction.
func value(a match.Assignments, key string, def float64) float64 {
	if v, ok := a[key]; ok && v != 0 {
		return v
	}
	return def
}

// Calculate runs the pipeline for one record against an assignment set.
// It is pure: same inputs always produce bit-identical results.
func Calculate(rec Record, a match.Assignments) Result {
	defaultCOC := 50.0
	if strings.EqualFold(rec.MediaType, "text") {
		defaultCOC = 12.0
	}

	cos := value(a, "cos", 10)
	coc := value(a, "coc", defaultCOC)
	yahooShare := value(a, "yahoo_rev", 60)
	onefootballShare := value(a, "onefootball_rev", 40)

	revenuePostCOS := rec.GrossRevenue * (1 - cos/100)
	cocAmount := revenuePostCOS * (coc / 100)
	revenuePostCOC := revenuePostCOS - cocAmount
	yahooAmount := revenuePostCOC * (yahooShare / 100)
	onefootballAmount := revenuePostCOC * (onefootballShare / 100)

	return Result{
		ID:                  rec.ID,
		ContentType:         rec.ContentType,
		MediaType:           rec.MediaType,
		GrossRevenue:        rec.GrossRevenue,
		COS:                 cos,
		RevenuePostCOS:      revenuePostCOS,
		COC:                 coc,
		COCAmount:           cocAmount,
		RevenuePostCOC:      revenuePostCOC,
		YahooRevShare:       yahooShare,
		OneFootballRevShare: onefootballShare,
		YahooAmount:         yahooAmount,
		OneFootballAmount:   onefootballAmount,
		YahooFinal:          yahooAmount,
		OneFootballFinal:    onefootballAmount,
	}
}

// Summarize totals gross revenue and party finals across results.
func Summarize(results []Result) Summary {
	s := Summary{Records: len(results)}
	for _, r := range results {
		s.GrossRevenue += r.GrossRevenue
		s.YahooTotal += r.YahooFinal
		s.OneFootballTotal += r.OneFootballFinal
	}
	return s
}
