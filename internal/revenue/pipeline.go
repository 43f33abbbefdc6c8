package revenue

import (
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/match"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

// Run applies a rule collection to a batch of records: each record is
// matched to its assignments, then pushed through the calculation
// pipeline. Optional report is called after each record.
func Run(rs []rules.Rule, records []calc.Record, report func(done int)) []calc.Result {
	results := make([]calc.Result, 0, len(records))
	for i, rec := range records {
		a := match.Find(rs, match.Query{ContentType: rec.ContentType, MediaType: rec.MediaType})
		results = append(results, calc.Calculate(rec, a))
		if report != nil {
			report(i + 1)
		}
	}
	return results
}
