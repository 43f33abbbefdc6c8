package extract

import "github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"

// SearchResults describes where the extractor found revenue terms.
type SearchResults struct {
	ExhibitDFound     bool     `json:"exhibitDFound"`
	TablesFound       int      `json:"tablesFound"`
	RevenueTermsFound []string `json:"revenueTermsFound"`
}

// Result is the structured output of one contract analysis. It arrives
// from the model as untrusted JSON and is validated before use.
type Result struct {
	DocType       string        `json:"docType"`
	Summary       string        `json:"summary"`
	SearchResults SearchResults `json:"searchResults"`
	Rules         []rules.Rule  `json:"rules"`
}
