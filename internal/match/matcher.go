package match

import (
	"strings"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

/*
 * Rule matcher.
 *
 * Maps a (content type, media type) query onto the assignments of the
 * first rule whose conditions cover it. This is a best-effort heuristic
 * matcher, not an expression evaluator: rule order is priority order and
 * the first full match wins.
 *
 * Precedence:
 *   1. rule with both a content_type and a media_type condition matching
 *   2. rule with a matching media_type condition only
 *   3. hardcoded defaults
 */

// Assignments maps variable names to the numeric values a matched rule
// assigns them.
type Assignments map[string]float64

// Query identifies one revenue record for rule lookup.
type Query struct {
	ContentType string
	MediaType   string
}

// Defaults returns the fallback assignments used when no rule matches.
// Text content carries a lower default cost of content than video.
func Defaults(mediaType string) Assignments {
	coc := 50.0
	if strings.EqualFold(mediaType, "text") {
		coc = 12.0
	}
	return Assignments{
		"cos":             10,
		"coc":             coc,
		"yahoo_rev":       60,
		"onefootball_rev": 40,
	}
}

// Find scans the collection for assignments applicable to the query.
func Find(rs []rules.Rule, q Query) Assignments {
	for _, r := range rs {
		st := rules.Parse(r.Tokens)
		if matchesContent(st, q.ContentType) && matchesMedia(st, q.MediaType) {
			return assignments(st)
		}
	}

	// Fallback: any rule keyed on media type alone.
	for _, r := range rs {
		st := rules.Parse(r.Tokens)
		if matchesMedia(st, q.MediaType) {
			return assignments(st)
		}
	}

	return Defaults(q.MediaType)
}

// matchesContent reports whether a content_type equality condition covers
// the queried content type. Contract rules name partners loosely
// ("OneFootball Partner" vs "OneFootball - AC Milan"), so the check is a
// case-insensitive containment of the query's second word, falling back to
// the whole string for single-word queries.
func matchesContent(st rules.Statement, contentType string) bool {
	needle := strings.ToLower(contentType)
	if words := strings.Fields(needle); len(words) > 1 {
		needle = words[1]
	}
	for _, c := range st.Conditions {
		if c.Variable == "content_type" && c.Operator == "==" &&
			strings.Contains(strings.ToLower(c.Value), needle) {
			return true
		}
	}
	return false
}

// matchesMedia requires an exact case-insensitive media_type equality.
func matchesMedia(st rules.Statement, mediaType string) bool {
	for _, c := range st.Conditions {
		if c.Variable == "media_type" && c.Operator == "==" &&
			strings.EqualFold(c.Value, mediaType) {
			return true
		}
	}
	return false
}

func assignments(st rules.Statement) Assignments {
	out := make(Assignments, len(st.Assignments))
	for _, a := range st.Assignments {
		out[a.Variable] = rules.ParseNumber(a.Value)
	}
	return out
}
