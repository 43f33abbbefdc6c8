package rules

import (
	"strconv"
	"strings"
)

/*
 * Token grammar parser.
 *
 * A rule's token sequence encodes an implicit IF-THEN statement: zero or
 * more (variable, operator, value) condition triples joined by the
 * keywords "and"/"or", optionally bracketed by "if"/"then", followed by
 * one or more (variable, operator, value) assignment triples.
 *
 * A triple is a condition when its operator compares (==, !=, >, <, >=, <=)
 * and an assignment when its operator is "=". Classifying by operator
 * rather than by position tolerates rules that omit the if/then keywords,
 * which the extractor produces for simple assignment-only rules.
 *
 * This parser is the single source of truth for the grammar; the matcher
 * and calculator consume its output instead of rescanning token arrays.
 */

// Clause is one (variable, operator, value) triple.
type Clause struct {
	Variable string
	Operator string
	Value    string
}

// Statement is the parsed form of a rule's token sequence.
type Statement struct {
	Conditions  []Clause
	Assignments []Clause
}

var comparisonOps = map[string]bool{
	"==": true,
	"!=": true,
	">":  true,
	"<":  true,
	">=": true,
	"<=": true,
}

// Parse scans a token sequence into conditions and assignments. Keywords
// are skipped; malformed trailing fragments (a variable without a full
// triple behind it) are ignored.
func Parse(tokens []Token) Statement {
	var st Statement
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Type != TokenVariable {
			continue
		}
		op := tokens[i+1]
		val := tokens[i+2]
		if op.Type != TokenOperator || val.Type != TokenValue {
			continue
		}
		clause := Clause{Variable: tokens[i].Value, Operator: op.Value, Value: val.Value}
		switch {
		case op.Value == "=":
			st.Assignments = append(st.Assignments, clause)
		case comparisonOps[op.Value]:
			st.Conditions = append(st.Conditions, clause)
		}
		i += 2
	}
	return st
}

// ParseNumber extracts a numeric value from a token value string. Values
// arrive in loose forms like "60%", "1,234.50" or "1000 usd"; the parse
// takes the longest leading numeric prefix after stripping thousands
// separators, and returns 0 when there is none.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := 0
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '+' || r == '-') && i == 0:
		default:
			goto done
		}
		end = i + 1
	}
done:
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}
