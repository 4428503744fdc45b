// Package relevance scores heading titles against a persona/job query by
// token overlap. Matching is intentionally simple: lowercase alphanumeric
// word tokens, a fixed stopword list, and a large fixed bonus per high-value
// hit.
package relevance

import (
	"regexp"
	"strings"
)

// stopWords carry no topical signal and earn no high-value bonus.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"in": {}, "on": {}, "of": {}, "for": {}, "to": {}, "and": {}, "or": {}, "but": {},
}

// HighValueBonus is the score contribution of one high-value token match.
const HighValueBonus = 100

var wordPattern = regexp.MustCompile(`\w+`)

// Tokenize returns the set of lowercase word tokens (alphanumeric runs) in s.
func Tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(s), -1) {
		tokens[w] = struct{}{}
	}
	return tokens
}

// IsStopWord reports whether token is in the fixed stopword set.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Query is a tokenized persona/job description.
type Query struct {
	Persona string
	Job     string

	// Tokens are all query word tokens, stopwords included.
	Tokens map[string]struct{}
	// HighValue are the query tokens minus stopwords.
	HighValue map[string]struct{}
}

// NewQuery tokenizes the persona and job texts into one query.
func NewQuery(persona, job string) Query {
	q := Query{
		Persona: persona,
		Job:     job,
		Tokens:  Tokenize(persona + " " + job),
	}
	q.HighValue = make(map[string]struct{}, len(q.Tokens))
	for t := range q.Tokens {
		if !IsStopWord(t) {
			q.HighValue[t] = struct{}{}
		}
	}
	return q
}

// Score rates title against q:
//
//	score = 100 * |tokens ∩ highValue| + |(tokens - stopwords) ∩ queryTokens|
//
// A high-value match is counted by both terms; the overlap term is the
// tie-breaker among titles with equal high-value hits.
func Score(title string, q Query) int {
	tokens := Tokenize(title)

	score := 0
	for t := range q.HighValue {
		if _, ok := tokens[t]; ok {
			score += HighValueBonus
		}
	}
	for t := range tokens {
		if IsStopWord(t) {
			continue
		}
		if _, ok := q.Tokens[t]; ok {
			score++
		}
	}
	return score
}
