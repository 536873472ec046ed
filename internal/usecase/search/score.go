package search

import (
	"strings"

	"github.com/cigarmaestro/searchd/internal/domain/document"
	"github.com/cigarmaestro/searchd/internal/domain/search/query"
	"github.com/cigarmaestro/searchd/internal/domain/search/result"
	"github.com/cigarmaestro/searchd/internal/domain/textmatch"
)

// score ranks every candidate and drops those that match nothing.
func (e *Engine) score(docs []*document.Document, q *query.Query, norm string) []result.Result {
	out := make([]result.Result, 0, len(docs))
	for _, doc := range docs {
		r := e.scoreDocument(doc, q, norm)
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

// scoreDocument computes the weighted score of one document. Every
// contributing signal is recorded as a Match for explainability.
//
// Signals, strongest first: whole-query substring of the searchable text;
// per field and term, exact equality, prefix, substring, or fuzzy
// similarity above the query threshold, all scaled by the field's schema
// weight; and per term, phonetic fingerprint similarity above the gate.
func (e *Engine) scoreDocument(doc *document.Document, q *query.Query, norm string) result.Result {
	var score float64
	var matches []result.Match

	if norm != "" && strings.Contains(doc.SearchableText(), norm) {
		score += e.weights.Exact
		matches = append(matches, result.Match{Type: result.MatchExact, Text: norm})
	}

	sch := e.schemas.For(doc.Category())
	for _, field := range doc.FieldNames() {
		value, _ := doc.Field(field)
		lower := strings.ToLower(value)
		fieldWeight := sch.Weight(field)

		for _, term := range q.Terms() {
			switch {
			case lower == term:
				score += e.weights.Exact * fieldWeight
				matches = append(matches, result.Match{Type: result.MatchExactField, Field: field, Text: term})
			case strings.HasPrefix(lower, term):
				score += e.weights.StartsWith * fieldWeight
				matches = append(matches, result.Match{Type: result.MatchStartsWith, Field: field, Text: term})
			case strings.Contains(lower, term):
				score += e.weights.Contains * fieldWeight
				matches = append(matches, result.Match{Type: result.MatchContains, Field: field, Text: term})
			default:
				sim := textmatch.BestTokenSimilarity(term, lower)
				if sim >= q.FuzzyThreshold() {
					score += e.weights.Fuzzy * sim * fieldWeight
					matches = append(matches, result.Match{
						Type: result.MatchFuzzy, Field: field, Text: term, Score: sim,
					})
				}
			}
		}
	}

	for _, term := range q.Terms() {
		sim := textmatch.Similarity(textmatch.Fingerprint(term), doc.Phonetic())
		if sim > phoneticGate {
			score += e.weights.Phonetic * sim
			matches = append(matches, result.Match{Type: result.MatchPhonetic, Text: term, Score: sim})
		}
	}

	return result.Result{
		Document:  doc,
		Score:     score,
		Matches:   matches,
		Relevance: relevance(score, matches, norm),
	}
}

// relevance inflates the raw score for corroboration and specificity:
// 10% per match event, 20% per whole-query exact match, and up to 2x for
// query length (2% per character, capped).
func relevance(score float64, matches []result.Match, norm string) float64 {
	exact := 0
	for _, m := range matches {
		if m.Type == result.MatchExact {
			exact++
		}
	}

	rel := score
	rel *= 1 + float64(len(matches))*0.1
	rel *= 1 + float64(exact)*0.2

	lengthBoost := 1 + float64(len(norm))*0.02
	if lengthBoost > 2 {
		lengthBoost = 2
	}
	return rel * lengthBoost
}
