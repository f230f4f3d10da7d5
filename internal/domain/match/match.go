// Package match holds the immutable outputs of the matching engine.
package match

import "sort"

// Ranked is one candidate of a text ranking: its position in the input and its similarity to the query.
type Ranked struct {
	Index int
	Score float64
}

// SortByScore orders ranked candidates by descending score. Equal scores keep input order.
func SortByScore(rs []Ranked) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Score > rs[j].Score })
}

// Result is a scored pair of stored documents (résumé and vacancy, in either direction).
type Result struct {
	source string
	target string
	title  string
	owner  string
	score  float64
}

// New creates a match result.
func New(source, target, title, owner string, score float64) Result {
	return Result{source: source, target: target, title: title, owner: owner, score: score}
}

// Source returns the document the ranking was computed for.
func (r *Result) Source() string { return r.source }

// Target returns the matched document.
func (r *Result) Target() string { return r.target }

// Title returns the matched document's title.
func (r *Result) Title() string { return r.title }

// Owner returns the matched document's owner.
func (r *Result) Owner() string { return r.owner }

// Score returns the cosine similarity in [-1, 1].
func (r *Result) Score() float64 { return r.score }

// SortResults orders results by descending score, stable on ties.
func SortResults(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].score > rs[j].score })
}
