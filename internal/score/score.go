// Package score rates a generated document against a fixed seven-category
// rubric. Scoring is pure and deterministic: no I/O, same text in, same
// report out, bit for bit.
package score

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Keyword groups behind each category. Matching is case-insensitive
// substring presence, counted once per distinct keyword.
var (
	hedgeWords     = []string{"maybe", "might", "possibly", "should", "consider", "could"}
	sectionPhrases = []string{"product overview", "objectives", "mvp", "technical", "user roles", "metrics"}
	mvpTerms       = []string{"mvp", "minimum viable", "first release", "initial version"}
	longTermTerms  = []string{"roadmap", "long term", "phase", "future iteration"}
	strategyTerms  = []string{"vision", "business goal", "strategy", "impact", "market"}
	usabilityTerms = []string{"user flow", "onboarding", "interaction", "metadata", "description", "tags"}
	metricTerms    = []string{"success metric", "kpi", "quantitative", "qualitative", "goal", "conversion", "engagement"}
)

var headingPattern = regexp.MustCompile(`(?m)^[0-9]+\.\s`)

// Category weights for the total. Decimals keep the 2-dp rounding exact.
var (
	weightClarity      = decimal.RequireFromString("0.20")
	weightCompleteness = decimal.RequireFromString("0.25")
	weightFeasibility  = decimal.RequireFromString("0.15")
	weightAlignment    = decimal.RequireFromString("0.15")
	weightUsability    = decimal.RequireFromString("0.10")
	weightConsistency  = decimal.RequireFromString("0.05")
	weightTestability  = decimal.RequireFromString("0.10")
)

// Report holds the seven category scores, each in [0, 10], and the weighted
// total rounded to two decimal places.
type Report struct {
	Clarity      int             `json:"clarity"`
	Completeness int             `json:"completeness"`
	Feasibility  int             `json:"feasibility"`
	Alignment    int             `json:"alignment"`
	Usability    int             `json:"usability"`
	Consistency  int             `json:"consistency"`
	Testability  int             `json:"testability"`
	Total        decimal.Decimal `json:"total_score"`
}

// Categories returns the per-category scores keyed by rubric name.
func (r Report) Categories() map[string]int {
	return map[string]int{
		"Clarity":      r.Clarity,
		"Completeness": r.Completeness,
		"Feasibility":  r.Feasibility,
		"Alignment":    r.Alignment,
		"Usability":    r.Usability,
		"Consistency":  r.Consistency,
		"Testability":  r.Testability,
	}
}

// Score computes a fresh report for the document text.
func Score(text string) Report {
	lower := strings.ToLower(text)

	r := Report{
		Clarity:      clamp(10 - hits(lower, hedgeWords)),
		Completeness: int(math.Round(10 * float64(hits(lower, sectionPhrases)) / float64(len(sectionPhrases)))),
		Feasibility:  capTen(2*hits(lower, mvpTerms) + hits(lower, longTermTerms)),
		Alignment:    capTen(2 * hits(lower, strategyTerms)),
		Usability:    capTen(2 * hits(lower, usabilityTerms)),
		Consistency:  capTen(len(headingPattern.FindAllString(text, -1))),
		Testability:  capTen(2 * hits(lower, metricTerms)),
	}
	r.Total = total(r)
	return r
}

func total(r Report) decimal.Decimal {
	sum := decimal.Zero
	for _, part := range []struct {
		score  int
		weight decimal.Decimal
	}{
		{r.Clarity, weightClarity},
		{r.Completeness, weightCompleteness},
		{r.Feasibility, weightFeasibility},
		{r.Alignment, weightAlignment},
		{r.Usability, weightUsability},
		{r.Consistency, weightConsistency},
		{r.Testability, weightTestability},
	} {
		sum = sum.Add(decimal.NewFromInt(int64(part.score)).Mul(part.weight))
	}
	return sum.Round(2)
}

// hits counts how many distinct terms appear in the text.
func hits(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func capTen(v int) int {
	if v > 10 {
		return 10
	}
	return v
}
