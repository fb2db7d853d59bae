package score

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const fullDocument = `1. Product Overview
2. Objectives
3. MVP scope: minimum viable product ships in the first release.
4. Technical approach
5. User Roles
6. Success Metrics
Our vision aligns with the company strategy.`

func TestScore_Deterministic(t *testing.T) {
	for _, text := range []string{"", "1. Overview", fullDocument, "maybe might possibly"} {
		first := Score(text)
		second := Score(text)
		require.Equal(t, first, second)
	}
}

func TestScore_TotalWithinBounds(t *testing.T) {
	texts := []string{
		"",
		fullDocument,
		strings.Repeat("maybe might possibly should consider could ", 10),
		strings.Repeat("1. a\n2. b\n3. c\n", 20),
	}
	for _, text := range texts {
		r := Score(text)
		total := r.Total.InexactFloat64()
		require.GreaterOrEqual(t, total, 0.0, "text %q", text)
		require.LessOrEqual(t, total, 10.0, "text %q", text)
	}
}

func TestScore_HedgeWordsLowerClarityOnly(t *testing.T) {
	base := Score(fullDocument)
	hedged := Score(fullDocument + "\nmaybe we might possibly reconsider")

	require.Less(t, hedged.Clarity, base.Clarity)
	require.GreaterOrEqual(t, hedged.Completeness, base.Completeness)
	require.GreaterOrEqual(t, hedged.Feasibility, base.Feasibility)
	require.GreaterOrEqual(t, hedged.Alignment, base.Alignment)
	require.GreaterOrEqual(t, hedged.Usability, base.Usability)
	require.GreaterOrEqual(t, hedged.Consistency, base.Consistency)
	require.GreaterOrEqual(t, hedged.Testability, base.Testability)
}

func TestScore_HedgeWordsCountedOncePerDistinctWord(t *testing.T) {
	r := Score("maybe maybe maybe")
	require.Equal(t, 9, r.Clarity)

	r = Score("maybe we might possibly should consider what could happen")
	require.Equal(t, 4, r.Clarity)
}

func TestScore_SingleNumberedHeading(t *testing.T) {
	r := Score("1. Overview")

	require.Equal(t, 1, r.Consistency)
	require.Equal(t, 0, r.Completeness)
	require.Equal(t, 0, r.Feasibility)
	require.Equal(t, 0, r.Alignment)
	require.Equal(t, 0, r.Usability)
	require.Equal(t, 0, r.Testability)
	// No hedge words, so clarity sits at its ceiling.
	require.Equal(t, 10, r.Clarity)
	require.True(t, r.Total.Equal(decimal.RequireFromString("2.05")), "got %s", r.Total)
}

func TestScore_FullDocument(t *testing.T) {
	r := Score(fullDocument)

	require.Equal(t, 10, r.Clarity)
	require.Equal(t, 10, r.Completeness)
	require.Equal(t, 6, r.Feasibility, "mvp + minimum viable + first release")
	require.Equal(t, 4, r.Alignment, "vision + strategy")
	require.Equal(t, 0, r.Usability)
	require.Equal(t, 6, r.Consistency)
	require.Equal(t, 2, r.Testability, "success metric")

	// .20*10 + .25*10 + .15*6 + .15*4 + .10*0 + .05*6 + .10*2
	require.True(t, r.Total.Equal(decimal.RequireFromString("6.50")), "got %s", r.Total)
}

func TestScore_CategoriesCapAtTen(t *testing.T) {
	r := Score("user flow onboarding interaction metadata description tags")
	require.Equal(t, 10, r.Usability)

	headings := strings.Repeat("1. x\n", 15)
	require.Equal(t, 10, Score(headings).Consistency)
}

func TestScore_HeadingsMatchOnlyAtLineStart(t *testing.T) {
	require.Equal(t, 1, Score("1. top\nand then 2. not a heading").Consistency)
}

func TestScore_Categories(t *testing.T) {
	r := Score(fullDocument)
	cats := r.Categories()
	require.Len(t, cats, 7)
	require.Equal(t, r.Clarity, cats["Clarity"])
	require.Equal(t, r.Consistency, cats["Consistency"])
}
