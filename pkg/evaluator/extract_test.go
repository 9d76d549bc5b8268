package evaluator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/essayforge/essay-api/internal/exam"
)

func TestExtractScorePrimaryPattern(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("1. Score: 87 out of 100\nSolid essay.", exam.FamilyTOEFL)
	require.Equal(t, 87.0, extraction.Score)
	require.False(t, extraction.Degraded)
	require.Equal(t, "score_out_of", extraction.MatchedPattern)
}

func TestExtractScoreSlashFallback(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("I would rate this essay 42/100 overall.", exam.FamilyOther)
	require.Equal(t, 42.0, extraction.Score)
	require.False(t, extraction.Degraded)
}

func TestExtractScoreBand(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("Band Score: 6.5\nWell structured response.", exam.FamilyIELTS)
	require.Equal(t, 6.5, extraction.Score)
	require.False(t, extraction.Degraded)
}

func TestExtractScoreNoMatchIsDegraded(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("This essay shows promise but needs work.", exam.FamilyTOEFL)
	require.Equal(t, 0.0, extraction.Score)
	require.True(t, extraction.Degraded)
}

func TestExtractScoreOutOfRangeIsDegraded(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("Score: 150 out of 100", exam.FamilyTOEFL)
	require.Equal(t, 0.0, extraction.Score)
	require.True(t, extraction.Degraded)
}

func TestExtractScoreDecimalRejectedForIntegerFamily(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("Score: 87.5 out of 100", exam.FamilyTOEFL)
	require.Equal(t, 0.0, extraction.Score)
	require.True(t, extraction.Degraded)
}

func TestExtractScoreDecimalAcceptedForBandFamily(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("Score: 7.5 out of 9", exam.FamilyIELTS)
	require.Equal(t, 7.5, extraction.Score)
	require.False(t, extraction.Degraded)
}

func TestExtractFeedbackDropsHeaderLines(t *testing.T) {
	extractor := NewExtractor()
	reply := "1. Score: 80 out of 100\n\n2. Detailed Feedback:\nThe argument is clear.\n\n3. Word Count: 220\nKeep practicing."

	extraction := extractor.Extract(reply, exam.FamilyTOEFL)
	require.NotContains(t, extraction.Feedback, "Score: 80")
	require.NotContains(t, extraction.Feedback, "Word Count: 220")
	require.Contains(t, extraction.Feedback, "The argument is clear.")
	require.Contains(t, extraction.Feedback, "Keep practicing.")
}

func TestExtractFeedbackFallsBackToOriginalText(t *testing.T) {
	extractor := NewExtractor()
	reply := "Score: 80 out of 100\nWord Count: 220"

	extraction := extractor.Extract(reply, exam.FamilyTOEFL)
	require.NotEmpty(t, extraction.Feedback)
	require.Contains(t, extraction.Feedback, "Score: 80 out of 100")
}

func TestExtractFeedbackStripsMarkup(t *testing.T) {
	extractor := NewExtractor()

	extraction := extractor.Extract("<b>Strong</b> thesis & clear structure.", exam.FamilyOther)
	require.Equal(t, "Strong thesis & clear structure.", extraction.Feedback)
}

func TestExtractorCustomPatternTable(t *testing.T) {
	extractor := NewExtractor(ScorePattern{
		Name:    "grade_label",
		Pattern: regexp.MustCompile(`(?i)grade:\s*(\d+)`),
	})

	extraction := extractor.Extract("Grade: 73", exam.FamilyOther)
	require.Equal(t, 73.0, extraction.Score)
	require.Equal(t, "grade_label", extraction.MatchedPattern)
}
