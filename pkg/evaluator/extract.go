package evaluator

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/essayforge/essay-api/internal/exam"
)

// ScorePattern is one entry in the ordered matcher table applied to the
// evaluator's free-text reply. The first capture group must hold the
// numeral.
type ScorePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultScorePatterns returns the matcher table covering the phrasings
// the evaluator has been observed to use. The order matters: the first
// pattern that fires wins.
func DefaultScorePatterns() []ScorePattern {
	return []ScorePattern{
		{Name: "score_out_of", Pattern: regexp.MustCompile(`(?i)score:\s*(\d+(?:\.\d+)?)\s*out\s*of`)},
		{Name: "overall_slash", Pattern: regexp.MustCompile(`(?i)overall\s+score:\s*(\d+(?:\.\d+)?)\s*/\s*\d+`)},
		{Name: "band_score", Pattern: regexp.MustCompile(`(?i)band\s+score:\s*(\d(?:\.\d)?)`)},
		{Name: "bare_slash_100", Pattern: regexp.MustCompile(`\b(\d{1,3}(?:\.\d+)?)\s*/\s*100\b`)},
	}
}

// headerPrefixes are the machine-readable line openers stripped out of
// the reply when building feedback. Matching is case-insensitive on the
// trimmed line.
var headerPrefixes = []string{
	"1. score:",
	"score:",
	"1. band score:",
	"band score:",
	"overall score:",
	"3. word count:",
	"word count:",
	"character count:",
}

// Extraction is the parsed form of one evaluator reply. Degraded is set
// when no pattern fired or the captured value was rejected, in which
// case Score is zero and the caller decides whether that is acceptable.
type Extraction struct {
	Score          float64
	Feedback       string
	MatchedPattern string
	Degraded       bool
}

// Extractor parses score and feedback out of evaluator free text. The
// pattern table is configuration: new evaluator phrasings are added by
// extending the table, not the logic.
type Extractor struct {
	patterns []ScorePattern
	sanitize *bluemonday.Policy
}

// NewExtractor builds an extractor using the supplied pattern table, or
// the default table when none is given.
func NewExtractor(patterns ...ScorePattern) *Extractor {
	if len(patterns) == 0 {
		patterns = DefaultScorePatterns()
	}

	return &Extractor{
		patterns: patterns,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Extract parses the evaluator reply for the given exam family.
func (e *Extractor) Extract(text string, family exam.Family) Extraction {
	score, matched, ok := e.extractScore(text, family)

	return Extraction{
		Score:          score,
		Feedback:       e.extractFeedback(text),
		MatchedPattern: matched,
		Degraded:       !ok,
	}
}

func (e *Extractor) extractScore(text string, family exam.Family) (float64, string, bool) {
	for _, pattern := range e.patterns {
		match := pattern.Pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		score, err := parseScore(match[1], family)
		if err != nil || !family.ValidScore(score) {
			return 0, pattern.Name, false
		}

		return score, pattern.Name, true
	}

	return 0, "", false
}

// parseScore parses the captured numeral. Band-scored families accept a
// decimal; every other family requires an integer.
func parseScore(raw string, family exam.Family) (float64, error) {
	if family.Range().Decimal {
		return strconv.ParseFloat(raw, 64)
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}

	return float64(value), nil
}

// extractFeedback removes the machine-readable header lines and blank
// lines from the reply. A non-empty input never yields an empty result:
// if every line was filtered out, the original text is returned as is.
func (e *Extractor) extractFeedback(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isHeaderLine(trimmed) {
			continue
		}
		kept = append(kept, line)
	}

	feedback := strings.TrimSpace(strings.Join(kept, "\n"))
	if feedback == "" {
		feedback = strings.TrimSpace(text)
	}

	return html.UnescapeString(e.sanitize.Sanitize(feedback))
}

func isHeaderLine(trimmed string) bool {
	lowered := strings.ToLower(trimmed)
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}
