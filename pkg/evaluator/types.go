// Package evaluator wraps the external generative-text scoring service
// and turns its free-text replies into structured evaluations.
package evaluator

import (
	"context"
	"errors"

	"github.com/essayforge/essay-api/internal/exam"
)

// ErrUnavailable indicates the scoring service could not be reached or
// kept failing after the bounded retry budget was spent.
var ErrUnavailable = errors.New("evaluator unavailable")

// ErrInvalidResponse indicates the scoring service replied, but the
// reply is unusable (empty content, no choices).
var ErrInvalidResponse = errors.New("evaluator returned an invalid response")

// Evaluation is the structured outcome of scoring one essay. Word and
// character counts are computed from the submitted essay text, not from
// the evaluator output.
type Evaluation struct {
	Score          float64                `json:"score"`
	Feedback       string                 `json:"feedback"`
	WordCount      int                    `json:"word_count"`
	CharacterCount int                    `json:"character_count"`
	Raw            map[string]interface{} `json:"raw,omitempty"`
}

// Evaluator describes a service capable of scoring essay text for a
// given exam family.
type Evaluator interface {
	Evaluate(ctx context.Context, family exam.Family, essayText string) (Evaluation, error)
}
