package dto

import (
	"time"

	"github.com/essayforge/essay-api/internal/models"
)

// SubmitEssayRequest is the body accepted by the submit and evaluate
// endpoints.
type SubmitEssayRequest struct {
	ExamID    string `json:"exam_id" validate:"required"`
	EssayText string `json:"essay_text" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// EvaluationResponse serializes one evaluation result. Cached marks
// results returned from the dedup store instead of a fresh evaluator
// call.
type EvaluationResponse struct {
	ResultID       uint      `json:"result_id"`
	EssayID        *uint     `json:"essay_id,omitempty"`
	Score          float64   `json:"score"`
	Feedback       string    `json:"feedback"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	Cached         bool      `json:"cached"`
	CreatedAt      time.Time `json:"created_at"`
}

// EssayResponse serializes an essay without its evaluation.
type EssayResponse struct {
	ID        uint      `json:"id"`
	ExamID    string    `json:"exam_id"`
	UserID    string    `json:"user_id"`
	EssayText string    `json:"essay_text"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitEssayResponse is the combined payload returned after a
// submission. Essay is omitted on cache hits for evaluate-only results
// that never persisted an essay row.
type SubmitEssayResponse struct {
	Essay      *EssayResponse     `json:"essay,omitempty"`
	Evaluation EvaluationResponse `json:"evaluation"`
}

// ResultResponse is the compact view served by the results endpoint.
type ResultResponse struct {
	Score          float64 `json:"score"`
	Feedback       string  `json:"feedback"`
	WordCount      int     `json:"word_count"`
	CharacterCount int     `json:"character_count"`
}

// NewEvaluationResponse converts an EvaluationResult model into a DTO.
func NewEvaluationResponse(model models.EvaluationResult, cached bool) EvaluationResponse {
	return EvaluationResponse{
		ResultID:       model.ID,
		EssayID:        model.EssayID,
		Score:          model.Score,
		Feedback:       model.Feedback,
		WordCount:      model.WordCount,
		CharacterCount: model.CharacterCount,
		Cached:         cached,
		CreatedAt:      model.CreatedAt,
	}
}

// NewEssayResponse converts an Essay model into a DTO.
func NewEssayResponse(model models.Essay) EssayResponse {
	return EssayResponse{
		ID:        model.ID,
		ExamID:    model.ExamID,
		UserID:    model.UserID,
		EssayText: model.EssayText,
		CreatedAt: model.CreatedAt,
	}
}

// NewEssayResponseSlice converts essay models into DTOs.
func NewEssayResponseSlice(essays []models.Essay) []EssayResponse {
	responses := make([]EssayResponse, 0, len(essays))
	for _, essay := range essays {
		responses = append(responses, NewEssayResponse(essay))
	}
	return responses
}

// NewResultResponse converts an EvaluationResult into the compact view.
func NewResultResponse(model models.EvaluationResult) ResultResponse {
	return ResultResponse{
		Score:          model.Score,
		Feedback:       model.Feedback,
		WordCount:      model.WordCount,
		CharacterCount: model.CharacterCount,
	}
}

// EssayDetailResponse pairs an essay with its evaluation, when one
// exists.
type EssayDetailResponse struct {
	Essay      EssayResponse       `json:"essay"`
	Evaluation *EvaluationResponse `json:"evaluation,omitempty"`
}

// NewEssayDetailResponse builds the detail view for one essay.
func NewEssayDetailResponse(model models.Essay) EssayDetailResponse {
	detail := EssayDetailResponse{Essay: NewEssayResponse(model)}
	if model.Result != nil {
		evaluation := NewEvaluationResponse(*model.Result, false)
		detail.Evaluation = &evaluation
	}
	return detail
}
