package dto

import "github.com/essayforge/essay-api/internal/models"

// QuestionResponse serializes a practice question.
type QuestionResponse struct {
	ID           uint   `json:"id"`
	ExamID       string `json:"exam_id"`
	QuestionText string `json:"question_text"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:           model.ID,
		ExamID:       model.ExamID,
		QuestionText: model.QuestionText,
	}
}
