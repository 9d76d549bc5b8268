package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/essayforge/essay-api/internal/models"
)

// QuestionRepository reads practice questions. Questions are reference
// data; nothing here writes them.
type QuestionRepository interface {
	GetRandom(ctx context.Context, examID string) (models.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) GetRandom(ctx context.Context, examID string) (models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("RANDOM()").
		First(&question).Error
	if err != nil {
		return models.Question{}, err
	}

	return question, nil
}
