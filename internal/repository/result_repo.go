package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/essayforge/essay-api/internal/models"
)

// ResultRepository defines data operations for evaluation results.
type ResultRepository interface {
	Create(ctx context.Context, result *models.EvaluationResult) error
	GetByEssayID(ctx context.Context, essayID uint) (models.EvaluationResult, error)
	FindByUserAndText(ctx context.Context, userID, essayText string) (models.EvaluationResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *models.EvaluationResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) GetByEssayID(ctx context.Context, essayID uint) (models.EvaluationResult, error) {
	var result models.EvaluationResult
	err := r.db.WithContext(ctx).
		Where("essay_id = ?", essayID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return models.EvaluationResult{}, err
	}

	return result, nil
}

// FindByUserAndText looks up a prior evaluation of the exact same text
// by the same user. The digest narrows the search so the text column
// itself never needs an index; the full text comparison guards against
// digest collisions.
func (r *resultRepository) FindByUserAndText(ctx context.Context, userID, essayText string) (models.EvaluationResult, error) {
	var result models.EvaluationResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("text_hash = ?", models.TextDigest(essayText)).
		Where("essay_text = ?", essayText).
		Order("created_at ASC").
		First(&result).Error
	if err != nil {
		return models.EvaluationResult{}, err
	}

	return result, nil
}
