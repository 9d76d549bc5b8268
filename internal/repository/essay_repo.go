package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/essayforge/essay-api/internal/models"
)

// EssayRepository defines data operations for essays.
type EssayRepository interface {
	Create(ctx context.Context, essay *models.Essay) error
	CreateWithResult(ctx context.Context, essay *models.Essay, result *models.EvaluationResult) error
	GetByID(ctx context.Context, id uint) (models.Essay, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Essay, error)
}

type essayRepository struct {
	db *gorm.DB
}

// NewEssayRepository instantiates the repository.
func NewEssayRepository(db *gorm.DB) EssayRepository {
	return &essayRepository{db: db}
}

func (r *essayRepository) Create(ctx context.Context, essay *models.Essay) error {
	return r.db.WithContext(ctx).Create(essay).Error
}

// CreateWithResult writes the essay and its evaluation result in one
// transaction. Either both rows exist afterwards or neither does.
func (r *essayRepository) CreateWithResult(ctx context.Context, essay *models.Essay, result *models.EvaluationResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(essay).Error; err != nil {
			return err
		}

		result.EssayID = &essay.ID
		return tx.Create(result).Error
	})
}

func (r *essayRepository) GetByID(ctx context.Context, id uint) (models.Essay, error) {
	var essay models.Essay
	if err := r.db.WithContext(ctx).Preload("Result").First(&essay, id).Error; err != nil {
		return models.Essay{}, err
	}

	return essay, nil
}

func (r *essayRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Essay, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	var essays []models.Essay
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&essays).Error
	if err != nil {
		return nil, err
	}

	return essays, nil
}
