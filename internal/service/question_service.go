package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/essayforge/essay-api/internal/dto"
	"github.com/essayforge/essay-api/internal/repository"
)

// ErrQuestionNotFound indicates no question exists for the exam.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService serves practice questions.
type QuestionService interface {
	Random(ctx context.Context, examID string) (dto.QuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questionRepo repository.QuestionRepository, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questionRepo,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) Random(ctx context.Context, examID string) (dto.QuestionResponse, error) {
	if examID == "" {
		return dto.QuestionResponse{}, &ValidationError{Message: "exam_id is required"}
	}

	question, err := s.questions.GetRandom(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return dto.NewQuestionResponse(question), nil
}
