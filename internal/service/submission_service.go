package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/essayforge/essay-api/internal/dto"
	"github.com/essayforge/essay-api/internal/exam"
	"github.com/essayforge/essay-api/internal/models"
	"github.com/essayforge/essay-api/internal/repository"
	"github.com/essayforge/essay-api/pkg/evaluator"
	"github.com/essayforge/essay-api/pkg/textmetrics"
)

const (
	minWords = 20
	maxWords = 1000
)

// ErrEssayNotFound indicates an essay could not be found.
var ErrEssayNotFound = errors.New("essay not found")

// ErrResultNotFound indicates no evaluation result exists for the essay.
var ErrResultNotFound = errors.New("result not found")

// ErrPersistence indicates the storage layer failed; any partial writes
// were rolled back.
var ErrPersistence = errors.New("persistence failure")

// ValidationError reports a rejected submission. WordCount carries the
// actual count so callers can act on out-of-range essays.
type ValidationError struct {
	Message   string
	WordCount int
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionService orchestrates the essay scoring pipeline: validate,
// consult the dedup store, evaluate, extract, persist, return.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmitEssayRequest) (dto.SubmitEssayResponse, error)
	Evaluate(ctx context.Context, payload dto.SubmitEssayRequest) (dto.EvaluationResponse, error)
	GetResult(ctx context.Context, essayID uint) (dto.ResultResponse, error)
	GetEssay(ctx context.Context, id uint) (dto.EssayDetailResponse, error)
	ListEssays(ctx context.Context, userID string, limit, offset int) ([]dto.EssayResponse, error)
}

type submissionService struct {
	essays    repository.EssayRepository
	results   repository.ResultRepository
	dedup     *EvaluationCache
	evaluator evaluator.Evaluator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(essayRepo repository.EssayRepository, resultRepo repository.ResultRepository, dedup *EvaluationCache, eval evaluator.Evaluator, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		essays:    essayRepo,
		results:   resultRepo,
		dedup:     dedup,
		evaluator: eval,
		validator: validate,
		logger:    logger.With().Str("component", "submission_service").Logger(),
		now:       time.Now,
	}
}

// Submit validates the essay, scores it, and persists essay + result as
// one transaction. A dedup hit returns the prior evaluation without
// touching the evaluator or writing any rows.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmitEssayRequest) (dto.SubmitEssayResponse, error) {
	if err := s.validate(payload); err != nil {
		return dto.SubmitEssayResponse{}, err
	}

	existing, hit, err := s.dedup.FindExisting(ctx, payload.UserID, payload.EssayText)
	if err != nil {
		return dto.SubmitEssayResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if hit {
		s.logger.Info().Str("user_id", payload.UserID).Msg("submission served from dedup store")
		return s.cachedSubmitResponse(ctx, existing), nil
	}

	result, err := s.evaluateText(ctx, payload)
	if err != nil {
		return dto.SubmitEssayResponse{}, err
	}

	essay := models.Essay{
		ExamID:    payload.ExamID,
		UserID:    payload.UserID,
		EssayText: payload.EssayText,
	}

	if err := s.essays.CreateWithResult(ctx, &essay, &result); err != nil {
		return dto.SubmitEssayResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.dedup.Store(ctx, result)
	s.logger.Info().
		Uint("essay_id", essay.ID).
		Str("exam_id", essay.ExamID).
		Float64("score", result.Score).
		Msg("essay submitted and evaluated")

	essayResponse := dto.NewEssayResponse(essay)
	return dto.SubmitEssayResponse{
		Essay:      &essayResponse,
		Evaluation: dto.NewEvaluationResponse(result, false),
	}, nil
}

// Evaluate scores the essay without creating an essay row. The result
// is still persisted so later identical submissions hit the dedup
// store.
func (s *submissionService) Evaluate(ctx context.Context, payload dto.SubmitEssayRequest) (dto.EvaluationResponse, error) {
	if err := s.validate(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	existing, hit, err := s.dedup.FindExisting(ctx, payload.UserID, payload.EssayText)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if hit {
		return dto.NewEvaluationResponse(existing, true), nil
	}

	result, err := s.evaluateText(ctx, payload)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	if err := s.results.Create(ctx, &result); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.dedup.Store(ctx, result)
	return dto.NewEvaluationResponse(result, false), nil
}

func (s *submissionService) GetResult(ctx context.Context, essayID uint) (dto.ResultResponse, error) {
	result, err := s.results.GetByEssayID(ctx, essayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return dto.NewResultResponse(result), nil
}

func (s *submissionService) GetEssay(ctx context.Context, id uint) (dto.EssayDetailResponse, error) {
	essay, err := s.essays.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EssayDetailResponse{}, ErrEssayNotFound
		}
		return dto.EssayDetailResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return dto.NewEssayDetailResponse(essay), nil
}

func (s *submissionService) ListEssays(ctx context.Context, userID string, limit, offset int) ([]dto.EssayResponse, error) {
	essays, err := s.essays.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return dto.NewEssayResponseSlice(essays), nil
}

// validate rejects incomplete or out-of-range submissions before any
// side effects happen.
func (s *submissionService) validate(payload dto.SubmitEssayRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return &ValidationError{Message: "exam_id, essay_text, and user_id are required"}
	}

	if strings.TrimSpace(payload.EssayText) == "" {
		return &ValidationError{Message: "essay text cannot be empty"}
	}

	words := textmetrics.WordCount(payload.EssayText)
	if words < minWords || words > maxWords {
		return &ValidationError{
			Message:   fmt.Sprintf("essay must be between %d and %d words, current word count: %d", minWords, maxWords, words),
			WordCount: words,
		}
	}

	return nil
}

// evaluateText runs the evaluator and re-checks the extracted values
// defensively. A score outside the exam family's range or empty
// feedback rejects the whole evaluation; nothing is persisted.
func (s *submissionService) evaluateText(ctx context.Context, payload dto.SubmitEssayRequest) (models.EvaluationResult, error) {
	family := exam.ParseFamily(payload.ExamID)

	evaluation, err := s.evaluator.Evaluate(ctx, family, payload.EssayText)
	if err != nil {
		return models.EvaluationResult{}, err
	}

	if !family.ValidScore(evaluation.Score) {
		return models.EvaluationResult{}, fmt.Errorf("%w: score %.1f outside valid range for %s", evaluator.ErrInvalidResponse, evaluation.Score, family)
	}

	if strings.TrimSpace(evaluation.Feedback) == "" {
		return models.EvaluationResult{}, fmt.Errorf("%w: empty feedback", evaluator.ErrInvalidResponse)
	}

	return models.EvaluationResult{
		UserID:         payload.UserID,
		EssayText:      payload.EssayText,
		TextHash:       models.TextDigest(payload.EssayText),
		Score:          evaluation.Score,
		Feedback:       evaluation.Feedback,
		WordCount:      evaluation.WordCount,
		CharacterCount: evaluation.CharacterCount,
		Raw:            datatypes.JSONMap(evaluation.Raw),
		CreatedAt:      s.now(),
	}, nil
}

// cachedSubmitResponse shapes a dedup hit. When the prior result came
// from a full submission its essay is attached; evaluate-only results
// have no essay row to return.
func (s *submissionService) cachedSubmitResponse(ctx context.Context, result models.EvaluationResult) dto.SubmitEssayResponse {
	response := dto.SubmitEssayResponse{
		Evaluation: dto.NewEvaluationResponse(result, true),
	}

	if result.EssayID != nil {
		if essay, err := s.essays.GetByID(ctx, *result.EssayID); err == nil {
			essayResponse := dto.NewEssayResponse(essay)
			response.Essay = &essayResponse
		}
	}

	return response
}
