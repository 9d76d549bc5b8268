package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/essayforge/essay-api/internal/dto"
	"github.com/essayforge/essay-api/internal/service"
	"github.com/essayforge/essay-api/internal/utils"
	"github.com/essayforge/essay-api/pkg/evaluator"
)

// EssayHandler manages essay submission and evaluation endpoints.
type EssayHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewEssayHandler builds an essay handler instance.
func NewEssayHandler(service service.SubmissionService, logger zerolog.Logger) *EssayHandler {
	return &EssayHandler{
		service: service,
		logger:  logger.With().Str("component", "essay_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EssayHandler) Register(router fiber.Router) {
	router.Post("/submit", h.submit)
	router.Post("/evaluate", h.evaluate)
	router.Get("/user/:user_id", h.listByUser)
	router.Get("/:id", h.get)
}

func (h *EssayHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitEssayRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "essay submitted and evaluated", response)
}

func (h *EssayHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.SubmitEssayRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Evaluate(c.UserContext(), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "essay evaluated", evaluation)
}

func (h *EssayHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.service.GetEssay(c.UserContext(), id)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "essay retrieved", detail)
}

func (h *EssayHandler) listByUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	limit, _ := parseQueryInt(c, "limit")
	offset, _ := parseQueryInt(c, "offset")

	essays, err := h.service.ListEssays(c.UserContext(), userID, limit, offset)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "essays retrieved", essays)
}

// handleServiceError maps pipeline failures onto HTTP statuses. The
// evaluator cases get distinct messages so operators can tell "the
// evaluator is down" from "the evaluator replied nonsense".
func handleServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErr *service.ValidationError
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErr):
		return utils.SendError(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrEssayNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "essay not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "no question found for this exam")
	case errors.Is(err, evaluator.ErrUnavailable):
		logger.Error().Err(err).Msg("evaluator unavailable")
		return utils.SendError(c, fiber.StatusBadGateway, "essay evaluator is unavailable")
	case errors.Is(err, evaluator.ErrInvalidResponse):
		logger.Error().Err(err).Msg("evaluator response invalid")
		return utils.SendError(c, fiber.StatusBadGateway, "essay evaluator returned an invalid response")
	case errors.Is(err, service.ErrPersistence):
		logger.Error().Err(err).Msg("persistence failure")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "storage is unavailable")
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
