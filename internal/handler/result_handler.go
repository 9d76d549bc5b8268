package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/essayforge/essay-api/internal/service"
	"github.com/essayforge/essay-api/internal/utils"
)

// ResultHandler serves persisted evaluation results.
type ResultHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewResultHandler builds a result handler instance.
func NewResultHandler(service service.SubmissionService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		logger:  logger.With().Str("component", "result_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ResultHandler) Register(router fiber.Router) {
	router.Get("/:essay_id", h.get)
}

func (h *ResultHandler) get(c *fiber.Ctx) error {
	essayID, err := parseUintParam(c, "essay_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.GetResult(c.UserContext(), essayID)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}
