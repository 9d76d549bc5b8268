package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/essayforge/essay-api/internal/service"
	"github.com/essayforge/essay-api/internal/utils"
)

// QuestionHandler serves practice questions.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler builds a question handler instance.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("", h.random)
}

func (h *QuestionHandler) random(c *fiber.Ctx) error {
	question, err := h.service.Random(c.UserContext(), c.Query("exam_id"))
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "question retrieved", question)
}
