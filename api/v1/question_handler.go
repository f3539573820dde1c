package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"github.com/thesrcielos/LernCasino/internal/question"
)

const defaultLevel = 1

type QuestionHandler struct {
	questions *question.QuestionService
}

func NewQuestionHandler(questions *question.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) RegisterQuestionRoutes(g *echo.Group) {
	g.GET("/questions", h.ByLevel)
}

func (h *QuestionHandler) ByLevel(c echo.Context) error {
	level := defaultLevel
	if raw := c.QueryParam("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.BadRequest("Invalid level")
		}
		level = parsed
	}

	questions, err := h.questions.ForLevel(c.Request().Context(), level)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questions)
}
