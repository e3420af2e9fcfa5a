package rest

import (
	"errors"
	"net/http"

	"groupRecommender/business/personality"
	"groupRecommender/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// QuizHandler exposes the quiz math without storing anything.
type QuizHandler struct {
	validator *validator.Validate
}

func NewQuizHandler(validate *validator.Validate) *QuizHandler {
	return &QuizHandler{validator: validate}
}

type PersonalityQuizResponse struct {
	PersonalityScores domain.TraitScores          `json:"personality_scores"`
	Levels            personality.TraitCategories `json:"levels"`
}

type MotivationQuizResponse struct {
	MotivationScores *domain.Motivations `json:"motivation_scores"`
}

var errIncompleteMotivationQuiz = errors.New("all six motivation answers (m1..m6) are required")

// Unanswered personality items score as the scale midpoint.
func (h *QuizHandler) PersonalityQuiz(c echo.Context) error {
	var req personality.QuizAnswers
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	scores := personality.CalculateTraitScores(req)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PersonalityQuizResponse{
		PersonalityScores: scores,
		Levels:            personality.Categorize(scores),
	}))
}

func (h *QuizHandler) MotivationQuiz(c echo.Context) error {
	var req personality.MotivationAnswers
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}
	if !req.Complete() {
		return badRequest(c, errIncompleteMotivationQuiz)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(MotivationQuizResponse{
		MotivationScores: personality.CalculateMotivations(req),
	}))
}
