package web

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-trainer/internal/context"
	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
	"github.com/Roma7-7-7/vocab-trainer/internal/learning"
)

type (
	ScoreResponse struct {
		Score int `json:"score"`
		Level int `json:"level"`
	}

	quizPage struct {
		Flash   string
		Word    string
		Answer  string
		Options []string
	}

	QuizHandler struct {
		repo             dal.Repository
		cookiesProcessor *CookiesProcessor
		rules            learning.Rules
		newRand          func() *rand.Rand
		log              *slog.Logger
	}
)

func NewQuizHandler(repo dal.Repository, cookiesProc *CookiesProcessor, rules learning.Rules, newRand func() *rand.Rand, log *slog.Logger) *QuizHandler {
	return &QuizHandler{
		repo:             repo,
		cookiesProcessor: cookiesProc,
		rules:            rules,
		newRand:          newRand,
		log:              log,
	}
}

func (h *QuizHandler) QuizPage(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := context.UserIDFromContext(ctx)
	if !ok {
		return redirectToLogin(c)
	}

	words, err := h.repo.FindWords(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to find words", "error", err)
		return err
	}

	quiz, err := learning.NewQuiz(words, h.newRand())
	if err != nil {
		if errors.Is(err, learning.ErrInsufficientWords) {
			h.cookiesProcessor.SetFlash(c, "Not enough words for a quiz. Add at least 4 words.")
			return redirectHome(c)
		}
		h.log.ErrorContext(ctx, "failed to build quiz", "error", err)
		return err
	}

	return c.Render(http.StatusOK, "quiz.html", quizPage{
		Flash:   h.cookiesProcessor.PopFlash(c),
		Word:    quiz.Word.Text,
		Answer:  quiz.Word.Translation,
		Options: quiz.Options,
	})
}

func (h *QuizHandler) UpdateScore(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := context.UserIDFromContext(ctx)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{"Unauthorized"})
	}

	score, err := h.repo.AddScore(ctx, userID, h.rules.PointsPerCorrectAnswer)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{"User not found"})
		}
		h.log.ErrorContext(ctx, "failed to update score", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, ScoreResponse{Score: score, Level: h.rules.Level(score)})
}
