package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-trainer/internal/context"
	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
	"github.com/Roma7-7-7/vocab-trainer/internal/learning"
)

type (
	AddWordForm struct {
		Word       string `form:"word" validate:"max=100"`
		Category   string `form:"category" validate:"max=50"`
		Definition string `form:"definition" validate:"max=2000"`
	}

	WordsHandler struct {
		repo             dal.Repository
		enricher         Enricher
		cookiesProcessor *CookiesProcessor
		now              func() time.Time
		log              *slog.Logger
	}
)

func NewWordsHandler(repo dal.Repository, enricher Enricher, cookiesProc *CookiesProcessor, now func() time.Time, log *slog.Logger) *WordsHandler {
	return &WordsHandler{
		repo:             repo,
		enricher:         enricher,
		cookiesProcessor: cookiesProc,
		now:              now,
		log:              log,
	}
}

func (h *WordsHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := context.UserIDFromContext(ctx)
	if !ok {
		return redirectToLogin(c)
	}

	var form AddWordForm
	if err := c.Bind(&form); err != nil {
		h.log.DebugContext(ctx, "failed to bind add word form", "error", err)
		return redirectHome(c)
	}
	form.Word = strings.ToLower(strings.TrimSpace(form.Word))
	form.Category = strings.TrimSpace(form.Category)
	form.Definition = strings.TrimSpace(form.Definition)
	if form.Word == "" {
		return redirectHome(c)
	}
	if err := c.Validate(&form); err != nil {
		h.log.DebugContext(ctx, "invalid add word form", "error", err)
		h.cookiesProcessor.SetFlash(c, "The word or its details are too long.")
		return redirectHome(c)
	}

	enrichment, err := h.enricher.Enrich(ctx, form.Word)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to enrich word", "word", form.Word, "error", err)
		h.cookiesProcessor.SetFlash(c, "Error fetching translation or image.")
		return redirectHome(c)
	}

	word, err := h.repo.AddWord(ctx, dal.Word{
		UserID:      userID,
		Text:        form.Word,
		Translation: enrichment.Translation,
		Definition:  form.Definition,
		Category:    form.Category,
		ImageURL:    enrichment.ImageURL,
		NextReview:  dal.Day(h.now()),
		Interval:    learning.MinInterval,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "failed to add word", "error", err)
		return err
	}

	h.log.DebugContext(ctx, "word added", "word_id", word.ID)
	h.cookiesProcessor.SetFlash(c, fmt.Sprintf("Word %q added.", word.Text))
	return redirectHome(c)
}

func (h *WordsHandler) Review(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := context.UserIDFromContext(ctx)
	if !ok {
		return redirectToLogin(c)
	}

	wordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.log.DebugContext(ctx, "failed to parse word id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Word not found").SetInternal(err)
	}
	outcome := learning.Outcome(c.Param("status"))
	today := dal.Day(h.now())

	err = h.repo.Transact(ctx, func(r dal.Repository) error {
		word, err := r.FindWord(ctx, userID, wordID)
		if err != nil {
			return fmt.Errorf("find word: %w", err)
		}

		interval, nextReview := learning.Schedule(word.Interval, outcome, today)
		if err = r.UpdateWordSchedule(ctx, userID, wordID, interval, nextReview); err != nil {
			return fmt.Errorf("update word schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Word not found").SetInternal(err)
		}
		h.log.ErrorContext(ctx, "failed to review word", "error", err)
		return err
	}

	return redirectHome(c)
}
