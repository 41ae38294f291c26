package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/vocab-trainer/internal/context"
	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
	"github.com/Roma7-7-7/vocab-trainer/internal/learning"
)

type (
	indexPage struct {
		Flash    string
		Username string
		Score    int
		Level    int
		Stats    dal.WordStats
		DueWords []dal.Word
	}

	IndexHandler struct {
		repo             dal.Repository
		cookiesProcessor *CookiesProcessor
		rules            learning.Rules
		now              func() time.Time
		log              *slog.Logger
	}
)

func NewIndexHandler(repo dal.Repository, cookiesProc *CookiesProcessor, rules learning.Rules, now func() time.Time, log *slog.Logger) *IndexHandler {
	return &IndexHandler{
		repo:             repo,
		cookiesProcessor: cookiesProc,
		rules:            rules,
		now:              now,
		log:              log,
	}
}

func (h *IndexHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := context.UserIDFromContext(ctx)
	if !ok {
		return redirectToLogin(c)
	}
	today := dal.Day(h.now())

	var (
		user  *dal.User
		stats *dal.WordStats
		due   []dal.Word
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		user, err = h.repo.FindUser(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		stats, err = h.repo.GetWordStats(egCtx, userID, today, h.rules.MasteredInterval)
		return err
	})
	eg.Go(func() error {
		var err error
		due, err = h.repo.FindDueWords(egCtx, userID, today)
		return err
	})
	if err := eg.Wait(); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			h.log.WarnContext(ctx, "user from access token not found", "user_id", userID)
			c.SetCookie(h.cookiesProcessor.ExpireAccessTokenCookie())
			return redirectToLogin(c)
		}
		h.log.ErrorContext(ctx, "failed to load dashboard", "error", err)
		return err
	}

	return c.Render(http.StatusOK, "index.html", indexPage{
		Flash:    h.cookiesProcessor.PopFlash(c),
		Username: user.Username,
		Score:    user.Score,
		Level:    h.rules.Level(user.Score),
		Stats:    *stats,
		DueWords: due,
	})
}
