package web

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-trainer/internal/context"
)

func AuthMiddleware(cookieProc *CookiesProcessor, jwtProc *JWTProcessor, log *slog.Logger) func(next echo.HandlerFunc) echo.HandlerFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := cookieProc.GetAccessToken(c)
			if !ok {
				return redirectToLogin(c)
			}

			userID, err := jwtProc.ParseAccessToken(token)
			if err != nil {
				log.WarnContext(c.Request().Context(), "parse access token", "error", err)
				c.SetCookie(cookieProc.ExpireAccessTokenCookie())
				return redirectToLogin(c)
			}

			c.SetRequest(c.Request().WithContext(context.WithUserID(c.Request().Context(), userID)))

			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/login")
}

func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}
