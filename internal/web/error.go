package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Message string `json:"error"`
}

var InternalServerError = ErrorResponse{"Internal server error"}

type errorPage struct {
	Code    int
	Message string
}

func HTTPErrorHandler(log *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			// already handled
			return
		}

		ctx := c.Request().Context()
		code := http.StatusInternalServerError
		message := "Something went wrong"

		var echoError *echo.HTTPError
		if errors.As(err, &echoError) {
			code = echoError.Code
			if msg, ok := echoError.Message.(string); ok && code < http.StatusInternalServerError {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "failed to process request", "error", err)
		} else {
			log.DebugContext(ctx, "request rejected", "status", code, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
			err = c.JSON(code, ErrorResponse{message})
		} else {
			err = c.Render(code, "error.html", errorPage{Code: code, Message: message})
		}
		if err != nil {
			log.ErrorContext(ctx, "failed to respond with error", "error", err)
		}
	}
}
