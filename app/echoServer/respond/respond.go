// Package respond is the single place service errors become HTTP responses.
// Controllers hand errors over as-is; the kind decides the status and the
// client-safe message.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func OK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Error(c echo.Context, log *slog.Logger, err error) error {
	status := statusOf(apperr.KindOf(err))
	if status == http.StatusInternalServerError && log != nil {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		log.Error("request failed",
			"err", err,
			"req_id", rid,
			"path", c.Path(),
			"method", c.Request().Method,
		)
	}
	return c.JSON(status, Envelope{Success: false, Message: apperr.UserMessage(err)})
}

func ValidationError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "validation error",
		Errors:  err.Error(),
	})
}

func statusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
