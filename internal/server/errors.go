package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	svcErr "github.com/oggyb/desire-match/internal/errors"
)

type errorBody struct {
	Success bool        `json:"success"`
	Reason  svcErr.Code `json:"reason"`
	Message string      `json:"message"`
}

// ErrorHandler renders every failure as {success:false, reason, message}.
// 4xx are caller mistakes and logged at debug; 5xx are logged at error
// (which also reaches Sentry through the logger) and never leak detail.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolve(err)
		req := c.Request()
		if status >= http.StatusInternalServerError {
			log.ErrorContext(req.Context(), "request failed",
				"method", req.Method,
				"path", c.Path(),
				"status", status,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"err", err,
			)
		} else {
			log.DebugContext(req.Context(), "request rejected", "path", c.Path(), "status", status, "reason", body.Reason)
		}

		if req.Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("failed to write error response", "err", err)
		}
	}
}

func resolve(err error) (int, errorBody) {
	if he, ok := err.(*echo.HTTPError); ok {
		status := he.Code
		msg := http.StatusText(status)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		if status >= http.StatusInternalServerError {
			msg = "Internal server error"
		}
		return status, errorBody{Reason: codeForStatus(status), Message: msg}
	}

	e := svcErr.From(err)
	status := e.HTTPStatus()
	msg := e.Message
	if e.Code == svcErr.CodeInternal {
		msg = "Internal server error"
	}
	return status, errorBody{Reason: e.Code, Message: msg}
}

func codeForStatus(status int) svcErr.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return svcErr.CodeInvalidArgument
	case http.StatusUnauthorized:
		return svcErr.CodeUnauthorized
	case http.StatusForbidden:
		return svcErr.CodePermission
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return svcErr.CodeNotFound
	case http.StatusTooManyRequests:
		return svcErr.CodeRateLimited
	case http.StatusServiceUnavailable:
		return svcErr.CodeUnavailable
	case http.StatusGatewayTimeout:
		return svcErr.CodeTimeout
	default:
		return svcErr.CodeInternal
	}
}
