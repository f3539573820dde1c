package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler renders every error as {"error": "..."}.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var appErr *AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"error": message})
		}
		if err != nil {
			log.Warn("writing error response", zap.Error(err))
		}
	}
}
