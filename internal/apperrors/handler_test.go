package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	e.HTTPErrorHandler(err, c)
	return rec
}

func TestHTTPErrorHandler_AppError(t *testing.T) {
	rec := serveError(t, Conflict("Username already taken"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Username already taken"}`, rec.Body.String())
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec := serveError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestHTTPErrorHandler_HidesInternalCause(t *testing.T) {
	rec := serveError(t, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestCode(t *testing.T) {
	wrapped := Internal("boom", errors.New("cause"))
	assert.Equal(t, http.StatusInternalServerError, Code(wrapped))
	assert.Equal(t, http.StatusNotFound, Code(NotFound("missing")))
	assert.Equal(t, http.StatusInternalServerError, Code(errors.New("plain")))
	assert.Equal(t, "boom: cause", wrapped.Error())
}
