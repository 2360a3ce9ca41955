package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorMiddleware(debug bool) *ErrorMiddleware {
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) (bool, string, string) {
	t.Helper()

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Details string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Success, body.Error.Code, body.Error.Details
}

func TestHandleHTTPErrorAppError(t *testing.T) {
	m := newErrorMiddleware(false)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.HandleHTTPError(domainerrors.ErrNotFound.WithDetails("no such product"), c)

	assert.Equal(t, domainerrors.ErrNotFound.HTTPCode(), rec.Code)
	success, code, details := decodeErrorBody(t, rec)
	assert.False(t, success)
	assert.Equal(t, domainerrors.ErrNotFound.ErrorCode(), code)
	assert.Equal(t, "no such product", details)
}

func TestHandleHTTPErrorWrappedAppError(t *testing.T) {
	m := newErrorMiddleware(false)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.HandleHTTPError(errors.Wrap(domainerrors.ErrConflict, "creating order"), c)

	assert.Equal(t, domainerrors.ErrConflict.HTTPCode(), rec.Code)
	_, code, _ := decodeErrorBody(t, rec)
	assert.Equal(t, domainerrors.ErrConflict.ErrorCode(), code)
}

func TestHandleHTTPErrorEchoError(t *testing.T) {
	m := newErrorMiddleware(false)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.HandleHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), c)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	_, code, _ := decodeErrorBody(t, rec)
	assert.Equal(t, "HTTP_ERROR", code)
}

func TestHandleHTTPErrorUnknownHidesDetails(t *testing.T) {
	m := newErrorMiddleware(false)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.HandleHTTPError(errors.New("pq: connection refused"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	success, code, details := decodeErrorBody(t, rec)
	assert.False(t, success)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.Empty(t, details)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHandleHTTPErrorUnknownShowsDetailsInDebug(t *testing.T) {
	m := newErrorMiddleware(true)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.HandleHTTPError(errors.New("pq: connection refused"), c)

	_, _, details := decodeErrorBody(t, rec)
	assert.Contains(t, details, "connection refused")
}

func TestHandleHTTPErrorCommittedResponse(t *testing.T) {
	m := newErrorMiddleware(false)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, c.NoContent(http.StatusOK))
	m.HandleHTTPError(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
