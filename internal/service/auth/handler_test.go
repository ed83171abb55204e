package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/oggyb/desire-match/internal/server"
	"github.com/oggyb/desire-match/internal/service/auth"
	"github.com/oggyb/desire-match/internal/testutil"
)

func TestHandlers(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t)
	e := server.NewHTTPServer(appCtx.Config, appCtx.Logger, auth.NewRegistrar(appCtx))

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/auth/register", `{"username":"jo","email":"bad","password":"weak","firstName":"Jo","lastName":"S"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username must be at least 3")
	assert.Contains(t, rec.Body.String(), "email must be a valid email")
	assert.Contains(t, rec.Body.String(), "password must be at least 8 characters long")

	body := `{"username":"joana","email":"joana@example.com","password":"Secret!123","firstName":"Joana","lastName":"S"}`
	rec = post("/api/auth/register", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"`)

	rec = post("/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username or email already exists")

	rec = post("/api/auth/login", `{"email":"joana@example.com","password":"Secret!123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Login successful"`)
	assert.Contains(t, rec.Body.String(), `"firstName":"Joana"`)

	rec = post("/api/auth/login", `{"email":"joana@example.com","password":"Wrong!123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"reason":"unauthorized","message":"Invalid credentials"}`, rec.Body.String())
}
