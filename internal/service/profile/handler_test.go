package profile_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/server"
	"github.com/oggyb/desire-match/internal/service/profile"
	"github.com/oggyb/desire-match/internal/testutil"
)

func TestHandlers(t *testing.T) {
	_, appCtx := setupService(t)
	e := server.NewHTTPServer(appCtx.Config, appCtx.Logger, profile.NewRegistrar(appCtx))

	call := func(method, path, body string) *httptest.ResponseRecorder {
		raw, err := appCtx.Tokens.Issue(1)
		require.NoError(t, err)
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, r)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := call(http.MethodGet, "/api/users?page=1&limit=2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`"pagination":{"currentPage":1,"totalPages":2,"totalUsers":3,"hasNext":true,"hasPrev":false}`)

	setVisibility(t, appCtx, 2, db.VisibilityPrivate)
	rec = call(http.MethodGet, "/api/users/2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"permission_denied"`)

	rec = call(http.MethodGet, "/api/users/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Cara"`)

	rec = call(http.MethodGet, "/api/users/profile", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"user1@test.com"`)
	assert.Contains(t, rec.Body.String(), `"interested_in":"female"`)

	rec = call(http.MethodPut, "/api/users/profile", `{"age":12}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "age is out of range")

	rec = call(http.MethodPut, "/api/users/profile", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No fields to update")

	rec = call(http.MethodPut, "/api/users/profile", `{"profileVisibility":"matches","emailNotifications":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Profile updated successfully"}`, rec.Body.String())

	rec = call(http.MethodPut, "/api/users/password",
		`{"currentPassword":"x","newPassword":"Secret!123","confirmPassword":"Secret!124"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirmPassword must match newPassword")

	rec = call(http.MethodPost, "/api/onboarding/complete", `{"interests":["chess"],"bio":"hi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(http.MethodGet, "/api/onboarding/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"onboardingCompleted":true`)
	assert.Contains(t, rec.Body.String(), `"interests":["chess"]`)

	rec = call(http.MethodPost, "/api/favorites/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Added to favorites"}`, rec.Body.String())

	rec = call(http.MethodGet, "/api/favorites", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched":false`)

	rec = call(http.MethodGet, "/api/users/matches", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_favorited":true`)

	rec = call(http.MethodPost, "/api/users/photos/upload-url", `{"fileName":"a.png","contentType":"image/png"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = call(http.MethodDelete, "/api/users/account", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, testutil.Count(t, appCtx.DB, &db.User{}, "id = ?", 1))
}
