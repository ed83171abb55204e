package matching_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/desire-match/internal/server"
	"github.com/oggyb/desire-match/internal/service/matching"
	"github.com/oggyb/desire-match/internal/testutil"
)

func TestHandlers(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t)
	testutil.Pair(t, appCtx.DB)
	e := server.NewHTTPServer(appCtx.Config, appCtx.Logger, matching.NewRegistrar(appCtx))

	call := func(userID uint64, method, path string) *httptest.ResponseRecorder {
		raw, err := appCtx.Tokens.Issue(userID)
		require.NoError(t, err)
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := call(1, http.MethodPost, "/api/matches/like/2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"isMatch":false,"matchedUser":null}`, rec.Body.String())

	rec = call(2, http.MethodPost, "/api/matches/like/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"isMatch":true,"matchedUser":{"id":1,"first_name":"Adam","profile_image":"https://img.test/1.jpg"}}`,
		rec.Body.String())

	rec = call(1, http.MethodPost, "/api/matches/like/2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"reason":"duplicate_action","message":"Already liked this user"}`, rec.Body.String())

	rec = call(1, http.MethodPost, "/api/matches/like/1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"self_action"`)

	rec = call(1, http.MethodPost, "/api/matches/like/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"invalid_argument"`)

	rec = call(1, http.MethodGet, "/api/matches/my-matches")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Beth"`)
	assert.Contains(t, rec.Body.String(), `"match_date"`)

	rec = call(2, http.MethodGet, "/api/matches/likes-me")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"liked_back":true`)

	rec = call(2, http.MethodGet, "/api/matches/likes-me/count")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"count":1}`, rec.Body.String())

	rec = call(1, http.MethodPost, "/api/matches/dislike/2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = call(1, http.MethodPost, "/api/matches/unmatch/2")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(1, http.MethodPost, "/api/matches/unmatch/2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"reason":"not_found","message":"No match found"}`, rec.Body.String())

	rec = call(1, http.MethodGet, "/api/matches/my-likes")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched":false`)
}

func TestHandlers_RequireToken(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t)
	e := server.NewHTTPServer(appCtx.Config, appCtx.Logger, matching.NewRegistrar(appCtx))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/matches/my-matches", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
