package messaging_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/desire-match/internal/server"
	"github.com/oggyb/desire-match/internal/service/matching"
	"github.com/oggyb/desire-match/internal/service/messaging"
	"github.com/oggyb/desire-match/internal/testutil"
)

func TestHandlers(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t)
	testutil.Pair(t, appCtx.DB)
	e := server.NewHTTPServer(appCtx.Config, appCtx.Logger,
		matching.NewRegistrar(appCtx),
		messaging.NewRegistrar(appCtx),
	)

	call := func(userID uint64, method, path string, body io.Reader) *httptest.ResponseRecorder {
		raw, err := appCtx.Tokens.Issue(userID)
		require.NoError(t, err)
		req := httptest.NewRequest(method, path, body)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
		if body != nil {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := call(1, http.MethodPost, "/api/messages/start-conversation/2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t,
		`{"success":false,"reason":"permission_denied","message":"You can only message matched users"}`,
		rec.Body.String())

	rec = call(1, http.MethodPost, "/api/messages/start-conversation/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusOK, call(1, http.MethodPost, "/api/matches/like/2", nil).Code)
	require.Equal(t, http.StatusOK, call(2, http.MethodPost, "/api/matches/like/1", nil).Code)

	rec = call(1, http.MethodPost, "/api/messages/start-conversation/2", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"conversationId":1}`, rec.Body.String())

	rec = call(2, http.MethodPost, "/api/messages/start-conversation/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"conversationId":1}`, rec.Body.String())

	rec = call(1, http.MethodPost, "/api/messages/send", strings.NewReader(`{"conversationId":1,"message":"hello"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"messageId":1}`, rec.Body.String())

	rec = call(1, http.MethodPost, "/api/messages/send", strings.NewReader(`{"conversationId":1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "message is required")

	rec = call(2, http.MethodGet, "/api/messages/conversations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last_message":"hello"`)
	assert.Contains(t, rec.Body.String(), `"unread_count":1`)

	rec = call(2, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", 1), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"hello"`)
	assert.Contains(t, rec.Body.String(), `"is_from_me":false`)
}
