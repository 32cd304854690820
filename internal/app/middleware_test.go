package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gazette-news/gazette/internal/shared"
)

func newSessionManager(t *testing.T) (*shared.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "gazette_session", time.Hour, false), mr
}

func TestSessionMiddlewareCommitsBeforeBody(t *testing.T) {
	manager, _ := newSessionManager(t)

	handler := SessionMiddleware(manager, discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		require.NotNil(t, sess)
		sess.SetUser("user-4")
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == manager.CookieName() {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "a mutated session must be committed as a cookie")
	assert.NotEmpty(t, cookie.Value)
}

func TestSessionMiddlewareLogsCommitFailure(t *testing.T) {
	manager, mr := newSessionManager(t)

	var logBuf bytes.Buffer
	logger := newLogger(&logBuf, &Config{AppEnv: "development", LogFormat: "json"})

	handler := SessionMiddleware(manager, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		require.NotNil(t, sess)
		sess.SetUser("user-4")
		// The store goes away between load and commit.
		mr.Close()
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "the response already belongs to the client")
	assert.Contains(t, logBuf.String(), "failed to commit session")
}
