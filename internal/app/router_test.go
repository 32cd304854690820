package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gazette-news/gazette/internal/announcements"
	"github.com/gazette-news/gazette/internal/articles"
	"github.com/gazette-news/gazette/internal/auth"
	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/comments"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
	"github.com/gazette-news/gazette/internal/token"
	"github.com/gazette-news/gazette/internal/users"
)

var discard = slog.New(slog.DiscardHandler)

type stubUsers struct {
	byID map[string]*users.User
}

func (s *stubUsers) FindByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubUsers) FindByNickname(ctx context.Context, nickname string) (*users.User, error) {
	for _, user := range s.byID {
		if user.Nickname == nickname {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubUsers) List(ctx context.Context, limit, offset int) ([]users.User, int, error) {
	out := make([]users.User, 0, len(s.byID))
	for _, user := range s.byID {
		out = append(out, *user)
	}
	return out, len(out), nil
}

func (s *stubUsers) Update(ctx context.Context, user *users.User) error {
	if _, ok := s.byID[user.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *user
	s.byID[user.ID] = &copied
	return nil
}

type stubArticles struct {
	byID map[int64]*articles.Article
}

func (s *stubArticles) Create(ctx context.Context, a *articles.Article) error {
	a.ID = int64(len(s.byID) + 1)
	copied := *a
	s.byID[a.ID] = &copied
	return nil
}

func (s *stubArticles) GetByID(ctx context.Context, id int64) (*articles.Article, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *stubArticles) ListPublished(ctx context.Context, limit, offset int) ([]articles.Article, int, error) {
	return nil, 0, nil
}

func (s *stubArticles) UpdateContent(ctx context.Context, id int64, title, slug, body string) error {
	a, ok := s.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.Title, a.Slug, a.Body = title, slug, body
	return nil
}

func (s *stubArticles) SetStatus(ctx context.Context, id int64, status articles.Status) error {
	a, ok := s.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.Status = status
	return nil
}

func (s *stubArticles) Delete(ctx context.Context, id int64) error {
	delete(s.byID, id)
	return nil
}

type stubComments struct{}

func (stubComments) Create(ctx context.Context, c *comments.Comment) error { return nil }
func (stubComments) ListByArticle(ctx context.Context, articleID int64, limit, offset int) ([]comments.Comment, int, error) {
	return nil, 0, nil
}
func (stubComments) Delete(ctx context.Context, id int64) error { return nil }

type stubAnnouncements struct{}

func (stubAnnouncements) Create(ctx context.Context, a *announcements.Announcement) error { return nil }
func (stubAnnouncements) List(ctx context.Context, limit, offset int) ([]announcements.Announcement, int, error) {
	return nil, 0, nil
}
func (stubAnnouncements) Delete(ctx context.Context, id int64) error { return nil }

type noopSessionLog struct{}

func (noopSessionLog) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	return nil
}
func (noopSessionLog) DeleteSession(ctx context.Context, id string) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	directory := &stubUsers{byID: map[string]*users.User{
		"u-editor": {
			ID:           "u-editor",
			Nickname:     "sam",
			DisplayName:  "Sam the Editor",
			Role:         authz.RoleEditor,
			PasswordHash: string(hash),
		},
	}}

	tokens, err := token.NewService(token.Config{
		Secret:     []byte("router-test-secret"),
		Issuer:     "gazette-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessions := shared.NewSessionManager(redisClient, "gazette_session", time.Hour, false)

	cfg := &Config{AppRequestTimeout: 10 * time.Second}
	logger := discard

	authHandler := auth.NewHandler(logger, auth.NewService(directory), tokens, sessions, noopSessionLog{}, false)
	usersHandler := users.NewHandler(logger, users.NewService(directory))

	articleStore := &stubArticles{byID: map[int64]*articles.Article{
		1: {ID: 1, Title: "Draft", Slug: "draft", Body: "body", AuthorID: "u-editor", Status: articles.StatusDraft},
	}}
	articlesHandler := articles.NewHandler(logger, articles.NewService(articleStore), validator.New())
	commentsHandler := comments.NewHandler(logger, comments.NewService(stubComments{}))
	announcementsHandler := announcements.NewHandler(logger, announcements.NewService(stubAnnouncements{}))

	return NewRouter(RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessions,
		BearerResolver:       &principal.BearerResolver{Tokens: tokens, Logger: logger},
		SessionResolver:      &principal.SessionResolver{Users: users.PrincipalDirectory{Repo: directory}, Logger: logger},
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		ArticlesHandler:      articlesHandler,
		CommentsHandler:      commentsHandler,
		AnnouncementsHandler: announcementsHandler,
	})
}

func loginAccessToken(t *testing.T, router http.Handler) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"nickname": "sam", "password": "correct-horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRouterSessionEndpointPaths(t *testing.T) {
	router := newTestRouter(t)

	// Token endpoints sit directly under the API prefix.
	body, _ := json.Marshal(map[string]string{"nickname": "sam", "password": "correct-horse"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/session/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/session/logout", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/session/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterAnonymousGatedEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles", bytes.NewReader([]byte(`{"title":"abc def","body":"x"}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouterEditorPermittedEndpoint(t *testing.T) {
	router := newTestRouter(t)
	access := loginAccessToken(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/1/approve", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var article articles.Article
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &article))
	assert.Equal(t, articles.StatusPublished, article.Status)
}

func TestRouterEditorDeniedCoordEndpoint(t *testing.T) {
	router := newTestRouter(t)
	access := loginAccessToken(t, router)

	// team.user.update starts at Coord; an editor must bounce off the gate.
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/u-editor", bytes.NewReader([]byte(`{"displayName":"New Name"}`)))
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouterPublicListing(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterWebLoginEstablishesSession(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"nickname": "sam", "password": "correct-horse"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "gazette_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "expected a session cookie after web login")

	meReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	meReq.AddCookie(sessionCookie)
	meRR := httptest.NewRecorder()
	router.ServeHTTP(meRR, meReq)

	require.Equal(t, http.StatusOK, meRR.Code, meRR.Body.String())
	var me struct {
		Role     string   `json:"role"`
		Nickname string   `json:"nickname"`
		Perms    []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(meRR.Body.Bytes(), &me))
	assert.Equal(t, "editor", me.Role)
	assert.Equal(t, "sam", me.Nickname)
	assert.Contains(t, me.Perms, string(authz.PermArticleApprove))
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
