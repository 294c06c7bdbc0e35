package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"blog-backend/internal/auth/service"
	"blog-backend/internal/security"
	"blog-backend/internal/server/middleware"
	"blog-backend/internal/user/domain"
)

// memoryRepo is an in-memory user repository for handler tests.
type memoryRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) List(ctx context.Context) ([]*domain.User, error) { return nil, nil }

func (m *memoryRepo) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *memoryRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*domain.User, error) {
	return nil, nil
}

func (m *memoryRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}

func (m *memoryRepo) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) { return false, nil }

const testPassword = "Str0ng!pass"

func newTestRouter(t *testing.T) (*mux.Router, *memoryRepo, *security.TokenProvider) {
	t.Helper()
	repo := newMemoryRepo()
	tokens := security.NewTestTokenProvider()
	svc := service.NewAuthService(repo, security.NewHasher(4), tokens, nil, nil, "http://localhost:3000")

	h := New(svc, CookieConfig{AccessTTL: 24 * time.Hour, RefreshTTL: 7 * 24 * time.Hour})

	router := mux.NewRouter()
	public := router.PathPrefix("/api").Subrouter()
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(middleware.RequireAuth(tokens))
	h.Register(public, authed)
	return router, repo, tokens
}

func postJSON(t *testing.T, router *mux.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func registerAndVerify(t *testing.T, router *mux.Router, repo *memoryRepo, email string) uuid.UUID {
	t.Helper()
	rr := postJSON(t, router, "/api/auth/register", map[string]string{
		"name": "Ada", "email": email, "password": testPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rr.Code, rr.Body.String())
	}
	user, err := repo.GetByEmail(context.Background(), email)
	if err != nil || user == nil {
		t.Fatalf("user not stored: %v", err)
	}
	if err := repo.SetEmailVerified(context.Background(), user.ID); err != nil {
		t.Fatalf("SetEmailVerified: %v", err)
	}
	return user.ID
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": testPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Data.Email != "ada@example.com" {
		t.Errorf("email = %q", resp.Data.Email)
	}
	if resp.Data.Role != "USER" {
		t.Errorf("role = %q, want USER", resp.Data.Role)
	}
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "not-an-email", "password": testPassword,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	registerAndVerify(t, router, repo, "ada@example.com")

	rr := postJSON(t, router, "/api/auth/register", map[string]string{
		"name": "Other", "email": "ada@example.com", "password": testPassword,
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestLoginEndpoint_SetsCookies(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	registerAndVerify(t, router, repo, "ada@example.com")

	rr := postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": testPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	cookies := rr.Result().Cookies()
	auth := cookieByName(cookies, middleware.AuthCookieName)
	refresh := cookieByName(cookies, refreshCookieName)
	if auth == nil || auth.Value == "" {
		t.Fatal("auth_token cookie should be set")
	}
	if refresh == nil || refresh.Value == "" {
		t.Fatal("refresh_token cookie should be set")
	}
	if !auth.HttpOnly {
		t.Error("auth_token cookie should be HttpOnly")
	}
	if auth.SameSite != http.SameSiteLaxMode {
		t.Error("auth_token cookie should be SameSite=Lax")
	}
	if auth.Path != "/" {
		t.Errorf("auth_token path = %q, want /", auth.Path)
	}
	if auth.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("auth_token max-age = %d, want 24h", auth.MaxAge)
	}
	if refresh.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("refresh_token max-age = %d, want 7d", refresh.MaxAge)
	}

	var resp struct {
		Data struct {
			AuthToken    string `json:"authToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.AuthToken == "" || resp.Data.RefreshToken == "" {
		t.Error("tokens should also be returned in the body")
	}
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	registerAndVerify(t, router, repo, "ada@example.com")

	rr := postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "Wr0ng!pass",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
}

func TestLoginEndpoint_UnverifiedEmail(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": testPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d", rr.Code)
	}

	rr = postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": testPassword,
	})
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestLogoutEndpoint_ClearsCookies(t *testing.T) {
	router, repo, tokens := newTestRouter(t)
	userID := registerAndVerify(t, router, repo, "ada@example.com")

	access, _, _, err := tokens.IssueSession(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	cookies := rr.Result().Cookies()
	auth := cookieByName(cookies, middleware.AuthCookieName)
	if auth == nil || auth.Value != "" || auth.MaxAge >= 0 {
		t.Error("auth_token cookie should be cleared")
	}
	refresh := cookieByName(cookies, refreshCookieName)
	if refresh == nil || refresh.Value != "" || refresh.MaxAge >= 0 {
		t.Error("refresh_token cookie should be cleared")
	}
}

func TestLogoutEndpoint_RequiresAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestRefreshEndpoint_FromCookie(t *testing.T) {
	router, repo, tokens := newTestRouter(t)
	userID := registerAndVerify(t, router, repo, "ada@example.com")

	_, refresh, _, err := tokens.IssueSession(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if c := cookieByName(rr.Result().Cookies(), middleware.AuthCookieName); c == nil || c.Value == "" {
		t.Error("refresh should set a new auth_token cookie")
	}
}

func TestRefreshEndpoint_MissingToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestVerifyEmailEndpoint(t *testing.T) {
	router, repo, tokens := newTestRouter(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": testPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d", rr.Code)
	}
	user, _ := repo.GetByEmail(context.Background(), "ada@example.com")

	token, err := tokens.IssueEmailVerification(user.ID)
	if err != nil {
		t.Fatalf("IssueEmailVerification: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token="+url.QueryEscape(token), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	stored, _ := repo.GetByID(context.Background(), user.ID)
	if !stored.EmailVerified {
		t.Error("user should be verified after the link is followed")
	}
}

func TestVerifyEmailEndpoint_BadToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=garbage", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
