package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if u.Email != email {
		u.EmailVerified = false
	}
	u.Name = name
	u.Email = email
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (m *memoryRepo) SetEmailVerified(ctx context.Context, id uuid.UUID) error { return nil }

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) { return false, nil }

const testPassword = "Str0ng!pass"

func newTestSetup(t *testing.T) (*mux.Router, *memoryRepo, *security.TokenProvider, uuid.UUID) {
	t.Helper()
	repo := newMemoryRepo()
	tokens := security.NewTestTokenProvider()
	hasher := security.NewHasher(4)

	hash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	user := &domain.User{
		ID:            uuid.New(),
		Name:          "Ada",
		Email:         "ada@example.com",
		PasswordHash:  hash,
		Role:          domain.RoleUser,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	authSvc := service.NewAuthService(repo, hasher, tokens, nil, nil, "")
	h := New(repo, authSvc)

	router := mux.NewRouter()
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(middleware.RequireAuth(tokens))
	h.Register(authed)
	return router, repo, tokens, user.ID
}

func authedRequest(t *testing.T, tokens *security.TokenProvider, userID uuid.UUID, method, path string, body any) *http.Request {
	t.Helper()
	access, _, _, err := tokens.IssueSession(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+access)
	return req
}

func TestGetProfile(t *testing.T) {
	router, _, tokens, userID := newTestSetup(t)

	req := authedRequest(t, tokens, userID, http.MethodGet, "/api/users/me", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.ID != userID.String() {
		t.Errorf("id = %q, want %q", resp.Data.ID, userID)
	}
	if resp.Data.Email != "ada@example.com" {
		t.Errorf("email = %q", resp.Data.Email)
	}
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	router, _, _, _ := newTestSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	router, repo, tokens, userID := newTestSetup(t)

	req := authedRequest(t, tokens, userID, http.MethodPut, "/api/users/me", map[string]string{
		"name": "Ada Lovelace", "email": "lovelace@example.com",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	stored, _ := repo.GetByID(context.Background(), userID)
	if stored.Name != "Ada Lovelace" {
		t.Errorf("name = %q", stored.Name)
	}
	if stored.Email != "lovelace@example.com" {
		t.Errorf("email = %q", stored.Email)
	}
	if stored.EmailVerified {
		t.Error("email change should reset verification")
	}
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	router, repo, tokens, userID := newTestSetup(t)
	other := &domain.User{ID: uuid.New(), Name: "Grace", Email: "grace@example.com", PasswordHash: "x", Role: domain.RoleUser}
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := authedRequest(t, tokens, userID, http.MethodPut, "/api/users/me", map[string]string{
		"name": "Ada", "email": "grace@example.com",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestUpdateProfile_InvalidInput(t *testing.T) {
	router, _, tokens, userID := newTestSetup(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"name": "Ada", "email": "nope"}},
		{"empty name", map[string]string{"name": "  ", "email": "ada@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authedRequest(t, tokens, userID, http.MethodPut, "/api/users/me", tc.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestChangePasswordEndpoint(t *testing.T) {
	router, repo, tokens, userID := newTestSetup(t)

	req := authedRequest(t, tokens, userID, http.MethodPut, "/api/users/me/password", map[string]string{
		"oldPassword": testPassword, "newPassword": "N3w!passw0rd",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	stored, _ := repo.GetByID(context.Background(), userID)
	ok, err := security.NewHasher(4).Verify("N3w!passw0rd", stored.PasswordHash)
	if err != nil || !ok {
		t.Errorf("new password should verify against stored hash (ok=%v, err=%v)", ok, err)
	}
}

func TestChangePasswordEndpoint_WrongOldPassword(t *testing.T) {
	router, _, tokens, userID := newTestSetup(t)

	req := authedRequest(t, tokens, userID, http.MethodPut, "/api/users/me/password", map[string]string{
		"oldPassword": "Wr0ng!pass", "newPassword": "N3w!passw0rd",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
