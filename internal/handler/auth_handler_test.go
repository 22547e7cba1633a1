package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/kakeibo/internal/model"
)

// --- モック ---

type mockAuthService struct {
	registerFn       func(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error)
	authenticateFn   func(ctx context.Context, email, password string) (*model.User, string, error)
	getCurrentUserFn func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error) {
	return m.registerFn(ctx, firstName, lastName, email, password)
}
func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return m.authenticateFn(ctx, email, password)
}
func (m *mockAuthService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return m.getCurrentUserFn(ctx, userID)
}

type mockAuthMetrics struct {
	failures int
}

func (m *mockAuthMetrics) RecordAuthFailure() {
	m.failures++
}

func testUser() *model.User {
	return &model.User{
		ID:        "user-1",
		Email:     "taro@example.com",
		FirstName: "太郎",
		LastName:  "田中",
	}
}

// --- テスト ---

// TestAuthHandler_Signup は新規登録の201レスポンスを検証する。
func TestAuthHandler_Signup(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error) {
			return testUser(), "issued-token", nil
		},
	}
	h := NewAuthHandler(svc, nil)

	body := `{"first_name":"太郎","last_name":"田中","email":"taro@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Token != "issued-token" || resp.User.Email != "taro@example.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// TestAuthHandler_Signup_DuplicateEmail はメール重複時の409を検証する。
func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error) {
			return nil, "", model.NewDuplicateEmailError(email)
		},
	}
	h := NewAuthHandler(svc, nil)

	body := `{"first_name":"太郎","last_name":"田中","email":"taro@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

// TestAuthHandler_Signin はログインの成否とメトリクス記録を検証する。
func TestAuthHandler_Signin(t *testing.T) {
	metrics := &mockAuthMetrics{}
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*model.User, string, error) {
			if password == "correct" {
				return testUser(), "issued-token", nil
			}
			return nil, "", model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc, metrics)

	// 成功
	req := httptest.NewRequest(http.MethodPost, "/auth/signin",
		bytes.NewBufferString(`{"email":"taro@example.com","password":"correct"}`))
	rec := httptest.NewRecorder()
	h.Signin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// 失敗は401、認証失敗メトリクスが記録される
	req = httptest.NewRequest(http.MethodPost, "/auth/signin",
		bytes.NewBufferString(`{"email":"taro@example.com","password":"wrong"}`))
	rec = httptest.NewRecorder()
	h.Signin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if metrics.failures != 1 {
		t.Errorf("expected 1 recorded auth failure, got %d", metrics.failures)
	}
}

// TestAuthHandler_Signin_InvalidBody は不正なボディの400を検証する。
func TestAuthHandler_Signin_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Signin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_Profile はプロフィール取得を検証する。
// レスポンスにパスワードハッシュを含めない。
func TestAuthHandler_Profile(t *testing.T) {
	svc := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, userID string) (*model.User, error) {
			u := testUser()
			u.PasswordHash = "$2a$10$secret"
			return u, nil
		},
	}
	h := NewAuthHandler(svc, nil)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/auth/profile", nil), "user-1")
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if raw["email"] != "taro@example.com" {
		t.Errorf("unexpected email: %v", raw["email"])
	}
	for key := range raw {
		if key == "password_hash" || key == "password" {
			t.Errorf("response must not contain %s", key)
		}
	}

	// 未認証は401
	req = httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	rec = httptest.NewRecorder()
	h.Profile(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
