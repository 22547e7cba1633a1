package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/kakeibo/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	return nil
}

func newTestService(repo *mockUserRepo) *Service {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	// テスト高速化のため最小コストを使用
	return NewService(repo, issuer, ServiceConfig{BcryptCost: bcrypt.MinCost})
}

// --- テスト ---

// TestService_Register は新規ユーザー登録を検証する。
func TestService_Register(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(repo)

	user, token, err := svc.Register(context.Background(), "太郎", "田中", "taro@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.Email != "taro@example.com" {
		t.Errorf("unexpected email: %s", user.Email)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if created == nil {
		t.Fatal("user was not persisted")
	}

	// パスワードは平文で保存されない
	if created.PasswordHash == "password123" {
		t.Error("password must not be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

// TestService_Register_Validation は登録時の入力検証を確認する。
func TestService_Register_Validation(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	tests := []struct {
		name      string
		firstName string
		lastName  string
		email     string
		password  string
	}{
		{"メール形式不正", "太郎", "田中", "not-an-email", "password123"},
		{"メール空", "太郎", "田中", "", "password123"},
		{"名前空", "", "田中", "taro@example.com", "password123"},
		{"パスワード短すぎ", "太郎", "田中", "taro@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.firstName, tt.lastName, tt.email, tt.password)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

// TestService_Register_DuplicateEmail はメールアドレス重複時のエラーを検証する。
func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.Register(context.Background(), "太郎", "田中", "taro@example.com", "password123")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", err)
	}
}

// TestService_Authenticate はログインの成否を検証する。
// メール未登録とパスワード不一致は同一のエラーコードを返す。
func TestService_Authenticate(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "taro@example.com" {
				return &model.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	// 成功
	user, token, err := svc.Authenticate(context.Background(), "taro@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != "user-1" || token == "" {
		t.Error("unexpected authentication result")
	}

	// パスワード不一致
	_, _, err = svc.Authenticate(context.Background(), "taro@example.com", "wrong-password")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS for wrong password, got %v", err)
	}

	// メール未登録も同じコード
	_, _, err = svc.Authenticate(context.Background(), "unknown@example.com", "correct-password")
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS for unknown email, got %v", err)
	}
}

// TestService_Resolve はトークンからのユーザーID解決を検証する。
func TestService_Resolve(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	token, err := svc.issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected user-1, got %s", userID)
	}

	// 不正トークンはINVALID_TOKEN
	_, err = svc.Resolve(context.Background(), "garbage")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidToken {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
}

// TestService_GetCurrentUser はユーザー取得を検証する。
func TestService_GetCurrentUser(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			if id == "user-1" {
				return &model.User{ID: id, Email: "taro@example.com"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.GetCurrentUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if user.Email != "taro@example.com" {
		t.Errorf("unexpected email: %s", user.Email)
	}

	_, err = svc.GetCurrentUser(context.Background(), "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %v", err)
	}
}
