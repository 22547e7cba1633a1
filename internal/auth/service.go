// Package auth はユーザー登録、認証、トークン解決を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BcryptCost int // bcryptのコストパラメータ
}

// Service は認証に関するビジネスロジックを提供する。
// 「誰がリクエストしているか」は必ずこのサービスのResolveを通じて解決する。
type Service struct {
	userRepo repository.UserRepository
	issuer   *TokenIssuer
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer *TokenIssuer, config ServiceConfig) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
		config:   config,
	}
}

// Register は新規ユーザーを登録し、セッショントークンを発行する。
// パスワードはbcryptハッシュとしてのみ保存する。
// メールアドレスが登録済みの場合はDUPLICATE_EMAILを返す。
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)

	if email == "" || !strings.Contains(email, "@") {
		return nil, "", model.NewValidationError("メールアドレスの形式が正しくありません")
	}
	if firstName == "" || lastName == "" {
		return nil, "", model.NewValidationError("氏名を入力してください")
	}
	if len(password) < 8 {
		return nil, "", model.NewValidationError("パスワードは8文字以上で入力してください")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewDuplicateEmailError(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 事前チェックとINSERTの間に同一メールが登録される競合に備える
		if repository.IsUniqueViolation(err) {
			return nil, "", model.NewDuplicateEmailError(email)
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Authenticate はメールアドレスとパスワードを検証し、セッショントークンを発行する。
// メールアドレス未登録とパスワード不一致はどちらもINVALID_CREDENTIALSとし、
// 登録済みメールアドレスの列挙を許さない。
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}

// Resolve はトークンを検証し、ユーザーIDを返す。
// 他の全コンポーネントはこのメソッドを通じてのみリクエスト主体を知る。
// 署名不正・形式不正・期限切れはすべてINVALID_TOKENとして返す。
func (s *Service) Resolve(ctx context.Context, tokenStr string) (string, error) {
	userID, err := s.issuer.Parse(tokenStr)
	if err != nil {
		return "", model.NewInvalidTokenError()
	}
	return userID, nil
}

// GetCurrentUser は解決済みユーザーIDからユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}
