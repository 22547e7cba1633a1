// Package user はユーザーアカウントのライフサイクル管理を提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
	txRepo   repository.TransactionRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, txRepo repository.TransactionRepository) *Service {
	return &Service{
		userRepo: userRepo,
		txRepo:   txRepo,
	}
}

// Withdraw はユーザーアカウントと関連データをすべて削除する。
// 取引を先に削除してからユーザーを削除する。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	if err := s.txRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user transactions: %w", err)
	}

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user withdrawn", slog.String("user_id", userID))

	return nil
}
