// Package transaction は取引（収入・支出）のドメインロジックを提供する。
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
	"github.com/hitoshi/kakeibo/internal/security"
)

// Input は取引の作成・更新に使用する入力値。
// 更新は全フィールド置換であり、部分マージは行わない。
type Input struct {
	Description  string
	Amount       decimal.Decimal
	Date         model.Date
	TimeOfDay    string
	CategoryName string
}

// MetricsRecorder は取引操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordTransactionCreated(kind string)
}

// Service は取引管理のサービス層。
// すべての操作は解決済みユーザーIDを引数として受け取る。
// コンテキストやグローバル状態から暗黙にユーザーを取得することはない。
type Service struct {
	txRepo    repository.TransactionRepository
	catRepo   repository.CategoryRepository
	sanitizer security.InputSanitizer
	metrics   MetricsRecorder
}

// NewService はServiceを生成する。
// metricsはnilを許容する（テスト用）。
func NewService(
	txRepo repository.TransactionRepository,
	catRepo repository.CategoryRepository,
	sanitizer security.InputSanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		txRepo:    txRepo,
		catRepo:   catRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// List はユーザーの指定種別の取引一覧を日付降順で返す。
func (s *Service) List(ctx context.Context, userID string, kind model.TransactionKind) ([]model.Transaction, error) {
	transactions, err := s.txRepo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// Get はIDで取引を取得する。
// レコードが存在しない、または種別が一致しない場合はTRANSACTION_NOT_FOUND、
// リクエストユーザーの所有物でない場合はFORBIDDENを返す。
func (s *Service) Get(ctx context.Context, userID string, kind model.TransactionKind, id string) (*model.Transaction, error) {
	return s.findOwned(ctx, userID, kind, id)
}

// Create は取引を作成する。
// カテゴリは書き込み時にGetOrCreateで解決する（読み取り時ではない）。
func (s *Service) Create(ctx context.Context, userID string, kind model.TransactionKind, in Input) (*model.Transaction, error) {
	normalized, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	category, err := s.catRepo.GetOrCreate(ctx, normalized.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	now := time.Now()
	t := &model.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Kind:         kind,
		Description:  normalized.Description,
		Amount:       normalized.Amount,
		Date:         normalized.Date,
		TimeOfDay:    normalized.TimeOfDay,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.txRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTransactionCreated(string(kind))
	}

	slog.Info("transaction created",
		slog.String("transaction_id", t.ID),
		slog.String("user_id", userID),
		slog.String("kind", string(kind)),
	)

	return t, nil
}

// Update は取引の全フィールドを置換する。
// 所有権の検証はGetと同一の規則を種別によらず一律に適用する。
// 所有ユーザーの参照は認証済みユーザーに固定し、リクエスト値では変更できない。
func (s *Service) Update(ctx context.Context, userID string, kind model.TransactionKind, id string, in Input) (*model.Transaction, error) {
	existing, err := s.findOwned(ctx, userID, kind, id)
	if err != nil {
		return nil, err
	}

	normalized, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	category, err := s.catRepo.GetOrCreate(ctx, normalized.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	updated := &model.Transaction{
		ID:           existing.ID,
		UserID:       existing.UserID,
		Kind:         existing.Kind,
		Description:  normalized.Description,
		Amount:       normalized.Amount,
		Date:         normalized.Date,
		TimeOfDay:    normalized.TimeOfDay,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now(),
	}

	if err := s.txRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return updated, nil
}

// Delete は取引を削除する。
// IDのみでの無条件削除は行わず、必ず所有権を検証してから削除する。
func (s *Service) Delete(ctx context.Context, userID string, kind model.TransactionKind, id string) error {
	if _, err := s.findOwned(ctx, userID, kind, id); err != nil {
		return err
	}

	if err := s.txRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	slog.Info("transaction deleted",
		slog.String("transaction_id", id),
		slog.String("user_id", userID),
	)

	return nil
}

// findOwned はIDで取引を取得し、種別と所有権を検証する。
func (s *Service) findOwned(ctx context.Context, userID string, kind model.TransactionKind, id string) (*model.Transaction, error) {
	t, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if t == nil || t.Kind != kind {
		return nil, model.NewTransactionNotFoundError(id)
	}
	if t.UserID != userID {
		return nil, model.NewForbiddenError()
	}

	return t, nil
}

// normalize は入力値をサニタイズし、必須項目を検証する。
func (s *Service) normalize(in Input) (Input, error) {
	in.Description = s.sanitizer.Sanitize(in.Description)
	in.CategoryName = s.sanitizer.Sanitize(in.CategoryName)

	if in.CategoryName == "" {
		return Input{}, model.NewValidationError("カテゴリ名を入力してください")
	}
	if in.Date.IsZero() {
		return Input{}, model.NewValidationError("日付を入力してください")
	}
	if in.TimeOfDay != "" {
		if _, err := time.Parse("15:04:05", in.TimeOfDay); err != nil {
			return Input{}, model.NewValidationError("時刻は15:04:05形式で入力してください")
		}
	}

	return in, nil
}
