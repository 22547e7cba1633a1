// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/kakeibo/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスの一意制約違反はIsUniqueViolationで判定できるエラーとして返す。
	Create(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連する取引はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// GetOrCreate は指定名のカテゴリを取得し、存在しなければ作成する。
	// 冪等であり、同名の同時作成は一意制約により1行に収束する。
	// 一意制約違反の競合時は1回だけ再検索してから結果を返す。
	GetOrCreate(ctx context.Context, name string) (*model.Category, error)

	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)
}

// TransactionRepository は取引データの永続化インターフェース。
// 所有権の検証は呼び出し側（サービス層）の責務とする。
type TransactionRepository interface {
	// Create は取引を作成する。CategoryIDは解決済みであること。
	Create(ctx context.Context, t *model.Transaction) error

	// FindByID は指定IDの取引を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Transaction, error)

	// ListByUser はユーザーの指定種別の取引一覧を日付降順で返す。
	ListByUser(ctx context.Context, userID string, kind model.TransactionKind) ([]model.Transaction, error)

	// ListByUserInRange はstart <= date <= end（両端含む）の取引を日付降順で返す。
	ListByUserInRange(ctx context.Context, userID string, kind model.TransactionKind, start, end model.Date) ([]model.Transaction, error)

	// Update は取引の全フィールドを置換する（部分マージではない）。
	Update(ctx context.Context, t *model.Transaction) error

	// Delete は指定IDの取引を削除する。
	Delete(ctx context.Context, id string) error

	// DeleteByUserID はユーザーの全取引を削除する。退会処理で使用する。
	DeleteByUserID(ctx context.Context, userID string) error
}
