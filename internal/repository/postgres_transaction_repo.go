package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresTransactionRepo はPostgreSQLを使用した取引リポジトリ。
type PostgresTransactionRepo struct {
	db *sql.DB
}

// NewPostgresTransactionRepo はPostgresTransactionRepoを生成する。
func NewPostgresTransactionRepo(db *sql.DB) *PostgresTransactionRepo {
	return &PostgresTransactionRepo{db: db}
}

// transactionColumns は取引取得クエリの共通SELECT句。
// カテゴリ表示名はJOINで解決する。
const transactionColumns = `
	t.id, t.user_id, t.kind, t.description, t.amount, t.date, t.time_of_day,
	t.category_id, c.name, t.created_at, t.updated_at`

// scanTransaction は1行を取引にスキャンする。
func scanTransaction(row interface{ Scan(...any) error }) (*model.Transaction, error) {
	t := &model.Transaction{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Kind, &t.Description, &t.Amount, &t.Date, &t.TimeOfDay,
		&t.CategoryID, &t.CategoryName, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create は取引を作成する。CategoryIDは解決済みであること。
func (r *PostgresTransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, kind, description, amount, date, time_of_day, category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, string(t.Kind), t.Description, t.Amount, t.Date, t.TimeOfDay,
		t.CategoryID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDの取引を取得する。見つからない場合はnilを返す。
func (r *PostgresTransactionRepo) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.id = $1`,
		id,
	)

	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}

	return t, nil
}

// ListByUser はユーザーの指定種別の取引一覧を日付降順で返す。
// 同一日付内は作成日時降順とし、順序を安定させる。
func (r *PostgresTransactionRepo) ListByUser(ctx context.Context, userID string, kind model.TransactionKind) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND t.kind = $2
		 ORDER BY t.date DESC, t.created_at DESC`,
		userID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByUserInRange はstart <= date <= end（両端含む）の取引を日付降順で返す。
func (r *PostgresTransactionRepo) ListByUserInRange(ctx context.Context, userID string, kind model.TransactionKind, start, end model.Date) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND t.kind = $2 AND t.date >= $3 AND t.date <= $4
		 ORDER BY t.date DESC, t.created_at DESC`,
		userID, string(kind), start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions in range: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update は取引の全フィールドを置換する（部分マージではない）。
// user_idは所有権の移転を許さないため更新対象に含めない。
func (r *PostgresTransactionRepo) Update(ctx context.Context, t *model.Transaction) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = $1, amount = $2, date = $3, time_of_day = $4, category_id = $5, updated_at = $6
		 WHERE id = $7`,
		t.Description, t.Amount, t.Date, t.TimeOfDay, t.CategoryID, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction not found: %s", t.ID)
	}

	return nil
}

// Delete は指定IDの取引を削除する。
func (r *PostgresTransactionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}

	return nil
}

// DeleteByUserID はユーザーの全取引を削除する。退会処理で使用する。
func (r *PostgresTransactionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transactions by user: %w", err)
	}

	return nil
}

// collectTransactions はクエリ結果を取引のスライスに変換する。
func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// compile-time interface check
var _ TransactionRepository = (*PostgresTransactionRepo)(nil)
