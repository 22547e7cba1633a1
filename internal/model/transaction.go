package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind は取引の種別（収入/支出）を表す。
// 収入と支出は同一形状のレコードであり、種別タグのみで区別する。
type TransactionKind string

const (
	// KindIncome は収入を示す。
	KindIncome TransactionKind = "income"
	// KindExpense は支出を示す。
	KindExpense TransactionKind = "expense"
)

// Valid は種別が定義済みの値かどうかを返す。
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Category は取引に付与されるカテゴリを表す。
// 名前（大文字小文字を区別）でグローバルに一意であり、全ユーザーで共有される。
// 初回使用時に遅延作成される。
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Transaction は収入または支出の1レコードを表す。
// 必ず1ユーザーに所有され、1カテゴリを参照する。
// 金額は正確な10進数として保持し、2進浮動小数点は使用しない。
type Transaction struct {
	ID          string
	UserID      string
	Kind        TransactionKind
	Description string
	Amount      decimal.Decimal
	Date        Date
	TimeOfDay   string // "15:04:05"形式。情報提供のみでグルーピングには使用しない。
	CategoryID  string
	// CategoryName はカテゴリの表示名。一覧取得時にJOINで解決される。
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
