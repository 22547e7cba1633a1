// Package report は取引の集計レポートを提供する。
//
// 集計ロジック本体はリポジトリや時刻に依存しない純粋関数として実装し、
// Serviceはデータの取得と期間窓の決定のみを担う。
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// Period はレポートの集計期間。
type Period string

const (
	PeriodDaily   Period = "daily"   // 当日のみ
	PeriodWeekly  Period = "weekly"  // 当日を含む直近7日
	PeriodMonthly Period = "monthly" // 当日を含む直近1ヶ月
)

// Valid はPeriodが既知の値かを返す。
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// BalanceSummary は収入・支出の総計と差引残高。
type BalanceSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

// MetricsRecorder はレポート生成のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordReportGenerated(report string)
}

// Service はレポート生成のサービス層。
// nowを差し替えることで「今日」を固定したテストができる。
type Service struct {
	txRepo  repository.TransactionRepository
	now     func() time.Time
	metrics MetricsRecorder
}

// NewService はServiceを生成する。
// metricsはnilを許容する（テスト用）。
func NewService(txRepo repository.TransactionRepository, metrics MetricsRecorder) *Service {
	return &Service{
		txRepo:  txRepo,
		now:     time.Now,
		metrics: metrics,
	}
}

// Window は期間に対応する日付範囲（両端含む）を返す。
// todayは境界日として常に範囲に含まれる。
func Window(p Period, today model.Date) (start, end model.Date) {
	switch p {
	case PeriodWeekly:
		return today.AddDays(-7), today
	case PeriodMonthly:
		return today.AddMonths(-1), today
	default:
		return today, today
	}
}

// groupBy は取引をキー関数でグルーピングする。
// 入力の各取引はちょうど1つのグループに属する。
func groupBy[K comparable](transactions []model.Transaction, key func(model.Transaction) K) map[K][]model.Transaction {
	groups := make(map[K][]model.Transaction)
	for _, t := range transactions {
		k := key(t)
		groups[k] = append(groups[k], t)
	}
	return groups
}

// GroupByDate は取引を日付ごとにグルーピングする。
// 取引のない日付はキーに現れない。
func GroupByDate(transactions []model.Transaction) map[model.Date][]model.Transaction {
	return groupBy(transactions, func(t model.Transaction) model.Date {
		return t.Date
	})
}

// SummarizeByCategory はカテゴリ表示名ごとの合計金額を返す。
// 合計はゼロから畳み込み、浮動小数点を経由しない。
func SummarizeByCategory(transactions []model.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		current, ok := totals[t.CategoryName]
		if !ok {
			current = decimal.Zero
		}
		totals[t.CategoryName] = current.Add(t.Amount)
	}
	return totals
}

// sumAmounts は取引金額の総和を返す。
func sumAmounts(transactions []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// ComputeBalance は収入と支出の総計から差引残高を計算する。
// 残高 = 収入合計 - 支出合計。支出が上回る場合は負になる。
func ComputeBalance(incomes, expenses []model.Transaction) BalanceSummary {
	totalIncome := sumAmounts(incomes)
	totalExpenses := sumAmounts(expenses)
	return BalanceSummary{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetBalance:    totalIncome.Sub(totalExpenses),
	}
}

// DateReport は指定期間の支出を日付ごとにグルーピングして返す。
// 「今日」はリクエスト時点のサーバーローカル日付とする。
func (s *Service) DateReport(ctx context.Context, userID string, p Period) (map[model.Date][]model.Transaction, error) {
	if !p.Valid() {
		return nil, model.NewValidationError("不明な集計期間です")
	}

	today := model.DateOf(s.now())
	start, end := Window(p, today)

	expenses, err := s.txRepo.ListByUserInRange(ctx, userID, model.KindExpense, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses in range: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReportGenerated(string(p))
	}

	return GroupByDate(expenses), nil
}

// CategorySummary は指定種別の全期間カテゴリ別合計を返す。
func (s *Service) CategorySummary(ctx context.Context, userID string, kind model.TransactionKind) (map[string]decimal.Decimal, error) {
	transactions, err := s.txRepo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReportGenerated(string(kind) + "-summary")
	}

	return SummarizeByCategory(transactions), nil
}

// Balance は全期間の収支サマリーを返す。
func (s *Service) Balance(ctx context.Context, userID string) (BalanceSummary, error) {
	incomes, err := s.txRepo.ListByUser(ctx, userID, model.KindIncome)
	if err != nil {
		return BalanceSummary{}, fmt.Errorf("failed to list incomes: %w", err)
	}
	expenses, err := s.txRepo.ListByUser(ctx, userID, model.KindExpense)
	if err != nil {
		return BalanceSummary{}, fmt.Errorf("failed to list expenses: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReportGenerated("balance")
	}

	return ComputeBalance(incomes, expenses), nil
}
