package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/report"
)

// ReportServiceInterface はレポートハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	DateReport(ctx context.Context, userID string, p report.Period) (map[model.Date][]model.Transaction, error)
	CategorySummary(ctx context.Context, userID string, kind model.TransactionKind) (map[string]decimal.Decimal, error)
	Balance(ctx context.Context, userID string) (report.BalanceSummary, error)
}

// ReportHandler はレポート生成のHTTPハンドラー。
type ReportHandler struct {
	service ReportServiceInterface
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: service}
}

// Daily は当日の支出を日付ごとにグルーピングして返す。
// GET /reports/daily
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	h.dateReport(w, r, report.PeriodDaily)
}

// Weekly は直近7日の支出を日付ごとにグルーピングして返す。
// GET /reports/weekly
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	h.dateReport(w, r, report.PeriodWeekly)
}

// Monthly は直近1ヶ月の支出を日付ごとにグルーピングして返す。
// GET /reports/monthly
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	h.dateReport(w, r, report.PeriodMonthly)
}

// dateReport は期間指定の日付別レポートを処理する共通実装。
func (h *ReportHandler) dateReport(w http.ResponseWriter, r *http.Request, p report.Period) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	groups, err := h.service.DateReport(r.Context(), userID, p)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 取引のない日付はキーに含めず、空の期間は空オブジェクトとして返す
	response := make(map[model.Date][]transactionResponse, len(groups))
	for date, transactions := range groups {
		items := make([]transactionResponse, 0, len(transactions))
		for _, t := range transactions {
			items = append(items, toTransactionResponse(&t))
		}
		response[date] = items
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Summary は全期間の支出カテゴリ別合計を返す。
// GET /reports/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.categorySummary(w, r, model.KindExpense)
}

// IncomeSummary は全期間の収入カテゴリ別合計を返す。
// GET /reports/income-summary
func (h *ReportHandler) IncomeSummary(w http.ResponseWriter, r *http.Request) {
	h.categorySummary(w, r, model.KindIncome)
}

// categorySummary はカテゴリ別合計レポートを処理する共通実装。
func (h *ReportHandler) categorySummary(w http.ResponseWriter, r *http.Request, kind model.TransactionKind) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	totals, err := h.service.CategorySummary(r.Context(), userID, kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(totals)
}

// Balance は全期間の収支サマリーを返す。
// GET /reports/balance
func (h *ReportHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(balance)
}
