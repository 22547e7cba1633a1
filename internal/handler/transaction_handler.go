package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/transaction"
)

// TransactionServiceInterface は取引ハンドラーが必要とするサービスインターフェース。
type TransactionServiceInterface interface {
	List(ctx context.Context, userID string, kind model.TransactionKind) ([]model.Transaction, error)
	Get(ctx context.Context, userID string, kind model.TransactionKind, id string) (*model.Transaction, error)
	Create(ctx context.Context, userID string, kind model.TransactionKind, in transaction.Input) (*model.Transaction, error)
	Update(ctx context.Context, userID string, kind model.TransactionKind, id string, in transaction.Input) (*model.Transaction, error)
	Delete(ctx context.Context, userID string, kind model.TransactionKind, id string) error
}

// TransactionHandler は取引管理のHTTPハンドラー。
// 収入（/income）と支出（/expenses）は同一ハンドラーを種別だけ変えて使う。
type TransactionHandler struct {
	service TransactionServiceInterface
	kind    model.TransactionKind
}

// NewTransactionHandler は指定種別のTransactionHandlerを生成する。
func NewTransactionHandler(service TransactionServiceInterface, kind model.TransactionKind) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		kind:    kind,
	}
}

// transactionRequest は取引の作成・更新リクエストのボディ。
type transactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        model.Date      `json:"date"`
	TimeOfDay   string          `json:"time_of_day"`
	Category    string          `json:"category"`
}

// transactionResponse は取引のAPIレスポンス。
type transactionResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        model.Date      `json:"date"`
	TimeOfDay   string          `json:"time_of_day,omitempty"`
	Category    string          `json:"category"`
}

// List は取引一覧を日付降順で返す。
// GET /income または GET /expenses
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	transactions, err := h.service.List(r.Context(), userID, h.kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 空一覧は空配列として返す（nullではなく）
	responses := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, toTransactionResponse(&t))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// Get は取引詳細を返す。
// GET /income/{id} または GET /expenses/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	t, err := h.service.Get(r.Context(), userID, h.kind, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTransactionResponse(t))
}

// Create は取引を作成する。
// POST /income または POST /expenses
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	t, err := h.service.Create(r.Context(), userID, h.kind, toInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTransactionResponse(t))
}

// Update は取引の全フィールドを置換する。
// PUT /income/{id} または PUT /expenses/{id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	t, err := h.service.Update(r.Context(), userID, h.kind, chi.URLParam(r, "id"), toInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTransactionResponse(t))
}

// Delete は取引を削除する。
// DELETE /income/{id} または DELETE /expenses/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.Delete(r.Context(), userID, h.kind, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toInput はリクエストボディからサービス層の入力値に変換する。
func toInput(req transactionRequest) transaction.Input {
	return transaction.Input{
		Description:  req.Description,
		Amount:       req.Amount,
		Date:         req.Date,
		TimeOfDay:    req.TimeOfDay,
		CategoryName: req.Category,
	}
}

// toTransactionResponse はmodel.TransactionからAPIレスポンスに変換する。
func toTransactionResponse(t *model.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date,
		TimeOfDay:   t.TimeOfDay,
		Category:    t.CategoryName,
	}
}
