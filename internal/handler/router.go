package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenResolver     middleware.TokenResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthMetrics AuthMetrics

	// 取引
	TransactionService TransactionServiceInterface

	// レポート
	ReportService ReportServiceInterface

	// ユーザー
	UserService UserServiceInterface

	// HTTPレイヤーのメトリクス記録（nilの場合は記録しない）
	HTTPMetrics middleware.HTTPMetricsRecorder

	// /metricsに公開するハンドラー（nilの場合はルートを作らない）
	MetricsHandler http.Handler

	// /healthで使用するDB疎通チェック（nilの場合は常に200）
	HealthChecker HealthChecker
}

// HealthChecker はDB疎通チェックのインターフェース。*sql.DBがそのまま満たす。
type HealthChecker interface {
	Ping() error
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging →
//	  認証ルート: RateLimit(Auth, IPごと)
//	  認証済みルート: Auth → RateLimit(General, ユーザーごと)
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthMetrics)
	incomeHandler := NewTransactionHandler(deps.TransactionService, model.KindIncome)
	expenseHandler := NewTransactionHandler(deps.TransactionService, model.KindExpense)
	reportHandler := NewReportHandler(deps.ReportService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	// サインアップ・サインインはブルートフォース対策としてIPごとのレート制限を適用
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/signin", authHandler.Signin)
	})

	// 死活監視
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.Ping(); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール・退会
		r.Get("/auth/profile", authHandler.Profile)
		r.Delete("/auth/me", userHandler.Withdraw)

		// 収入管理
		r.Route("/income", func(r chi.Router) {
			r.Get("/", incomeHandler.List)
			r.Post("/", incomeHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", incomeHandler.Get)
				r.Put("/", incomeHandler.Update)
				r.Delete("/", incomeHandler.Delete)
			})
		})

		// 支出管理
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", expenseHandler.Get)
				r.Put("/", expenseHandler.Update)
				r.Delete("/", expenseHandler.Delete)
			})
		})

		// レポート
		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily", reportHandler.Daily)
			r.Get("/weekly", reportHandler.Weekly)
			r.Get("/monthly", reportHandler.Monthly)
			r.Get("/summary", reportHandler.Summary)
			r.Get("/income-summary", reportHandler.IncomeSummary)
			r.Get("/balance", reportHandler.Balance)
		})
	})

	return r
}
