package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// testRateLimiterConfig はバーストを使い切りやすい小さな設定を返す。
func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    2,
		AuthRate:        rate.Limit(1.0 / 60.0),
		AuthBurst:       2,
		CleanupInterval: time.Minute,
	}
}

// TestRateLimiter_GeneralMiddleware はユーザーごとのバースト超過で429を返すことを検証する。
func TestRateLimiter_GeneralMiddleware(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/income", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// バースト2回までは通る
	if code := send("user-a"); code != http.StatusOK {
		t.Errorf("request 1: expected 200, got %d", code)
	}
	if code := send("user-a"); code != http.StatusOK {
		t.Errorf("request 2: expected 200, got %d", code)
	}

	// 3回目は429、Retry-Afterヘッダー付き
	req := httptest.NewRequest(http.MethodGet, "/income", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-a"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("request 3: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// 別ユーザーには影響しない
	if code := send("user-b"); code != http.StatusOK {
		t.Errorf("other user: expected 200, got %d", code)
	}
}

// TestRateLimiter_GeneralMiddleware_NoUserID はユーザーID欠落時の401を検証する。
func TestRateLimiter_GeneralMiddleware_NoUserID(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/income", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestRateLimiter_AuthMiddleware は接続元IPごとの制限を検証する。
func TestRateLimiter_AuthMiddleware(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("request 1: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:5678"); code != http.StatusOK {
		t.Errorf("request 2: expected 200, got %d", code)
	}
	// 同一IPはポートが違ってもバースト超過で429
	if code := send("10.0.0.1:9999"); code != http.StatusTooManyRequests {
		t.Errorf("request 3: expected 429, got %d", code)
	}
	// 別IPには影響しない
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other IP: expected 200, got %d", code)
	}
}

// TestRateLimiter_Cleanup は期限切れエントリの削除を検証する。
func TestRateLimiter_Cleanup(t *testing.T) {
	cfg := testRateLimiterConfig()
	cfg.CleanupInterval = 10 * time.Millisecond
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	rl.getOrCreate(&rl.generalMu, rl.generalLimiters, "user-a", cfg.GeneralRate, cfg.GeneralBurst)
	if rl.GeneralLimiterCount() != 1 {
		t.Fatalf("expected 1 limiter, got %d", rl.GeneralLimiterCount())
	}

	// TTL（CleanupInterval * 2）経過後のクリーンアップで削除される
	rl.generalMu.Lock()
	rl.generalLimiters["user-a"].lastAccess = time.Now().Add(-time.Minute)
	rl.generalMu.Unlock()

	rl.cleanup()

	if rl.GeneralLimiterCount() != 0 {
		t.Errorf("expected 0 limiters after cleanup, got %d", rl.GeneralLimiterCount())
	}
}
