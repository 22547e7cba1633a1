package auth

import (
	"strings"
	"testing"
	"time"
)

// TestTokenIssuer_RoundTrip は発行したトークンの検証を確認する。
func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected user-1, got %s", userID)
	}
}

// TestTokenIssuer_Expired は期限切れトークンの拒否を検証する。
// 発行時の時計を過去に固定し、検証時の時計で期限切れにする。
func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

// TestTokenIssuer_Tampered は改ざんされたトークンの拒否を検証する。
func TestTokenIssuer_Tampered(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// 署名部分の末尾を書き換える
	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}
	if _, err := issuer.Parse(tampered); err == nil {
		t.Error("expected error for tampered token")
	}
}

// TestTokenIssuer_WrongSecret は異なる鍵で署名されたトークンの拒否を検証する。
func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

// TestTokenIssuer_Malformed は形式不正トークンの拒否を検証する。
func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b", strings.Repeat("x", 100)} {
		if _, err := issuer.Parse(token); err == nil {
			t.Errorf("expected error for malformed token %q", token)
		}
	}
}
