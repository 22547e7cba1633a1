package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// TestIsUniqueViolation は一意制約違反エラーの判定を検証する。
func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: "23505"}

	if !IsUniqueViolation(uniqueErr) {
		t.Error("expected true for unique_violation")
	}

	// ラップされていても判定できる
	wrapped := fmt.Errorf("failed to insert user: %w", uniqueErr)
	if !IsUniqueViolation(wrapped) {
		t.Error("expected true for wrapped unique_violation")
	}

	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("expected false for foreign_key_violation")
	}
	if IsUniqueViolation(errors.New("plain error")) {
		t.Error("expected false for non-pq error")
	}
	if IsUniqueViolation(nil) {
		t.Error("expected false for nil")
	}
}
