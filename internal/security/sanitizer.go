// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizer はユーザー入力のテキスト（取引の説明文、カテゴリ名）から
// HTMLタグを除去し、格納データ経由のXSSを防ぐ。
// bluemondayのStrictPolicyをベースにした全タグ除去ポリシーを使用する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizer はプレーンテキスト入力のサニタイズ機能のインターフェースを定義する。
type InputSanitizer interface {
	// Sanitize は入力からHTMLタグをすべて除去し、前後の空白を削った文字列を返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// inputSanitizer はInputSanitizerの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerの新しいインスタンスを生成する。
// 説明文とカテゴリ名は表示用のプレーンテキストであり、HTMLを許可する理由がないため、
// StrictPolicy（全タグ・全属性を除去）を使用する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグをすべて除去し、前後の空白を削った文字列を返す。
func (s *inputSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}
