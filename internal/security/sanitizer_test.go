package security

import "testing"

// TestInputSanitizer_Sanitize は入力サニタイズの動作を検証する。
func TestInputSanitizer_Sanitize(t *testing.T) {
	s := NewInputSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "スーパーで買い物", "スーパーで買い物"},
		{"scriptタグを除去", `<script>alert("x")</script>食費`, "食費"},
		{"タグのみ除去しテキストは残す", "<b>給料</b>", "給料"},
		{"前後の空白を削る", "  交通費  ", "交通費"},
		{"空文字列は空文字列", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestInputSanitizer_Idempotent は同一入力に対して常に同一出力を返すことを検証する。
func TestInputSanitizer_Idempotent(t *testing.T) {
	s := NewInputSanitizer()

	input := `<a href="https://example.com">リンク</a> 付きメモ`
	first := s.Sanitize(input)
	second := s.Sanitize(first)

	if first != second {
		t.Errorf("sanitize is not idempotent: %q != %q", first, second)
	}
}
