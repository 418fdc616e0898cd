package security

import (
	"strings"
	"testing"
)

// TestSanitize_StripsTags はHTMLタグが除去され、中身のテキストが
// 保持されることを検証する。
func TestSanitize_StripsTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま通過する",
			input: "定例会議の議事録をまとめる",
			want:  "定例会議の議事録をまとめる",
		},
		{
			name:  "pタグが除去される",
			input: "<p>タスクの説明</p>",
			want:  "タスクの説明",
		},
		{
			name:  "strongタグが除去される",
			input: "これは<strong>重要</strong>です",
			want:  "これは重要です",
		},
		{
			name:  "scriptタグが中身ごと除去される",
			input: `レビュー依頼<script>alert('xss')</script>`,
			want:  "レビュー依頼",
		},
		{
			name:  "前後の空白が除去される",
			input: "  調査タスク  ",
			want:  "調査タスク",
		},
		{
			name:  "空文字列には空文字列を返す",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_XSSPayloads は典型的なXSSペイロードが無害化されることを検証する。
func TestSanitize_XSSPayloads(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent []string
	}{
		{
			name:       "img onerrorによるXSS",
			input:      `<img src="x" onerror="alert('xss')">`,
			wantAbsent: []string{"<img", "onerror", "alert"},
		},
		{
			name:       "SVG onloadによるXSS",
			input:      `<svg onload="alert('xss')">`,
			wantAbsent: []string{"<svg", "onload"},
		},
		{
			name:       "javascript URIを含むリンク",
			input:      `<a href="javascript:alert('xss')">クリック</a>`,
			wantAbsent: []string{"<a", "javascript:"},
		},
		{
			name:       "iframeの埋め込み",
			input:      `<iframe src="https://evil.com"></iframe>`,
			wantAbsent: []string{"<iframe", "evil.com"},
		},
		{
			name:       "イベントハンドラの大文字混在",
			input:      `<p OnClick="alert('xss')">テスト</p>`,
			wantAbsent: []string{"OnClick", "onclick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(strings.ToLower(got), strings.ToLower(absent)) {
					t.Errorf("Sanitize(%q) = %q, should NOT contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力（冪等性）を検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := `リリース準備<script>document.cookie</script>を<strong>今週中</strong>に終える`

	result1 := sanitizer.Sanitize(input)
	result2 := sanitizer.Sanitize(input)
	result3 := sanitizer.Sanitize(result1)

	if result1 != result2 {
		t.Errorf("冪等性違反: 1回目=%q, 2回目=%q", result1, result2)
	}
	if result1 != result3 {
		t.Errorf("二重サニタイズで結果が変わった: 1回目=%q, 二重=%q", result1, result3)
	}
}

// TestContentSanitizerInterface はContentSanitizerServiceインターフェースの適合を検証する。
func TestContentSanitizerInterface(t *testing.T) {
	var _ ContentSanitizerService = NewContentSanitizer()
}
