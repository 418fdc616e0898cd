package suggest

import "testing"

// TestExtractJSONCandidate は生成テキストからのJSON切り出しを検証する。
func TestExtractJSONCandidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		wantFound bool
	}{
		{
			name:      "純粋なJSONはそのまま返す",
			raw:       `{"title":"設計レビュー"}`,
			want:      `{"title":"設計レビュー"}`,
			wantFound: true,
		},
		{
			name:      "markdownのコードフェンスを取り除く",
			raw:       "```json\n{\"title\":\"設計レビュー\"}\n```",
			want:      `{"title":"設計レビュー"}`,
			wantFound: true,
		},
		{
			name:      "前後の説明文を取り除く",
			raw:       `Here is your task: {"title":"設計レビュー"} Hope this helps!`,
			want:      `{"title":"設計レビュー"}`,
			wantFound: true,
		},
		{
			name:      "ネストしたオブジェクトは最後の閉じ括弧まで含める",
			raw:       `{"title":"a","meta":{"priority":"high"}}`,
			want:      `{"title":"a","meta":{"priority":"high"}}`,
			wantFound: true,
		},
		{
			name:      "開き括弧がない場合は見つからない",
			raw:       "タスクを生成できませんでした",
			wantFound: false,
		},
		{
			name:      "閉じ括弧が開き括弧より前にある場合は見つからない",
			raw:       "} {",
			wantFound: false,
		},
		{
			name:      "空文字列は見つからない",
			raw:       "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractJSONCandidate(tt.raw)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got != tt.want {
				t.Errorf("candidate = %q, want %q", got, tt.want)
			}
		})
	}
}
