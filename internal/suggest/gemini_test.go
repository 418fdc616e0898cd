package suggest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGeminiClient(
		server.Client(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		"test-api-key",
		"gemini-2.0-flash",
	)
	client.endpoint = server.URL
	return client, server
}

// TestGenerateContent_Success は正常レスポンスから最初の候補テキストを
// 取り出すことを検証する。
func TestGenerateContent_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateContentRequest

	client, _ := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("request body decode error = %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"設計レビュー\"}"}]}}]}`)
	})

	got, err := client.GenerateContent(context.Background(), "レビュータスクを作って")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if got != `{"title":"設計レビュー"}` {
		t.Errorf("text = %q", got)
	}
	if want := "/v1beta/models/gemini-2.0-flash:generateContent"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if gotKey != "test-api-key" {
		t.Errorf("key = %q, want %q", gotKey, "test-api-key")
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request shape: %+v", gotBody)
	}
	if gotBody.Contents[0].Parts[0].Text != "レビュータスクを作って" {
		t.Errorf("prompt = %q", gotBody.Contents[0].Parts[0].Text)
	}
}

// TestGenerateContent_StatusErrors はHTTPエラーの一時的エラー分類を検証する。
// 429と5xxは再試行可能、4xx（429以外）は再試行不可。
func TestGenerateContent_StatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{name: "429は一時的エラー", status: http.StatusTooManyRequests, wantTransient: true},
		{name: "500は一時的エラー", status: http.StatusInternalServerError, wantTransient: true},
		{name: "503は一時的エラー", status: http.StatusServiceUnavailable, wantTransient: true},
		{name: "400は恒久的エラー", status: http.StatusBadRequest, wantTransient: false},
		{name: "404は恒久的エラー", status: http.StatusNotFound, wantTransient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.GenerateContent(context.Background(), "prompt")
			if err == nil {
				t.Fatal("GenerateContent() succeeded, want error")
			}
			if IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient(err) = %v, want %v", IsTransient(err), tt.wantTransient)
			}
		})
	}
}

// TestGenerateContent_NetworkError はネットワークエラーが一時的エラーに
// 分類されることを検証する。
func TestGenerateContent_NetworkError(t *testing.T) {
	client, server := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("GenerateContent() succeeded, want error")
	}
	if !IsTransient(err) {
		t.Error("network error is not classified as transient")
	}
}

// TestGenerateContent_EmptyCandidates は候補なしレスポンスがエラーになる
// ことを検証する。
func TestGenerateContent_EmptyCandidates(t *testing.T) {
	client, _ := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	})

	_, err := client.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("GenerateContent() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "候補") {
		t.Errorf("unexpected error: %v", err)
	}
	if IsTransient(err) {
		t.Error("empty candidates error is classified as transient")
	}
}
