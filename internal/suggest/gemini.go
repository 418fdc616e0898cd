// Package suggest はAIによるタスク詳細提案機能を提供する。
// Gemini APIの呼び出し、応答からのJSON抽出、提案結果のキャッシュを含む。
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// defaultEndpoint はGemini APIのベースURL。
const defaultEndpoint = "https://generativelanguage.googleapis.com"

// GeminiClient はGemini APIのクライアント。
// generateContentエンドポイントを使用してテキスト生成を行う。
type GeminiClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	model      string
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewGeminiClient はGeminiClientの新しいインスタンスを生成する。
func NewGeminiClient(httpClient *http.Client, logger *slog.Logger, apiKey, model string) *GeminiClient {
	return &GeminiClient{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		model:      model,
		endpoint:   defaultEndpoint,
	}
}

// generateContentRequest はgenerateContentのリクエストボディ。
type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateContentResponse はgenerateContentのレスポンスボディ。
// 必要なフィールドのみをデコードする。
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// transientError は再試行可能な失敗を表す。
// ネットワークエラーおよびHTTP 429/5xxが該当する。
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsTransient はエラーが再試行可能な一時的エラーかを判定する。
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// GenerateContent はプロンプトをGemini APIに送信し、最初の候補の
// テキストを返す。ネットワークエラーと429/5xxは一時的エラーとして
// 分類され、IsTransientで判別できる。
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Gemini APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("model", c.model),
		)
		return "", &transientError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("model", c.model),
		)
		statusErr := fmt.Errorf("Gemini APIがステータス %d を返しました", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &transientError{err: statusErr}
		}
		return "", statusErr
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini APIのレスポンスに候補が含まれていません")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
