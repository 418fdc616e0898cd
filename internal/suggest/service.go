package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// promptTemplate は提案生成に使用するプロンプトのテンプレート。
// 応答を純粋なJSONに限定するよう指示する。
const promptTemplate = `Suggest a task with these details:
- title
- description
- dueDate (YYYY-MM-DD)
- status (open, in-progress, completed)
- priority (low, medium, high)
Based on: %s
IMPORTANT: Return only pure JSON without markdown, explanation, or extra text.`

// retryDelay は一時的エラーの再試行前の待機時間。
const retryDelay = 500 * time.Millisecond

// Generator はテキスト生成のインターフェース。
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ServiceConfig は提案サービスの設定。
type ServiceConfig struct {
	Timeout  time.Duration // 生成呼び出し1回あたりのタイムアウト
	CacheTTL time.Duration // 提案結果のキャッシュ有効期間
}

// Service はタスク詳細提案のサービス層。
// 生成結果はプロンプト単位でキャッシュし、同一プロンプトの再生成を防ぐ。
type Service struct {
	generator Generator
	cache     Cache // nilの場合はキャッシュしない
	config    ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。
// cacheにはnilを渡すことができ、その場合キャッシュは無効になる。
func NewService(generator Generator, cache Cache, config ServiceConfig) *Service {
	return &Service{
		generator: generator,
		cache:     cache,
		config:    config,
	}
}

// Suggest はプロンプトに基づくタスク詳細の提案を生成する。
// 生成テキストからJSONオブジェクトを抽出してデコードした結果を返す。
// 抽出またはデコードに失敗した場合は、エラーではなく
// {error, raw}形式の縮退ペイロードを返す（呼び出しは成功扱い）。
// 一時的エラー（ネットワーク障害、429/5xx）は1回だけ再試行する。
func (s *Service) Suggest(ctx context.Context, prompt string) (map[string]any, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, model.NewPromptRequiredError()
	}

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, trimmed)
		if err != nil {
			// キャッシュ障害は提案の生成を妨げない
			slog.Warn("suggestion cache lookup failed", slog.String("error", err.Error()))
		} else if hit {
			var payload map[string]any
			if err := json.Unmarshal([]byte(cached), &payload); err == nil {
				slog.Info("suggestion served from cache")
				return payload, nil
			}
		}
	}

	enhanced := fmt.Sprintf(promptTemplate, trimmed)

	raw, err := s.generateWithRetry(ctx, enhanced)
	if err != nil {
		return nil, model.NewSuggestionFailedError(err.Error())
	}

	payload, parsed := parseSuggestion(raw)

	if parsed && s.cache != nil {
		encoded, err := json.Marshal(payload)
		if err == nil {
			if err := s.cache.Set(ctx, trimmed, string(encoded), s.config.CacheTTL); err != nil {
				slog.Warn("suggestion cache store failed", slog.String("error", err.Error()))
			}
		}
	}

	return payload, nil
}

// generateWithRetry は生成呼び出しを実行する。一時的エラーの場合は
// 短い待機の後に1回だけ再試行する。各試行には個別のタイムアウトを適用する。
func (s *Service) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	raw, err := s.generateOnce(ctx, prompt)
	if err == nil {
		return raw, nil
	}
	if !IsTransient(err) {
		return "", err
	}

	slog.Warn("suggestion generation failed, retrying",
		slog.String("error", err.Error()),
	)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(retryDelay):
	}

	return s.generateOnce(ctx, prompt)
}

func (s *Service) generateOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	return s.generator.GenerateContent(callCtx, prompt)
}

// parseSuggestion は生成テキストからJSONオブジェクトを抽出してデコードする。
// 成功時は(デコード結果, true)、失敗時は({error, raw}, false)を返す。
func parseSuggestion(raw string) (map[string]any, bool) {
	candidate, found := ExtractJSONCandidate(raw)
	if found {
		var payload map[string]any
		if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
			return payload, true
		}
	}

	slog.Warn("suggestion response did not contain valid JSON")
	return map[string]any{
		"error": "No valid JSON found",
		"raw":   raw,
	}, false
}
