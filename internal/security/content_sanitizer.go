// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザー入力テキスト（タスクのタイトル・説明、
// コメント本文）をサニタイズし、XSS攻撃などのセキュリティリスクから
// ユーザーを保護する。bluemondayライブラリの厳格ポリシーを使用し、
// HTMLタグを一切許可しない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー入力テキストのサニタイズ機能の
// インターフェースを定義する。タスクとコメントの保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストからすべてのHTMLタグを除去して返す。
	// タスクやコメントはプレーンテキストとして扱うため、許可タグはない。
	// 前後の空白は取り除かれる。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。タグの中身のテキストは保持される。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからすべてのHTMLタグを除去して返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
