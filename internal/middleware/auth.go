// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskdeck/internal/auth"
	"github.com/hitoshi/taskdeck/internal/model"
)

// AuthCookieName は認証トークンを保持するCookieの名前。
const AuthCookieName = "taskToken"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// verifiedContextKey はリクエストコンテキストに検証済みフラグを格納するためのキー。
var verifiedContextKey = contextKey("is_verified")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenManagerの部分集合として定義する。
type TokenVerifier interface {
	// Verify はトークンの署名と有効期限を検証し、クレームを返す。
	Verify(token string) (*auth.Claims, error)
}

// UserFinder はユーザーの検索に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// NewAuthMiddleware はHTTP Only Cookieから認証トークンを読み取り、
// 検証するミドルウェアを返す。
// 認証済みユーザーIDと検証済みフラグをリクエストコンテキストに注入する。
// 未認証リクエストには401 Unauthorizedを返す。
func NewAuthMiddleware(verifier TokenVerifier, userFinder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookieからトークンを取得
			cookie, err := r.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// 2. トークンを検証
			claims, err := verifier.Verify(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// 3. ユーザーの存在を確認
			user, err := userFinder.FindByID(r.Context(), claims.Subject)
			if err != nil {
				slog.Error("failed to find user",
					slog.String("error", err.Error()),
				)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// 4. 認証済みユーザーIDと検証済みフラグをコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, user.ID)
			ctx = context.WithValue(ctx, verifiedContextKey, user.IsVerified)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewVerifiedMiddleware はアカウントが検証済みであることを要求する
// ミドルウェアを返す。NewAuthMiddlewareの後に配置すること。
// 未検証のアカウントには403 Forbiddenを返す。
func NewVerifiedMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verified, ok := r.Context().Value(verifiedContextKey).(bool)
			if !ok || !verified {
				WriteErrorResponse(w, http.StatusForbidden, &model.APIError{
					Code:     "ACCOUNT_NOT_VERIFIED",
					Message:  "アカウントが検証されていません。",
					Category: "auth",
					Action:   "確認コードを入力してアカウントを検証してください。",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// ContextWithVerified はコンテキストに検証済みフラグを注入する。テスト用。
func ContextWithVerified(ctx context.Context, verified bool) context.Context {
	return context.WithValue(ctx, verifiedContextKey, verified)
}
