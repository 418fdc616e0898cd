// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録し、ユーザーと短命トークンを返す。
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	// VerifyOTP は確認コードを検証し、アカウントを検証済みにする。
	VerifyOTP(ctx context.Context, userID, otp string) error
	// Login はユーザーを特定し、セッショントークンを発行する。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
	CookieMaxAge int // 認証Cookieの有効期間（秒）
}

// AuthHandler はユーザー登録・ログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// verifyOTPRequest は確認コード検証リクエストのボディ。
type verifyOTPRequest struct {
	OTP string `json:"otp"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register は新規ユーザーを登録する。
// 成功時はHTTP Only Cookieに短命トークンを設定し、本文にも同じ
// トークンを含めて200で応答する。
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("name, email, password"))
		return
	}

	_, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setAuthCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  true,
		"message": "登録が完了しました。確認コードをメールに送信しました。",
		"token":   token,
	})
}

// VerifyOTP は確認コードを検証する。認証済みだが未検証のユーザーが
// 呼び出すため、検証済みゲートの外に配置される。
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.OTP == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("otp"))
		return
	}

	if err := h.service.VerifyOTP(r.Context(), userID, req.OTP); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  true,
		"message": "確認コードを検証しました。",
	})
}

// Login はセッショントークンを発行する。
// フィールド欠落とユーザー未登録はエラーステータスではなく、
// メッセージ付きの200で応答する。成功時は201で応答する。
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if req.Email == "" || req.Password == "" {
		json.NewEncoder(w).Encode(map[string]any{
			"message": "すべてのフィールドを入力してください。",
		})
		return
	}

	_, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound {
			json.NewEncoder(w).Encode(map[string]any{
				"message": "ユーザーが存在しません。先に登録してください。",
			})
			return
		}
		handleServiceError(w, err)
		return
	}

	h.setAuthCookie(w, token)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  true,
		"message": "ログインしました。",
		"token":   token,
	})
}

// Logout は認証Cookieをクリアする。
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "ログアウトしました。",
	})
}

// setAuthCookie は認証トークンをHTTP Only Cookieに設定する。
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.CookieMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
