package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/taskdeck/internal/auth"
	"github.com/hitoshi/taskdeck/internal/model"
)

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

// TestAuthMiddleware は認証ミドルウェアの各パスを検証する。
func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	validToken, err := tokens.Generate("user-1", "tanaka@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		cookie     *http.Cookie
		user       *model.User
		findErr    error
		wantStatus int
		wantUserID string
	}{
		{
			name:       "有効なトークンでユーザーIDが注入される",
			cookie:     &http.Cookie{Name: AuthCookieName, Value: validToken},
			user:       &model.User{ID: "user-1", IsVerified: true},
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
		{
			name:       "Cookieがない場合は401",
			cookie:     nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Cookieが空の場合は401",
			cookie:     &http.Cookie{Name: AuthCookieName, Value: ""},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "不正なトークンは401",
			cookie:     &http.Cookie{Name: AuthCookieName, Value: "garbage"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "ユーザーが存在しない場合は401",
			cookie:     &http.Cookie{Name: AuthCookieName, Value: validToken},
			user:       nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "ユーザー検索に失敗した場合は401",
			cookie:     &http.Cookie{Name: AuthCookieName, Value: validToken},
			findErr:    errors.New("db down"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &mockUserFinder{
				findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
					return tt.user, tt.findErr
				},
			}

			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/task", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			NewAuthMiddleware(tokens, finder)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUserID != "" && gotUserID != tt.wantUserID {
				t.Errorf("injected userID = %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}

// TestAuthMiddleware_InjectsVerifiedFlag は検証済みフラグがコンテキストに
// 注入され、後続の検証ミドルウェアで参照できることを検証する。
func TestAuthMiddleware_InjectsVerifiedFlag(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	token, err := tokens.Generate("user-1", "tanaka@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		verified   bool
		wantStatus int
	}{
		{name: "検証済みユーザーは通過する", verified: true, wantStatus: http.StatusOK},
		{name: "未検証ユーザーは403", verified: false, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &mockUserFinder{
				findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
					return &model.User{ID: "user-1", IsVerified: tt.verified}, nil
				},
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			chain := NewAuthMiddleware(tokens, finder)(NewVerifiedMiddleware()(next))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/task", nil)
			req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
			rec := httptest.NewRecorder()

			chain.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestVerifiedMiddleware_WithoutAuth は認証ミドルウェアを経由しない
// リクエストが403になることを検証する。
func TestVerifiedMiddleware_WithoutAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/task", nil)
	rec := httptest.NewRecorder()

	NewVerifiedMiddleware()(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

// TestUserIDFromContext はコンテキストからのユーザーID取得を検証する。
func TestUserIDFromContext(t *testing.T) {
	t.Run("注入済みのIDを取得できる", func(t *testing.T) {
		ctx := ContextWithUserID(context.Background(), "user-1")
		got, err := UserIDFromContext(ctx)
		if err != nil {
			t.Fatalf("UserIDFromContext() error = %v", err)
		}
		if got != "user-1" {
			t.Errorf("userID = %q, want %q", got, "user-1")
		}
	})

	t.Run("未注入の場合はエラー", func(t *testing.T) {
		if _, err := UserIDFromContext(context.Background()); err == nil {
			t.Error("UserIDFromContext() succeeded, want error")
		}
	})
}
