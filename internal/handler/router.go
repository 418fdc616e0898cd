package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// CSRF保護（nilの場合は無効）。有効な場合は状態変更メソッドに
	// 二重送信Cookie方式のトークン検証を課し、トークン取得
	// エンドポイントを公開する。
	CSRF *middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// チーム
	TeamService TeamServiceInterface

	// タスク
	TaskService     TaskServiceInterface
	SuggestService  SuggestServiceInterface
	AttachmentStore AttachmentStore

	// 添付ファイルの静的配信ディレクトリ
	UploadDir string

	// 可観測性
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → [Auth → RateLimit(General) → Verified]
//
// 登録・ログインと確認コード検証は検証済みゲートの外に配置する
// （確認コード検証は認証のみ必要）。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	if deps.CSRF != nil {
		r.Use(middleware.NewCSRFMiddleware(*deps.CSRF))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	teamHandler := NewTeamHandler(deps.TeamService)
	taskHandler := NewTaskHandler(deps.TaskService, deps.SuggestService, deps.AttachmentStore, deps.Collector)

	authMw := middleware.NewAuthMiddleware(deps.TokenVerifier, deps.UserFinder)
	verifiedMw := middleware.NewVerifiedMiddleware()

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// 添付ファイルの静的配信
	if deps.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		if deps.CSRF != nil {
			r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(*deps.CSRF))
		}

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// 確認コード検証とログアウトは認証が必要（検証済みゲートは不要）
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/logout", authHandler.Logout)
		})
	})

	// --- 認証と検証済みアカウントが必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General) → Verified
	r.Group(func(r chi.Router) {
		r.Use(authMw)
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(verifiedMw)

		// チーム管理
		r.Route("/api/v1/team", func(r chi.Router) {
			r.Post("/", teamHandler.CreateTeam)
			r.Post("/{teamId}/invite", teamHandler.InviteMember)
			r.Post("/invites/{inviteId}/accept", teamHandler.AcceptInvite)
		})

		// タスク管理
		r.Route("/api/v1/task", func(r chi.Router) {
			// POST /api/v1/task/suggest-details - タスク提案（提案専用レート制限を追加）
			r.With(deps.RateLimiter.SuggestMiddleware()).Post("/suggest-details", taskHandler.SuggestDetails)

			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)

			r.Route("/{taskId}", func(r chi.Router) {
				r.Delete("/", taskHandler.DeleteTask)
				r.Patch("/status", taskHandler.ChangeStatus)
				r.Post("/comment", taskHandler.CommentOnTask)
			})
		})
	})

	return r
}
