// Package app はアプリケーションの初期化と起動を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/taskdeck/internal/auth"
	"github.com/hitoshi/taskdeck/internal/config"
	"github.com/hitoshi/taskdeck/internal/database"
	"github.com/hitoshi/taskdeck/internal/handler"
	"github.com/hitoshi/taskdeck/internal/logger"
	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/repository"
	"github.com/hitoshi/taskdeck/internal/security"
	"github.com/hitoshi/taskdeck/internal/storage"
	"github.com/hitoshi/taskdeck/internal/suggest"
	"github.com/hitoshi/taskdeck/internal/task"
	"github.com/hitoshi/taskdeck/internal/team"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8002"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	teamRepo := repository.NewPostgresTeamRepo(db)
	invRepo := repository.NewPostgresInvitationRepo(db)
	taskRepo := repository.NewPostgresTaskRepo(db)
	commentRepo := repository.NewPostgresCommentRepo(db)

	// 3. セキュリティ・ストレージの初期化
	sanitizer := security.NewContentSanitizer()

	fileStore, err := storage.NewFileStore(cfg.UploadDir, cfg.MaxAttachments, cfg.MaxAttachmentSize)
	if err != nil {
		return fmt.Errorf("failed to init file store: %w", err)
	}

	// 4. ドメインサービスの初期化
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	authService := auth.NewService(userRepo, tokens, auth.ServiceConfig{
		OTPTTL:           cfg.OTPTTL,
		RegisterTokenTTL: cfg.RegisterTokenTTL,
		TokenExpiry:      cfg.TokenExpiry,
	})

	teamService := team.NewService(teamRepo, invRepo, userRepo)
	taskService := task.NewService(taskRepo, commentRepo, teamRepo, sanitizer)

	// 提案キャッシュはREDIS_URLが設定されている場合のみ有効
	var suggestCache suggest.Cache
	if cfg.RedisURL != "" {
		redisCache, err := suggest.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to init redis cache: %w", err)
		}
		defer redisCache.Close()
		suggestCache = redisCache
		slog.Info("suggestion cache enabled")
	}

	geminiClient := suggest.NewGeminiClient(
		&http.Client{Timeout: cfg.SuggestTimeout},
		slog.Default(),
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
	)
	suggestService := suggest.NewService(geminiClient, suggestCache, suggest.ServiceConfig{
		Timeout:  cfg.SuggestTimeout,
		CacheTTL: cfg.SuggestCacheTTL,
	})

	// 5. 可観測性の初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 6. ルーターの構築
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	// configのレート制限値はreq/min単位なのでreq/secに変換する
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.SuggestRate = rate.Limit(float64(cfg.RateLimitSuggest) / 60.0)
	rateLimiterCfg.SuggestBurst = cfg.RateLimitSuggest

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// CSRF保護はCSRF_ENABLED=trueの場合のみ有効
	var csrfConfig *middleware.CSRFConfig
	if cfg.CSRFEnabled {
		csrfConfig = &middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		}
		slog.Info("CSRF protection enabled")
	}

	deps := &handler.RouterDeps{
		TokenVerifier:     tokens,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		CSRF: csrfConfig,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain: cfg.CookieDomain,
			CookieSecure: cfg.CookieSecure,
			CookieMaxAge: 24 * 60 * 60, // 1日
		},

		TeamService: teamService,

		TaskService:     taskService,
		SuggestService:  suggestService,
		AttachmentStore: fileStore,

		UploadDir: fileStore.Dir(),

		Collector: collector,
		Gatherer:  registry,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
