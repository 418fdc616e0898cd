package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Redis（未設定の場合は提案キャッシュを無効化する）
	RedisURL string

	// JWT
	JWTSecret        string
	TokenExpiry      time.Duration // ログイントークンの有効期間
	RegisterTokenTTL time.Duration // 登録直後のトークンの有効期間
	OTPTTL           time.Duration // 確認コードの有効期間

	// Gemini
	GeminiAPIKey    string
	GeminiModel     string
	SuggestTimeout  time.Duration
	SuggestCacheTTL time.Duration

	// Upload
	UploadDir         string
	MaxAttachments    int
	MaxAttachmentSize int64

	// Rate Limit
	RateLimitGeneral int
	RateLimitSuggest int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CSRF（二重送信Cookie方式。既定では無効）
	CSRFEnabled bool

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.RedisURL = getEnvString("REDIS_URL", "")
	cfg.TokenExpiry = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)
	cfg.RegisterTokenTTL = getEnvDuration("REGISTER_TOKEN_TTL", 10*time.Minute)
	cfg.OTPTTL = getEnvDuration("OTP_TTL", 5*time.Minute)
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "gemini-2.0-flash")
	cfg.SuggestTimeout = getEnvDuration("SUGGEST_TIMEOUT", 10*time.Second)
	cfg.SuggestCacheTTL = getEnvDuration("SUGGEST_CACHE_TTL", time.Hour)
	cfg.UploadDir = getEnvString("UPLOAD_DIR", "uploads")
	cfg.MaxAttachments = getEnvInt("MAX_ATTACHMENTS", 5)
	cfg.MaxAttachmentSize = getEnvInt64("MAX_ATTACHMENT_SIZE", 5242880)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSuggest = getEnvInt("RATE_LIMIT_SUGGEST", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8002")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CSRFEnabled = getEnvBool("CSRF_ENABLED", false)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
