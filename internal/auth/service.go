// Package auth はユーザー登録、確認コード検証、ログインと
// セッショントークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	OTPTTL           time.Duration // 確認コードの有効期間
	RegisterTokenTTL time.Duration // 登録直後に発行するトークンの有効期間
	TokenExpiry      time.Duration // ログイントークンの有効期間
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenManager
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens *TokenManager, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		config:   config,
	}
}

// Register は新規ユーザーを登録する。
// メールアドレスは保存された値との大文字小文字を区別する完全一致で
// 重複チェックされる。成功時は確認コードを発行し、{email, ユーザーID}に
// 紐づく短命トークンを返す。
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailExistsError(email)
	}

	otp, err := GenerateOTP()
	if err != nil {
		return nil, "", fmt.Errorf("確認コードの生成に失敗しました: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.config.OTPTTL)
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		OTP:          otp,
		OTPExpiresAt: &expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	// メール配信は未接続のため、発行した確認コードはログに記録する。
	// TODO: メール配信プロバイダ接続時にこのログを削除する
	slog.Info("OTP issued",
		slog.String("user_id", user.ID),
		slog.String("otp", otp),
	)

	token, err := s.tokens.Generate(user.ID, user.Email, s.config.RegisterTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// VerifyOTP は確認コードを検証し、成功時にアカウントを検証済みにする。
// コードは完全一致で比較し、有効期限が現在時刻と等しい場合も期限切れとして
// 拒否する。成功時は保存されたコードと期限をクリアする。
func (s *Service) VerifyOTP(ctx context.Context, userID, otp string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	if user.OTP == "" || user.OTP != otp {
		return model.NewInvalidOTPError()
	}

	if user.OTPExpiresAt == nil || !user.OTPExpiresAt.After(time.Now()) {
		return model.NewOTPExpiredError()
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("検証状態の更新に失敗しました: %w", err)
	}

	slog.Info("user verified", slog.String("user_id", user.ID))
	return nil
}

// Login はメールアドレスでユーザーを特定し、セッショントークンを発行する。
// 現状、送信されたパスワードは保存されたハッシュと照合されない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, "", model.NewUserNotFoundError()
	}

	token, err := s.tokens.Generate(user.ID, user.Email, s.config.TokenExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}
