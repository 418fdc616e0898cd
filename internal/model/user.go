// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュを保持し、平文パスワードは保存しない。
// OTPは登録時に発行され、検証成功時にクリアされる。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	IsVerified   bool
	OTP          string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
