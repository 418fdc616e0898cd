package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのコストパラメータ。
const bcryptCost = 10

// HashPassword は平文パスワードのbcryptハッシュを生成する。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword は平文パスワードをbcryptハッシュと照合する。
// 一致しない場合はエラーを返す。
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
