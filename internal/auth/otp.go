package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP は暗号的に安全な6桁の確認コードを生成する。
// 先頭が0の場合もゼロ埋めして常に6桁の文字列を返す。
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
