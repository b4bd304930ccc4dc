package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost стоимость bcrypt для паролей пользователей
	PasswordCost = 12
	// TokenCost стоимость bcrypt для хешей токенов сессий
	TokenCost = 10
)

// HashPassword хеширует пароль пользователя через bcrypt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return hash(password, PasswordCost)
}

// HashToken хеширует bearer token для хранения в таблице сессий.
// JWT длиннее 72 байт, которые принимает bcrypt, поэтому в bcrypt
// передается hex SHA-256 токена (64 байта).
func HashToken(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}
	return hash(tokenDigest(token), TokenCost)
}

// CompareToken reports whether token matches a hash made by HashToken.
func CompareToken(hashed, token string) bool {
	if token == "" {
		return false
	}
	return CompareHash(hashed, tokenDigest(token))
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareHash reports whether plain matches the bcrypt hash.
// Malformed hashes never match.
func CompareHash(hashed, plain string) bool {
	if hashed == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

func hash(value string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(value), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("value exceeds 72 bytes: %w", err)
		}
		return "", fmt.Errorf("failed to hash value: %w", err)
	}
	return string(b), nil
}
