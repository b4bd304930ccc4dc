package boltdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/smartnlp/internal/client/storage"
)

// Клиент хранит одну сессию под фиксированным ключом
var currentSessionKey = []byte("current")

// SaveAuth заменяет сохраненную сессию
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return fmt.Errorf("auth data is nil")
	}
	if err := s.putJSON(bucketAuth, currentSessionKey, auth); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetAuth возвращает сохраненную сессию или storage.ErrAuthNotFound
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var auth storage.AuthData
	found, err := s.getJSON(bucketAuth, currentSessionKey, &auth)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return nil, storage.ErrAuthNotFound
	}
	return &auth, nil
}

// DeleteAuth удаляет сессию при выходе
func (s *Storage) DeleteAuth(ctx context.Context) error {
	missing, err := s.deleteKey(bucketAuth, currentSessionKey)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if missing {
		return storage.ErrAuthNotFound
	}
	return nil
}

// IsAuthenticated сообщает, есть ли сессия с неистекшим токеном.
// ExpiresAt == 0 означает, что срок неизвестен, и сессия считается живой.
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if auth.ExpiresAt == 0 {
		return true, nil
	}
	return s.now().Before(time.Unix(auth.ExpiresAt, 0)), nil
}
