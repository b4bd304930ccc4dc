package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

const (
	keyTheme = "theme"
)

// SaveTheme stores the selected interface theme
func (s *Storage) SaveTheme(ctx context.Context, theme string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketPreferences)
		if err != nil {
			return err
		}

		if err := b.Put([]byte(keyTheme), []byte(theme)); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}

		return nil
	})
}

// GetTheme retrieves the stored theme
// Returns empty string if no theme was saved yet
func (s *Storage) GetTheme(ctx context.Context) (string, error) {
	var theme string

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketPreferences)
		if err != nil {
			return err
		}

		// Значение из bbolt живет только внутри транзакции, копируем через string
		theme = string(b.Get([]byte(keyTheme)))
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get theme: %w", err)
	}

	return theme, nil
}
