package boltdb

import (
	"context"
	"fmt"

	"github.com/iudanet/smartnlp/internal/models"
)

// SaveHistory заменяет кэш истории пользователя. Вся история хранится
// одним значением по ID пользователя.
func (s *Storage) SaveHistory(ctx context.Context, userID string, items []models.HistoryItem) error {
	if items == nil {
		items = []models.HistoryItem{}
	}
	if err := s.putJSON(bucketHistory, []byte(userID), items); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// LoadHistory возвращает кэш истории; пустой слайс, если кэша нет
func (s *Storage) LoadHistory(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	items := []models.HistoryItem{}
	if _, err := s.getJSON(bucketHistory, []byte(userID), &items); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return items, nil
}

// DeleteHistory удаляет кэш истории пользователя
func (s *Storage) DeleteHistory(ctx context.Context, userID string) error {
	if _, err := s.deleteKey(bucketHistory, []byte(userID)); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}
