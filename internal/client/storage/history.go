package storage

import (
	"context"

	"github.com/iudanet/smartnlp/internal/models"
)

// HistoryCache defines interface for the local copy of a user's history.
// Items are stored newest first, keyed by user ID.
type HistoryCache interface {
	// SaveHistory replaces the cached history of the user
	SaveHistory(ctx context.Context, userID string, items []models.HistoryItem) error

	// LoadHistory returns the cached history of the user
	// Returns empty slice if nothing is cached
	LoadHistory(ctx context.Context, userID string) ([]models.HistoryItem, error)

	// DeleteHistory removes the cached history of the user
	DeleteHistory(ctx context.Context, userID string) error
}
