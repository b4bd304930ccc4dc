package storage

import (
	"context"

	"github.com/iudanet/smartnlp/internal/models"
)

// ListOptions задает страницу и фильтр при чтении истории
type ListOptions struct {
	Kind   models.Kind // пустое значение отключает фильтр
	Limit  int
	Offset int
}

// OperationStorage defines interface for NLP operation history persistence
type OperationStorage interface {
	// CreateOperation stores a new operation record
	// ID and CreatedAt are assigned when empty
	CreateOperation(ctx context.Context, op *models.Operation) (*models.Operation, error)

	// ListOperations returns the user's operations newest first
	// Returns empty slice if no operations found
	ListOperations(ctx context.Context, userID string, opts ListOptions) ([]*models.Operation, error)

	// DeleteUserOperations deletes every operation of the user
	// Returns number of deleted operations
	DeleteUserOperations(ctx context.Context, userID string) (int, error)

	// OperationStats returns per-kind counts of the user's operations
	OperationStats(ctx context.Context, userID string) (*models.OperationStats, error)
}
