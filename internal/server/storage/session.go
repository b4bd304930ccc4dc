package storage

import (
	"context"
	"time"

	"github.com/iudanet/smartnlp/internal/models"
)

// SessionStorage defines interface for session persistence
type SessionStorage interface {
	// CreateSession stores a new session
	CreateSession(ctx context.Context, session *models.Session) error

	// GetUserSessions retrieves all sessions for a user, newest first
	// Returns empty slice if no sessions found
	GetUserSessions(ctx context.Context, userID string) ([]*models.Session, error)

	// DeleteMatchingSession deletes the first session of the user whose token
	// hash satisfies match. Lookup and delete run in one transaction.
	// Returns false when nothing matched.
	DeleteMatchingSession(ctx context.Context, userID string, match func(tokenHash string) bool) (bool, error)

	// DeleteExpiredSessions removes all sessions expired before now
	// Returns number of deleted sessions
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
