package sqldb

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/server/storage"
)

// CreateSession stores a new session
func (s *Storage) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.dialect.rebind(query),
		session.ID,
		session.UserID,
		session.TokenHash,
		session.ExpiresAt.UnixMilli(),
		session.CreatedAt.UnixMilli(),
	)

	if err != nil {
		return storage.Wrap("insert session", err)
	}

	return nil
}

// GetUserSessions retrieves all sessions for a user
func (s *Storage) GetUserSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	return s.userSessions(ctx, s.db, userID)
}

// DeleteMatchingSession deletes the first session of userID whose hash matches.
// The scan and the delete share one transaction so concurrent logouts of
// the same user cannot both claim a session.
func (s *Storage) DeleteMatchingSession(ctx context.Context, userID string, match func(tokenHash string) bool) (bool, error) {
	var deleted bool

	err := withTx(ctx, s.db, nil, func(ctx context.Context, tx dbtx) error {
		sessions, err := s.userSessions(ctx, tx, userID)
		if err != nil {
			return err
		}

		for _, session := range sessions {
			if !match(session.TokenHash) {
				continue
			}

			query := `DELETE FROM user_sessions WHERE id = ?`
			if _, err := tx.ExecContext(ctx, s.dialect.rebind(query), session.ID); err != nil {
				return storage.Wrap("delete session", err)
			}
			deleted = true
			return nil
		}

		return nil
	})

	if err != nil {
		var storageErr *storage.Error
		if errors.As(err, &storageErr) {
			return false, err
		}
		return false, storage.Wrap("delete matching session", err)
	}

	return deleted, nil
}

// DeleteExpiredSessions removes all sessions expired before now
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	query := `DELETE FROM user_sessions WHERE expires_at <= ?`

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query), now.UnixMilli())
	if err != nil {
		return 0, storage.Wrap("delete expired sessions", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storage.Wrap("rows affected", err)
	}

	return int(rows), nil
}

func (s *Storage) userSessions(ctx context.Context, q dbtx, userID string) ([]*models.Session, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM user_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := q.QueryContext(ctx, s.dialect.rebind(query), userID)
	if err != nil {
		return nil, storage.Wrap("query user sessions", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	sessions := make([]*models.Session, 0)

	for rows.Next() {
		session := &models.Session{}
		var expiresAt, createdAt int64
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.TokenHash,
			&expiresAt,
			&createdAt,
		); err != nil {
			return nil, storage.Wrap("scan session", err)
		}
		session.ExpiresAt = time.UnixMilli(expiresAt)
		session.CreatedAt = time.UnixMilli(createdAt)
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate sessions", err)
	}

	return sessions, nil
}
