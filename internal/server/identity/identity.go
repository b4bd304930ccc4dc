// Package identity управляет пользователями, паролями, токенами и сессиями.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/smartnlp/internal/crypto"
	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/server/jwt"
	"github.com/iudanet/smartnlp/internal/server/storage"
)

// SessionTTL время жизни серверной сессии
const SessionTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials возвращается при неверном email или пароле
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store объединяет хранилища пользователей и сессий с сервисом токенов
type Store struct {
	users    storage.UserStorage
	sessions storage.SessionStorage
	tokens   *jwt.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a new identity store
func NewStore(logger *slog.Logger, users storage.UserStorage, sessions storage.SessionStorage, tokens *jwt.Service) *Store {
	return &Store{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// NormalizeEmail приводит email к каноническому виду для хранения и поиска
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new user with a bcrypt hashed password.
// Returns storage.ErrUserAlreadyExists when the email is taken.
func (s *Store) CreateUser(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail returns the user with the given email, or nil when unknown.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByID returns the public view of a user, or nil when unknown.
func (s *Store) FindByID(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.Public(), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func (s *Store) VerifyPassword(plain, hash string) bool {
	return crypto.CompareHash(hash, plain)
}

// Authenticate returns the user when email and password match.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken creates a bearer token carrying the user id.
func (s *Store) IssueToken(userID string) (string, error) {
	return s.tokens.Issue(userID)
}

// VerifyToken returns the user id from a valid token or jwt.ErrInvalidToken.
func (s *Store) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// CreateSession records a bcrypt hash of the issued token.
func (s *Store) CreateSession(ctx context.Context, userID, token string) (*models.Session, error) {
	hash, err := crypto.HashToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to hash token: %w", err)
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the user's session matching token.
// A missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, userID, token string) error {
	deleted, err := s.sessions.DeleteMatchingSession(ctx, userID, func(tokenHash string) bool {
		return crypto.CompareToken(tokenHash, token)
	})
	if err != nil {
		return err
	}

	if !deleted {
		s.logger.DebugContext(ctx, "no session matched token", slog.String("user_id", userID))
	}

	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *Store) PurgeExpiredSessions(ctx context.Context) (int, error) {
	return s.sessions.DeleteExpiredSessions(ctx, s.now())
}

// RunSessionPurge periodically removes expired sessions until ctx is done.
func (s *Store) RunSessionPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredSessions(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "failed to purge expired sessions", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "expired sessions purged", slog.Int("count", n))
			}
		}
	}
}
