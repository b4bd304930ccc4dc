package storage

import (
	"context"

	"github.com/iudanet/smartnlp/internal/models"
)

// UserStorage хранит учетные записи. Email приходит уже нормализованным
// (нижний регистр), уникальность обеспечивает ограничение UNIQUE на users.email.
type UserStorage interface {
	// CreateUser сохраняет пользователя.
	// Returns ErrUserAlreadyExists on a duplicate email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrUserNotFound if no user has the email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrUserNotFound if the user was deleted or never existed
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}
