package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"`           // время создания
	UpdatedAt    time.Time `json:"updated_at"`           // время последнего обновления
	ID           string    `json:"id"`                   // UUID пользователя
	Email        string    `json:"email"`                // уникальный email (в нижнем регистре)
	PasswordHash string    `json:"-"`                    // bcrypt хеш пароля, наружу не отдается
	FullName     string    `json:"full_name"`            // отображаемое имя
	AvatarURL    string    `json:"avatar_url,omitempty"` // ссылка на аватар
}

// Public возвращает представление пользователя без хеша пароля
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUser представляет пользователя без секретных полей
type PublicUser struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// Session представляет сессию пользователя
// Хранится только bcrypt хеш токена, сам токен сервер не сохраняет
type Session struct {
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
	ID        string    `json:"id"`         // UUID сессии
	UserID    string    `json:"user_id"`    // ID пользователя
	TokenHash string    `json:"-"`          // bcrypt хеш токена
}

// Expired reports whether the session is past its expiry at the given moment.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
