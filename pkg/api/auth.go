package api

import "github.com/iudanet/smartnlp/internal/models"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
	FullName string `json:"fullName"` // отображаемое имя
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse представляет ответ на успешную регистрацию или вход
type AuthResponse struct {
	User    *models.PublicUser `json:"user"`
	Token   string             `json:"token"`   // JWT bearer token
	Message string             `json:"message"` // сообщение для пользователя
}

// MeResponse представляет ответ GET /auth/me
type MeResponse struct {
	User *models.PublicUser `json:"user"`
}

// MessageResponse представляет простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
