package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/server/identity"
	"github.com/iudanet/smartnlp/internal/server/storage"
	"github.com/iudanet/smartnlp/internal/validation"
	"github.com/iudanet/smartnlp/pkg/api"
)

// IdentityService операции над пользователями и сессиями, нужные AuthHandler
type IdentityService interface {
	CreateUser(ctx context.Context, email, password, fullName string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.PublicUser, error)
	IssueToken(userID string) (string, error)
	CreateSession(ctx context.Context, userID, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, userID, token string) error
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	identity IdentityService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, identity IdentityService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		identity: identity,
	}
}

// Register обрабатывает POST /auth/register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.identity.CreateUser(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("email", req.Email))
			sendError(h.logger, w, "user with this email already exists", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, ok := h.startSession(ctx, w, user.ID)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.AuthResponse{
		User:    user.Public(),
		Token:   token,
		Message: "User registered successfully",
	}, http.StatusCreated)
}

// Login обрабатывает POST /auth/login
// Аутентификация пользователя по email и паролю
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		sendError(h.logger, w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.identity.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login failed: invalid credentials")
			sendError(h.logger, w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to authenticate user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, ok := h.startSession(ctx, w, user.ID)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.AuthResponse{
		User:    user.Public(),
		Token:   token,
		Message: "Login successful",
	}, http.StatusOK)
}

// Logout обрабатывает POST /auth/logout
// Удаляет сессию текущего токена. Ошибка удаления не видна клиенту.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	token, _ := GetToken(ctx)
	if err := h.identity.DeleteSession(ctx, userID, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete session", slog.String("user_id", userID), slog.Any("error", err))
	} else {
		h.logger.InfoContext(ctx, "user logged out successfully", slog.String("user_id", userID))
	}

	sendJSON(h.logger, w, api.MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// Me обрабатывает GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.identity.FindByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// токен валиден, но пользователь удален
		h.logger.WarnContext(ctx, "user from token not found", slog.String("user_id", userID))
		sendError(h.logger, w, "user not found", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, api.MeResponse{User: user}, http.StatusOK)
}

// startSession выпускает токен и сохраняет сессию. При ошибке ответ уже отправлен.
func (h *AuthHandler) startSession(ctx context.Context, w http.ResponseWriter, userID string) (string, bool) {
	token, err := h.identity.IssueToken(userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return "", false
	}

	if _, err := h.identity.CreateSession(ctx, userID, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to create session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return "", false
	}

	return token, true
}
