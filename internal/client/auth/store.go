package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/smartnlp/internal/client/api"
	"github.com/iudanet/smartnlp/internal/client/storage"
	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/validation"
	pkgapi "github.com/iudanet/smartnlp/pkg/api"
)

// API подмножество HTTP клиента, нужное для аутентификации
type API interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.AuthResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*pkgapi.MeResponse, error)
}

// HistoryLoader перезагружает историю после смены сессии
type HistoryLoader interface {
	LoadHistory(ctx context.Context) error
}

// Store владеет состоянием сессии клиента. Все изменения состояния проходят
// через Reduce; сетевые вызовы и работа с хранилищем выполняются снаружи
// редьюсера. Запросы не отменяют друг друга: ответ устаревшего запроса
// применяется так же, как ответ последнего.
type Store struct {
	api     API
	storage storage.AuthStorage
	history HistoryLoader
	logger  *slog.Logger
	token   string
	state   State
	mu      sync.RWMutex
}

// NewStore создает Store. history может быть nil, тогда перезагрузка истории
// пропускается с записью в лог.
func NewStore(logger *slog.Logger, client API, authStorage storage.AuthStorage, history HistoryLoader) *Store {
	return &Store{
		api:     client,
		storage: authStorage,
		history: history,
		logger:  logger,
		state:   InitialState(),
	}
}

// State возвращает текущий снимок состояния
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch применяет действие к состоянию
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state
}

// CurrentSession возвращает пользователя и токен текущей сессии
func (s *Store) CurrentSession(ctx context.Context) (userID, token string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.IsAuthenticated() || s.state.User == nil || s.token == "" {
		return "", "", false
	}
	return s.state.User.ID, s.token, true
}

// Login выполняет вход по email и паролю
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.Dispatch(Start())

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.Dispatch(Failure())
		return fmt.Errorf("email and password are required")
	}

	resp, err := s.api.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.Dispatch(Failure())
		return err
	}

	return s.startSession(ctx, resp)
}

// Register регистрирует пользователя и сразу открывает сессию
func (s *Store) Register(ctx context.Context, email, password, fullName string) error {
	s.Dispatch(Start())

	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		s.Dispatch(Failure())
		return fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		s.Dispatch(Failure())
		return fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.api.Register(ctx, pkgapi.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: strings.TrimSpace(fullName),
	})
	if err != nil {
		s.Dispatch(Failure())
		return err
	}

	return s.startSession(ctx, resp)
}

// Logout завершает сессию. Ошибка сервера не мешает локальному выходу.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		if stored, err := s.storage.GetAuth(ctx); err == nil {
			token = stored.Token
		}
	}

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "server logout failed", slog.Any("error", err))
		}
	}

	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.state = Reduce(s.state, Logout())
	s.mu.Unlock()

	s.loadHistory(ctx)
	return nil
}

// Refresh восстанавливает сессию из локального хранилища и проверяет токен
// через /auth/me. Если сервер недоступен, используется сохраненный профиль.
func (s *Store) Refresh(ctx context.Context) error {
	s.Dispatch(Start())

	stored, err := s.storage.GetAuth(ctx)
	if err != nil {
		s.Dispatch(Failure())
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read local session: %w", err)
	}

	valid, err := s.storage.IsAuthenticated(ctx)
	if err != nil || !valid {
		s.logger.DebugContext(ctx, "stored session expired")
		s.dropLocalSession(ctx)
		s.Dispatch(Failure())
		return nil
	}

	user := &models.PublicUser{ID: stored.UserID, Email: stored.Email, FullName: stored.FullName}

	me, err := s.api.Me(ctx, stored.Token)
	switch {
	case api.IsUnauthorized(err):
		s.logger.InfoContext(ctx, "stored session rejected by server")
		s.dropLocalSession(ctx)
		s.Dispatch(Failure())
		return nil
	case err != nil:
		s.logger.WarnContext(ctx, "session refresh failed, using stored profile", slog.Any("error", err))
	case me.User != nil:
		user = me.User
	}

	s.mu.Lock()
	s.token = stored.Token
	s.state = Reduce(s.state, Success(user))
	s.mu.Unlock()

	s.loadHistory(ctx)
	return nil
}

// startSession сохраняет токен и переводит Store в authenticated
func (s *Store) startSession(ctx context.Context, resp *pkgapi.AuthResponse) error {
	if resp.User == nil || resp.Token == "" {
		s.Dispatch(Failure())
		return fmt.Errorf("server returned incomplete auth response")
	}

	err := s.storage.SaveAuth(ctx, &storage.AuthData{
		UserID:    resp.User.ID,
		Email:     resp.User.Email,
		FullName:  resp.User.FullName,
		Token:     resp.Token,
		ExpiresAt: tokenExpiry(resp.Token),
	})
	if err != nil {
		s.Dispatch(Failure())
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.state = Reduce(s.state, Success(resp.User))
	s.mu.Unlock()

	s.loadHistory(ctx)
	return nil
}

func (s *Store) dropLocalSession(ctx context.Context) {
	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		s.logger.WarnContext(ctx, "failed to delete local session", slog.Any("error", err))
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// loadHistory перезагружает историю; ошибки только логируются
func (s *Store) loadHistory(ctx context.Context) {
	if s.history == nil {
		s.logger.DebugContext(ctx, "history store not available, skipping history load")
		return
	}
	if err := s.history.LoadHistory(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to load history", slog.Any("error", err))
	}
}

// tokenExpiry читает exp из JWT без проверки подписи, подпись проверяет сервер.
// 0 если срок не удалось определить.
func tokenExpiry(token string) int64 {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Unix()
}
