package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/smartnlp/internal/client/storage"
	"github.com/iudanet/smartnlp/internal/models"
)

// SessionSource сообщает текущего пользователя; ok=false для анонимного клиента
type SessionSource interface {
	CurrentSession(ctx context.Context) (userID, token string, ok bool)
}

// Store владеет состоянием истории. Изменения сначала применяются локально
// через Reduce, затем зеркалируются в Remote, если пользователь вошел.
type Store struct {
	remote  Remote
	session SessionSource
	prefs   storage.PreferenceStorage
	cache   storage.HistoryCache
	logger  *slog.Logger
	now     func() time.Time
	state   State
	mu      sync.RWMutex
}

// NewStore создает Store и восстанавливает сохраненную тему. cache может быть nil.
func NewStore(ctx context.Context, logger *slog.Logger, remote Remote, session SessionSource,
	prefs storage.PreferenceStorage, cache storage.HistoryCache) *Store {
	s := &Store{
		remote:  remote,
		session: session,
		prefs:   prefs,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
		state:   State{Items: []models.HistoryItem{}, Theme: storage.ThemeLight},
	}

	theme, err := prefs.GetTheme(ctx)
	if err != nil {
		logger.WarnContext(ctx, "failed to restore theme", slog.Any("error", err))
		theme = ""
	}
	s.state.Theme = normalizeTheme(theme)

	return s
}

// SetSession задает источник сессии после создания Store
func (s *Store) SetSession(session SessionSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// State возвращает текущий снимок состояния
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Items = append([]models.HistoryItem{}, s.state.Items...)
	return st
}

// Dispatch применяет действие к состоянию
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state
}

// SetLoading выставляет флаг загрузки
func (s *Store) SetLoading(loading bool) {
	s.Dispatch(SetLoading(loading))
}

// AddToHistory добавляет запись, присваивая ей ID и время создания
func (s *Store) AddToHistory(ctx context.Context, item models.HistoryItem) (models.HistoryItem, error) {
	item.ID = uuid.NewString()
	item.Timestamp = s.now().UnixMilli()

	state := s.Dispatch(Add(item))

	sess, ok := s.currentSession(ctx)
	if !ok {
		return item, nil
	}

	if err := s.remote.Add(ctx, sess, item); err != nil {
		return item, fmt.Errorf("failed to mirror history item: %w", err)
	}
	s.saveCache(ctx, sess.UserID, state.Items)

	return item, nil
}

// ClearHistory очищает историю локально и у текущего пользователя на сервере
func (s *Store) ClearHistory(ctx context.Context) error {
	s.Dispatch(Clear())

	sess, ok := s.currentSession(ctx)
	if !ok {
		return nil
	}

	if err := s.remote.Clear(ctx, sess); err != nil {
		return fmt.Errorf("failed to clear remote history: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteHistory(ctx, sess.UserID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete cached history", slog.Any("error", err))
		}
	}

	return nil
}

// LoadHistory заменяет историю записями текущего пользователя. Без сессии
// ничего не делает. Если сервер недоступен, используется локальный кэш.
func (s *Store) LoadHistory(ctx context.Context) error {
	sess, ok := s.currentSession(ctx)
	if !ok {
		return nil
	}

	s.SetLoading(true)
	defer s.SetLoading(false)

	items, err := s.remote.List(ctx, sess)
	if err != nil {
		cached, cacheErr := s.loadCache(ctx, sess.UserID)
		if cacheErr != nil || len(cached) == 0 {
			return err
		}
		s.logger.WarnContext(ctx, "remote history unavailable, using cache", slog.Any("error", err))
		s.Dispatch(Load(cached))
		return nil
	}

	s.Dispatch(Load(items))
	s.saveCache(ctx, sess.UserID, items)

	return nil
}

// ToggleTheme переключает тему и сохраняет ее
func (s *Store) ToggleTheme(ctx context.Context) (string, error) {
	theme := s.Dispatch(ToggleTheme()).Theme

	if err := s.prefs.SaveTheme(ctx, theme); err != nil {
		return theme, fmt.Errorf("failed to save theme: %w", err)
	}

	return theme, nil
}

func (s *Store) currentSession(ctx context.Context) (Session, bool) {
	s.mu.RLock()
	source := s.session
	s.mu.RUnlock()

	if source == nil {
		return Session{}, false
	}

	userID, token, ok := source.CurrentSession(ctx)
	if !ok || userID == "" {
		return Session{}, false
	}
	return Session{UserID: userID, Token: token}, true
}

func (s *Store) saveCache(ctx context.Context, userID string, items []models.HistoryItem) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveHistory(ctx, userID, items); err != nil {
		s.logger.WarnContext(ctx, "failed to cache history", slog.Any("error", err))
	}
}

func (s *Store) loadCache(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.LoadHistory(ctx, userID)
}
