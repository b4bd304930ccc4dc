// Package cli реализует терминальный клиент SmartNLP: команды для каждой NLP
// операции, управление сессией, историю и тему интерфейса.
package cli

import (
	"context"
	"io"
	"log/slog"

	clientapi "github.com/iudanet/smartnlp/internal/client/api"
	"github.com/iudanet/smartnlp/internal/client/auth"
	"github.com/iudanet/smartnlp/internal/client/history"
	"github.com/iudanet/smartnlp/internal/client/iocli"
	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/pkg/api"
)

// NLPClient операции сервера, доступные из терминала
type NLPClient interface {
	Translate(ctx context.Context, token string, req api.TranslateRequest) (*api.TranslateResponse, error)
	Summarize(ctx context.Context, token string, req api.SummarizeRequest) (*api.SummarizeResponse, error)
	SpeechToText(ctx context.Context, token, filename string, audio io.Reader, language string) (*api.TranscribeResponse, error)
	TextToSpeech(ctx context.Context, token string, body api.SynthesizeRequest) (*clientapi.Speech, error)
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// SessionStore состояние сессии клиента
type SessionStore interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, fullName string) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	State() auth.State
	CurrentSession(ctx context.Context) (userID, token string, ok bool)
}

// HistoryStore история операций и тема
type HistoryStore interface {
	AddToHistory(ctx context.Context, item models.HistoryItem) (models.HistoryItem, error)
	ClearHistory(ctx context.Context) error
	LoadHistory(ctx context.Context) error
	ToggleTheme(ctx context.Context) (string, error)
	State() history.State
}

// Cli выполняет команды клиента
type Cli struct {
	io      iocli.IO
	nlp     NLPClient
	session SessionStore
	history HistoryStore
	logger  *slog.Logger
}

// New создает Cli
func New(stdio iocli.IO, nlp NLPClient, session SessionStore, hist HistoryStore, logger *slog.Logger) *Cli {
	return &Cli{
		io:      stdio,
		nlp:     nlp,
		session: session,
		history: hist,
		logger:  logger,
	}
}

// token возвращает токен текущей сессии или пустую строку для анонимного режима
func (c *Cli) token(ctx context.Context) string {
	_, token, ok := c.session.CurrentSession(ctx)
	if !ok {
		return ""
	}
	return token
}

// record добавляет результат операции в историю. Ошибка не прерывает команду.
func (c *Cli) record(ctx context.Context, item models.HistoryItem) {
	if _, err := c.history.AddToHistory(ctx, item); err != nil {
		c.logger.WarnContext(ctx, "failed to add history item", slog.Any("error", err))
	}
}

// readText возвращает text или запрашивает его интерактивно
func (c *Cli) readText(text, prompt string) (string, error) {
	if text != "" {
		return text, nil
	}
	return c.io.ReadInput(prompt)
}
