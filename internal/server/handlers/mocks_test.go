package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/server/aiclient"
	"github.com/iudanet/smartnlp/internal/server/identity"
	"github.com/iudanet/smartnlp/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockIdentity is a mock implementation of IdentityService for testing
type mockIdentity struct {
	users           map[string]*models.User // email -> User
	createError     error
	authError       error
	findError       error
	issueError      error
	sessionError    error
	deleteError     error
	deletedSessions []string
	createdSessions []string
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{users: make(map[string]*models.User)}
}

func (m *mockIdentity) CreateUser(ctx context.Context, email, password, fullName string) (*models.User, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	if _, exists := m.users[email]; exists {
		return nil, storage.ErrUserAlreadyExists
	}
	user := &models.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: "hash:" + password,
		FullName:     fullName,
		CreatedAt:    time.Now(),
	}
	m.users[email] = user
	return user, nil
}

func (m *mockIdentity) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if m.authError != nil {
		return nil, m.authError
	}
	user, ok := m.users[email]
	if !ok || user.PasswordHash != "hash:"+password {
		return nil, identity.ErrInvalidCredentials
	}
	return user, nil
}

func (m *mockIdentity) FindByID(ctx context.Context, id string) (*models.PublicUser, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user.Public(), nil
		}
	}
	return nil, nil
}

func (m *mockIdentity) IssueToken(userID string) (string, error) {
	if m.issueError != nil {
		return "", m.issueError
	}
	return "token-" + userID, nil
}

func (m *mockIdentity) CreateSession(ctx context.Context, userID, token string) (*models.Session, error) {
	if m.sessionError != nil {
		return nil, m.sessionError
	}
	m.createdSessions = append(m.createdSessions, token)
	return &models.Session{ID: "s-" + token, UserID: userID}, nil
}

func (m *mockIdentity) DeleteSession(ctx context.Context, userID, token string) error {
	m.deletedSessions = append(m.deletedSessions, token)
	return m.deleteError
}

// mockBackend is a mock implementation of NLPBackend for testing
type mockBackend struct {
	healthErr      error
	lastMaxTokens  *int
	lastLength     string
	lastLanguage   string
	lastFilename   string
	lastVoice      string
	speechAudio    []byte
	lastAudio      []byte
	lastSpeed      float64
	lastPitch      float64
	speechDuration *float64
}

func (m *mockBackend) Translate(ctx context.Context, text, fromLang, toLang string) aiclient.TranslationResult {
	return aiclient.TranslationResult{
		TranslatedText: "translated:" + text,
		Confidence:     0.9,
		ProcessingTime: 12,
		ModelVersion:   "test-model",
	}
}

func (m *mockBackend) Summarize(ctx context.Context, text, length string, maxTokens *int) aiclient.SummaryResult {
	m.lastLength = length
	m.lastMaxTokens = maxTokens
	return aiclient.SummaryResult{
		Summary:          "summary",
		OriginalLength:   len(text),
		SummaryLength:    7,
		CompressionRatio: 0.3,
		ProcessingTime:   20,
		ModelVersion:     "test-model",
	}
}

func (m *mockBackend) Transcribe(ctx context.Context, audio []byte, filename, language string) aiclient.TranscriptionResult {
	m.lastAudio = audio
	m.lastFilename = filename
	m.lastLanguage = language
	return aiclient.TranscriptionResult{
		Transcript:     "hello world",
		Confidence:     0.92,
		Language:       language,
		ProcessingTime: 30,
		ModelVersion:   "test-model",
	}
}

func (m *mockBackend) Synthesize(ctx context.Context, text, voice string, speed, pitch float64) aiclient.SpeechResult {
	m.lastVoice = voice
	m.lastSpeed = speed
	m.lastPitch = pitch
	return aiclient.SpeechResult{
		Audio:          m.speechAudio,
		Duration:       m.speechDuration,
		ProcessingTime: 40,
		ModelVersion:   "test-model",
	}
}

func (m *mockBackend) HealthCheck(ctx context.Context) (*aiclient.HealthStatus, error) {
	if m.healthErr != nil {
		return nil, m.healthErr
	}
	return &aiclient.HealthStatus{Version: "1.2.3", Uptime: 42}, nil
}

// mockOperations is a mock implementation of storage.OperationStorage for testing
type mockOperations struct {
	createError error
	listError   error
	statsError  error
	deleteError error
	lastList    storage.ListOptions
	created     []*models.Operation
	mu          sync.Mutex
}

func (m *mockOperations) CreateOperation(ctx context.Context, op *models.Operation) (*models.Operation, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, op)
	return op, nil
}

func (m *mockOperations) ListOperations(ctx context.Context, userID string, opts storage.ListOptions) ([]*models.Operation, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	m.lastList = opts
	result := make([]*models.Operation, 0)
	for _, op := range m.created {
		if op.UserID == userID && (opts.Kind == "" || op.Kind == opts.Kind) {
			result = append(result, op)
		}
	}
	return result, nil
}

func (m *mockOperations) DeleteUserOperations(ctx context.Context, userID string) (int, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	kept := m.created[:0]
	deleted := 0
	for _, op := range m.created {
		if op.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, op)
	}
	m.created = kept
	return deleted, nil
}

func (m *mockOperations) OperationStats(ctx context.Context, userID string) (*models.OperationStats, error) {
	if m.statsError != nil {
		return nil, m.statsError
	}
	stats := &models.OperationStats{}
	for _, op := range m.created {
		if op.UserID == userID {
			stats.Add(op.Kind, 1)
		}
	}
	return stats, nil
}

// mockArchive records stored audio
type mockArchive struct {
	err   error
	kinds []models.Kind
}

func (m *mockArchive) Put(ctx context.Context, userID string, kind models.Kind, audio []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.kinds = append(m.kinds, kind)
	return string(kind) + "/" + userID + "/obj", nil
}

var errStorage = errors.New("database is locked")
