package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	clientapi "github.com/iudanet/smartnlp/internal/client/api"
	"github.com/iudanet/smartnlp/internal/client/auth"
	"github.com/iudanet/smartnlp/internal/client/history"
	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/pkg/api"
)

// fakeIO пишет вывод в буфер и отдает заранее заданный ввод
type fakeIO struct {
	out       bytes.Buffer
	inputs    []string
	passwords []string
}

func (f *fakeIO) Println(a ...any)               { _, _ = fmt.Fprintln(&f.out, a...) }
func (f *fakeIO) Printf(format string, a ...any) { _, _ = fmt.Fprintf(&f.out, format, a...) }
func (f *fakeIO) Write(p []byte) (int, error)    { return f.out.Write(p) }

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	if len(f.passwords) == 0 {
		return "", io.EOF
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

func (f *fakeIO) String() string { return f.out.String() }

type fakeNLP struct {
	translateResp  *api.TranslateResponse
	summarizeResp  *api.SummarizeResponse
	transcribeResp *api.TranscribeResponse
	speech         *clientapi.Speech
	health         *api.HealthResponse
	err            error

	token        string
	translateReq api.TranslateRequest
	summarizeReq api.SummarizeRequest
	synthReq     api.SynthesizeRequest
	audioName    string
	audio        []byte
	language     string
}

func (f *fakeNLP) Translate(_ context.Context, token string, req api.TranslateRequest) (*api.TranslateResponse, error) {
	f.token = token
	f.translateReq = req
	return f.translateResp, f.err
}

func (f *fakeNLP) Summarize(_ context.Context, token string, req api.SummarizeRequest) (*api.SummarizeResponse, error) {
	f.token = token
	f.summarizeReq = req
	return f.summarizeResp, f.err
}

func (f *fakeNLP) SpeechToText(_ context.Context, token, filename string, audio io.Reader, language string) (*api.TranscribeResponse, error) {
	f.token = token
	f.audioName = filename
	f.language = language
	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, err
	}
	f.audio = data
	return f.transcribeResp, f.err
}

func (f *fakeNLP) TextToSpeech(_ context.Context, token string, body api.SynthesizeRequest) (*clientapi.Speech, error) {
	f.token = token
	f.synthReq = body
	return f.speech, f.err
}

func (f *fakeNLP) Health(context.Context) (*api.HealthResponse, error) {
	return f.health, f.err
}

type fakeSession struct {
	state    auth.State
	token    string
	err      error
	email    string
	password string
	fullName string
	calls    []string
}

func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.calls = append(f.calls, "login")
	f.email, f.password = email, password
	return f.err
}

func (f *fakeSession) Register(_ context.Context, email, password, fullName string) error {
	f.calls = append(f.calls, "register")
	f.email, f.password, f.fullName = email, password, fullName
	return f.err
}

func (f *fakeSession) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.err
}

func (f *fakeSession) Refresh(context.Context) error {
	f.calls = append(f.calls, "refresh")
	return f.err
}

func (f *fakeSession) State() auth.State { return f.state }

func (f *fakeSession) CurrentSession(context.Context) (string, string, bool) {
	if f.token == "" {
		return "", "", false
	}
	return "user-1", f.token, true
}

type fakeHistory struct {
	state   history.State
	added   []models.HistoryItem
	addErr  error
	loadErr error
	err     error
	cleared bool
	loaded  int
}

func (f *fakeHistory) AddToHistory(_ context.Context, item models.HistoryItem) (models.HistoryItem, error) {
	if f.addErr != nil {
		return models.HistoryItem{}, f.addErr
	}
	f.added = append(f.added, item)
	return item, nil
}

func (f *fakeHistory) ClearHistory(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = true
	return nil
}

func (f *fakeHistory) LoadHistory(context.Context) error {
	f.loaded++
	return f.loadErr
}

func (f *fakeHistory) ToggleTheme(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.state.Theme == "dark" {
		f.state.Theme = "light"
	} else {
		f.state.Theme = "dark"
	}
	return f.state.Theme, nil
}

func (f *fakeHistory) State() history.State { return f.state }

type testCli struct {
	*Cli
	io      *fakeIO
	nlp     *fakeNLP
	session *fakeSession
	history *fakeHistory
}

func newTestCli() *testCli {
	tc := &testCli{
		io:      &fakeIO{},
		nlp:     &fakeNLP{},
		session: &fakeSession{state: auth.State{Status: auth.StatusUnauthenticated}},
		history: &fakeHistory{state: history.State{Theme: "light"}},
	}
	tc.Cli = New(tc.io, tc.nlp, tc.session, tc.history, slog.New(slog.DiscardHandler))
	return tc
}

func authenticated(email string) auth.State {
	return auth.State{
		Status: auth.StatusAuthenticated,
		User:   &models.PublicUser{ID: "user-1", Email: email, FullName: "Test User"},
	}
}
