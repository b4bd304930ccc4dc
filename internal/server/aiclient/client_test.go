package aiclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableClient указывает на закрытый сервер, чтобы каждый вызов падал
func unreachableClient(t *testing.T) *Client {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	return New(Config{BaseURL: url, Timeout: time.Second}, testLogger())
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{BaseURL: "http://ai.local/"}, testLogger())

	assert.Equal(t, "http://ai.local", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestClient_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Text)
		assert.Equal(t, "en", req.SourceLanguage)
		assert.Equal(t, "es", req.TargetLanguage)

		_, _ = w.Write([]byte(`{"translated_text":"Hola"}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, APIKey: "secret-key"}, testLogger())
	got := c.Translate(context.Background(), "Hello", "en", "es")

	assert.Equal(t, "Hola", got.TranslatedText)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, DefaultModelVersion, got.ModelVersion)
	assert.False(t, IsMock(got.ModelVersion))
	assert.GreaterOrEqual(t, got.ProcessingTime, int64(0))
}

func TestClient_Translate_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"translated_text":"Hola","confidence":0.5,"model_version":"nllb-2"}`))
	}))
	defer server.Close()

	got := New(Config{BaseURL: server.URL}, testLogger()).Translate(context.Background(), "Hello", "en", "es")

	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, "nllb-2", got.ModelVersion)
}

func TestClient_Translate_Fallback(t *testing.T) {
	tests := []struct {
		handler http.HandlerFunc
		name    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "empty translation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"confidence":0.9}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got := New(Config{BaseURL: server.URL}, testLogger()).Translate(context.Background(), "Hello", "en", "es")

			assert.Equal(t, "[MOCK] Translated from en to es: Hello", got.TranslatedText)
			assert.Equal(t, 0.85, got.Confidence)
			assert.Equal(t, int64(1500), got.ProcessingTime)
			assert.Equal(t, MockModelVersion, got.ModelVersion)
		})
	}
}

func TestClient_Translate_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, testLogger())
	got := c.Translate(context.Background(), "Hello", "en", "es")

	assert.True(t, IsMock(got.ModelVersion))
}

func TestClient_Summarize(t *testing.T) {
	maxTokens := 77

	tests := []struct {
		maxTokens  *int
		name       string
		length     string
		wantBudget int
	}{
		{name: "short", length: "short", wantBudget: 50},
		{name: "medium", length: "medium", wantBudget: 150},
		{name: "long", length: "long", wantBudget: 300},
		{name: "unknown length uses medium", length: "huge", wantBudget: 150},
		{name: "explicit max tokens", length: "short", maxTokens: &maxTokens, wantBudget: 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/summarize", r.URL.Path)

				var req summarizeRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, tt.wantBudget, req.MaxTokens)
				assert.Equal(t, tt.length, req.LengthPreference)

				_, _ = w.Write([]byte(`{"summary":"Короткий итог","model_version":"bart"}`))
			}))
			defer server.Close()

			text := "Привет мир это длинный текст для проверки"
			got := New(Config{BaseURL: server.URL}, testLogger()).Summarize(context.Background(), text, tt.length, tt.maxTokens)

			assert.Equal(t, "Короткий итог", got.Summary)
			assert.Equal(t, utf8.RuneCountInString(text), got.OriginalLength)
			assert.Equal(t, 13, got.SummaryLength)
			assert.Equal(t, 0.3, got.CompressionRatio)
			assert.Equal(t, "bart", got.ModelVersion)
		})
	}
}

func TestClient_Summarize_Fallback(t *testing.T) {
	c := unreachableClient(t)
	text := "one two three four five six seven eight nine ten"

	tests := []struct {
		length      string
		description string
	}{
		{length: "short", description: "brief"},
		{length: "medium", description: "moderate"},
		{length: "long", description: "detailed"},
	}

	for _, tt := range tests {
		t.Run(tt.length, func(t *testing.T) {
			got := c.Summarize(context.Background(), text, tt.length, nil)

			want := "[MOCK] This is a " + tt.description + " summary of the provided text. " +
				"The content has been processed and condensed while preserving key information and main ideas."
			assert.Equal(t, want, got.Summary)
			assert.Equal(t, len(text), got.OriginalLength)
			assert.Equal(t, len(want), got.SummaryLength)
			assert.InDelta(t, float64(len(want))/float64(len(text)), got.CompressionRatio, 1e-9)
			assert.Equal(t, int64(2000), got.ProcessingTime)
			assert.Equal(t, MockModelVersion, got.ModelVersion)
		})
	}
}

func TestClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/speech-to-text", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "de", r.FormValue("language"))

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "clip.wav", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("RIFFdata"), data)

		_, _ = w.Write([]byte(`{"transcript":"Guten Tag"}`))
	}))
	defer server.Close()

	got := New(Config{BaseURL: server.URL}, testLogger()).
		Transcribe(context.Background(), []byte("RIFFdata"), "clip.wav", "de")

	assert.Equal(t, "Guten Tag", got.Transcript)
	assert.Equal(t, 0.92, got.Confidence)
	assert.Equal(t, "de", got.Language)
	assert.Equal(t, DefaultModelVersion, got.ModelVersion)
}

func TestClient_Transcribe_Fallback(t *testing.T) {
	got := unreachableClient(t).Transcribe(context.Background(), []byte("x"), "a.mp3", "fr")

	assert.Equal(t, MockTranscript, got.Transcript)
	assert.Equal(t, 0.88, got.Confidence)
	assert.Equal(t, "fr", got.Language)
	assert.Equal(t, int64(3000), got.ProcessingTime)
	assert.Equal(t, MockModelVersion, got.ModelVersion)
}

func TestClient_Synthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech", r.URL.Path)

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Text)
		assert.Equal(t, "alice", req.Voice)
		assert.Equal(t, 1.5, req.Speed)
		assert.Equal(t, 0.8, req.Pitch)
		assert.Equal(t, "mp3", req.Format)

		w.Header().Set("X-Audio-Duration", "2.75")
		w.Header().Set("X-Model-Version", "tts-3")
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer server.Close()

	got := New(Config{BaseURL: server.URL}, testLogger()).
		Synthesize(context.Background(), "Hello", "alice", 1.5, 0.8)

	assert.Equal(t, []byte("ID3audio"), got.Audio)
	require.NotNil(t, got.Duration)
	assert.Equal(t, 2.75, *got.Duration)
	assert.Equal(t, "tts-3", got.ModelVersion)
}

func TestClient_Synthesize_NoHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Audio-Duration", "unknown")
		_, _ = w.Write([]byte("ID3"))
	}))
	defer server.Close()

	got := New(Config{BaseURL: server.URL}, testLogger()).
		Synthesize(context.Background(), "Hello", "default", 1, 1)

	assert.Nil(t, got.Duration)
	assert.Equal(t, DefaultModelVersion, got.ModelVersion)
}

func TestClient_Synthesize_Fallback(t *testing.T) {
	got := unreachableClient(t).Synthesize(context.Background(), "Hello", "default", 1, 1)

	assert.Nil(t, got.Audio)
	assert.Nil(t, got.Duration)
	assert.Equal(t, int64(2500), got.ProcessingTime)
	assert.Equal(t, MockModelVersion, got.ModelVersion)
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"version":"2.1.0","uptime":3600.5}`))
	}))
	defer server.Close()

	status, err := New(Config{BaseURL: server.URL}, testLogger()).HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", status.Version)
	assert.Equal(t, 3600.5, status.Uptime)
}

func TestClient_HealthCheck_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	status, err := New(Config{BaseURL: server.URL}, testLogger()).HealthCheck(context.Background())
	assert.Nil(t, status)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	assert.Equal(t, "health", upstreamErr.Op)
	assert.Contains(t, err.Error(), "503")
}

func TestTokenBudgetAndIsMock(t *testing.T) {
	assert.Equal(t, 50, TokenBudget("short"))
	assert.Equal(t, 150, TokenBudget(""))
	assert.Equal(t, 300, TokenBudget("long"))

	assert.True(t, IsMock(MockModelVersion))
	assert.False(t, IsMock("v1.0"))
}
