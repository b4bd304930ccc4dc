// Package aiclient обращается к внешнему AI сервису и подставляет
// детерминированные заглушки, если сервис недоступен.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeout ограничивает время одного запроса к AI сервису
const DefaultTimeout = 30 * time.Second

// maxResponseSize ограничивает размер ответа AI сервиса (аудио включительно)
const maxResponseSize = 64 << 20

// Config параметры подключения к AI сервису
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client HTTP клиент AI сервиса
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// New создает клиент AI сервиса
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Translate translates text. Any upstream failure yields the mock result.
func (c *Client) Translate(ctx context.Context, text, fromLang, toLang string) TranslationResult {
	start := time.Now()

	var resp translateResponse
	err := c.postJSON(ctx, "translate", "/translate", translateRequest{
		Text:           text,
		SourceLanguage: fromLang,
		TargetLanguage: toLang,
	}, &resp)
	if err == nil && resp.TranslatedText == "" {
		err = &UpstreamError{Op: "translate", Err: errors.New("empty translated_text")}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "translation failed, using mock result", slog.Any("error", err))
		return mockTranslation(text, fromLang, toLang)
	}

	return TranslationResult{
		TranslatedText: resp.TranslatedText,
		Confidence:     orDefault(resp.Confidence, 0.95),
		ProcessingTime: time.Since(start).Milliseconds(),
		ModelVersion:   modelVersion(resp.ModelVersion),
	}
}

// Summarize condenses text. When maxTokens is nil the budget follows length.
func (c *Client) Summarize(ctx context.Context, text, length string, maxTokens *int) SummaryResult {
	start := time.Now()

	budget := TokenBudget(length)
	if maxTokens != nil && *maxTokens > 0 {
		budget = *maxTokens
	}

	var resp summarizeResponse
	err := c.postJSON(ctx, "summarize", "/summarize", summarizeRequest{
		Text:             text,
		MaxTokens:        budget,
		LengthPreference: length,
	}, &resp)
	if err == nil && resp.Summary == "" {
		err = &UpstreamError{Op: "summarize", Err: errors.New("empty summary")}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "summarization failed, using mock result", slog.Any("error", err))
		return mockSummary(text, length)
	}

	return SummaryResult{
		Summary:          resp.Summary,
		OriginalLength:   utf8.RuneCountInString(text),
		SummaryLength:    utf8.RuneCountInString(resp.Summary),
		CompressionRatio: orDefault(resp.CompressionRatio, 0.3),
		ProcessingTime:   time.Since(start).Milliseconds(),
		ModelVersion:     modelVersion(resp.ModelVersion),
	}
}

// Transcribe converts audio to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, language string) TranscriptionResult {
	start := time.Now()

	resp, err := c.transcribe(ctx, audio, filename, language)
	if err != nil {
		c.logger.WarnContext(ctx, "speech-to-text failed, using mock result", slog.Any("error", err))
		return mockTranscription(language)
	}

	detected := resp.DetectedLanguage
	if detected == "" {
		detected = language
	}

	return TranscriptionResult{
		Transcript:     resp.Transcript,
		Confidence:     orDefault(resp.Confidence, 0.92),
		Language:       detected,
		ProcessingTime: time.Since(start).Milliseconds(),
		ModelVersion:   modelVersion(resp.ModelVersion),
	}
}

func (c *Client) transcribe(ctx context.Context, audio []byte, filename, language string) (*transcribeResponse, error) {
	const op = "speech-to-text"

	if filename == "" {
		filename = "audio"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	if _, err := part.Write(audio); err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	if err := mw.WriteField("language", language); err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}

	var resp transcribeResponse
	if err := c.do(ctx, op, http.MethodPost, "/speech-to-text", mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}
	if resp.Transcript == "" {
		return nil, &UpstreamError{Op: op, Err: errors.New("empty transcript")}
	}

	return &resp, nil
}

// Synthesize converts text to mp3 audio.
func (c *Client) Synthesize(ctx context.Context, text, voice string, speed, pitch float64) SpeechResult {
	start := time.Now()

	audio, header, err := c.synthesize(ctx, synthesizeRequest{
		Text:   text,
		Voice:  voice,
		Speed:  speed,
		Pitch:  pitch,
		Format: "mp3",
	})
	if err != nil {
		c.logger.WarnContext(ctx, "text-to-speech failed, using mock result", slog.Any("error", err))
		return mockSpeech()
	}

	var duration *float64
	if raw := header.Get("X-Audio-Duration"); raw != "" {
		if d, err := strconv.ParseFloat(raw, 64); err == nil {
			duration = &d
		}
	}

	return SpeechResult{
		Audio:          audio,
		Duration:       duration,
		ProcessingTime: time.Since(start).Milliseconds(),
		ModelVersion:   modelVersion(header.Get("X-Model-Version")),
	}
}

func (c *Client) synthesize(ctx context.Context, payload synthesizeRequest) ([]byte, http.Header, error) {
	const op = "text-to-speech"

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, &UpstreamError{Op: op, Err: err}
	}

	resp, err := c.send(ctx, op, http.MethodPost, "/text-to-speech", "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, &UpstreamError{Op: op, Err: fmt.Errorf("failed to read audio: %w", err)}
	}
	if len(audio) == 0 {
		return nil, nil, &UpstreamError{Op: op, Err: errors.New("empty audio")}
	}

	return audio, resp.Header, nil
}

// HealthCheck queries the AI service health endpoint. Failures are returned.
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	var resp healthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/health", "", nil, &resp); err != nil {
		return nil, err
	}

	return &HealthStatus{
		Version: resp.Version,
		Uptime:  resp.Uptime,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}
	return c.do(ctx, op, http.MethodPost, path, "application/json", bytes.NewReader(data), result)
}

// do выполняет запрос и декодирует JSON ответ в result
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, result any) error {
	resp, err := c.send(ctx, op, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(result); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// send выполняет запрос; любой статус вне 2xx превращается в UpstreamError
func (c *Client) send(ctx context.Context, op, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(snippet))),
		}
	}

	return resp, nil
}

// orDefault повторяет поведение сервиса: отсутствующее или нулевое значение заменяется дефолтом
func orDefault(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func modelVersion(v string) string {
	if v == "" {
		return DefaultModelVersion
	}
	return v
}
