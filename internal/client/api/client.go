// Package api реализует HTTP клиент SmartNLP сервера.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/smartnlp/pkg/api"
)

// DefaultTimeout таймаут HTTP клиента по умолчанию
const DefaultTimeout = 30 * time.Second

// StatusError ответ сервера с кодом вне диапазона 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized сообщает, что сервер отклонил токен
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout завершает серверную сессию токена
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Me возвращает пользователя, которому принадлежит токен
func (c *Client) Me(ctx context.Context, token string) (*api.MeResponse, error) {
	var resp api.MeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// Translate переводит текст. token может быть пустым.
func (c *Client) Translate(ctx context.Context, token string, req api.TranslateRequest) (*api.TranslateResponse, error) {
	var resp api.TranslateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/nlp/translate", token, req, &resp); err != nil {
		return nil, fmt.Errorf("translate request failed: %w", err)
	}
	return &resp, nil
}

// Summarize сокращает текст
func (c *Client) Summarize(ctx context.Context, token string, req api.SummarizeRequest) (*api.SummarizeResponse, error) {
	var resp api.SummarizeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/nlp/summarize", token, req, &resp); err != nil {
		return nil, fmt.Errorf("summarize request failed: %w", err)
	}
	return &resp, nil
}

// SpeechToText отправляет аудио multipart формой
func (c *Client) SpeechToText(ctx context.Context, token, filename string, audio io.Reader, language string) (*api.TranscribeResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("failed to copy audio: %w", err)
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/nlp/speech-to-text", token, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp api.TranscribeResponse
	if err := c.send(req, &resp); err != nil {
		return nil, fmt.Errorf("speech-to-text request failed: %w", err)
	}
	return &resp, nil
}

// Speech результат синтеза речи: либо аудио, либо подтверждение без аудио
type Speech struct {
	Ack         *api.SynthesizeAck
	ContentType string
	Audio       []byte
}

// TextToSpeech синтезирует речь
func (c *Client) TextToSpeech(ctx context.Context, token string, body api.SynthesizeRequest) (*Speech, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/nlp/text-to-speech", token, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, respBody, err := c.roundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech request failed: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "audio/") {
		return &Speech{Audio: respBody, ContentType: contentType}, nil
	}

	var ack api.SynthesizeAck
	if err := json.Unmarshal(respBody, &ack); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &Speech{Ack: &ack}, nil
}

// HistoryQuery параметры запроса истории; нулевые значения не передаются
type HistoryQuery struct {
	Kind   string
	Limit  int
	Offset int
}

// History возвращает страницу истории пользователя
func (c *Client) History(ctx context.Context, token string, q HistoryQuery) (*api.HistoryResponse, error) {
	values := url.Values{}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Kind != "" {
		values.Set("type", q.Kind)
	}

	path := "/nlp/history"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var resp api.HistoryResponse
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	return &resp, nil
}

// ClearHistory удаляет всю историю пользователя
func (c *Client) ClearHistory(ctx context.Context, token string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/nlp/history", token, nil, nil); err != nil {
		return fmt.Errorf("clear history request failed: %w", err)
	}
	return nil
}

// Health возвращает состояние AI сервиса
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/nlp/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет JSON запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, token, bodyReader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, result)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send выполняет запрос и декодирует JSON ответ в result
func (c *Client) send(req *http.Request, result any) error {
	_, respBody, err := c.roundTrip(req)
	if err != nil {
		return err
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// roundTrip выполняет запрос, читает тело и проверяет статус код
func (c *Client) roundTrip(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(respBody))
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			message = errResp.Message
			if message == "" {
				message = errResp.Error
			}
		}
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Message: message}
	}

	return resp, respBody, nil
}
