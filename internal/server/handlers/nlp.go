package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/server/aiclient"
	"github.com/iudanet/smartnlp/internal/server/archive"
	"github.com/iudanet/smartnlp/internal/server/storage"
	"github.com/iudanet/smartnlp/internal/validation"
	"github.com/iudanet/smartnlp/pkg/api"
)

// MaxAudioUploadSize ограничение на размер загружаемого аудио
const MaxAudioUploadSize = 25 << 20

// Значения по умолчанию для необязательных параметров запросов
const (
	defaultLength   = aiclient.LengthMedium
	defaultLanguage = "en"
	defaultVoice    = "default"
	defaultSpeed    = 1.0
	defaultPitch    = 1.0
)

// NLPBackend выполняет NLP операции. Четыре операции не возвращают ошибок:
// при недоступности AI сервиса они отдают результат заглушки.
type NLPBackend interface {
	Translate(ctx context.Context, text, fromLang, toLang string) aiclient.TranslationResult
	Summarize(ctx context.Context, text, length string, maxTokens *int) aiclient.SummaryResult
	Transcribe(ctx context.Context, audio []byte, filename, language string) aiclient.TranscriptionResult
	Synthesize(ctx context.Context, text, voice string, speed, pitch float64) aiclient.SpeechResult
	HealthCheck(ctx context.Context) (*aiclient.HealthStatus, error)
}

// NLPHandler обрабатывает NLP операции и историю пользователя
type NLPHandler struct {
	logger     *slog.Logger
	backend    NLPBackend
	operations storage.OperationStorage
	archive    archive.Archive
}

// NewNLPHandler создает новый handler NLP операций.
// Если audio равен nil, аудио не архивируется.
func NewNLPHandler(logger *slog.Logger, backend NLPBackend, operations storage.OperationStorage, audio archive.Archive) *NLPHandler {
	if audio == nil {
		audio = archive.Noop{}
	}
	return &NLPHandler{
		logger:     logger,
		backend:    backend,
		operations: operations,
		archive:    audio,
	}
}

// Translate обрабатывает POST /nlp/translate
func (h *NLPHandler) Translate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.TranslateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := validation.ValidateTranslation(req.Text, req.FromLang, req.ToLang); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.backend.Translate(ctx, req.Text, req.FromLang, req.ToLang)

	err := h.record(ctx, &models.Operation{
		Kind:       models.KindTranslation,
		InputText:  req.Text,
		OutputText: result.TranslatedText,
		Metadata: map[string]any{
			"fromLang":   req.FromLang,
			"toLang":     req.ToLang,
			"confidence": result.Confidence,
		},
		ProcessingTime: result.ProcessingTime,
		ModelVersion:   result.ModelVersion,
	})
	if err != nil {
		sendError(h.logger, w, "Translation failed", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.TranslateResponse{
		TranslatedText: result.TranslatedText,
		Confidence:     result.Confidence,
		ProcessingTime: result.ProcessingTime,
		FromLang:       req.FromLang,
		ToLang:         req.ToLang,
	}, http.StatusOK)
}

// Summarize обрабатывает POST /nlp/summarize
func (h *NLPHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SummarizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := validation.ValidateSummary(req.Text); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Length == "" {
		req.Length = defaultLength
	}

	result := h.backend.Summarize(ctx, req.Text, req.Length, req.MaxTokens)

	err := h.record(ctx, &models.Operation{
		Kind:       models.KindSummarization,
		InputText:  req.Text,
		OutputText: result.Summary,
		Metadata: map[string]any{
			"length":           req.Length,
			"originalLength":   result.OriginalLength,
			"summaryLength":    result.SummaryLength,
			"compressionRatio": result.CompressionRatio,
		},
		ProcessingTime: result.ProcessingTime,
		ModelVersion:   result.ModelVersion,
	})
	if err != nil {
		sendError(h.logger, w, "Summarization failed", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.SummarizeResponse{
		Summary:          result.Summary,
		OriginalLength:   result.OriginalLength,
		SummaryLength:    result.SummaryLength,
		CompressionRatio: result.CompressionRatio,
		ProcessingTime:   result.ProcessingTime,
	}, http.StatusOK)
}

// SpeechToText обрабатывает POST /nlp/speech-to-text (multipart: audio, language)
func (h *NLPHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxAudioUploadSize+(1<<20))
	if err := r.ParseMultipartForm(MaxAudioUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			sendError(h.logger, w, "Audio file is too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.DebugContext(ctx, "failed to parse multipart form", slog.Any("error", err))
		sendError(h.logger, w, "Audio file is required", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("audio")
	if err != nil {
		sendError(h.logger, w, "Audio file is required", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	audio, err := io.ReadAll(io.LimitReader(file, MaxAudioUploadSize+1))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read audio upload", slog.Any("error", err))
		sendError(h.logger, w, "Audio file is required", http.StatusBadRequest)
		return
	}
	if len(audio) > MaxAudioUploadSize {
		sendError(h.logger, w, "Audio file is too large", http.StatusRequestEntityTooLarge)
		return
	}
	if len(audio) == 0 {
		sendError(h.logger, w, "Audio file is required", http.StatusBadRequest)
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = defaultLanguage
	}

	result := h.backend.Transcribe(ctx, audio, header.Filename, language)

	metadata := map[string]any{
		"confidence": result.Confidence,
		"language":   result.Language,
		"audioSize":  len(audio),
	}
	h.archiveAudio(ctx, models.KindSpeechToText, audio, header.Header.Get("Content-Type"), metadata)

	err = h.record(ctx, &models.Operation{
		Kind:           models.KindSpeechToText,
		InputText:      models.AudioInputText,
		OutputText:     result.Transcript,
		Metadata:       metadata,
		ProcessingTime: result.ProcessingTime,
		ModelVersion:   result.ModelVersion,
	})
	if err != nil {
		sendError(h.logger, w, "Speech-to-text processing failed", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.TranscribeResponse{
		Transcript:     result.Transcript,
		Confidence:     result.Confidence,
		Language:       result.Language,
		ProcessingTime: result.ProcessingTime,
	}, http.StatusOK)
}

// TextToSpeech обрабатывает POST /nlp/text-to-speech.
// Возвращает audio/mpeg, если синтез дал данные, иначе JSON подтверждение.
func (h *NLPHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SynthesizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := validation.ValidateSpeechText(req.Text); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	voice := req.Voice
	if voice == "" {
		voice = defaultVoice
	}
	speed := defaultSpeed
	if req.Speed != nil {
		speed = *req.Speed
	}
	pitch := defaultPitch
	if req.Pitch != nil {
		pitch = *req.Pitch
	}

	result := h.backend.Synthesize(ctx, req.Text, voice, speed, pitch)

	metadata := map[string]any{
		"voice":    voice,
		"speed":    speed,
		"pitch":    pitch,
		"duration": result.Duration,
	}
	h.archiveAudio(ctx, models.KindTextToSpeech, result.Audio, "audio/mpeg", metadata)

	err := h.record(ctx, &models.Operation{
		Kind:           models.KindTextToSpeech,
		InputText:      req.Text,
		OutputText:     models.AudioOutputText,
		Metadata:       metadata,
		ProcessingTime: result.ProcessingTime,
		ModelVersion:   result.ModelVersion,
	})
	if err != nil {
		sendError(h.logger, w, "Text-to-speech generation failed", http.StatusInternalServerError)
		return
	}

	if len(result.Audio) == 0 {
		sendJSON(h.logger, w, api.SynthesizeAck{
			Message:        "Audio generation completed",
			ProcessingTime: result.ProcessingTime,
		}, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Audio); err != nil {
		h.logger.WarnContext(ctx, "failed to write audio response", slog.Any("error", err))
	}
}

// History обрабатывает GET /nlp/history?limit=&offset=&type=
func (h *NLPHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	limit, offset, err := validation.ParsePagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	var kind models.Kind
	if raw := query.Get("type"); raw != "" {
		kind, err = models.ParseKind(raw)
		if err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	operations, err := h.operations.ListOperations(ctx, userID, storage.ListOptions{
		Kind:   kind,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list operations", slog.String("user_id", userID), slog.Any("error", err))
		sendError(h.logger, w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	stats, err := h.operations.OperationStats(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get operation stats", slog.String("user_id", userID), slog.Any("error", err))
		sendError(h.logger, w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.HistoryResponse{
		Operations: operations,
		Stats:      stats,
		Pagination: api.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  stats.Total,
		},
	}, http.StatusOK)
}

// ClearHistory обрабатывает DELETE /nlp/history
func (h *NLPHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.operations.DeleteUserOperations(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to clear history", slog.String("user_id", userID), slog.Any("error", err))
		sendError(h.logger, w, "Failed to clear history", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "history cleared", slog.String("user_id", userID), slog.Int("deleted", deleted))

	sendJSON(h.logger, w, api.MessageResponse{Message: "History cleared successfully"}, http.StatusOK)
}

// Health обрабатывает GET /nlp/health.
// Вердикт передается в теле, статус ответа всегда 200.
func (h *NLPHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.backend.HealthCheck(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "AI service health check failed", slog.Any("error", err))
		sendJSON(h.logger, w, api.HealthResponse{
			Status: "unhealthy",
			Error:  err.Error(),
		}, http.StatusOK)
		return
	}

	sendJSON(h.logger, w, api.HealthResponse{
		Status:  "healthy",
		Version: status.Version,
		Uptime:  status.Uptime,
	}, http.StatusOK)
}

// decode разбирает JSON тело запроса. При ошибке ответ уже отправлен.
func (h *NLPHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request body", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// record сохраняет операцию, если запрос аутентифицирован. Анонимные
// запросы ничего не пишут.
func (h *NLPHandler) record(ctx context.Context, op *models.Operation) error {
	userID, ok := GetUserID(ctx)
	if !ok {
		return nil
	}
	op.UserID = userID

	if _, err := h.operations.CreateOperation(ctx, op); err != nil {
		h.logger.ErrorContext(ctx, "failed to save operation",
			slog.String("user_id", userID),
			slog.String("type", string(op.Kind)),
			slog.Any("error", err))
		return err
	}

	return nil
}

// archiveAudio кладет аудио аутентифицированного пользователя в архив и
// добавляет ключ объекта в metadata. Ошибка архива не прерывает запрос.
func (h *NLPHandler) archiveAudio(ctx context.Context, kind models.Kind, audio []byte, contentType string, metadata map[string]any) {
	userID, ok := GetUserID(ctx)
	if !ok || len(audio) == 0 {
		return
	}

	key, err := h.archive.Put(ctx, userID, kind, audio, contentType)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to archive audio", slog.String("type", string(kind)), slog.Any("error", err))
		return
	}
	if key != "" {
		metadata["audioKey"] = key
	}
}
