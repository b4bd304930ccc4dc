package api

import "github.com/iudanet/smartnlp/internal/models"

// TranslateRequest представляет запрос POST /nlp/translate
type TranslateRequest struct {
	Text     string `json:"text"`
	FromLang string `json:"fromLang"`
	ToLang   string `json:"toLang"`
}

// TranslateResponse представляет результат перевода
type TranslateResponse struct {
	TranslatedText string  `json:"translatedText"`
	FromLang       string  `json:"fromLang"`
	ToLang         string  `json:"toLang"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime int64   `json:"processingTime"`
}

// SummarizeRequest представляет запрос POST /nlp/summarize
type SummarizeRequest struct {
	MaxTokens *int   `json:"maxTokens,omitempty"` // явный бюджет токенов, иначе по length
	Text      string `json:"text"`
	Length    string `json:"length,omitempty"` // short, medium или long
}

// SummarizeResponse представляет результат суммаризации
type SummarizeResponse struct {
	Summary          string  `json:"summary"`
	OriginalLength   int     `json:"originalLength"`
	SummaryLength    int     `json:"summaryLength"`
	CompressionRatio float64 `json:"compressionRatio"`
	ProcessingTime   int64   `json:"processingTime"`
}

// TranscribeResponse представляет результат распознавания речи
type TranscribeResponse struct {
	Transcript     string  `json:"transcript"`
	Language       string  `json:"language"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime int64   `json:"processingTime"`
}

// SynthesizeRequest представляет запрос POST /nlp/text-to-speech
type SynthesizeRequest struct {
	Speed *float64 `json:"speed,omitempty"`
	Pitch *float64 `json:"pitch,omitempty"`
	Text  string   `json:"text"`
	Voice string   `json:"voice,omitempty"`
}

// SynthesizeAck возвращается вместо аудио, когда синтез не дал данных
type SynthesizeAck struct {
	Message        string `json:"message"`
	ProcessingTime int64  `json:"processingTime"`
}

// Pagination повторяет параметры запроса истории
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// HistoryResponse представляет ответ GET /nlp/history
type HistoryResponse struct {
	Operations []*models.Operation    `json:"operations"`
	Stats      *models.OperationStats `json:"stats"`
	Pagination Pagination             `json:"pagination"`
}

// HealthResponse представляет состояние AI сервиса
type HealthResponse struct {
	Status  string  `json:"status"` // healthy или unhealthy
	Version string  `json:"version,omitempty"`
	Uptime  float64 `json:"uptime,omitempty"`
	Error   string  `json:"error,omitempty"`
}
