package aiclient

import (
	"fmt"
	"strings"
)

// MockModelVersion помечает результаты, сгенерированные без обращения к AI сервису
const MockModelVersion = "mock-v1.0"

// DefaultModelVersion используется, когда AI сервис не прислал версию модели
const DefaultModelVersion = "v1.0"

// Длины саммари и соответствующие бюджеты токенов
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

var lengthBudgets = map[string]int{
	LengthShort:  50,
	LengthMedium: 150,
	LengthLong:   300,
}

var lengthDescriptions = map[string]string{
	LengthShort:  "brief",
	LengthMedium: "moderate",
	LengthLong:   "detailed",
}

// TokenBudget maps a length preference to a token budget.
// Unknown preferences get the medium budget.
func TokenBudget(length string) int {
	if n, ok := lengthBudgets[length]; ok {
		return n
	}
	return lengthBudgets[LengthMedium]
}

// IsMock reports whether a model version marks a fallback result.
func IsMock(modelVersion string) bool {
	return strings.HasPrefix(modelVersion, "mock-")
}

// TranslationResult результат перевода
type TranslationResult struct {
	TranslatedText string
	ModelVersion   string
	Confidence     float64
	ProcessingTime int64
}

// SummaryResult результат суммаризации
type SummaryResult struct {
	Summary          string
	ModelVersion     string
	OriginalLength   int
	SummaryLength    int
	CompressionRatio float64
	ProcessingTime   int64
}

// TranscriptionResult результат распознавания речи
type TranscriptionResult struct {
	Transcript     string
	Language       string
	ModelVersion   string
	Confidence     float64
	ProcessingTime int64
}

// SpeechResult результат синтеза речи. Audio пустой в режиме заглушки.
type SpeechResult struct {
	Duration       *float64
	ModelVersion   string
	Audio          []byte
	ProcessingTime int64
}

// HealthStatus состояние AI сервиса
type HealthStatus struct {
	Version string
	Uptime  float64
}

// UpstreamError описывает неудачный вызов AI сервиса
type UpstreamError struct {
	Err        error
	Op         string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("aiclient: %s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("aiclient: %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// wire форматы AI сервиса

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	Confidence     *float64 `json:"confidence"`
	TranslatedText string   `json:"translated_text"`
	ModelVersion   string   `json:"model_version"`
}

type summarizeRequest struct {
	Text             string `json:"text"`
	LengthPreference string `json:"length_preference"`
	MaxTokens        int    `json:"max_tokens"`
}

type summarizeResponse struct {
	CompressionRatio *float64 `json:"compression_ratio"`
	Summary          string   `json:"summary"`
	ModelVersion     string   `json:"model_version"`
}

type transcribeResponse struct {
	Confidence       *float64 `json:"confidence"`
	Transcript       string   `json:"transcript"`
	DetectedLanguage string   `json:"detected_language"`
	ModelVersion     string   `json:"model_version"`
}

type synthesizeRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice"`
	Format string  `json:"format"`
	Speed  float64 `json:"speed"`
	Pitch  float64 `json:"pitch"`
}

type healthResponse struct {
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime"`
}
