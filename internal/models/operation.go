package models

import (
	"fmt"
	"time"
)

// Kind определяет тип NLP операции
type Kind string

const (
	KindTranslation   Kind = "translation"
	KindSummarization Kind = "summarization"
	KindSpeechToText  Kind = "speech-to-text"
	KindTextToSpeech  Kind = "text-to-speech"
)

// Sentinel тексты для операций с бинарным входом или выходом
const (
	AudioInputText  = "Audio file"
	AudioOutputText = "Audio generated"
)

// Kinds returns every supported operation kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindTranslation, KindSummarization, KindSpeechToText, KindTextToSpeech}
}

// Valid reports whether k is one of the supported operation kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTranslation, KindSummarization, KindSpeechToText, KindTextToSpeech:
		return true
	}
	return false
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown operation type %q", s)
	}
	return k, nil
}

// Operation представляет одну выполненную NLP операцию пользователя.
// Записи неизменяемы: создаются один раз и удаляются только целиком
// через очистку истории пользователя.
type Operation struct {
	CreatedAt      time.Time      `json:"created_at"`
	Metadata       map[string]any `json:"metadata"`
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Kind           Kind           `json:"type"`
	InputText      string         `json:"input_text"`
	OutputText     string         `json:"output_text"`
	ModelVersion   string         `json:"model_version"`
	ProcessingTime int64          `json:"processing_time"` // миллисекунды
}

// OperationStats содержит количество операций пользователя по типам
type OperationStats struct {
	Total         int `json:"total"`
	Translation   int `json:"translation"`
	Summarization int `json:"summarization"`
	SpeechToText  int `json:"speech-to-text"`
	TextToSpeech  int `json:"text-to-speech"`
}

// Add увеличивает счетчик для типа k на n
func (s *OperationStats) Add(k Kind, n int) {
	switch k {
	case KindTranslation:
		s.Translation += n
	case KindSummarization:
		s.Summarization += n
	case KindSpeechToText:
		s.SpeechToText += n
	case KindTextToSpeech:
		s.TextToSpeech += n
	default:
		return
	}
	s.Total += n
}
