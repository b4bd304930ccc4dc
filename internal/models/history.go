package models

import "time"

// HistoryItem запись истории на клиенте. Для авторизованного пользователя
// зеркалирует Operation сервера, для анонимного живет только локально.
type HistoryItem struct {
	Metadata  map[string]any `json:"metadata,omitempty"`
	ID        string         `json:"id"`
	Kind      Kind           `json:"type"`
	Input     string         `json:"input"`
	Output    string         `json:"output"`
	Timestamp int64          `json:"timestamp"` // unix миллисекунды
}

// Time возвращает момент создания записи
func (h HistoryItem) Time() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// HistoryItemFromOperation преобразует серверную операцию в запись истории
func HistoryItemFromOperation(op *Operation) HistoryItem {
	return HistoryItem{
		ID:        op.ID,
		Kind:      op.Kind,
		Input:     op.InputText,
		Output:    op.OutputText,
		Metadata:  op.Metadata,
		Timestamp: op.CreatedAt.UnixMilli(),
	}
}
