// Package history хранит историю операций и тему интерфейса на клиенте.
// Reduce описывает переходы состояния, Store выполняет побочные эффекты:
// зеркалирование на сервер, локальный кэш и сохранение темы.
package history

import (
	"github.com/iudanet/smartnlp/internal/client/storage"
	"github.com/iudanet/smartnlp/internal/models"
)

// State снимок истории. Items отсортированы от новых к старым.
type State struct {
	Theme   string
	Items   []models.HistoryItem
	Loading bool
}

// ActionType тип действия редьюсера
type ActionType int

const (
	ActionAdd ActionType = iota
	ActionClear
	ActionLoad
	ActionToggleTheme
	ActionSetLoading
)

// Action действие над историей
type Action struct {
	Items   []models.HistoryItem // ActionLoad
	Item    models.HistoryItem   // ActionAdd
	Type    ActionType
	Loading bool // ActionSetLoading
}

// Add добавляет запись в начало истории
func Add(item models.HistoryItem) Action { return Action{Type: ActionAdd, Item: item} }

// Clear очищает историю
func Clear() Action { return Action{Type: ActionClear} }

// Load заменяет историю целиком
func Load(items []models.HistoryItem) Action { return Action{Type: ActionLoad, Items: items} }

// ToggleTheme переключает светлую и темную тему
func ToggleTheme() Action { return Action{Type: ActionToggleTheme} }

// SetLoading выставляет флаг загрузки
func SetLoading(loading bool) Action { return Action{Type: ActionSetLoading, Loading: loading} }

// Reduce возвращает новое состояние, не изменяя state и action
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionAdd:
		items := make([]models.HistoryItem, 0, len(state.Items)+1)
		items = append(items, action.Item)
		state.Items = append(items, state.Items...)
	case ActionClear:
		state.Items = []models.HistoryItem{}
	case ActionLoad:
		state.Items = append([]models.HistoryItem{}, action.Items...)
	case ActionToggleTheme:
		state.Theme = nextTheme(state.Theme)
	case ActionSetLoading:
		state.Loading = action.Loading
	}
	return state
}

func nextTheme(theme string) string {
	if theme == storage.ThemeDark {
		return storage.ThemeLight
	}
	return storage.ThemeDark
}

// normalizeTheme приводит сохраненное значение к известной теме
func normalizeTheme(theme string) string {
	if theme == storage.ThemeDark {
		return storage.ThemeDark
	}
	return storage.ThemeLight
}
