// Package auth хранит состояние сессии клиента: редьюсер без побочных
// эффектов и Store, выполняющий сетевые вызовы и сохраняющий сессию локально.
package auth

import "github.com/iudanet/smartnlp/internal/models"

// Status состояние аутентификации клиента
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusLoading
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State снимок состояния сессии. User задан только в StatusAuthenticated.
type State struct {
	User   *models.PublicUser
	Status Status
}

// IsAuthenticated сообщает, вошел ли пользователь
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// IsLoading сообщает, выполняется ли запрос аутентификации
func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

// InitialState начальное состояние: до первой проверки сохраненной сессии
// клиент считается загружающимся
func InitialState() State {
	return State{Status: StatusLoading}
}

// ActionType тип действия редьюсера
type ActionType int

const (
	ActionStart ActionType = iota
	ActionSuccess
	ActionFailure
	ActionLogout
)

// Action действие над состоянием сессии
type Action struct {
	User *models.PublicUser // только для ActionSuccess
	Type ActionType
}

// Start начало запроса аутентификации
func Start() Action { return Action{Type: ActionStart} }

// Success успешный вход пользователя
func Success(user *models.PublicUser) Action { return Action{Type: ActionSuccess, User: user} }

// Failure неудачный вход
func Failure() Action { return Action{Type: ActionFailure} }

// Logout выход
func Logout() Action { return Action{Type: ActionLogout} }

// Reduce возвращает новое состояние. Функция чистая: не выполняет ввод-вывод
// и не меняет аргументы. Неизвестное действие возвращает state без изменений.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionStart:
		state.Status = StatusLoading
		return state
	case ActionSuccess:
		return State{User: action.User, Status: StatusAuthenticated}
	case ActionFailure, ActionLogout:
		return State{Status: StatusUnauthenticated}
	default:
		return state
	}
}
