// Package storage описывает локальное хранилище клиента: текущую сессию,
// настройки интерфейса и кэш истории операций.
package storage

import "errors"

// ErrAuthNotFound возвращается, если клиент не сохранял сессию или уже вышел
var ErrAuthNotFound = errors.New("no saved session")
