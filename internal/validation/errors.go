package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every validation failure via errors.Is.
var ErrInvalid = errors.New("invalid input")

// Error описывает ошибку валидации с сообщением для клиента
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is позволяет сравнивать ошибку с ErrInvalid
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func newError(msg string) error {
	return &Error{Msg: msg}
}

func newErrorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
