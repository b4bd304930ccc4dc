package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// EmailPattern определяет упрощенный формат email: local@domain.tld
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 6
	// MaxPasswordLen ограничение bcrypt на длину входа в байтах
	MaxPasswordLen = 72
	// MinSummaryWords минимальное количество слов для суммаризации
	MinSummaryWords = 10

	// DefaultHistoryLimit размер страницы истории по умолчанию
	DefaultHistoryLimit = 50
)

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return newError("email is required")
	}
	if !EmailPattern.MatchString(email) {
		return newError("email is not a valid address")
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return newError("password is required")
	}
	if len(password) < MinPasswordLen {
		return newErrorf("password must be at least %d characters long", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return newErrorf("password must not exceed %d bytes", MaxPasswordLen)
	}
	return nil
}

// ValidateTranslation проверяет обязательные поля запроса перевода.
// Отклоняются только пустые строки, пробельный текст уходит в AI сервис.
func ValidateTranslation(text, fromLang, toLang string) error {
	if text == "" || fromLang == "" || toLang == "" {
		return newError("Text, fromLang, and toLang are required")
	}
	return nil
}

// ValidateSummary проверяет текст для суммаризации. length не проверяется:
// неизвестное значение AI клиент трактует как medium.
func ValidateSummary(text string) error {
	if isBlank(text) {
		return newError("Text is required")
	}
	if WordCount(text) < MinSummaryWords {
		return newErrorf("Text must be at least %d words long for summarization", MinSummaryWords)
	}
	return nil
}

// ValidateSpeechText проверяет текст для синтеза речи
func ValidateSpeechText(text string) error {
	if isBlank(text) {
		return newError("Text is required")
	}
	return nil
}

// WordCount возвращает количество слов, разделенных пробельными символами
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ParsePagination разбирает параметры limit и offset истории.
// Пустые значения заменяются на значения по умолчанию.
func ParsePagination(limitRaw, offsetRaw string) (limit, offset int, err error) {
	limit = DefaultHistoryLimit
	if limitRaw != "" {
		limit, err = strconv.Atoi(limitRaw)
		if err != nil || limit <= 0 {
			return 0, 0, newError("limit must be a positive integer")
		}
	}

	if offsetRaw != "" {
		offset, err = strconv.Atoi(offsetRaw)
		if err != nil || offset < 0 {
			return 0, 0, newError("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
