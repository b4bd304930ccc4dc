package storage

import "context"

// Темы интерфейса
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PreferenceStorage defines interface for user interface preferences that
// survive client restarts
type PreferenceStorage interface {
	// SaveTheme stores the selected theme
	SaveTheme(ctx context.Context, theme string) error

	// GetTheme returns the stored theme
	// Returns empty string if no theme was saved yet
	GetTheme(ctx context.Context) (string, error)
}
