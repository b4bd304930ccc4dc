package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Значения по умолчанию
const (
	DefaultServerURL  = "http://localhost:3001"
	DefaultDBPath     = "smartnlp-client.db"
	DefaultConfigPath = "smartnlp.toml"
)

// Config настройки клиента из TOML файла. Флаги и переменные окружения
// имеют приоритет над файлом.
type Config struct {
	Server string `toml:"server"`
	DB     string `toml:"db"`
	Debug  bool   `toml:"debug"`
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() *Config {
	return &Config{Server: DefaultServerURL, DB: DefaultDBPath}
}

// LoadConfig читает TOML файл поверх значений по умолчанию
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}
