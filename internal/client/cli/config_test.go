package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr bool
	}{
		{
			name: "full file",
			content: `server = "https://nlp.example.com"
db = "/tmp/client.db"
debug = true
`,
			want: &Config{Server: "https://nlp.example.com", DB: "/tmp/client.db", Debug: true},
		},
		{
			name:    "partial file keeps defaults",
			content: `server = "http://10.0.0.1:3001"`,
			want:    &Config{Server: "http://10.0.0.1:3001", DB: DefaultDBPath},
		},
		{
			name:    "invalid toml",
			content: `server = `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "smartnlp.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := LoadConfig(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultServerURL, cfg.Server)
	assert.Equal(t, DefaultDBPath, cfg.DB)
	assert.False(t, cfg.Debug)
}
