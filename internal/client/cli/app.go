package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"

	clientapi "github.com/iudanet/smartnlp/internal/client/api"
	"github.com/iudanet/smartnlp/internal/client/auth"
	"github.com/iudanet/smartnlp/internal/client/history"
	"github.com/iudanet/smartnlp/internal/client/iocli"
	"github.com/iudanet/smartnlp/internal/client/storage/boltdb"
)

var (
	_ auth.HistoryLoader    = (*history.Store)(nil)
	_ history.SessionSource = (*auth.Store)(nil)
)

// app ресурсы, открытые в Before и закрываемые в After
type app struct {
	cli     *Cli
	storage *boltdb.Storage
}

// NewCommand собирает корневую команду клиента
func NewCommand(version string, stdio iocli.IO) *ucli.Command {
	rt := &app{}

	return &ucli.Command{
		Name:    "smartnlp",
		Usage:   "SmartNLP terminal client: translation, summarization and speech",
		Version: version,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   DefaultConfigPath,
				Sources: ucli.EnvVars("SMARTNLP_CLIENT_CONFIG"),
			},
			&ucli.StringFlag{
				Name:    "server",
				Usage:   "Server URL",
				Value:   DefaultServerURL,
				Sources: ucli.EnvVars("SMARTNLP_SERVER"),
			},
			&ucli.StringFlag{
				Name:    "db",
				Usage:   "Path to local database",
				Value:   DefaultDBPath,
				Sources: ucli.EnvVars("SMARTNLP_CLIENT_DB"),
			},
			&ucli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *ucli.Command) (context.Context, error) {
			return ctx, rt.open(ctx, cmd, stdio)
		},
		After: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.close()
		},
		Commands: []*ucli.Command{
			registerCommand(rt),
			loginCommand(rt),
			logoutCommand(rt),
			statusCommand(rt),
			translateCommand(rt),
			summarizeCommand(rt),
			speechToTextCommand(rt),
			textToSpeechCommand(rt),
			historyCommand(rt),
			themeCommand(rt),
			healthCommand(rt),
		},
	}
}

// resolveConfig объединяет файл настроек с флагами; явно заданный флаг важнее
func resolveConfig(cmd *ucli.Command) (*Config, error) {
	config := DefaultConfig()

	path := cmd.String("config")
	loaded, err := LoadConfig(path)
	switch {
	case err == nil:
		config = loaded
	case errors.Is(err, fs.ErrNotExist) && !cmd.IsSet("config"):
		// файл по умолчанию необязателен
	default:
		return nil, err
	}

	if cmd.IsSet("server") || config.Server == "" {
		config.Server = cmd.String("server")
	}
	if cmd.IsSet("db") || config.DB == "" {
		config.DB = cmd.String("db")
	}
	if cmd.IsSet("debug") {
		config.Debug = cmd.Bool("debug")
	}

	return config, nil
}

// newLogger создает slog логгер поверх charmbracelet/log
func newLogger(debug bool) *slog.Logger {
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: debug,
		Prefix:          "smartnlp",
	})
	handler.SetLevel(log.WarnLevel)
	if debug {
		handler.SetLevel(log.DebugLevel)
	}
	return slog.New(handler)
}

func (rt *app) open(ctx context.Context, cmd *ucli.Command, stdio iocli.IO) error {
	config, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(config.Debug)

	boltStorage, err := boltdb.New(ctx, config.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	apiClient := clientapi.NewClient(config.Server)

	historyStore := history.NewStore(ctx, logger, history.NewAPIRemote(apiClient), nil, boltStorage, boltStorage)
	authStore := auth.NewStore(logger, apiClient, boltStorage, historyStore)
	historyStore.SetSession(authStore)

	if err := authStore.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "failed to restore session", slog.Any("error", err))
	}

	logger.DebugContext(ctx, "client ready",
		slog.String("server", config.Server),
		slog.String("db", config.DB),
		slog.String("session", authStore.State().Status.String()),
	)

	rt.storage = boltStorage
	rt.cli = New(stdio, apiClient, authStore, historyStore, logger)
	return nil
}

func (rt *app) close() error {
	if rt.storage == nil {
		return nil
	}
	err := rt.storage.Close()
	rt.storage = nil
	return err
}
