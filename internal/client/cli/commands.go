package cli

import (
	"context"
	"strings"

	ucli "github.com/urfave/cli/v3"
)

// textArg объединяет позиционные аргументы команды в один текст
func textArg(cmd *ucli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}

func registerCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:  "register",
		Usage: "Register new user",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runRegister(ctx)
		},
	}
}

func loginCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:  "login",
		Usage: "Login to server",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runLogin(ctx)
		},
	}
}

func logoutCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:  "logout",
		Usage: "Logout from server",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runLogout(ctx)
		},
	}
}

func statusCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:    "status",
		Aliases: []string{"whoami"},
		Usage:   "Show authentication status",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runStatus(ctx)
		},
	}
}

func translateCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:      "translate",
		Aliases:   []string{"tr"},
		Usage:     "Translate text between languages",
		ArgsUsage: "[text]",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "from",
				Usage: "Source language code",
				Value: "en",
			},
			&ucli.StringFlag{
				Name:     "to",
				Usage:    "Target language code",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runTranslate(ctx, textArg(cmd), cmd.String("from"), cmd.String("to"))
		},
	}
}

func summarizeCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:      "summarize",
		Aliases:   []string{"sum"},
		Usage:     "Summarize text (at least 10 words)",
		ArgsUsage: "[text]",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "length",
				Usage: "Summary length: short, medium or long",
			},
			&ucli.IntFlag{
				Name:  "max-tokens",
				Usage: "Explicit token budget, overrides length",
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runSummarize(ctx, textArg(cmd), cmd.String("length"), cmd.Int("max-tokens"))
		},
	}
}

func speechToTextCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:      "speech-to-text",
		Aliases:   []string{"stt"},
		Usage:     "Transcribe an audio file",
		ArgsUsage: "<audio-file>",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "language",
				Usage: "Audio language code",
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runSpeechToText(ctx, cmd.Args().First(), cmd.String("language"))
		},
	}
}

func textToSpeechCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:      "text-to-speech",
		Aliases:   []string{"tts"},
		Usage:     "Synthesize speech and save it as mp3",
		ArgsUsage: "[text]",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "voice",
				Usage: "Voice name",
			},
			&ucli.FloatFlag{
				Name:  "speed",
				Usage: "Speech speed multiplier",
			},
			&ucli.FloatFlag{
				Name:  "pitch",
				Usage: "Speech pitch multiplier",
			},
			&ucli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output audio file",
				Value:   DefaultSpeechOutput,
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runTextToSpeech(ctx, textArg(cmd), speechOptions{
				Voice:  cmd.String("voice"),
				Speed:  cmd.Float("speed"),
				Pitch:  cmd.Float("pitch"),
				Output: cmd.String("output"),
			})
		},
	}
}

func historyCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:  "history",
		Usage: "Show operation history",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "type",
				Usage: "Filter by operation type",
			},
			&ucli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of items to show",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runHistory(ctx, cmd.String("type"), cmd.Int("limit"))
		},
		Commands: []*ucli.Command{
			{
				Name:  "clear",
				Usage: "Delete all history",
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					return rt.cli.runClearHistory(ctx)
				},
			},
		},
	}
}

func themeCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:  "theme",
		Usage: "Show the interface theme",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runTheme(ctx, false)
		},
		Commands: []*ucli.Command{
			{
				Name:  "toggle",
				Usage: "Switch between light and dark theme",
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					return rt.cli.runTheme(ctx, true)
				},
			},
		},
	}
}

func healthCommand(rt *app) *ucli.Command {
	return &ucli.Command{
		Name:  "health",
		Usage: "Check AI service health",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			return rt.cli.runHealth(ctx)
		},
	}
}
