package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"unicode/utf8"

	"github.com/iudanet/smartnlp/internal/models"
)

var historyItemTmpl = template.Must(template.New("history").
	Funcs(template.FuncMap{"truncate": truncate}).
	Parse(historyItemTemplate))

func (c *Cli) runHistory(ctx context.Context, kind string, limit int) error {
	var filter models.Kind
	if kind != "" {
		k, err := models.ParseKind(kind)
		if err != nil {
			return err
		}
		filter = k
	}

	if err := c.history.LoadHistory(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to refresh history", slog.Any("error", err))
	}

	c.io.Println("=== History ===")

	if !c.session.State().IsAuthenticated() {
		c.io.Println()
		c.io.Println("Not logged in: history is only kept for this session.")
	}

	shown := 0
	for _, item := range c.history.State().Items {
		if filter != "" && item.Kind != filter {
			continue
		}
		if limit > 0 && shown >= limit {
			break
		}
		if err := historyItemTmpl.Execute(c.io, item); err != nil {
			return fmt.Errorf("failed to render history item: %w", err)
		}
		shown++
	}

	if shown == 0 {
		c.io.Println()
		c.io.Println("No history found.")
	}

	return nil
}

func (c *Cli) runClearHistory(ctx context.Context) error {
	if err := c.history.ClearHistory(ctx); err != nil {
		return err
	}
	c.io.Println("✓ History cleared")
	return nil
}

func (c *Cli) runTheme(ctx context.Context, toggle bool) error {
	if !toggle {
		c.io.Printf("Theme: %s\n", c.history.State().Theme)
		return nil
	}

	theme, err := c.history.ToggleTheme(ctx)
	if err != nil {
		return err
	}
	c.io.Printf("✓ Theme switched to %s\n", theme)
	return nil
}

// truncate обрезает строку до n символов
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
