package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/pkg/api"
)

// DefaultSpeechOutput файл для синтезированной речи по умолчанию
const DefaultSpeechOutput = "speech.mp3"

func (c *Cli) runTranslate(ctx context.Context, text, fromLang, toLang string) error {
	text, err := c.readText(text, "Text to translate: ")
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	resp, err := c.nlp.Translate(ctx, c.token(ctx), api.TranslateRequest{
		Text:     text,
		FromLang: fromLang,
		ToLang:   toLang,
	})
	if err != nil {
		return err
	}

	c.io.Printf("%s\n", resp.TranslatedText)
	c.io.Printf("\n[%s → %s, confidence %.2f, %d ms]\n", resp.FromLang, resp.ToLang, resp.Confidence, resp.ProcessingTime)

	c.record(ctx, models.HistoryItem{
		Kind:   models.KindTranslation,
		Input:  text,
		Output: resp.TranslatedText,
		Metadata: map[string]any{
			"fromLang":   resp.FromLang,
			"toLang":     resp.ToLang,
			"confidence": resp.Confidence,
		},
	})

	return nil
}

func (c *Cli) runSummarize(ctx context.Context, text, length string, maxTokens int) error {
	text, err := c.readText(text, "Text to summarize: ")
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	req := api.SummarizeRequest{Text: text, Length: length}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}

	resp, err := c.nlp.Summarize(ctx, c.token(ctx), req)
	if err != nil {
		return err
	}

	c.io.Printf("%s\n", resp.Summary)
	c.io.Printf("\n[%d → %d characters, ratio %.2f, %d ms]\n",
		resp.OriginalLength, resp.SummaryLength, resp.CompressionRatio, resp.ProcessingTime)

	summaryLength := length
	if summaryLength == "" {
		summaryLength = "medium"
	}

	c.record(ctx, models.HistoryItem{
		Kind:     models.KindSummarization,
		Input:    text,
		Output:   resp.Summary,
		Metadata: map[string]any{"summaryLength": summaryLength},
	})

	return nil
}

func (c *Cli) runSpeechToText(ctx context.Context, path, language string) error {
	if path == "" {
		return fmt.Errorf("audio file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	resp, err := c.nlp.SpeechToText(ctx, c.token(ctx), filepath.Base(path), f, language)
	if err != nil {
		return err
	}

	c.io.Printf("%s\n", resp.Transcript)
	c.io.Printf("\n[language %s, confidence %.2f, %d ms]\n", resp.Language, resp.Confidence, resp.ProcessingTime)

	c.record(ctx, models.HistoryItem{
		Kind:   models.KindSpeechToText,
		Input:  models.AudioInputText,
		Output: resp.Transcript,
		Metadata: map[string]any{
			"language":   resp.Language,
			"confidence": resp.Confidence,
		},
	})

	return nil
}

// speechOptions параметры синтеза; нулевые значения не передаются серверу
type speechOptions struct {
	Voice  string
	Output string
	Speed  float64
	Pitch  float64
}

func (c *Cli) runTextToSpeech(ctx context.Context, text string, opts speechOptions) error {
	text, err := c.readText(text, "Text to speak: ")
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	req := api.SynthesizeRequest{Text: text, Voice: opts.Voice}
	if opts.Speed > 0 {
		req.Speed = &opts.Speed
	}
	if opts.Pitch > 0 {
		req.Pitch = &opts.Pitch
	}

	speech, err := c.nlp.TextToSpeech(ctx, c.token(ctx), req)
	if err != nil {
		return err
	}

	if len(speech.Audio) > 0 {
		output := opts.Output
		if output == "" {
			output = DefaultSpeechOutput
		}
		if err := os.WriteFile(output, speech.Audio, 0o644); err != nil {
			return fmt.Errorf("failed to write audio file: %w", err)
		}
		c.io.Printf("✓ Audio saved to %s (%d bytes)\n", output, len(speech.Audio))
	} else {
		message := "no audio returned"
		if speech.Ack != nil && speech.Ack.Message != "" {
			message = speech.Ack.Message
		}
		c.io.Printf("Speech service returned no audio: %s\n", message)
	}

	voice := opts.Voice
	if voice == "" {
		voice = "default"
	}

	c.record(ctx, models.HistoryItem{
		Kind:     models.KindTextToSpeech,
		Input:    text,
		Output:   models.AudioOutputText,
		Metadata: map[string]any{"voice": voice},
	})

	return nil
}

func (c *Cli) runHealth(ctx context.Context) error {
	resp, err := c.nlp.Health(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("AI service: %s\n", resp.Status)
	if resp.Version != "" {
		c.io.Printf("Version: %s\n", resp.Version)
	}
	if resp.Uptime > 0 {
		c.io.Printf("Uptime: %.0fs\n", resp.Uptime)
	}
	if resp.Error != "" {
		c.io.Printf("Error: %s\n", resp.Error)
	}

	return nil
}
