// Package translate rewrites post text into another language using the
// Gemini API.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"channel-post-bot/internal/config"
)

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("model returned empty translation")

// Translator converts text into the target language. A nil Translator
// means the feature is not configured.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Gemini is a Translator backed by the Gemini generative API.
type Gemini struct {
	client *genai.Client
	cfg    config.TranslatorConfig
	log    *slog.Logger
}

// NewGemini creates a Gemini translator. The API key must be set.
func NewGemini(ctx context.Context, cfg config.TranslatorConfig, log *slog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("translator API key is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		cfg:    cfg,
		log:    log.With("component", "translator"),
	}, nil
}

// Translate returns text rendered in targetLang, preserving tone and any
// formatting the model can carry over.
func (g *Gemini) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("nothing to translate")
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Translate the following message into %s. Reply with the translation only, no explanations:\n\n%s",
		targetLang, text,
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate translation: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", ErrEmptyResponse
	}

	g.log.DebugContext(ctx, "Translated text", "target", targetLang, "in_len", len(text), "out_len", len(out))

	return out, nil
}
