package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 15 * time.Second
)

type GeminiConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int32
	Timeout         time.Duration
}

// Gemini реализует Generator поверх официального SDK
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required for gemini")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	temperature := float32(0.5)
	topP := float32(0.95)
	model.Temperature = &temperature
	model.TopP = &topP
	model.MaxOutputTokens = &cfg.MaxOutputTokens

	return &Gemini{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Generate выполняет один вызов модели с ограничением по времени.
// Ответ склеивается из текстовых частей первого кандидата.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no meaningful response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
