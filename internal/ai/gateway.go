// Package ai wraps the generative-model provider behind a one-call
// gateway: a single blocking request, no retries, no streaming.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrProvider marks failures of the generative-model provider so handlers
// can report them inline instead of crashing the pipeline.
var ErrProvider = errors.New("ai provider request failed")

// Gateway is the generation contract the command pipeline depends on.
type Gateway interface {
	// Generate produces text for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Describe produces text for a prompt paired with an image payload.
	Describe(ctx context.Context, prompt string, image []byte, mediaType string) (string, error)
}

// GeminiGateway implements Gateway on the Gemini API.
type GeminiGateway struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGeminiGateway(ctx context.Context, log *slog.Logger, apiKey, model string) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGateway{
		client: client,
		model:  model,
		logger: log.With(slog.String("gateway", "gemini")),
	}, nil
}

// Close releases the underlying client connection.
func (g *GeminiGateway) Close() error {
	return g.client.Close()
}

func (g *GeminiGateway) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, genai.Text(prompt))
}

func (g *GeminiGateway) Describe(ctx context.Context, prompt string, image []byte, mediaType string) (string, error) {
	return g.generate(ctx, genai.Text(prompt), genai.ImageData(imageFormat(mediaType), image))
}

func (g *GeminiGateway) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		g.logger.Error("generate content failed", slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrProvider)
	}
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	return strings.TrimSpace(builder.String())
}

// imageFormat maps a media type like "image/jpeg" to the bare format name
// the API expects. Telegram photos are JPEG, so that is the fallback.
func imageFormat(mediaType string) string {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	format, found := strings.CutPrefix(mediaType, "image/")
	if !found || format == "" {
		return "jpeg"
	}
	return format
}
