package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/apperr"
)

type GeminiLLM struct {
	client    *genai.Client
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string) (*GeminiLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Complete runs one prompt against the configured model. Capacity rejections
// are surfaced as apperr.ErrModelOverloaded so the orchestrator can fall back
// to a secondary model; every other failure is terminal for the attempt.
func (g *GeminiLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (core.CompletionResult, error) {
	m := g.client.GenerativeModel(g.modelName)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		if isOverloaded(err) {
			return core.CompletionResult{}, fmt.Errorf("gemini generate (%s): %w", g.modelName, apperr.ErrModelOverloaded)
		}
		return core.CompletionResult{}, fmt.Errorf("gemini generate (%s): %w", g.modelName, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return core.CompletionResult{}, fmt.Errorf("gemini generate (%s): empty response", g.modelName)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	out := core.CompletionResult{Text: b.String()}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

// isOverloaded classifies capacity rejections: HTTP 429/503 from the REST
// transport, or the gRPC RESOURCE_EXHAUSTED/UNAVAILABLE equivalents.
func isOverloaded(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code == 503
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "UNAVAILABLE") ||
		strings.Contains(msg, "overloaded")
}

var _ core.LLMProvider = (*GeminiLLM)(nil)
