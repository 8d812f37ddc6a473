package core

import "context"

// CompletionResult is one model response plus its usage accounting.
type CompletionResult struct {
	Text       string
	TokensUsed int
}

// LLMProvider is the text-generation capability. Complete may fail with
// apperr.ErrModelOverloaded in its chain when the model is at capacity; the
// orchestrator treats that distinctly from other failures.
type LLMProvider interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (CompletionResult, error)
}
