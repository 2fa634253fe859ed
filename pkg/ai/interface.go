package ai

import (
	"context"
	"sort"
	"strings"
)

// Completer is the interface for text enrichment providers (Gemini,
// Ollama, ...). The raw reply is returned as-is; response-shape parsing
// and validation belong to the caller, not the client.
type Completer interface {
	// Complete sends a prompt plus named context blocks to the model and
	// returns the raw reply text.
	Complete(ctx context.Context, prompt string, contextBlocks map[string]string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// renderPrompt appends the named context blocks to the prompt in a stable
// order so prompts are reproducible.
func renderPrompt(prompt string, contextBlocks map[string]string) string {
	if len(contextBlocks) == 0 {
		return prompt
	}

	names := make([]string, 0, len(contextBlocks))
	for name := range contextBlocks {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prompt)
	for _, name := range names {
		b.WriteString("\n\n### ")
		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(contextBlocks[name])
	}
	return b.String()
}
