package ai

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/sirupsen/logrus"
)

// FallbackService routes completions to Ollama first (local, free) and
// falls back to Gemini on connection errors; a Gemini quota error retries
// Ollama once.
type FallbackService struct {
	gemini Completer
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini Completer, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// Complete implements Completer.
func (f *FallbackService) Complete(ctx context.Context, prompt string, contextBlocks map[string]string) (string, error) {
	if f.ollama != nil {
		result, err := f.ollama.Complete(ctx, prompt, contextBlocks)
		if err == nil {
			return result, nil
		}
		if isConnectionError(err) {
			logrus.WithError(err).Debug("ollama unreachable, falling back to gemini")
		} else {
			logrus.WithError(err).Warn("ollama completion failed, falling back to gemini")
		}
	}

	if f.gemini != nil {
		result, err := f.gemini.Complete(ctx, prompt, contextBlocks)
		if err == nil {
			return result, nil
		}
		if isQuotaError(err) && f.ollama != nil {
			logrus.WithError(err).Warn("gemini quota exhausted, retrying ollama")
			return f.ollama.Complete(ctx, prompt, contextBlocks)
		}
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available")
}
