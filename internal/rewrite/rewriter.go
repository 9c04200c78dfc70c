// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     rewrite
// Description: Tone-adjusted text rewriting via a local Ollama model
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package rewrite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/msto63/echoverse/internal/ollama"
	"github.com/msto63/echoverse/pkg/core/logging"
)

// promptTemplate embeds the tone and the literal user text between
// delimiters. The model must answer with the rewritten text alone.
const promptTemplate = `You are a writing assistant.

Task: Rewrite the user's text in a **%s** tone.
Rules:
- Preserve the original meaning and key facts.
- Keep it clear and natural.
- Maintain the original language (do NOT translate).
- Use an appropriate register for the tone.
- Output ONLY the rewritten text—no preface, no quotes, no explanations.

User text:
---
%s
---`

// Options holds the sampling settings for one rewrite
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Rewriter rewrites text in a requested tone through an Ollama endpoint
type Rewriter struct {
	client *ollama.Client
	logger *logging.Logger
}

// New creates a Rewriter on top of an Ollama client
func New(client *ollama.Client) *Rewriter {
	return &Rewriter{
		client: client,
		logger: logging.New("rewrite"),
	}
}

// EnsureModel verifies the model is installed on the endpoint before any
// generation is attempted. A missing model fails with the pull remediation
// and the installed model list.
func (r *Rewriter) EnsureModel(ctx context.Context, model string) error {
	names, err := r.client.ModelNames(ctx)
	if err != nil {
		if errors.Is(err, ollama.ErrUnreachable) {
			return err
		}
		// Degraded listing: presence check proceeds with no models detected
		r.logger.Warn("model listing failed", "error", err)
		names = nil
	}

	if slices.Contains(names, model) {
		return nil
	}

	installed := "(none detected)"
	if len(names) > 0 {
		installed = strings.Join(names, ", ")
	}
	return fmt.Errorf("Ollama model '%s' not found at %s.\n"+
		"To fix:\n"+
		"  1) Ensure Ollama is running.\n"+
		"  2) Pull the model:\n"+
		"     ollama pull %s\n"+
		"Installed models: %s: %w",
		model, r.client.BaseURL(), model, installed, ollama.ErrModelNotFound)
}

// Rewrite returns the text rewritten in the given tone, trimmed of
// surrounding whitespace. No retries; the first error ends the attempt.
func (r *Rewriter) Rewrite(ctx context.Context, text, tone string, opts Options) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no input text provided")
	}

	if err := r.EnsureModel(ctx, opts.Model); err != nil {
		return "", err
	}

	r.logger.Info("rewriting", "model", opts.Model, "tone", tone, "chars", len(text))

	resp, err := r.client.Generate(ctx, &ollama.GenerateRequest{
		Model:  opts.Model,
		Prompt: buildPrompt(tone, text),
		Options: map[string]interface{}{
			"temperature": opts.Temperature,
			"num_predict": opts.MaxTokens,
		},
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Response), nil
}

func buildPrompt(tone, text string) string {
	return fmt.Sprintf(promptTemplate, tone, text)
}
