// Package llmtest provides a scripted llm.Client for deterministic tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/cv-tailor/internal/llm"
)

// ErrNoScript is returned by GenerateText when no GenerateFunc was provided.
var ErrNoScript = errors.New("llmtest: no response scripted")

// Fake is a concurrency-safe llm.Client whose responses come from callbacks.
// A nil RewriteFunc echoes the original text unchanged.
type Fake struct {
	GenerateFunc func(prompt, systemPrompt string) (string, error)
	RewriteFunc  func(original, instruction string) (string, error)
	// Unconfigured makes IsConfigured report false.
	Unconfigured bool

	mu            sync.Mutex
	generateCalls []string
	rewriteCalls  []string
}

var _ llm.Client = (*Fake)(nil)

// GenerateText records the prompt and returns the scripted response.
func (f *Fake) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	f.mu.Lock()
	f.generateCalls = append(f.generateCalls, prompt)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.GenerateFunc == nil {
		return "", ErrNoScript
	}
	return f.GenerateFunc(prompt, systemPrompt)
}

// RewriteText records the original and returns the scripted rewrite.
func (f *Fake) RewriteText(ctx context.Context, original, instruction string) (string, error) {
	f.mu.Lock()
	f.rewriteCalls = append(f.rewriteCalls, original)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.RewriteFunc == nil {
		return original, nil
	}
	return f.RewriteFunc(original, instruction)
}

// IsConfigured reports !Unconfigured.
func (f *Fake) IsConfigured() bool {
	return !f.Unconfigured
}

// Close is a no-op.
func (f *Fake) Close() error {
	return nil
}

// GenerateCalls returns a copy of the prompts sent to GenerateText.
func (f *Fake) GenerateCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.generateCalls...)
}

// RewriteCalls returns a copy of the originals sent to RewriteText.
func (f *Fake) RewriteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rewriteCalls...)
}
