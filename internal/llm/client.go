// Package llm wraps the outbound generative-content API: send a prompt,
// get text back. The prompt engine never imports this package; the
// surrounding chat layer connects the two.
package llm

import (
	"context"
	"sync"
)

// Options tunes a completion request.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client is the narrow completion interface the chat layer calls with the
// generated prompt.
type Client interface {
	// Complete sends the prompt and returns the generated text.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// Name returns the provider name (e.g. "anthropic").
	Name() string
}

// Fake is a canned-response client for tests and the CLI demo mode.
type Fake struct {
	mu        sync.Mutex
	Response  string
	Err       error
	LastInput string
	Calls     int
}

// Complete implements Client.
func (f *Fake) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastInput = prompt
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

// Name implements Client.
func (f *Fake) Name() string { return "fake" }
