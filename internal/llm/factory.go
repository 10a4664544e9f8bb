package llm

import (
	"context"
	"fmt"
	"os"
)

// FromEnv returns a client for the first provider with credentials in
// the environment. Checked in order: Anthropic, OpenAI, Google.
func FromEnv(ctx context.Context) (Client, error) {
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return NewAnthropic(), nil
	case os.Getenv("OPENAI_API_KEY") != "":
		return NewOpenAI(), nil
	case os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != "":
		return NewGoogle(ctx)
	}
	return nil, fmt.Errorf("no API key found: set ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY")
}
