package llm

import (
	"context"
	"testing"
)

func TestFromEnvNoKeys(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := FromEnv(context.Background()); err == nil {
		t.Error("no credentials should error")
	}
}

func TestFromEnvPrefersAnthropic(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")

	client, err := FromEnv(context.Background())
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if client.Name() != "anthropic" {
		t.Errorf("provider = %s, want anthropic", client.Name())
	}
}

func TestFromEnvOpenAI(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "test-key")

	client, err := FromEnv(context.Background())
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if client.Name() != "openai" {
		t.Errorf("provider = %s, want openai", client.Name())
	}
}

func TestFakeRecordsCalls(t *testing.T) {
	fake := &Fake{Response: "generated text"}

	got, err := fake.Complete(context.Background(), "a prompt", Options{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "generated text" {
		t.Errorf("response = %q", got)
	}
	if fake.Calls != 1 || fake.LastInput != "a prompt" {
		t.Errorf("calls = %d, last = %q", fake.Calls, fake.LastInput)
	}
}
