package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkpress-ai/inkpress/internal/llm"
	"github.com/inkpress-ai/inkpress/internal/prefs"
	"github.com/inkpress-ai/inkpress/internal/prompt"
)

func init() {
	completeCmd.Flags().StringVarP(&topicFlag, "topic", "t", "", "Topic to write about")
	completeCmd.Flags().StringVarP(&modeFlag, "mode", "m", prompt.ModeDraft, "Generation mode: draft, outline, revision, seo")
	completeCmd.Flags().StringVar(&templateFlag, "template", "", "Force a specific template key")
	completeCmd.Flags().StringVarP(&instructionsFlag, "instructions", "i", "", "Extra instructions")
	completeCmd.Flags().BoolVar(&renderFlag, "render", false, "Render the response as markdown in the terminal")
	rootCmd.AddCommand(completeCmd)
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Build the prompt and run the model completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		if topicFlag == "" {
			return fmt.Errorf("--topic is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()

		client, err := llm.FromEnv(ctx)
		if err != nil {
			return err
		}

		text, err := a.generator.Generate(ctx, prompt.Request{
			Topic:        topicFlag,
			Instructions: instructionsFlag,
			Mode:         modeFlag,
			TemplateKey:  templateFlag,
			Context:      gatherOptions(),
		})
		if err != nil {
			return err
		}

		// Model settings come from site preferences.
		opts := llm.Options{
			Model:     str(a.prefs.ValueAt(prefs.ScopeSite, userFlag, "ai_settings.model", "")),
			MaxTokens: num(a.prefs.ValueAt(prefs.ScopeSite, userFlag, "ai_settings.max_tokens", 4000)),
		}
		if t, ok := a.prefs.ValueAt(prefs.ScopeSite, userFlag, "ai_settings.temperature", nil).(float64); ok {
			opts.Temperature = t
		}

		out, err := client.Complete(ctx, text, opts)
		if err != nil {
			return fmt.Errorf("%s completion failed: %w", client.Name(), err)
		}
		return emit(out)
	},
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
