package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	appctx "github.com/inkpress-ai/inkpress/internal/context"
	"github.com/inkpress-ai/inkpress/internal/prompt"
)

var (
	topicFlag        string
	modeFlag         string
	templateFlag     string
	toneFlag         string
	instructionsFlag string
	formatFlag       string
	renderFlag       bool
	contextOnlyFlag  bool
)

func init() {
	promptCmd.Flags().StringVarP(&topicFlag, "topic", "t", "", "Topic to write about")
	promptCmd.Flags().StringVarP(&modeFlag, "mode", "m", prompt.ModeDraft, "Generation mode: draft, outline, revision, seo")
	promptCmd.Flags().StringVar(&templateFlag, "template", "", "Force a specific template key")
	promptCmd.Flags().StringVar(&toneFlag, "tone", "", "Override the tone preference for selection")
	promptCmd.Flags().StringVarP(&instructionsFlag, "instructions", "i", "", "Extra instructions")
	promptCmd.Flags().StringVar(&formatFlag, "format", string(appctx.FormatStructured), "Context format: structured, markdown, plain")
	promptCmd.Flags().BoolVar(&renderFlag, "render", false, "Render the output as markdown in the terminal")
	promptCmd.Flags().BoolVar(&contextOnlyFlag, "context-only", false, "Print the gathered context instead of the full prompt")
	rootCmd.AddCommand(promptCmd)
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Build the prompt for a topic without calling the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		if topicFlag == "" {
			return fmt.Errorf("--topic is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()

		if contextOnlyFlag {
			bundle := a.manager.Gather(ctx, gatherOptions(), true)
			return emit(a.manager.BuildString(bundle, appctx.Format(formatFlag)))
		}

		text, err := a.generator.Generate(ctx, prompt.Request{
			Topic:        topicFlag,
			Instructions: instructionsFlag,
			Mode:         modeFlag,
			TemplateKey:  templateFlag,
			Tone:         toneFlag,
			Context:      gatherOptions(),
		})
		if err != nil {
			return err
		}
		return emit(text)
	},
}

func gatherOptions() appctx.Options {
	return appctx.Options{
		UserID: userFlag,
		Topic:  topicFlag,
		Mode:   modeFlag,
	}
}

// emit prints text, optionally rendered as terminal markdown.
func emit(text string) error {
	if !renderFlag {
		fmt.Println(text)
		return nil
	}
	out, err := glamour.Render(text, "auto")
	if err != nil {
		// Fall back to plain output on render failure.
		fmt.Println(text)
		return nil
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}
