package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var categoryFlag string

var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	metaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func init() {
	templatesCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Filter by category")
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available prompt templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		list := a.library.List(categoryFlag)
		if len(list) == 0 {
			fmt.Println("No templates found.")
			return nil
		}

		for _, t := range list {
			meta := []string{fmt.Sprintf("category: %s", t.Category), fmt.Sprintf("priority: %d", t.Priority)}
			if len(t.Styles) > 0 {
				meta = append(meta, "styles: "+strings.Join(t.Styles, ", "))
			}
			fmt.Printf("%s  %s\n", keyStyle.Render(t.Key), metaStyle.Render(strings.Join(meta, " | ")))
			if t.Description != "" {
				fmt.Printf("  %s\n", descStyle.Render(t.Description))
			}
		}
		return nil
	},
}
