package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/inkpress-ai/inkpress/internal/prefs"
)

var siteScopeFlag bool

func init() {
	prefsCmd.PersistentFlags().BoolVar(&siteScopeFlag, "site", false, "Operate on site-wide preferences")
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and change preferences",
}

func prefScope() prefs.Scope {
	if siteScopeFlag {
		return prefs.ScopeSite
	}
	return prefs.ScopeUser
}

var prefsGetCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Print preferences, or one value by dot path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			v := a.prefs.ValueAt(prefScope(), userFlag, args[0], nil)
			if v == nil {
				return fmt.Errorf("no preference at %q", args[0])
			}
			fmt.Println(v)
			return nil
		}

		tree := a.prefs.Get(prefScope(), userFlag)
		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set one preference by dot path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.prefs.SetValue(prefScope(), userFlag, args[0], parseValue(args[1])); err != nil {
			return err
		}
		// Echo the stored value so schema clamping is visible.
		fmt.Println(a.prefs.ValueAt(prefScope(), userFlag, args[0], nil))
		return nil
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore preferences to schema defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.prefs.Reset(prefScope(), userFlag)
	},
}

// parseValue interprets CLI strings as bool or number where possible so
// schema validation sees typed values.
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
