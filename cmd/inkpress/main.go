package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appctx "github.com/inkpress-ai/inkpress/internal/context"
	"github.com/inkpress-ai/inkpress/internal/log"
	"github.com/inkpress-ai/inkpress/internal/prefs"
	"github.com/inkpress-ai/inkpress/internal/prompt"
	"github.com/inkpress-ai/inkpress/internal/session"
	"github.com/inkpress-ai/inkpress/internal/template"
)

var (
	version = "0.1.0"
)

func init() {
	// Load .env file if it exists (silent fail if not found)
	_ = godotenv.Load()

	// Initialize logging (enabled via INKPRESS_DEBUG=1)
	_ = log.Init()
}

func main() {
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inkpress",
	Short: "Inkpress - context-aware blog drafting assistant",
	Long: `Inkpress builds context-rich prompts for AI blog drafting.

It gathers site, author, writing-style, content, and conversation
context, selects the best matching prompt template, and compiles the
final prompt. With an API key configured it can also run the completion.

Examples:
  inkpress prompt --topic "winter gardening"        Build a prompt
  inkpress prompt --topic cats --mode outline       Outline mode
  inkpress templates                                List templates
  inkpress prefs get writing_style.tone             Read a preference
  inkpress complete --topic "winter gardening"      Run a completion`,
}

// userFlag is the acting author id, shared by subcommands.
var userFlag int

func init() {
	rootCmd.PersistentFlags().IntVar(&userFlag, "user", 1, "Acting author id")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inkpress version %s\n", version)
	},
}

// app wires the engine stack for one CLI invocation. Content comes from
// the seeded demo store; preferences and sessions persist under
// ~/.inkpress.
type app struct {
	prefs     *prefs.Engine
	manager   *appctx.Manager
	library   *template.Library
	generator *prompt.Generator
}

func newApp() (*app, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	baseDir := filepath.Join(home, ".inkpress")

	prefStore, err := prefs.NewFileStore(filepath.Join(baseDir, "prefs"))
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	engine := prefs.NewEngine(prefStore,
		// The CLI runs single user; the first account administers the site.
		prefs.WithSiteAdmin(func(userID int) bool { return userID == 1 }),
	)

	sessions, err := session.NewFileStore(filepath.Join(baseDir, "sessions"))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	library, err := template.NewLibrary()
	if err != nil {
		return nil, fmt.Errorf("load template library: %w", err)
	}

	store := demoStore()
	manager := appctx.NewManager(
		appctx.WithPrefs(engine),
		appctx.WithLibrary(library),
	)
	err = manager.RegisterDefaults(
		appctx.NewSiteProvider(store),
		appctx.NewUserProvider(store, engine),
		appctx.NewStyleProvider(store, engine),
		appctx.NewContentProvider(store),
		appctx.NewConversationProvider(sessions),
	)
	if err != nil {
		return nil, fmt.Errorf("register providers: %w", err)
	}

	return &app{
		prefs:     engine,
		manager:   manager,
		library:   library,
		generator: prompt.NewGenerator(manager, library),
	}, nil
}
