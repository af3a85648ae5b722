// scribe is a voice-first structured note editor: utterances are classified
// by an AI collaborator into append/rewrite/clarify actions and reconciled
// deterministically into a block-structured document with undo/redo and
// staged review for large rewrites.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scribe/internal/ai"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/session"
	"scribe/internal/store"
)

const version = "0.3.0"

var (
	configPath string
	apiKey     string
	docID      string
	dbPath     string
	verbose    bool
	offline    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "scribe - voice-driven structured note editor",
	Long: `scribe lets you dictate or type edits to a structured document.

An AI collaborator classifies each instruction as an append, a rewrite, or a
request for clarification. Small rewrites apply silently; large ones are
staged for explicit confirmation. Everything is undoable.

Run without arguments to start the interactive editing loop.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.Development = true
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scribe version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scribe %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "AI collaborator API key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&docID, "doc", "default", "document ID to open")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "run without an AI collaborator (everything appends)")

	rootCmd.AddCommand(versionCmd)
}

func runEdit(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if dbPath != "" {
		cfg.Autosave.Path = dbPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	st, err := store.NewSQLiteStore(cfg.Autosave.Path)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer st.Close()

	collab, err := buildCollaborator(ctx, cfg)
	if err != nil {
		return err
	}

	sess, err := session.New(ctx, docID, cfg, session.Options{
		Collaborator: collab,
		Store:        st,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer sess.Close()

	return runLoop(ctx, sess, cfg)
}

func buildCollaborator(ctx context.Context, cfg *config.Config) (ai.Collaborator, error) {
	if offline {
		return ai.NewScriptedCollaborator(), nil
	}
	switch cfg.LLM.Provider {
	case "", "gemini":
		return ai.NewGeminiCollaborator(ctx, ai.GeminiConfig{
			APIKey: cfg.LLM.APIKey,
			Model:  cfg.LLM.Model,
		})
	case "scripted":
		return ai.NewScriptedCollaborator(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
