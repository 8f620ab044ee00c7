package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/drill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "drill",
	Short: "Spaced-repetition flashcards in the terminal",
	Long: `drill schedules your flashcards with a spaced-repetition algorithm.

Add questions, answer the ones that are due with again, hard, good or easy,
and track how much of each tag you have mastered.`,
	SilenceUsage: true,
}

// Execute runs the root command. Interrupts cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DRILL_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/drill/config.yaml)")
	rootCmd.PersistentFlags().String("owner", "", "Whose deck to use (default $USER)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(retagCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the configured database path (from --db, DRILL_DB or
// the config file), falling back to the default XDG path.
func resolveDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
