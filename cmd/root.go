package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/folio/internal/config"
	"github.com/Yates-Labs/folio/internal/logger"
)

// cfg is loaded once per invocation before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - contextual retrieval over dramatic texts",
	Long: `Folio segments a play into labeled passages, indexes them into a vector
store (optionally enriched with LLM-generated scene context), and answers
free-text queries with the most similar passages.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	level, err := loaded.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(cmd.ErrOrStderr(), level, loaded.LogFormat))
	cfg = loaded

	runID := uuid.NewString()
	cmd.SetContext(logger.WithRunID(cmd.Context(), runID))
	slog.DebugContext(cmd.Context(), "command started", "command", cmd.Name())
	return nil
}

func openDocument(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return file, nil
}
