package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/doctrans/internal/cli"
	"codeberg.org/snonux/doctrans/internal/models"
	"codeberg.org/snonux/doctrans/internal/processor"
	"codeberg.org/snonux/doctrans/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.ApplyConfig(flags)
		setupLogging(flags.Verbose)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	if flags.BatchFile == "" && len(args) == 0 && !flags.ListModels {
		return errors.New("no input file given (see --help)")
	}
	if flags.BatchFile != "" && len(args) > 0 {
		return errors.New("use either a file argument or --batch, not both")
	}
	if flags.ListModels && flags.DryRun {
		return errors.New("--list-models queries the API and cannot be combined with --dry-run")
	}

	// Dry runs only parse documents and need no credentials.
	if flags.DryRun {
		return run(ctx, processor.NewProcessor(flags, nil), flags, args)
	}

	apiKey, err := cli.ResolveAPIKey(flags)
	if err != nil {
		return err
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister, err := models.NewLister(ctx, apiKey)
		if err != nil {
			return err
		}
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	translator, err := translation.NewTranslator(ctx, translation.Config{
		APIKey:  apiKey,
		Model:   flags.Model,
		Backend: flags.Backend,
		BaseURL: flags.BaseURL,
		Logger:  slog.Default(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Model: %s (%s via %s)\n", flags.Model, translator.Model(), translator.Backend())

	return run(ctx, processor.NewProcessor(flags, translator), flags, args)
}

func run(ctx context.Context, proc *processor.Processor, flags *cli.Flags, args []string) error {
	// Handle batch processing
	if flags.BatchFile != "" {
		return proc.ProcessBatch(ctx)
	}
	if len(args) == 0 {
		return errors.New("no input file given (see --help)")
	}

	_, err := proc.Process(ctx, args[0])
	return err
}
