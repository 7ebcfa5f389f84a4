package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"repo2ai/internal/config"
	"repo2ai/internal/export"
	"repo2ai/internal/services/watch"
	"repo2ai/internal/tokenizer"
	"repo2ai/internal/types"
)

// createWatchCommand returns the watch subcommand.
func createWatchCommand() *cobra.Command {
	var outputPath string
	var outputFormat string
	var excludeFolders []string
	var excludeFiles []string
	var includeHidden bool
	var debounce time.Duration

	watchCommand := &cobra.Command{
		Use:     watchUse,
		Aliases: []string{watchAlias},
		Short:   watchShortDescription,
		Long:    watchLongDescription,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if outputPath == "" {
				return fmt.Errorf(missingOutputMessage)
			}
			resolvedDebounce := resolveWatchDebounce(command, debounce)
			request := exportRequest{
				Source:         arguments[0],
				OutputPath:     outputPath,
				Format:         outputFormat,
				ExcludeFolders: excludeFolders,
				ExcludeFiles:   excludeFiles,
				IncludeHidden:  includeHidden,
				IncludeSummary: true,
				MaxFileSize:    export.DefaultMaxFileSize,
				TokenModel:     tokenizer.DefaultModel,
			}
			return runWatch(command.Context(), request, resolvedDebounce)
		},
	}

	watchCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	watchCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatXML, formatFlagDescription)
	watchCommand.Flags().StringArrayVar(&excludeFolders, excludeFlagName, nil, excludeFlagDescription)
	watchCommand.Flags().StringArrayVar(&excludeFiles, excludeFilesFlagName, nil, excludeFilesFlagDescription)
	watchCommand.Flags().BoolVar(&includeHidden, includeHiddenFlagName, false, includeHiddenFlagDescription)
	watchCommand.Flags().DurationVar(&debounce, debounceFlagName, watch.DefaultDebounce, debounceFlagDescription)
	return watchCommand
}

// resolveWatchDebounce applies the configured debounce default when the flag
// was not set explicitly.
func resolveWatchDebounce(command *cobra.Command, flagValue time.Duration) time.Duration {
	if command.Flags().Changed(debounceFlagName) {
		return flagValue
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return flagValue
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if configurationError != nil || configuration.Watch.DebounceMilliseconds == nil {
		return flagValue
	}
	return time.Duration(*configuration.Watch.DebounceMilliseconds) * time.Millisecond
}

// runWatch performs an initial export and re-exports after the source tree
// changes. The session stops on SIGINT or SIGTERM.
func runWatch(ctx context.Context, request exportRequest, debounce time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	signalCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if exportError := runExport(signalCtx, request); exportError != nil {
		return exportError
	}

	source, sourceError := validateSource(request.Source)
	if sourceError != nil {
		return sourceError
	}
	rules := export.NewRuleSet(request.ExcludeFolders, request.ExcludeFiles, request.IncludeHidden)

	fmt.Fprintf(os.Stdout, "Watching %s for changes...\n", source.AbsolutePath)

	watchError := watch.Run(signalCtx, watch.Options{
		Root:     source.AbsolutePath,
		Rules:    rules,
		Debounce: debounce,
		Warn: func(message string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", message)
		},
	}, func() error {
		return runExport(signalCtx, request)
	})

	if watchError != nil && !errors.Is(watchError, context.Canceled) {
		return watchError
	}
	return nil
}
