package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"repo2ai/internal/config"
	"repo2ai/internal/export"
	"repo2ai/internal/output"
	"repo2ai/internal/services/clipboard"
	"repo2ai/internal/tokenizer"
	"repo2ai/internal/types"
)

// exportRequest carries the fully resolved parameters of one export run.
type exportRequest struct {
	Source          string
	OutputPath      string
	ToStdout        bool
	Format          string
	ExcludeFolders  []string
	ExcludeFiles    []string
	IncludeHidden   bool
	IncludeSummary  bool
	MaxFileSize     int64
	TokensEnabled   bool
	TokenModel      string
	CopyToClipboard bool
	Stdout          io.Writer
	Stderr          io.Writer
	Copier          clipboard.Copier
}

// createExportCommand returns the export subcommand.
func createExportCommand() *cobra.Command {
	var outputPath string
	var toStdout bool
	var outputFormat string
	var excludeFolders []string
	var excludeFiles []string
	var summaryEnabled bool
	var includeHidden bool
	var maxFileSize int64
	var tokensEnabled bool
	var tokenModel string
	var copyToClipboard bool
	var configPath string

	exportCommand := &cobra.Command{
		Use:     exportUse,
		Aliases: []string{exportAlias},
		Short:   exportShortDescription,
		Long:    exportLongDescription,
		Example: exportUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			request, requestError := resolveExportRequest(command, arguments[0], exportFlagValues{
				OutputPath:      outputPath,
				ToStdout:        toStdout,
				Format:          outputFormat,
				ExcludeFolders:  excludeFolders,
				ExcludeFiles:    excludeFiles,
				Summary:         summaryEnabled,
				IncludeHidden:   includeHidden,
				MaxFileSize:     maxFileSize,
				TokensEnabled:   tokensEnabled,
				TokenModel:      tokenModel,
				CopyToClipboard: copyToClipboard,
				ConfigPath:      configPath,
			})
			if requestError != nil {
				return requestError
			}
			return runExport(command.Context(), request)
		},
	}

	exportCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	exportCommand.Flags().BoolVar(&toStdout, stdoutFlagName, false, stdoutFlagDescription)
	exportCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatXML, formatFlagDescription)
	exportCommand.Flags().StringArrayVar(&excludeFolders, excludeFlagName, nil, excludeFlagDescription)
	exportCommand.Flags().StringArrayVar(&excludeFiles, excludeFilesFlagName, nil, excludeFilesFlagDescription)
	exportCommand.Flags().BoolVar(&summaryEnabled, summaryFlagName, true, summaryFlagDescription)
	exportCommand.Flags().BoolVar(&includeHidden, includeHiddenFlagName, false, includeHiddenFlagDescription)
	exportCommand.Flags().Int64Var(&maxFileSize, maxFileSizeFlagName, export.DefaultMaxFileSize, maxFileSizeFlagDescription)
	exportCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	exportCommand.Flags().StringVar(&tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerCopyFlag(exportCommand.Flags(), &copyToClipboard)
	exportCommand.Flags().StringVar(&configPath, configFlagName, "", configFlagDescription)
	return exportCommand
}

// exportFlagValues captures raw flag values before configuration overlay.
type exportFlagValues struct {
	OutputPath      string
	ToStdout        bool
	Format          string
	ExcludeFolders  []string
	ExcludeFiles    []string
	Summary         bool
	IncludeHidden   bool
	MaxFileSize     int64
	TokensEnabled   bool
	TokenModel      string
	CopyToClipboard bool
	ConfigPath      string
}

// resolveExportRequest overlays configuration defaults and explicit flags into
// an export request. Flags that were set on the command line win over
// configuration values.
func resolveExportRequest(command *cobra.Command, source string, flags exportFlagValues) (exportRequest, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return exportRequest{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.ConfigPath,
	})
	if configurationError != nil {
		return exportRequest{}, configurationError
	}

	request := exportRequest{
		Source:          source,
		OutputPath:      flags.OutputPath,
		ToStdout:        flags.ToStdout,
		Format:          flags.Format,
		ExcludeFolders:  flags.ExcludeFolders,
		ExcludeFiles:    flags.ExcludeFiles,
		IncludeSummary:  flags.Summary,
		IncludeHidden:   flags.IncludeHidden,
		MaxFileSize:     flags.MaxFileSize,
		TokensEnabled:   flags.TokensEnabled,
		TokenModel:      flags.TokenModel,
		CopyToClipboard: flags.CopyToClipboard,
	}

	exportDefaults := configuration.Export
	if !command.Flags().Changed(formatFlagName) && exportDefaults.Format != "" {
		request.Format = exportDefaults.Format
	}
	if !command.Flags().Changed(summaryFlagName) && exportDefaults.Summary != nil {
		request.IncludeSummary = *exportDefaults.Summary
	}
	if !command.Flags().Changed(includeHiddenFlagName) && exportDefaults.IncludeHidden != nil {
		request.IncludeHidden = *exportDefaults.IncludeHidden
	}
	if !command.Flags().Changed(maxFileSizeFlagName) && exportDefaults.MaxFileSize != nil {
		request.MaxFileSize = *exportDefaults.MaxFileSize
	}
	if !command.Flags().Changed(tokensFlagName) && exportDefaults.Tokens.Enabled != nil {
		request.TokensEnabled = *exportDefaults.Tokens.Enabled
	}
	if !command.Flags().Changed(modelFlagName) && exportDefaults.Tokens.Model != "" {
		request.TokenModel = exportDefaults.Tokens.Model
	}
	if !command.Flags().Changed(copyFlagName) && exportDefaults.Clipboard != nil {
		request.CopyToClipboard = *exportDefaults.Clipboard
	}
	request.ExcludeFolders = append(append([]string{}, exportDefaults.Exclude...), request.ExcludeFolders...)
	request.ExcludeFiles = append(append([]string{}, exportDefaults.ExcludeFiles...), request.ExcludeFiles...)

	return request, nil
}

// runExport validates the request, walks the source, and writes the rendered
// document to its destination.
func runExport(ctx context.Context, request exportRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if request.Stdout == nil {
		request.Stdout = os.Stdout
	}
	if request.Stderr == nil {
		request.Stderr = os.Stderr
	}

	if !isSupportedFormat(request.Format) {
		return fmt.Errorf(invalidFormatMessage, request.Format)
	}
	if request.OutputPath == "" && !request.ToStdout {
		return fmt.Errorf(missingOutputMessage)
	}

	source, sourceError := validateSource(request.Source)
	if sourceError != nil {
		return sourceError
	}

	var tokenCounter tokenizer.Counter
	tokenModel := ""
	if request.TokensEnabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(request.TokenModel)
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	rules := export.NewRuleSet(request.ExcludeFolders, request.ExcludeFiles, request.IncludeHidden)
	modulePath := export.DetectModulePath(source.AbsolutePath)
	builder := output.NewBuilder(source, rules, modulePath, request.IncludeSummary, tokenModel, request.Stderr)

	group, walkCtx := errgroup.WithContext(ctx)
	events := make(chan export.Event)

	group.Go(func() error {
		defer close(events)
		return export.Walk(walkCtx, export.Options{
			Root:         source.AbsolutePath,
			Rules:        rules,
			MaxFileSize:  request.MaxFileSize,
			TokenCounter: tokenCounter,
			TokenModel:   tokenModel,
		}, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-walkCtx.Done():
				return walkCtx.Err()
			case event, open := <-events:
				if !open {
					return nil
				}
				if handleError := builder.Handle(event); handleError != nil {
					return handleError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil {
		return waitError
	}

	document, documentError := builder.Document()
	if documentError != nil {
		return documentError
	}

	rendered, renderError := output.Render(document, request.Format)
	if renderError != nil {
		return renderError
	}

	if request.ToStdout {
		if _, writeError := io.WriteString(request.Stdout, rendered); writeError != nil {
			return writeError
		}
	} else {
		if writeError := output.WriteDocumentFile(request.OutputPath, rendered); writeError != nil {
			return writeError
		}
		fmt.Fprintf(request.Stdout, "Repository export saved to: %s\n", request.OutputPath)
	}

	if request.CopyToClipboard {
		copier := request.Copier
		if copier == nil {
			copier = clipboard.NewService()
		}
		if copyError := copier.Copy(rendered); copyError != nil {
			fmt.Fprintf(request.Stderr, "Warning: unable to copy to clipboard: %v\n", copyError)
		}
	}

	return nil
}

// validateSource resolves the source path and verifies it is an existing
// directory.
func validateSource(source string) (types.ValidatedSource, error) {
	absolutePath, absolutePathError := filepath.Abs(source)
	if absolutePathError != nil {
		return types.ValidatedSource{}, fmt.Errorf(errorAbsolutePathFormat, source, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, statError := os.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedSource{}, fmt.Errorf(errorSourceMissingFormat, source)
		}
		return types.ValidatedSource{}, fmt.Errorf(errorStatFormat, source, statError)
	}
	if !info.IsDir() {
		return types.ValidatedSource{}, fmt.Errorf(errorSourceNotDirFormat, source)
	}
	return types.ValidatedSource{AbsolutePath: cleanPath, Name: filepath.Base(cleanPath)}, nil
}
