// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repo2ai/internal/types"
	"repo2ai/internal/utils"
)

const (
	outputFlagName        = "output"
	outputFlagShorthand   = "o"
	stdoutFlagName        = "stdout"
	excludeFlagName       = "exclude"
	excludeFilesFlagName  = "exclude-files"
	formatFlagName        = "format"
	summaryFlagName       = "summary"
	includeHiddenFlagName = "include-hidden"
	maxFileSizeFlagName   = "max-file-size"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	copyFlagName          = "copy"
	onlyFlagName          = "only"
	debounceFlagName      = "debounce"
	globalFlagName        = "global"
	forceFlagName         = "force"
	configFlagName        = "config"
	versionFlagName       = "version"
	versionTemplate       = "repo2ai version: %s\n"

	rootUse              = "repo2ai"
	rootShortDescription = "repo2ai command line interface"
	rootLongDescription  = `repo2ai exports a local directory tree into a single XML document for LLM consumption.
It supports directory and file exclusion lists, language tagging, batch manifests,
and re-exporting on filesystem changes.`

	exportUse              = "export <source>"
	exportAlias            = "e"
	exportShortDescription = "export a directory to an XML document (" + exportAlias + ")"
	exportLongDescription  = `Export the structure and file contents of a directory.
Use --exclude and --exclude-files to skip paths, --format to select xml or json output.`
	exportUsageExample = `  # Export a project, skipping generated directories
  repo2ai export ~/projects/webapp -o webapp.xml --exclude utils --exclude components/ui

  # Skip individual files
  repo2ai export . -o out.xml --exclude-files docs/book.epub --exclude-files docs/notes.md`

	batchUse              = "batch [manifest]"
	batchAlias            = "b"
	batchShortDescription = "run export jobs from a manifest (" + batchAlias + ")"
	batchLongDescription  = `Run a sequence of export jobs defined in a YAML manifest.
Jobs marked disabled are skipped. A failing job does not stop the remaining jobs.`

	watchUse              = "watch <source>"
	watchAlias            = "w"
	watchShortDescription = "re-export a directory on change (" + watchAlias + ")"
	watchLongDescription  = `Export a directory, then watch it and re-export after changes settle.`

	initUse              = "init"
	initShortDescription = "write a default configuration file"

	versionFlagDescription       = "display application version"
	outputFlagDescription        = "output file path"
	stdoutFlagDescription        = "write the document to standard output"
	excludeFlagDescription       = "directory path pattern to exclude"
	excludeFilesFlagDescription  = "file path pattern to exclude"
	formatFlagDescription        = "output format"
	summaryFlagDescription       = "include a summary element"
	includeHiddenFlagDescription = "include hidden (dot-prefixed) entries"
	maxFileSizeFlagDescription   = "content inlining cap in bytes"
	tokensFlagDescription        = "include token counts"
	modelFlagDescription         = "tokenizer model to use for token counting"
	copyFlagDescription          = "copy the rendered document to the clipboard"
	onlyFlagDescription          = "run only the named job"
	debounceFlagDescription      = "quiet period before re-exporting"
	globalFlagDescription        = "write the global configuration file"
	forceFlagDescription         = "overwrite an existing configuration file"
	configFlagDescription        = "explicit configuration file path"

	invalidFormatMessage        = "invalid format value '%s'"
	missingOutputMessage        = "either --output or --stdout is required"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorSourceMissingFormat    = "source path '%s' does not exist"
	errorSourceNotDirFormat     = "source path '%s' is not a directory"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorStatFormat             = "stat failed for '%s': %w"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatXML, types.FormatJSON:
		return true
	default:
		return false
	}
}

// Execute runs the repo2ai application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createExportCommand(),
		createBatchCommand(),
		createWatchCommand(),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}
