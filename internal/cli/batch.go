package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repo2ai/internal/config"
	"repo2ai/internal/export"
	"repo2ai/internal/tokenizer"
	"repo2ai/internal/types"
)

const (
	batchJobFailedFormat   = "job %s failed: %v\n"
	batchJobSkippedFormat  = "Skipping disabled job: %s\n"
	batchJobRunningFormat  = "Running job: %s\n"
	batchFailureExitFormat = "%d of %d jobs failed"
	batchUnknownJobFormat  = "no job named '%s' in manifest"
)

// createBatchCommand returns the batch subcommand.
func createBatchCommand() *cobra.Command {
	var onlyJobName string

	batchCommand := &cobra.Command{
		Use:     batchUse,
		Aliases: []string{batchAlias},
		Short:   batchShortDescription,
		Long:    batchLongDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			manifestPath := config.DefaultManifestFileName
			if len(arguments) == 1 {
				manifestPath = arguments[0]
			}
			return runBatch(command, manifestPath, onlyJobName)
		},
	}

	batchCommand.Flags().StringVar(&onlyJobName, onlyFlagName, "", onlyFlagDescription)
	return batchCommand
}

// runBatch executes every enabled job in the manifest sequentially. A failing
// job is reported and the remaining jobs still run; the command fails if any
// job failed.
func runBatch(command *cobra.Command, manifestPath string, onlyJobName string) error {
	manifest, manifestError := config.LoadManifest(manifestPath)
	if manifestError != nil {
		return manifestError
	}

	jobs := manifest.Jobs
	if onlyJobName != "" {
		job, found := manifest.FindJob(onlyJobName)
		if !found {
			return fmt.Errorf(batchUnknownJobFormat, onlyJobName)
		}
		jobs = []config.ManifestJob{job}
	}

	totalJobs := 0
	failedJobs := 0
	for _, job := range jobs {
		if job.Disabled {
			fmt.Fprintf(os.Stderr, batchJobSkippedFormat, job.Name)
			continue
		}
		totalJobs++
		fmt.Fprintf(os.Stdout, batchJobRunningFormat, job.Name)
		if jobError := runExport(command.Context(), jobRequest(job)); jobError != nil {
			failedJobs++
			fmt.Fprintf(os.Stderr, batchJobFailedFormat, job.Name, jobError)
		}
	}

	if failedJobs > 0 {
		return fmt.Errorf(batchFailureExitFormat, failedJobs, totalJobs)
	}
	return nil
}

// jobRequest converts a manifest job into an export request.
func jobRequest(job config.ManifestJob) exportRequest {
	format := job.Format
	if format == "" {
		format = types.FormatXML
	}
	return exportRequest{
		Source:         job.Source,
		OutputPath:     filepath.Clean(job.Output),
		Format:         format,
		ExcludeFolders: job.Exclude,
		ExcludeFiles:   job.ExcludeFiles,
		IncludeSummary: true,
		MaxFileSize:    export.DefaultMaxFileSize,
		TokenModel:     tokenizer.DefaultModel,
	}
}
