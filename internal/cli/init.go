package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repo2ai/internal/config"
)

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var writeGlobal bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Fprintf(os.Stdout, "Configuration written to: %s\n", writtenPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}
