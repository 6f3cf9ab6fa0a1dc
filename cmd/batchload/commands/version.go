package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/batchload/internal/ui"
	"github.com/satishbabariya/batchload/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skips config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			ui.KeyValue(
				"Version", info.Version,
				"Build Date", info.BuildDate,
				"Git Commit", info.GitCommit,
				"Go", info.GoVersion,
				"Platform", info.Platform,
			)
		},
	}
}
