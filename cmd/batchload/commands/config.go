package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/batchload/internal/config"
	"github.com/satishbabariya/batchload/internal/ui"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage persistent settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Save the effective provider, database URL and load settings to $HOME/.config/batchload",
		Long: `Save writes the settings resolved from flags, environment and any
existing config file, so later runs can omit --provider and --database-url.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			path, err := config.Save(a.cfg)
			if err != nil {
				return err
			}
			ui.PrintSuccess("Saved %s", path)
			return nil
		},
	})

	return cmd
}
