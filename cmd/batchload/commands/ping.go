package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/ui"
)

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer disconnect(adapter, a.log)

			raw, err := adapter.ServerVersion(ctx)
			if err != nil {
				return err
			}
			dialect := adapter.GetDialect()
			v, ok, err := database.CheckServerVersion(dialect, raw)
			if err != nil {
				return err
			}

			ui.KeyValue("Provider", string(dialect), "Server", raw, "Parsed", v.Original(), "Minimum", database.MinimumVersion(dialect))
			if !ok {
				ui.PrintWarning("%s %s is older than the supported minimum %s", dialect, v.Original(), database.MinimumVersion(dialect))
				return nil
			}
			ui.PrintSuccess("Connected")
			return nil
		},
	}
}
