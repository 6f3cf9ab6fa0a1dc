package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/batchload/internal/core/schema"
	"github.com/satishbabariya/batchload/internal/ui"
)

func newSchemaCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create or reset the employees schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer disconnect(adapter, a.log)

			if err := schema.Init(ctx, adapter, adapter.GetDialect()); err != nil {
				return err
			}
			ui.PrintSuccess("Schema ready (%d tables)", len(schema.Tables))
			return nil
		},
	})

	var force bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every table (destroys data)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				ok := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Drop and recreate %d tables? All data will be lost.", len(schema.Tables)),
				}
				if err := survey.AskOne(prompt, &ok); err != nil {
					return fmt.Errorf("confirmation: %w (use --force in non-interactive shells)", err)
				}
				if !ok {
					ui.PrintWarning("Reset cancelled")
					return nil
				}
			}

			ctx := cmd.Context()
			adapter, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer disconnect(adapter, a.log)

			if err := schema.Reset(ctx, adapter, adapter.GetDialect()); err != nil {
				return err
			}
			ui.PrintSuccess("Schema reset")
			return nil
		},
	}
	reset.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	cmd.AddCommand(reset)

	return cmd
}
