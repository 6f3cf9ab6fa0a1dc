// Package commands implements the batchload CLI commands.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/adapters/database/factory"
	"github.com/satishbabariya/batchload/internal/config"
	"github.com/satishbabariya/batchload/internal/logging"
	"github.com/satishbabariya/batchload/internal/version"
)

// app carries state shared by every command once the root's pre-run has
// loaded the configuration.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

// NewRootCommand creates the batchload command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:           "batchload",
		Short:         "Batch upsert CSV data into the employees schema",
		Long:          "batchload loads employees and departments from CSV files into MySQL, PostgreSQL or SQLite, inserting new keys and updating existing ones in a single transaction.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default .batchload.yaml in ., $HOME or $HOME/.config/batchload)")
	flags.String("provider", "", "database provider: mysql, postgres or sqlite")
	flags.String("database-url", "", "database connection string")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	_ = a.v.BindPFlag("provider", flags.Lookup("provider"))
	_ = a.v.BindPFlag("database_url", flags.Lookup("database-url"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	cmd.AddCommand(newLoadCommand(a))
	cmd.AddCommand(newSchemaCommand(a))
	cmd.AddCommand(newReportCommand(a))
	cmd.AddCommand(newPingCommand(a))
	cmd.AddCommand(newConfigCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	if cfg.Provider == "" {
		cfg.Provider = factory.DetectProvider(cfg.DatabaseURL)
	}

	a.cfg = cfg
	a.log = logging.Init(logging.Options{Verbose: cfg.Verbose, Output: cmd.ErrOrStderr()})
	return nil
}

// connect validates the configuration and opens a connected adapter. The
// caller disconnects it.
func (a *app) connect(ctx context.Context) (database.Adapter, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	adapter, err := factory.NewAdapter(database.Config{
		Provider:       a.cfg.Provider,
		URL:            a.cfg.DatabaseURL,
		MaxConnections: a.cfg.MaxConnections,
		ConnectTimeout: a.cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, err
	}

	a.log.Debug("connected", "provider", a.cfg.Provider)
	return adapter, nil
}

func disconnect(adapter database.Adapter, log *slog.Logger) {
	if err := adapter.Disconnect(context.Background()); err != nil {
		log.Warn("disconnect failed", "error", err)
	}
}
