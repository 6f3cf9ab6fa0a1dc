package commands

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/batchload/internal/config"
	"github.com/satishbabariya/batchload/internal/core/ingest"
	"github.com/satishbabariya/batchload/internal/core/loader"
	"github.com/satishbabariya/batchload/internal/ui"
	"github.com/satishbabariya/batchload/internal/watch"
)

type loadFlags struct {
	file      string
	batchSize int
	bulkCheck bool
	watch     bool
	delimiter string
}

func newLoadCommand(a *app) *cobra.Command {
	var f loadFlags

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Upsert records from a CSV file",
		Long: `Load reads a CSV file with a header line and upserts every row into
its table: keys that already exist are updated, new keys are inserted.
Statements are flushed every --batch-size records and the whole file is
committed as one transaction, so a failing row leaves the table unchanged.`,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.file, "file", "f", "", "CSV file to load (required)")
	flags.IntVarP(&f.batchSize, "batch-size", "b", 0, "records per flush (default from config, 5)")
	flags.BoolVar(&f.bulkCheck, "bulk-check", false, "prefetch existing keys instead of one COUNT per record")
	flags.BoolVarP(&f.watch, "watch", "w", false, "reload whenever the file changes")
	flags.StringVar(&f.delimiter, "delimiter", ",", "field separator")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(&cobra.Command{
		Use:   "employees",
		Short: "Load emp_no,first_name,last_name,gender,hire_date,birth_date rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadCommand(cmd.Context(), a, f, ingest.Employees, loader.EmployeeMapping)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "departments",
		Short: "Load dept_no,dept_name rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadCommand(cmd.Context(), a, f, ingest.Departments, loader.DepartmentMapping)
		},
	})

	return cmd
}

// loaderOptions merges flags over the configuration.
func (a *app) loaderOptions(f loadFlags) ([]loader.Option, error) {
	batchSize := a.cfg.BatchSize
	if f.batchSize != 0 {
		batchSize = f.batchSize
	}

	mode, err := loader.ParseExistenceMode(a.cfg.Existence)
	if err != nil {
		return nil, err
	}
	if f.bulkCheck {
		mode = loader.ExistenceBulk
	}

	return []loader.Option{
		loader.WithBatchSize(batchSize),
		loader.WithExistence(mode),
		loader.WithKeyChunk(a.cfg.KeyChunk),
		loader.WithLogger(a.log),
	}, nil
}

func runLoadCommand[R any](ctx context.Context, a *app, f loadFlags, src ingest.Source[R], mapping loader.Mapping[R]) error {
	if utf8.RuneCountInString(f.delimiter) != 1 {
		return fmt.Errorf("--delimiter must be a single character, got %q", f.delimiter)
	}
	src.Comma, _ = utf8.DecodeRuneInString(f.delimiter)

	opts, err := a.loaderOptions(f)
	if err != nil {
		return err
	}
	l, err := loader.New(mapping, opts...)
	if err != nil {
		return err
	}

	adapter, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer disconnect(adapter, a.log)

	once := func(ctx context.Context) error {
		records, err := src.ReadFile(config.AppFs, f.file)
		if err != nil {
			return err
		}

		spinner := ui.StartSpinner(fmt.Sprintf("Loading %d records into %s", len(records), mapping.Table))
		res, err := l.LoadWith(ctx, adapter, records)
		if err != nil {
			spinner.Fail("Load failed, no changes were committed")
			return err
		}
		spinner.Success(fmt.Sprintf("Loaded %s", f.file))

		ui.PrintSummary(mapping.Table, []ui.Stat{
			{Label: "Records", Value: res.Records},
			{Label: "Inserted", Value: res.Inserted},
			{Label: "Updated", Value: res.Updated},
			{Label: "Flushes", Value: res.Flushes},
			{Label: "Duration", Value: res.Duration},
		})
		return nil
	}

	if !f.watch {
		return once(ctx)
	}

	w, err := watch.New(f.file, once, watch.DefaultDebounce, a.log)
	if err != nil {
		return err
	}
	ui.PrintInfo("Watching %s, press Ctrl+C to stop", f.file)
	return w.Run(ctx)
}
