package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/batchload/internal/core/report"
	"github.com/satishbabariya/batchload/internal/ui"
	"github.com/satishbabariya/batchload/pkg/model"
)

const (
	formatTable = "table"
	formatXML   = "xml"
)

func newReportCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Query loaded data",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatXML {
				return fmt.Errorf("--format must be %q or %q, got %q", formatTable, formatXML, format)
			}
			return cmd.Root().PersistentPreRunE(cmd, args)
		},
	}
	cmd.PersistentFlags().StringVarP(&format, "format", "o", formatTable, "output format: table or xml")

	// withReporter connects, runs fn and renders its result.
	withReporter := func(fn func(ctx context.Context, r *report.Reporter) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer disconnect(adapter, a.log)

			v, err := fn(ctx, report.New(adapter, adapter.GetDialect()))
			if err != nil {
				return err
			}
			if format == formatXML {
				return report.WriteXML(ui.Out, v)
			}
			return printReport(v)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "employees",
		Short: "List every employee",
		Args:  cobra.NoArgs,
		RunE: withReporter(func(ctx context.Context, r *report.Reporter) (any, error) {
			return r.Employees(ctx)
		}),
	})

	var like string
	departments := &cobra.Command{
		Use:   "departments",
		Short: "List departments, optionally filtered by a LIKE pattern",
		Args:  cobra.NoArgs,
		RunE: withReporter(func(ctx context.Context, r *report.Reporter) (any, error) {
			return r.DepartmentsLike(ctx, like)
		}),
	}
	departments.Flags().StringVar(&like, "like", "%", "SQL LIKE pattern on dept_name, e.g. 'S%'")
	cmd.AddCommand(departments)

	cmd.AddCommand(&cobra.Command{
		Use:   "assignments",
		Short: "List employees with their current department",
		Args:  cobra.NoArgs,
		RunE: withReporter(func(ctx context.Context, r *report.Reporter) (any, error) {
			return r.EmployeeDepartments(ctx)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "managers",
		Short: "List department managers",
		Args:  cobra.NoArgs,
		RunE: withReporter(func(ctx context.Context, r *report.Reporter) (any, error) {
			return r.Managers(ctx)
		}),
	})

	var table, column string
	lastID := &cobra.Command{
		Use:   "last-id",
		Short: "Print the highest value of a numeric key, the base for the next insert",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer disconnect(adapter, a.log)

			id, err := report.New(adapter, adapter.GetDialect()).LastID(ctx, table, column)
			if err != nil {
				return err
			}
			ui.KeyValue("Last "+column, strconv.FormatInt(id, 10), "Next "+column, strconv.FormatInt(id+1, 10))
			return nil
		},
	}
	lastID.Flags().StringVar(&table, "table", "employees", "table to inspect")
	lastID.Flags().StringVar(&column, "column", "emp_no", "numeric key column of --table")
	cmd.AddCommand(lastID)

	return cmd
}

func printReport(v any) error {
	switch rows := v.(type) {
	case []model.Employee:
		data := make([][]string, 0, len(rows))
		for _, e := range rows {
			data = append(data, []string{
				strconv.Itoa(e.EmpNo), e.FullName(), e.Gender,
				e.HireDate.Format(model.DateLayout), e.BirthDate.Format(model.DateLayout),
			})
		}
		return ui.PrintTable([]string{"Emp No", "Name", "Gender", "Hired", "Born"}, data)

	case []model.Department:
		data := make([][]string, 0, len(rows))
		for _, d := range rows {
			data = append(data, []string{d.DeptNo, d.DeptName})
		}
		return ui.PrintTable([]string{"Code", "Name"}, data)

	case []model.EmployeeDepartment:
		data := make([][]string, 0, len(rows))
		for _, ed := range rows {
			data = append(data, []string{ed.FullName(), ui.Truncate(ed.Department, 30)})
		}
		return ui.PrintTable([]string{"Employee", "Department"}, data)

	case []model.Manager:
		data := make([][]string, 0, len(rows))
		for _, m := range rows {
			data = append(data, []string{m.DeptNo, ui.Truncate(m.Department, 30), m.FullName()})
		}
		return ui.PrintTable([]string{"Code", "Department", "Manager"}, data)

	default:
		return fmt.Errorf("no table layout for %T", v)
	}
}
