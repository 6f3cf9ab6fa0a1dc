// Package report runs the read-only queries over the employees schema.
package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/internal/core/sqlgen"
	"github.com/satishbabariya/batchload/pkg/model"
)

// Reporter runs report queries against a Queryer.
type Reporter struct {
	q   database.Queryer
	gen *sqlgen.Generator
}

// New creates a Reporter.
func New(q database.Queryer, dialect database.SQLDialect) *Reporter {
	return &Reporter{q: q, gen: sqlgen.NewGenerator(dialect)}
}

// Employees lists every employee. The statement carries no parameters.
func (r *Reporter) Employees(ctx context.Context) ([]model.Employee, error) {
	query := r.gen.Select("employees",
		[]string{"emp_no", "first_name", "last_name", "gender", "hire_date", "birth_date"}, "emp_no")

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, database.NewQueryError("select", "employees", query, err)
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.EmpNo, &e.FirstName, &e.LastName, &e.Gender, &e.HireDate, &e.BirthDate); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DepartmentsLike lists departments whose name matches a LIKE pattern. The
// pattern is bound as a parameter.
func (r *Reporter) DepartmentsLike(ctx context.Context, pattern string) ([]model.Department, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s LIKE %s ORDER BY %s",
		r.gen.Quote("dept_no"), r.gen.Quote("dept_name"), r.gen.Quote("departments"),
		r.gen.Quote("dept_name"), r.gen.Placeholder(1), r.gen.Quote("dept_no"))

	rows, err := r.q.Query(ctx, query, pattern)
	if err != nil {
		return nil, database.NewQueryError("select", "departments", query, err)
	}
	defer rows.Close()

	var out []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.DeptNo, &d.DeptName); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// EmployeeDepartments pairs each employee with the departments they are
// assigned to.
func (r *Reporter) EmployeeDepartments(ctx context.Context) ([]model.EmployeeDepartment, error) {
	q := r.gen.Quote
	query := fmt.Sprintf(`SELECT e.%s, e.%s, d.%s
FROM %s e
JOIN %s de ON e.%s = de.%s
JOIN %s d ON de.%s = d.%s
ORDER BY e.%s, d.%s`,
		q("first_name"), q("last_name"), q("dept_name"),
		q("employees"),
		q("dept_emp"), q("emp_no"), q("emp_no"),
		q("departments"), q("dept_no"), q("dept_no"),
		q("emp_no"), q("dept_no"))

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, database.NewQueryError("select", "dept_emp", query, err)
	}
	defer rows.Close()

	var out []model.EmployeeDepartment
	for rows.Next() {
		var ed model.EmployeeDepartment
		if err := rows.Scan(&ed.FirstName, &ed.LastName, &ed.Department); err != nil {
			return nil, fmt.Errorf("scan employee department: %w", err)
		}
		out = append(out, ed)
	}
	return out, rows.Err()
}

// Managers lists department managers with their department.
func (r *Reporter) Managers(ctx context.Context) ([]model.Manager, error) {
	q := r.gen.Quote
	query := fmt.Sprintf(`SELECT e.%s, e.%s, d.%s, d.%s
FROM %s dm
JOIN %s e ON dm.%s = e.%s
JOIN %s d ON dm.%s = d.%s
ORDER BY d.%s, dm.%s`,
		q("first_name"), q("last_name"), q("dept_no"), q("dept_name"),
		q("dept_manager"),
		q("employees"), q("emp_no"), q("emp_no"),
		q("departments"), q("dept_no"), q("dept_no"),
		q("dept_no"), q("from_date"))

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, database.NewQueryError("select", "dept_manager", query, err)
	}
	defer rows.Close()

	var out []model.Manager
	for rows.Next() {
		var m model.Manager
		if err := rows.Scan(&m.FirstName, &m.LastName, &m.DeptNo, &m.Department); err != nil {
			return nil, fmt.Errorf("scan manager: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LastID returns the largest value of column in table, or 0 when the
// table is empty. Useful for picking the next key to insert.
func (r *Reporter) LastID(ctx context.Context, table, column string) (int64, error) {
	query := r.gen.Max(table, column)

	var id sql.NullInt64
	if err := r.q.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, database.NewQueryError("max", table, query, err)
	}
	return id.Int64, nil
}
