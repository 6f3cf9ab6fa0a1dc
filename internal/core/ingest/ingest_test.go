package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/satishbabariya/batchload/internal/adapters/database"
	"github.com/satishbabariya/batchload/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesCSV = `emp_no,first_name,last_name,gender,hire_date,birth_date
10001,Georgi,Facello,M,1986-06-26,1953-09-02
10002, Bezalel,Simmel,f,1985-11-21,1964-06-02
`

func TestReadEmployees(t *testing.T) {
	got, err := Employees.ReadAll(strings.NewReader(employeesCSV))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.Employee{
		EmpNo:     10001,
		FirstName: "Georgi",
		LastName:  "Facello",
		Gender:    "M",
		HireDate:  time.Date(1986, 6, 26, 0, 0, 0, 0, time.UTC),
		BirthDate: time.Date(1953, 9, 2, 0, 0, 0, 0, time.UTC),
	}, got[0])
	assert.Equal(t, "Bezalel", got[1].FirstName)
	assert.Equal(t, "F", got[1].Gender)
}

func TestReadDepartments(t *testing.T) {
	got, err := Departments.ReadAll(strings.NewReader("dept_no,dept_name\nd001,Marketing\nd002,Finance\n"))
	require.NoError(t, err)
	assert.Equal(t, []model.Department{
		{DeptNo: "d001", DeptName: "Marketing"},
		{DeptNo: "d002", DeptName: "Finance"},
	}, got)
}

func TestHeaderOnly(t *testing.T) {
	got, err := Departments.ReadAll(strings.NewReader("dept_no,dept_name\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column string
	}{
		{
			name:   "bad emp_no",
			input:  "h,h,h,h,h,h\n10001,A,B,M,1986-06-26,1953-09-02\nx1,A,B,M,1986-06-26,1953-09-02\n",
			line:   3,
			column: "emp_no",
		},
		{
			name:   "bad hire_date",
			input:  "h,h,h,h,h,h\n10001,A,B,M,26/06/1986,1953-09-02\n",
			line:   2,
			column: "hire_date",
		},
		{
			name:   "wrong field count",
			input:  "h,h,h,h,h,h\n10001,A,B\n",
			line:   2,
			column: "row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Employees.ReadAll(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, database.IsParse(err))

			var pErr *ParseError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, tt.line, pErr.Line)
			assert.Equal(t, tt.column, pErr.Column)
		})
	}
}

func TestDepartmentValidation(t *testing.T) {
	_, err := DecodeDepartment([]string{"d01", "Short code"})
	assert.ErrorIs(t, err, database.ErrParse)

	_, err = DecodeDepartment([]string{"d001", strings.Repeat("x", model.MaxDeptNameLen+1)})
	assert.ErrorIs(t, err, database.ErrParse)

	_, err = DecodeDepartment([]string{"d001", "  "})
	assert.ErrorIs(t, err, database.ErrParse)
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "unirEmployees.csv", []byte(employeesCSV), 0o644))

	got, err := Employees.ReadFile(fs, "unirEmployees.csv")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Employees.ReadFile(fs, "missing.csv")
	assert.Error(t, err)
	assert.False(t, database.IsParse(err))
}

func TestCustomSeparator(t *testing.T) {
	src := Departments
	src.Comma = ';'
	got, err := src.ReadAll(strings.NewReader("dept_no;dept_name\nd009;Customer Service\n"))
	require.NoError(t, err)
	assert.Equal(t, "Customer Service", got[0].DeptName)
}
