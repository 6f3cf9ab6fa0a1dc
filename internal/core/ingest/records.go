package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/satishbabariya/batchload/pkg/model"
)

// Employees reads emp_no,first_name,last_name,gender,hire_date,birth_date
// with a header line.
var Employees = Source[model.Employee]{
	Decode:     DecodeEmployee,
	Fields:     6,
	SkipHeader: true,
}

// Departments reads dept_no,dept_name with a header line.
var Departments = Source[model.Department]{
	Decode:     DecodeDepartment,
	Fields:     2,
	SkipHeader: true,
}

// DecodeEmployee converts one employees row.
func DecodeEmployee(f []string) (model.Employee, error) {
	var e model.Employee
	if len(f) < 6 {
		return e, fieldError("row", strings.Join(f, ","), fmt.Errorf("expected 6 fields, got %d", len(f)))
	}

	empNo, err := strconv.Atoi(strings.TrimSpace(f[0]))
	if err != nil {
		return e, fieldError("emp_no", f[0], err)
	}
	hire, err := parseDate("hire_date", f[4])
	if err != nil {
		return e, err
	}
	birth, err := parseDate("birth_date", f[5])
	if err != nil {
		return e, err
	}

	e = model.Employee{
		EmpNo:     empNo,
		FirstName: strings.TrimSpace(f[1]),
		LastName:  strings.TrimSpace(f[2]),
		Gender:    strings.ToUpper(strings.TrimSpace(f[3])),
		HireDate:  hire,
		BirthDate: birth,
	}
	return e, nil
}

// DecodeDepartment converts one departments row.
func DecodeDepartment(f []string) (model.Department, error) {
	if len(f) < 2 {
		return model.Department{}, fieldError("row", strings.Join(f, ","), fmt.Errorf("expected 2 fields, got %d", len(f)))
	}
	no := strings.TrimSpace(f[0])
	if utf8.RuneCountInString(no) != model.DeptNoLen {
		return model.Department{}, fieldError("dept_no", f[0], fmt.Errorf("must be %d characters", model.DeptNoLen))
	}

	deptName := strings.TrimSpace(f[1])
	switch n := utf8.RuneCountInString(deptName); {
	case n == 0:
		return model.Department{}, fieldError("dept_name", f[1], errors.New("must not be empty"))
	case n > model.MaxDeptNameLen:
		return model.Department{}, fieldError("dept_name", f[1], fmt.Errorf("longer than %d characters", model.MaxDeptNameLen))
	}

	return model.Department{DeptNo: no, DeptName: deptName}, nil
}

func parseDate(column, value string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fieldError(column, value, err)
	}
	return t, nil
}
