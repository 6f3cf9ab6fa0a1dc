package loader

import "github.com/satishbabariya/batchload/pkg/model"

// EmployeeMapping maps model.Employee onto the employees table.
var EmployeeMapping = Mapping[model.Employee]{
	Table:   "employees",
	Key:     "emp_no",
	Columns: []string{"first_name", "last_name", "gender", "hire_date", "birth_date"},
	KeyOf:   func(e model.Employee) any { return e.EmpNo },
	ValuesOf: func(e model.Employee) []any {
		return []any{e.FirstName, e.LastName, e.Gender, e.HireDate, e.BirthDate}
	},
}

// DepartmentMapping maps model.Department onto the departments table.
var DepartmentMapping = Mapping[model.Department]{
	Table:   "departments",
	Key:     "dept_no",
	Columns: []string{"dept_name"},
	KeyOf:   func(d model.Department) any { return d.DeptNo },
	ValuesOf: func(d model.Department) []any {
		return []any{d.DeptName}
	},
}
