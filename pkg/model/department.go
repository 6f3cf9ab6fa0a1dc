package model

// Department is one row of the departments table.
// DeptNo is a fixed four character code (CHAR(4)); DeptName holds at most
// MaxDeptNameLen characters.
type Department struct {
	DeptNo   string `db:"dept_no" xml:"code,attr"`
	DeptName string `db:"dept_name" xml:",chardata"`
}

const (
	// DeptNoLen is the width of the dept_no column.
	DeptNoLen = 4
	// MaxDeptNameLen is the width of the dept_name column.
	MaxDeptNameLen = 40
)

// EmployeeDepartment pairs an employee with the department they work in.
type EmployeeDepartment struct {
	FirstName  string `xml:"nombre,attr"`
	LastName   string `xml:"apellidos,attr"`
	Department string `xml:"departamento,attr"`
}

// FullName returns the employee's first and last name.
func (ed EmployeeDepartment) FullName() string {
	return fullName(ed.FirstName, ed.LastName)
}

// Manager describes a department manager.
type Manager struct {
	FirstName  string `xml:"nombreCompleto>nombre"`
	LastName   string `xml:"nombreCompleto>apellido"`
	Department string `xml:"department"`
	DeptNo     string `xml:"-"`
}

// FullName returns the manager's first and last name.
func (m Manager) FullName() string {
	return fullName(m.FirstName, m.LastName)
}
