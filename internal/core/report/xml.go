package report

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/satishbabariya/batchload/pkg/model"
)

type departmentsXML struct {
	XMLName     xml.Name           `xml:"departments"`
	Departments []model.Department `xml:"department"`
}

type employeesXML struct {
	XMLName   xml.Name                   `xml:"empleados"`
	Employees []model.EmployeeDepartment `xml:"empleado"`
}

type managersXML struct {
	XMLName  xml.Name        `xml:"managers"`
	Managers []model.Manager `xml:"manager"`
}

type employeeListXML struct {
	XMLName   xml.Name         `xml:"employees"`
	Employees []model.Employee `xml:"employee"`
}

// WriteXML renders a report result as an indented XML document. Supported
// values are the slices returned by Reporter.
func WriteXML(w io.Writer, v any) error {
	var doc any
	switch rows := v.(type) {
	case []model.Department:
		doc = departmentsXML{Departments: rows}
	case []model.EmployeeDepartment:
		doc = employeesXML{Employees: rows}
	case []model.Manager:
		doc = managersXML{Managers: rows}
	case []model.Employee:
		doc = employeeListXML{Employees: rows}
	default:
		return fmt.Errorf("no xml layout for %T", v)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
