// Package model defines the records loaded into the employees schema.
package model

import "time"

// DateLayout is the layout used for date columns in CSV sources.
const DateLayout = "2006-01-02"

// Employee is one row of the employees table, keyed by EmpNo.
type Employee struct {
	EmpNo     int       `db:"emp_no" xml:"id,attr"`
	FirstName string    `db:"first_name" xml:"nombre"`
	LastName  string    `db:"last_name" xml:"apellidos"`
	Gender    string    `db:"gender" xml:"gender,omitempty"`
	HireDate  time.Time `db:"hire_date" xml:"-"`
	BirthDate time.Time `db:"birth_date" xml:"-"`
}

// FullName returns the first and last name separated by a space.
func (e Employee) FullName() string {
	return fullName(e.FirstName, e.LastName)
}

func fullName(first, last string) string {
	switch {
	case last == "":
		return first
	case first == "":
		return last
	}
	return first + " " + last
}
