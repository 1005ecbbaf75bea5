package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

type Customer struct {
	CustomerID int64
	Name       string
	Phone      string
}

func (c Customer) Validate() error {
	if c.CustomerID <= 0 {
		return Invalid("customer id must be positive")
	}
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("customer name is required")
	}
	if !phonePattern.MatchString(c.Phone) {
		return Invalid("phone number must be 10 to 15 digits")
	}
	return nil
}

type Supplier struct {
	SupplierID int64
	Name       string
	ContactNo  string
	Address    string
}

func (s Supplier) Validate() error {
	if s.SupplierID <= 0 {
		return Invalid("supplier id must be positive")
	}
	if strings.TrimSpace(s.Name) == "" {
		return Invalid("supplier name is required")
	}
	if s.ContactNo != "" && !phonePattern.MatchString(s.ContactNo) {
		return Invalid("contact number must be 10 to 15 digits")
	}
	return nil
}

type Employee struct {
	EmployeeID int64
	Name       string
	Salary     decimal.Decimal
	Contact    string
}

func (e Employee) Validate() error {
	if e.EmployeeID <= 0 {
		return Invalid("employee id must be positive")
	}
	if strings.TrimSpace(e.Name) == "" {
		return Invalid("employee name is required")
	}
	if e.Salary.IsNegative() {
		return Invalid("salary must not be negative")
	}
	if !phonePattern.MatchString(e.Contact) {
		return Invalid("contact number must be 10 to 15 digits")
	}
	return nil
}

// EmployeeRole is keyed by the (employee, role) pair; an employee may hold several roles.
type EmployeeRole struct {
	EmployeeID int64
	Role       string
}

func (r EmployeeRole) Validate() error {
	if r.EmployeeID <= 0 {
		return Invalid("employee id must be positive")
	}
	if strings.TrimSpace(r.Role) == "" {
		return Invalid("role is required")
	}
	if len(r.Role) > 100 {
		return Invalid("role must be at most 100 characters")
	}
	return nil
}
