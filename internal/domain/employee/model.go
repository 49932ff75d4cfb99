package employee

import (
	"fmt"
	"time"
)

// Employee is a row of the user table.
type Employee struct {
	ID           string    `json:"employeeId,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Position     string    `json:"position,omitempty"`
	Role         string    `json:"role,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest describes a new employee.
type RegisterRequest struct {
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	Position   string `json:"position,omitempty"`
	Role       string `json:"role,omitempty"`
}

// EffectiveID returns the employee's identifier, or the synthetic one for
// zero-based list position i.
func EffectiveID(emp Employee, i int) string {
	if emp.ID != "" {
		return emp.ID
	}
	return SyntheticID(i + 1)
}

// SyntheticID renders a 1-based position as EMP001, EMP002, ...
func SyntheticID(position int) string {
	return fmt.Sprintf("EMP%03d", position)
}
