package employee

import "errors"

var (
	// ErrInvalidInput indicates a missing name or password.
	ErrInvalidInput = errors.New("invalid employee input")
	// ErrDuplicate indicates the name, email or employee id is taken.
	ErrDuplicate = errors.New("employee already exists")
	// ErrNotFound indicates the employee doesn't exist.
	ErrNotFound = errors.New("employee not found")
	// ErrInvalidCredentials indicates an unknown name or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
