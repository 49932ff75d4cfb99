package attendance

import "errors"

// ErrEmployeeNotFound indicates no employee matches the requested identifier.
var ErrEmployeeNotFound = errors.New("employee not found")
