package platform

import "fmt"

// PrivilegeError indicates an operation failed because the process lacks
// the rights to perform it, such as writing a machine-wide registry value
// without elevation.
type PrivilegeError struct {
	Op    string // what was attempted
	Cause error  // underlying error
}

// Error implements the error interface.
func (e *PrivilegeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("insufficient privileges to %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("insufficient privileges to %s", e.Op)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PrivilegeError) Unwrap() error {
	return e.Cause
}
