package shell

import "fmt"

// DetectionResult contains the result of shell detection.
type DetectionResult struct {
	// Dialect is the detected dialect
	Dialect Dialect
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path or process name the detection
	// was based on
	ShellPath string
	// Confidence is the confidence level (high, medium, low)
	Confidence string
}

// UnsupportedShellError reports a shell name that whelk cannot emit
// code for, or a failed detection when Shell is empty.
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	if e.Shell == "" {
		return fmt.Sprintf("could not detect the current shell, pass --shell explicitly (supported: %s)", supportedList())
	}
	return fmt.Sprintf("unsupported shell: %s (supported: %s)", e.Shell, supportedList())
}
