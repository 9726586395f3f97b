//go:build !windows

package platform

// EnableLongPaths is a no-op outside Windows; there is no path length
// policy to change. The returned bool reports whether the setting
// applies on this OS.
func EnableLongPaths() (bool, error) {
	return false, nil
}
