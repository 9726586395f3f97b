//go:build windows

package platform

import (
	"golang.org/x/sys/windows/registry"
)

// longPathsKey holds the filesystem policy values, including the switch
// for the legacy 260 character path limit.
const longPathsKey = `SYSTEM\CurrentControlSet\Control\FileSystem`

// EnableLongPaths sets the registry value that lifts the legacy 260
// character path limit for manifest-declared applications. Writing to
// HKEY_LOCAL_MACHINE requires an elevated process; without one a
// PrivilegeError is returned.
//
// The returned bool reports whether the setting applies on this OS at
// all. It is always true on Windows.
func EnableLongPaths() (bool, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, longPathsKey, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return true, &PrivilegeError{Op: `open HKLM\` + longPathsKey, Cause: err}
	}
	defer key.Close()

	// Already enabled; nothing to write.
	if current, _, err := key.GetIntegerValue("LongPathsEnabled"); err == nil && current == 1 {
		return true, nil
	}

	if err := key.SetDWordValue("LongPathsEnabled", 1); err != nil {
		return true, &PrivilegeError{Op: "set LongPathsEnabled", Cause: err}
	}
	return true, nil
}
