//go:build windows

package service

import (
	"errors"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// autoRunKey holds the per-user cmd.exe startup command. Writing it
// needs no elevation, unlike the HKLM long-path policy.
const autoRunKey = `Software\Microsoft\Command Processor`

// autoRunSeparator chains independent AutoRun commands; other tools
// (conda among them) use the same convention.
const autoRunSeparator = " & "

// autoRunSet appends fragment to the cmd.exe AutoRun value, creating
// the key as needed. Returns false when the fragment is already
// present.
func autoRunSet(fragment string) (bool, error) {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, autoRunKey, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return false, err
	}
	defer key.Close()

	current, _, err := key.GetStringValue("AutoRun")
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return false, err
	}

	parts := splitAutoRun(current)
	for _, p := range parts {
		if p == fragment {
			return false, nil
		}
	}
	parts = append(parts, fragment)

	if err := key.SetStringValue("AutoRun", strings.Join(parts, autoRunSeparator)); err != nil {
		return false, err
	}
	return true, nil
}

// autoRunClear removes fragment from the cmd.exe AutoRun value,
// deleting the value outright when nothing else remains. Returns false
// when the fragment was not present.
func autoRunClear(fragment string) (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, autoRunKey, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer key.Close()

	current, _, err := key.GetStringValue("AutoRun")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	parts := splitAutoRun(current)
	kept := parts[:0]
	for _, p := range parts {
		if p != fragment {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(parts) {
		return false, nil
	}

	if len(kept) == 0 {
		if err := key.DeleteValue("AutoRun"); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := key.SetStringValue("AutoRun", strings.Join(kept, autoRunSeparator)); err != nil {
		return false, err
	}
	return true, nil
}

// splitAutoRun breaks an AutoRun value into its chained commands.
func splitAutoRun(value string) []string {
	var parts []string
	for _, p := range strings.Split(value, autoRunSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
