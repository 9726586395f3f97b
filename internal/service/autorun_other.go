//go:build !windows

package service

// The cmd.exe AutoRun value only exists on Windows. Init and deinit
// reject the dialect before reaching these, so they only fire when a
// test forgets to stub them.

func autoRunSet(string) (bool, error) {
	return false, ErrWindowsOnly
}

func autoRunClear(string) (bool, error) {
	return false, ErrWindowsOnly
}
