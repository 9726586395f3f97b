package shell

import "strings"

// Quote renders a string as a single literal token in the dialect's
// syntax. Emitted code embeds user-controlled paths (prefixes, home
// directories), so every dialect wraps unconditionally rather than
// trying to detect "safe" strings.
func (d Dialect) Quote(s string) string {
	switch d {
	case DialectFish:
		return quoteFish(s)
	case DialectPowershell:
		return quotePowershell(s)
	case DialectCmdExe:
		return quoteCmd(s)
	case DialectXonsh:
		return quoteXonsh(s)
	default:
		// bash, zsh, dash, posix and tcsh share Bourne-style single
		// quoting.
		return quotePosix(s)
	}
}

// quotePosix single-quotes s. A literal single quote cannot appear
// inside single quotes, so it is rendered by closing the quote,
// emitting \', and reopening.
func quotePosix(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteFish single-quotes s. Fish allows backslash escapes inside
// single quotes, so backslash and single quote are escaped.
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

// quotePowershell single-quotes s. Inside PowerShell single quotes the
// only special character is the quote itself, doubled to escape.
func quotePowershell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteCmd double-quotes s for cmd.exe, doubling embedded double
// quotes. Backslashes are path separators in batch files and stay
// untouched.
func quoteCmd(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteXonsh renders s as a Python string literal, since xonsh code is
// Python.
func quoteXonsh(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
