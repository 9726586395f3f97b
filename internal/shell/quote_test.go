package shell

import "testing"

func TestDialect_Quote(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		input   string
		want    string
	}{
		{
			name:    "Posix plain path",
			dialect: DialectBash,
			input:   "/opt/whelk/envs/dev",
			want:    "'/opt/whelk/envs/dev'",
		},
		{
			name:    "Posix embedded single quote",
			dialect: DialectBash,
			input:   "/home/o'brien/envs",
			want:    `'/home/o'\''brien/envs'`,
		},
		{
			name:    "Posix embedded space",
			dialect: DialectZsh,
			input:   "/home/user/My Envs",
			want:    "'/home/user/My Envs'",
		},
		{
			name:    "Posix dollar stays literal",
			dialect: DialectPosix,
			input:   "$HOME/envs",
			want:    "'$HOME/envs'",
		},
		{
			name:    "Tcsh shares posix quoting",
			dialect: DialectTcsh,
			input:   "it's",
			want:    `'it'\''s'`,
		},
		{
			name:    "Fish escapes backslash",
			dialect: DialectFish,
			input:   `a\b`,
			want:    `'a\\b'`,
		},
		{
			name:    "Fish escapes single quote",
			dialect: DialectFish,
			input:   "it's",
			want:    `'it\'s'`,
		},
		{
			name:    "Powershell doubles single quote",
			dialect: DialectPowershell,
			input:   "it's",
			want:    "'it''s'",
		},
		{
			name:    "Powershell leaves backslash alone",
			dialect: DialectPowershell,
			input:   `C:\whelk\envs`,
			want:    `'C:\whelk\envs'`,
		},
		{
			name:    "Cmd doubles double quote",
			dialect: DialectCmdExe,
			input:   `say "hi"`,
			want:    `"say ""hi"""`,
		},
		{
			name:    "Cmd leaves backslash alone",
			dialect: DialectCmdExe,
			input:   `C:\whelk\envs`,
			want:    `"C:\whelk\envs"`,
		},
		{
			name:    "Xonsh escapes like python",
			dialect: DialectXonsh,
			input:   `say "hi" \once`,
			want:    `"say \"hi\" \\once"`,
		},
		{
			name:    "Empty string still quoted",
			dialect: DialectBash,
			input:   "",
			want:    "''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Quote(tt.input); got != tt.want {
				t.Errorf("Dialect(%q).Quote(%q) = %q, want %q", tt.dialect, tt.input, got, tt.want)
			}
		})
	}
}

// TestDialect_Quote_NeverEmpty checks the wrap-unconditionally contract:
// even an empty value renders as a non-empty quoted token in every
// dialect, so emitted statements never lose an argument.
func TestDialect_Quote_NeverEmpty(t *testing.T) {
	for _, d := range SupportedDialects() {
		if got := d.Quote(""); len(got) < 2 {
			t.Errorf("Dialect(%q).Quote(\"\") = %q, want a quoted empty token", d, got)
		}
	}
}
