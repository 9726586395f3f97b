// Package prefix resolves environment references to absolute prefix
// directories.
//
// A reference is what users type after -n/--name or -p/--prefix: the
// empty string or "base" for the root prefix, a bare name for an
// environment under <root>/envs, or anything path-like for an exact
// location. Resolution is pure; nothing here checks that the resolved
// directory actually exists, because activation code must be emittable
// for environments that are created later.
package prefix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// EnvRootPrefix overrides the root prefix directory when set.
const EnvRootPrefix = "WHELK_ROOT_PREFIX"

// RootName is the display name of the root environment.
const RootName = "base"

// envsDirName is the subdirectory of the root prefix holding named
// environments.
const envsDirName = "envs"

// ResolutionError indicates a root prefix or environment reference that
// cannot be turned into an absolute directory.
type ResolutionError struct {
	Input  string // offending value
	Reason string // why it was rejected
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("cannot resolve prefix: %s", e.Reason)
	}
	return fmt.Sprintf("cannot resolve prefix %q: %s", e.Input, e.Reason)
}

// Root determines the root prefix directory. Precedence: the
// WHELK_ROOT_PREFIX environment variable, then the configured value,
// then <xdg data home>/whelk. A leading ~ is expanded; the result must
// be absolute.
func Root(configured string) (string, error) {
	value := os.Getenv(EnvRootPrefix)
	source := "environment variable " + EnvRootPrefix
	if value == "" {
		value = configured
		source = "configured root_prefix"
	}
	if value == "" {
		return filepath.Join(xdg.DataHome, "whelk"), nil
	}

	expanded, err := expandHome(value)
	if err != nil {
		return "", &ResolutionError{Input: value, Reason: err.Error()}
	}
	if !filepath.IsAbs(expanded) {
		return "", &ResolutionError{Input: value, Reason: source + " must be an absolute path"}
	}
	return filepath.Clean(expanded), nil
}

// Resolve maps an environment reference to an absolute prefix directory
// under the given root. See the package documentation for the reference
// forms.
func Resolve(rootPrefix, ref string) (string, error) {
	if rootPrefix == "" {
		return "", &ResolutionError{Reason: "root prefix is not set"}
	}
	if !filepath.IsAbs(rootPrefix) {
		return "", &ResolutionError{Input: rootPrefix, Reason: "root prefix must be an absolute path"}
	}

	if ref == "" || ref == RootName {
		return filepath.Clean(rootPrefix), nil
	}

	if looksLikePath(ref) {
		expanded, err := expandHome(ref)
		if err != nil {
			return "", &ResolutionError{Input: ref, Reason: err.Error()}
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", &ResolutionError{Input: ref, Reason: err.Error()}
		}
		return filepath.Clean(abs), nil
	}

	return filepath.Join(rootPrefix, envsDirName, ref), nil
}

// EnvsDir returns the directory holding named environments.
func EnvsDir(rootPrefix string) string {
	return filepath.Join(rootPrefix, envsDirName)
}

// DisplayName returns the name shown in prompts for a prefix: "base"
// for the root prefix, the bare name for environments under
// <root>/envs, and the full path for anything else.
func DisplayName(rootPrefix, prefixPath string) string {
	if rootPrefix != "" {
		root := filepath.Clean(rootPrefix)
		p := filepath.Clean(prefixPath)
		if p == root {
			return RootName
		}
		if filepath.Dir(p) == filepath.Join(root, envsDirName) {
			return filepath.Base(p)
		}
	}
	return prefixPath
}

// looksLikePath reports whether a reference names a location rather
// than an environment under <root>/envs.
func looksLikePath(ref string) bool {
	if filepath.IsAbs(ref) {
		return true
	}
	if ref == "." || ref == ".." {
		return true
	}
	if strings.HasPrefix(ref, "~") {
		return true
	}
	return strings.ContainsAny(ref, `/\`)
}

// expandHome replaces a leading ~ with the current user's home
// directory.
func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory lookup failed: %w", err)
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}
