package shell

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/whelk-sh/whelk/internal/prefix"
)

// State is the activation-relevant slice of an inherited process
// environment: the frame stack the live shell has exported plus the
// current PATH. Whelk itself holds no activation state between
// invocations; this is re-read from os.Environ on every call.
type State struct {
	// Depth is the stack depth from WHELK_SHLVL (0 when inactive).
	Depth int
	// Prefix is the top frame's prefix from WHELK_PREFIX.
	Prefix string
	// Saved maps frame level to the saved prefix from WHELK_PREFIX_<n>.
	Saved map[int]string
	// Stacked maps frame level to the WHELK_STACKED_<n> marker.
	Stacked map[int]bool
	// Path holds the PATH elements, split on the OS list separator.
	Path []string
	// PromptModifier is the inherited WHELK_PROMPT_MODIFIER.
	PromptModifier string
}

// ReadState parses a process environment in os.Environ form. Malformed
// entries (unparseable depth, stray frame variables) degrade to an
// inactive or shallower state rather than failing; the emitted code
// must stay valid for whatever the shell actually has.
func ReadState(environ []string, pathListSep string) *State {
	st := &State{
		Saved:   make(map[int]string),
		Stacked: make(map[int]bool),
	}

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case name == EnvShlvl:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				st.Depth = n
			}
		case name == EnvPrefix:
			st.Prefix = value
		case name == EnvPromptModifier:
			st.PromptModifier = value
		case name == "PATH":
			if value != "" {
				st.Path = strings.Split(value, pathListSep)
			}
		case strings.HasPrefix(name, EnvStackedN):
			if n, err := strconv.Atoi(name[len(EnvStackedN):]); err == nil {
				st.Stacked[n] = value == "true"
			}
		case strings.HasPrefix(name, EnvPrefixN):
			if n, err := strconv.Atoi(name[len(EnvPrefixN):]); err == nil {
				st.Saved[n] = value
			}
		}
	}

	// A depth without a prefix is unusable; treat as inactive.
	if st.Prefix == "" {
		st.Depth = 0
	}
	return st
}

// EnvVar is a single name=value export.
type EnvVar struct {
	Name  string
	Value string
}

// PromptChange describes a prompt text edit for dialects that keep the
// prompt in a shell variable (POSIX family, tcsh). Old is the modifier
// to strip if present, New the modifier to prepend. The other dialects
// render prompts from WHELK_PROMPT_MODIFIER inside their hook
// functions and ignore this.
type PromptChange struct {
	Old string
	New string
}

// Transition is a pure description of the environment edit a shell
// must apply: everything is precomputed so rendering per dialect is
// just syntax.
type Transition struct {
	// Sets are exports in emission order.
	Sets []EnvVar
	// Unsets are names to remove, in emission order.
	Unsets []string
	// Path is the complete new PATH element list; nil leaves PATH
	// untouched.
	Path []string
	// PathListSep joins Path for dialects that render PATH as one
	// string.
	PathListSep string
	// Prompt is the prompt edit, nil when prompts are left alone.
	Prompt *PromptChange
}

// Empty reports whether the transition changes nothing.
func (t *Transition) Empty() bool {
	return len(t.Sets) == 0 && len(t.Unsets) == 0 && t.Path == nil && t.Prompt == nil
}

// Activator computes environment transitions against an inherited
// State. The zero value is not usable; fill in at least RootPrefix
// and OS.
type Activator struct {
	// RootPrefix anchors display names ("base", bare env names).
	RootPrefix string
	// OS selects PATH layout and separator, normally runtime.GOOS.
	OS string
	// ChangePrompt enables prompt decoration.
	ChangePrompt bool
	// EnvPrompt is the modifier template; {name} and {prefix} are
	// substituted.
	EnvPrompt string
}

// pathListSep returns the PATH separator for the activator's OS.
func (a *Activator) pathListSep() string {
	if a.OS == "windows" {
		return ";"
	}
	return ":"
}

// PathDirs returns the directories an activated prefix contributes to
// PATH, most significant first.
func PathDirs(prefixPath, osName string) []string {
	if osName == "windows" {
		return []string{
			prefixPath,
			filepath.Join(prefixPath, "Library", "mingw-w64", "bin"),
			filepath.Join(prefixPath, "Library", "usr", "bin"),
			filepath.Join(prefixPath, "Library", "bin"),
			filepath.Join(prefixPath, "bin"),
			filepath.Join(prefixPath, "Scripts"),
		}
	}
	return []string{filepath.Join(prefixPath, "bin")}
}

// promptModifier renders the prompt decoration for a display name.
func (a *Activator) promptModifier(displayName, prefixPath string) string {
	if !a.ChangePrompt {
		return ""
	}
	tmpl := a.EnvPrompt
	if tmpl == "" {
		tmpl = "({name}) "
	}
	mod := strings.ReplaceAll(tmpl, "{name}", displayName)
	mod = strings.ReplaceAll(mod, "{prefix}", prefixPath)
	return mod
}

// removeDirs filters the dirs of a prefix out of a PATH list.
func removeDirs(path []string, dirs []string) []string {
	drop := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		drop[d] = struct{}{}
	}
	kept := make([]string, 0, len(path))
	for _, p := range path {
		if _, gone := drop[p]; gone {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// prependDirs puts dirs in front of a PATH list, dropping any existing
// occurrences first so repeated activation cannot grow PATH.
func prependDirs(path []string, dirs []string) []string {
	cleaned := removeDirs(path, dirs)
	out := make([]string, 0, len(dirs)+len(cleaned))
	out = append(out, dirs...)
	out = append(out, cleaned...)
	return out
}

// Activate computes the transition that pushes prefixPath onto the
// activation stack. With stack false the current top's PATH entries
// are removed (replace); with stack true they are kept underneath.
// Either way the current top becomes a saved frame and deactivation
// restores it.
func (a *Activator) Activate(st *State, prefixPath string, stack bool) *Transition {
	t := &Transition{PathListSep: a.pathListSep()}

	displayName := prefix.DisplayName(a.RootPrefix, prefixPath)
	newMod := a.promptModifier(displayName, prefixPath)
	newDirs := PathDirs(prefixPath, a.OS)
	newDepth := st.Depth + 1

	path := st.Path
	if st.Depth > 0 {
		if !stack {
			path = removeDirs(path, PathDirs(st.Prefix, a.OS))
		}
		t.Sets = append(t.Sets, EnvVar{EnvPrefixN + strconv.Itoa(st.Depth), st.Prefix})
		if stack {
			t.Sets = append(t.Sets, EnvVar{EnvStackedN + strconv.Itoa(newDepth), "true"})
		}
	}
	t.Path = prependDirs(path, newDirs)

	t.Sets = append(t.Sets,
		EnvVar{EnvShlvl, strconv.Itoa(newDepth)},
		EnvVar{EnvPrefix, prefixPath},
		EnvVar{EnvDefaultEnv, displayName},
	)
	a.applyPromptVars(t, st, newMod)
	return t
}

// Deactivate computes the transition that pops the top frame. At depth
// zero it returns an empty transition.
func (a *Activator) Deactivate(st *State) *Transition {
	t := &Transition{PathListSep: a.pathListSep()}
	if st.Depth == 0 {
		return t
	}

	topDirs := PathDirs(st.Prefix, a.OS)
	newDepth := st.Depth - 1

	if newDepth == 0 {
		t.Path = removeDirs(st.Path, topDirs)
		t.Sets = append(t.Sets, EnvVar{EnvShlvl, "0"})
		t.Unsets = append(t.Unsets, EnvPrefix, EnvDefaultEnv)
		a.applyPromptVars(t, st, "")
		return t
	}

	restored := st.Saved[newDepth]
	path := removeDirs(st.Path, topDirs)
	if !st.Stacked[st.Depth] {
		path = prependDirs(path, PathDirs(restored, a.OS))
	}
	t.Path = path

	displayName := prefix.DisplayName(a.RootPrefix, restored)
	t.Sets = append(t.Sets,
		EnvVar{EnvShlvl, strconv.Itoa(newDepth)},
		EnvVar{EnvPrefix, restored},
		EnvVar{EnvDefaultEnv, displayName},
	)
	t.Unsets = append(t.Unsets, EnvPrefixN+strconv.Itoa(newDepth))
	if st.Stacked[st.Depth] {
		t.Unsets = append(t.Unsets, EnvStackedN+strconv.Itoa(st.Depth))
	}
	a.applyPromptVars(t, st, a.promptModifier(displayName, restored))
	return t
}

// Reactivate recomputes the display variables of the current top frame
// without touching PATH. Useful after an environment was renamed or
// prompt settings changed. At depth zero it returns an empty
// transition.
func (a *Activator) Reactivate(st *State) *Transition {
	t := &Transition{PathListSep: a.pathListSep()}
	if st.Depth == 0 {
		return t
	}

	displayName := prefix.DisplayName(a.RootPrefix, st.Prefix)
	t.Sets = append(t.Sets, EnvVar{EnvDefaultEnv, displayName})
	a.applyPromptVars(t, st, a.promptModifier(displayName, st.Prefix))
	return t
}

// applyPromptVars appends the prompt modifier export (or removal) and
// the prompt text edit shared by every transition kind.
func (a *Activator) applyPromptVars(t *Transition, st *State, newMod string) {
	if newMod != "" {
		t.Sets = append(t.Sets, EnvVar{EnvPromptModifier, newMod})
	} else if st.PromptModifier != "" {
		t.Unsets = append(t.Unsets, EnvPromptModifier)
	}
	if newMod != st.PromptModifier {
		t.Prompt = &PromptChange{Old: st.PromptModifier, New: newMod}
	}
}

// CurrentState reads the live process environment.
func CurrentState(osName string) *State {
	sep := ":"
	if osName == "windows" {
		sep = ";"
	}
	return ReadState(os.Environ(), sep)
}
