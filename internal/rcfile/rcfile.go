// Package rcfile mutates shell startup files around managed blocks.
//
// A managed block is a run of lines delimited by marker comments. The
// package guarantees three properties that the rest of whelk builds on:
//
//   - Idempotence: writing the same block twice changes nothing.
//   - Byte-exact removal: removing a block restores the file to its
//     exact prior bytes, including the separator newline the insert
//     added.
//   - Atomicity: every mutation goes through a temp file in the target
//     directory followed by a rename, so readers never observe a
//     half-written startup file.
//
// Symlinked startup files are resolved and their target mutated in
// place, keeping dotfile-repo setups intact.
package rcfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteError describes a failed mutation of one startup file. Multi
// file operations collect these and keep going; the caller reports
// them together at the end.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Path)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Block is a managed region of a startup file.
type Block struct {
	// Start and End are the full marker lines, without newlines.
	Start string
	End   string
	// Body is the content between the markers, without a trailing
	// newline.
	Body string
}

// text renders the block as it appears on disk.
func (b Block) text() string {
	return b.Start + "\n" + b.Body + "\n" + b.End + "\n"
}

// Result reports what a mutation did to one file.
type Result struct {
	Path string
	// Changed is true when bytes on disk changed.
	Changed bool
	// Created is true when the file did not exist before.
	Created bool
	// Backup is the path of the backup taken before the first
	// mutation, empty when none was needed.
	Backup string
}

// Upsert ensures path contains the block. A missing file is created
// with the block as its only content, a file without the block gets it
// appended, and a file holding a stale copy has the copy replaced in
// place. Returns Changed false when the block is already current.
func Upsert(path string, b Block) (*Result, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	target, existed, err := resolveTarget(path)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: target, Created: !existed}

	var content []byte
	mode := os.FileMode(0644)
	if existed {
		content, err = os.ReadFile(target)
		if err != nil {
			return nil, &WriteError{Path: target, Op: "read", Err: err}
		}
		if info, serr := os.Stat(target); serr == nil {
			mode = info.Mode().Perm()
		}
	}

	blockText := b.text()
	var updated []byte
	if s, e, ok := findBlock(content, b.Start, b.End); ok {
		if string(content[s:e]) == blockText {
			return res, nil
		}
		updated = append(updated, content[:s]...)
		updated = append(updated, blockText...)
		updated = append(updated, content[e:]...)
	} else {
		updated = append(updated, content...)
		if len(content) > 0 {
			// The separator newline belongs to the block; Remove takes
			// it back out.
			updated = append(updated, '\n')
		}
		updated = append(updated, blockText...)
	}

	if existed {
		res.Backup, err = backupOnce(target, content, mode)
		if err != nil {
			return nil, err
		}
	}
	if err := atomicWrite(target, updated, mode, !existed); err != nil {
		return nil, err
	}
	res.Changed = true
	return res, nil
}

// Remove deletes the managed block delimited by start and end from
// path, restoring the surrounding bytes exactly. A missing file or a
// file without the block is left untouched. The file itself is never
// deleted, even when removal empties it.
func Remove(path, start, end string) (*Result, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	target, existed, err := resolveTarget(path)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: target}
	if !existed {
		return res, nil
	}

	content, err := os.ReadFile(target)
	if err != nil {
		return nil, &WriteError{Path: target, Op: "read", Err: err}
	}
	s, e, ok := findBlock(content, start, end)
	if !ok {
		return res, nil
	}

	// Swallow the separator newline the insert added. findBlock only
	// matches a marker at the start of a line, so a nonzero s always
	// sits right after one.
	r := s
	if s > 0 {
		r = s - 1
	}
	updated := append([]byte{}, content[:r]...)
	updated = append(updated, content[e:]...)

	mode := os.FileMode(0644)
	if info, serr := os.Stat(target); serr == nil {
		mode = info.Mode().Perm()
	}
	res.Backup, err = backupOnce(target, content, mode)
	if err != nil {
		return nil, err
	}
	if err := atomicWrite(target, updated, mode, false); err != nil {
		return nil, err
	}
	res.Changed = true
	return res, nil
}

// Contains reports whether path holds a managed block delimited by
// start and end. A missing file contains nothing.
func Contains(path, start, end string) (bool, error) {
	target, existed, err := resolveTarget(path)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}
	content, err := os.ReadFile(target)
	if err != nil {
		return false, &WriteError{Path: target, Op: "read", Err: err}
	}
	_, _, ok := findBlock(content, start, end)
	return ok, nil
}

// findBlock locates a managed block in content. It returns the byte
// offset of the start marker line and the offset just past the end
// marker line's newline. Markers match whole lines only; a start
// marker without a matching end marker is ignored.
func findBlock(content []byte, start, end string) (blockStart, blockEnd int, ok bool) {
	offset := 0
	s := -1
	for offset < len(content) {
		next := len(content)
		line := content[offset:]
		if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
			next = offset + nl + 1
		}
		trimmed := strings.TrimRight(string(line), "\r")
		if s < 0 {
			if trimmed == start {
				s = offset
			}
		} else if trimmed == end {
			return s, next, true
		}
		offset = next
	}
	return 0, 0, false
}

// validatePath rejects paths that are not absolute and clean. Startup
// file locations are computed, never taken from flag input verbatim,
// so a violation here is a programming error surfaced early.
func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return &WriteError{Path: path, Op: "validate", Err: errors.New("path must be absolute")}
	}
	if path != filepath.Clean(path) {
		return &WriteError{Path: path, Op: "validate", Err: errors.New("path is not clean (possible traversal)")}
	}
	return nil
}

// resolveTarget follows a symlinked startup file to its target so the
// atomic rename replaces the real file, not the link. Returns whether
// the target currently exists.
func resolveTarget(path string) (string, bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, false, nil
		}
		return "", false, &WriteError{Path: path, Op: "stat", Err: err}
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return path, true, nil
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false, &WriteError{Path: path, Op: "resolve symlink", Err: err}
	}
	return target, true, nil
}

// backupOnce copies the current content aside before the first
// mutation of a file. Later mutations find the existing backup and
// skip; the backup always preserves the pre-whelk state.
func backupOnce(path string, content []byte, mode os.FileMode) (string, error) {
	existing, err := filepath.Glob(path + ".whelk-backup.*")
	if err == nil && len(existing) > 0 {
		return "", nil
	}
	backup := path + ".whelk-backup." + time.Now().Format("20060102150405")
	if err := os.WriteFile(backup, content, mode); err != nil {
		return "", &WriteError{Path: backup, Op: "backup", Err: err}
	}
	return backup, nil
}

// atomicWrite replaces path with data via a temp file in the same
// directory and a rename. mkParents creates missing parent
// directories, owner-only since startup files live under $HOME.
func atomicWrite(path string, data []byte, mode os.FileMode, mkParents bool) error {
	dir := filepath.Dir(path)
	if mkParents {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &WriteError{Path: path, Op: "create parent directory for", Err: err}
		}
	}

	tmp, err := os.CreateTemp(dir, ".whelk-tmp-*")
	if err != nil {
		return &WriteError{Path: path, Op: "create temp file for", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Op: "sync", Err: err}
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Op: "chmod", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Op: "close", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return &WriteError{Path: path, Op: "rename temp file over", Err: err}
	}
	return nil
}
