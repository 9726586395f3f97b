package rcfile

import "os"

// WriteManaged replaces a file whelk owns outright, such as the tcsh
// hook under <root>/etc/profile.d or the cmd.exe scripts under
// <root>\condabin. No markers, no backup; the whole file is ours.
// Parent directories are created as needed. Returns Changed false
// when the file already holds exactly content.
func WriteManaged(path, content string) (*Result, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	target, existed, err := resolveTarget(path)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: target, Created: !existed}
	mode := os.FileMode(0644)
	if existed {
		current, rerr := os.ReadFile(target)
		if rerr != nil {
			return nil, &WriteError{Path: target, Op: "read", Err: rerr}
		}
		if string(current) == content {
			return res, nil
		}
		if info, serr := os.Stat(target); serr == nil {
			mode = info.Mode().Perm()
		}
	}

	if err := atomicWrite(target, []byte(content), mode, !existed); err != nil {
		return nil, err
	}
	res.Changed = true
	return res, nil
}

// Delete removes a file whelk owns outright. A missing file is not an
// error; Changed reports whether anything was deleted.
func Delete(path string) (*Result, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	res := &Result{Path: path}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return nil, &WriteError{Path: path, Op: "remove", Err: err}
	}
	res.Changed = true
	return res, nil
}
