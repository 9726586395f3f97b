package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/whelk-sh/whelk/internal/config"
	"github.com/whelk-sh/whelk/internal/prefix"
	"github.com/whelk-sh/whelk/internal/rcfile"
	"github.com/whelk-sh/whelk/internal/shell"
)

// ErrWindowsOnly is returned when cmd.exe integration is requested on
// another operating system.
var ErrWindowsOnly = errors.New("cmd.exe shell integration requires windows")

// FileChange reports what an operation did to one file.
type FileChange struct {
	Path    string
	Changed bool
	Created bool
	// Backup is the pre-mutation backup path, empty when none was
	// taken.
	Backup string
}

func fileChange(r *rcfile.Result) FileChange {
	return FileChange{Path: r.Path, Changed: r.Changed, Created: r.Created, Backup: r.Backup}
}

// InitRequest contains parameters for installing shell integration.
type InitRequest struct {
	// Shell is the dialect name; empty triggers detection.
	Shell string
	// Prefix selects the root prefix to wire in: empty or "base" for
	// the configured root, a name for an environment below it, or an
	// explicit path.
	Prefix string
}

// InitResult contains the results of the init operation.
type InitResult struct {
	Dialect shell.Dialect
	Files   []FileChange
	// AutoRunChanged is true when the cmd.exe AutoRun registry value
	// was updated.
	AutoRunChanged bool
	// ConfigPath is the starter config file written alongside a first
	// init, empty when a config already existed.
	ConfigPath string
}

// Init writes the managed block into the dialect's startup files,
// creating them as needed. Re-running with unchanged inputs is a
// no-op; a stale block from an older install is replaced in place.
// On partial failure the result still lists the files that were
// updated, alongside an error joining the per-file failures.
func (s *ShellService) Init(ctx context.Context, req InitRequest) (*InitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.clock.Now()

	d, err := s.resolveDialect(ctx, req.Shell)
	if err != nil {
		return nil, err
	}
	root, err := prefix.Resolve(s.settings.RootPrefix, req.Prefix)
	if err != nil {
		return nil, err
	}
	em, err := shell.NewEmitter(d, s.settings.ExePath, root)
	if err != nil {
		return nil, err
	}

	res := &InitResult{Dialect: d}
	var opErr error
	if d == shell.DialectCmdExe {
		opErr = s.initCmdExe(em, root, res)
	} else {
		opErr = s.initFiles(em, root, res)
	}
	if opErr != nil {
		return res, opErr
	}

	res.ConfigPath = s.writeStarterConfig()
	s.log.Debug().
		Str("dialect", d.String()).
		Int("files", len(res.Files)).
		Dur("elapsed", s.clock.Now().Sub(start)).
		Msg("shell init complete")
	return res, nil
}

// initFiles installs the managed block for text-file dialects. The
// tcsh hook file is written first so the snippet's source line finds
// it as soon as the block lands.
func (s *ShellService) initFiles(em *shell.Emitter, root string, res *InitResult) error {
	d := em.Dialect()
	home, err := s.userHome()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	var errs []error
	if d == shell.DialectTcsh {
		hook, herr := em.Hook()
		if herr != nil {
			return herr
		}
		r, werr := rcfile.WriteManaged(tcshHookPath(root), hook)
		if werr != nil {
			errs = append(errs, werr)
		} else {
			res.Files = append(res.Files, fileChange(r))
		}
	}

	snippet, err := em.RCSnippet()
	if err != nil {
		return err
	}
	blockStart, blockEnd := shell.BlockMarkers(d)
	block := rcfile.Block{Start: blockStart, End: blockEnd, Body: snippet}

	for _, path := range d.StartupFiles(s.osName, home, s.getenv) {
		r, uerr := rcfile.Upsert(path, block)
		if uerr != nil {
			errs = append(errs, uerr)
			continue
		}
		res.Files = append(res.Files, fileChange(r))
	}
	return errors.Join(errs...)
}

// initCmdExe installs the cmd.exe integration: the hook and dispatcher
// scripts under <root>\condabin plus the AutoRun registry value that
// loads the hook in every new cmd session.
func (s *ShellService) initCmdExe(em *shell.Emitter, root string, res *InitResult) error {
	if s.osName != "windows" {
		return ErrWindowsOnly
	}

	hook, err := em.Hook()
	if err != nil {
		return err
	}
	dispatcher, err := em.DispatcherScript()
	if err != nil {
		return err
	}

	hookPath := cmdHookPath(root)
	var errs []error
	for _, f := range []struct {
		path, content string
	}{
		{hookPath, hook},
		{cmdDispatcherPath(root), dispatcher},
	} {
		r, werr := rcfile.WriteManaged(f.path, f.content)
		if werr != nil {
			errs = append(errs, werr)
			continue
		}
		res.Files = append(res.Files, fileChange(r))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	changed, err := s.autoRunSet(cmdAutoRunFragment(hookPath))
	if err != nil {
		return fmt.Errorf("update cmd.exe AutoRun: %w", err)
	}
	res.AutoRunChanged = changed
	return nil
}

// writeStarterConfig drops a commented default config file on first
// init. An existing config is never touched; failure to write is
// logged and otherwise ignored, init must not fail over a nicety.
func (s *ShellService) writeStarterConfig() string {
	path := config.Locate()
	if _, err := os.Stat(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	if _, err := rcfile.WriteManaged(path, config.NewGenerator().DefaultFileContent()); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not write starter config")
		return ""
	}
	return path
}

// DeinitRequest contains parameters for removing shell integration.
type DeinitRequest struct {
	// Shell is the dialect name; empty triggers detection.
	Shell string
	// Prefix names the root prefix the integration was installed for.
	Prefix string
}

// DeinitResult contains the results of the deinit operation.
type DeinitResult struct {
	Dialect shell.Dialect
	Files   []FileChange
	// AutoRunChanged is true when the cmd.exe AutoRun registry value
	// was updated.
	AutoRunChanged bool
}

// Deinit removes the managed block from the dialect's startup files,
// restoring their prior bytes exactly. Files without a block are left
// untouched and never deleted; hook files whelk owns outright are
// removed.
func (s *ShellService) Deinit(ctx context.Context, req DeinitRequest) (*DeinitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := s.resolveDialect(ctx, req.Shell)
	if err != nil {
		return nil, err
	}
	root, err := prefix.Resolve(s.settings.RootPrefix, req.Prefix)
	if err != nil {
		return nil, err
	}

	res := &DeinitResult{Dialect: d}
	if d == shell.DialectCmdExe {
		return res, s.deinitCmdExe(root, res)
	}

	home, err := s.userHome()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	var errs []error
	blockStart, blockEnd := shell.BlockMarkers(d)
	for _, path := range d.StartupFiles(s.osName, home, s.getenv) {
		r, rerr := rcfile.Remove(path, blockStart, blockEnd)
		if rerr != nil {
			errs = append(errs, rerr)
			continue
		}
		res.Files = append(res.Files, fileChange(r))
	}
	if d == shell.DialectTcsh {
		r, derr := rcfile.Delete(tcshHookPath(root))
		if derr != nil {
			errs = append(errs, derr)
		} else {
			res.Files = append(res.Files, fileChange(r))
		}
	}
	return res, errors.Join(errs...)
}

// deinitCmdExe removes the AutoRun registry fragment and deletes the
// hook and dispatcher scripts.
func (s *ShellService) deinitCmdExe(root string, res *DeinitResult) error {
	if s.osName != "windows" {
		return ErrWindowsOnly
	}

	hookPath := cmdHookPath(root)
	changed, err := s.autoRunClear(cmdAutoRunFragment(hookPath))
	if err != nil {
		return fmt.Errorf("update cmd.exe AutoRun: %w", err)
	}
	res.AutoRunChanged = changed

	var errs []error
	for _, path := range []string{hookPath, cmdDispatcherPath(root)} {
		r, derr := rcfile.Delete(path)
		if derr != nil {
			errs = append(errs, derr)
			continue
		}
		res.Files = append(res.Files, fileChange(r))
	}
	return errors.Join(errs...)
}

// ReinitRequest contains parameters for refreshing shell integration.
type ReinitRequest struct {
	// Prefix names the root prefix the integration was installed for.
	Prefix string
}

// ReinitResult contains the results of the reinit operation.
type ReinitResult struct {
	Files []FileChange
}

// Reinit refreshes every managed block already installed on this
// machine, across all dialects, from the current binary location.
// Files without a block are left untouched; no dialect needs to be
// named because staleness is detected per file. Used after an upgrade
// or a move of the installation.
func (s *ShellService) Reinit(ctx context.Context, req ReinitRequest) (*ReinitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.clock.Now()

	root, err := prefix.Resolve(s.settings.RootPrefix, req.Prefix)
	if err != nil {
		return nil, err
	}
	home, err := s.userHome()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	res := &ReinitResult{}
	var errs []error
	// dash and posix share ~/.profile with identical block content;
	// visit each candidate file once.
	seen := make(map[string]bool)
	for _, d := range shell.SupportedDialects() {
		if d == shell.DialectCmdExe {
			if rerr := s.reinitCmdExe(root, res); rerr != nil {
				errs = append(errs, rerr)
			}
			continue
		}

		em, eerr := shell.NewEmitter(d, s.settings.ExePath, root)
		if eerr != nil {
			errs = append(errs, eerr)
			continue
		}
		snippet, eerr := em.RCSnippet()
		if eerr != nil {
			errs = append(errs, eerr)
			continue
		}
		blockStart, blockEnd := shell.BlockMarkers(d)

		for _, path := range d.StartupFiles(s.osName, home, s.getenv) {
			if seen[path] {
				continue
			}
			seen[path] = true

			ok, cerr := rcfile.Contains(path, blockStart, blockEnd)
			if cerr != nil {
				errs = append(errs, cerr)
				continue
			}
			if !ok {
				continue
			}
			r, uerr := rcfile.Upsert(path, rcfile.Block{Start: blockStart, End: blockEnd, Body: snippet})
			if uerr != nil {
				errs = append(errs, uerr)
				continue
			}
			res.Files = append(res.Files, fileChange(r))

			if d == shell.DialectTcsh {
				hook, herr := em.Hook()
				if herr != nil {
					errs = append(errs, herr)
					continue
				}
				hr, werr := rcfile.WriteManaged(tcshHookPath(root), hook)
				if werr != nil {
					errs = append(errs, werr)
					continue
				}
				res.Files = append(res.Files, fileChange(hr))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return res, err
	}
	s.log.Debug().
		Int("files", len(res.Files)).
		Dur("elapsed", s.clock.Now().Sub(start)).
		Msg("shell reinit complete")
	return res, nil
}

// reinitCmdExe refreshes the cmd.exe scripts when they are installed.
// Outside Windows, or when no hook script exists under the root, there
// is nothing to refresh and the dialect is skipped silently.
func (s *ShellService) reinitCmdExe(root string, res *ReinitResult) error {
	if s.osName != "windows" {
		return nil
	}
	hookPath := cmdHookPath(root)
	if _, err := os.Stat(hookPath); err != nil {
		return nil
	}

	em, err := shell.NewEmitter(shell.DialectCmdExe, s.settings.ExePath, root)
	if err != nil {
		return err
	}
	hook, err := em.Hook()
	if err != nil {
		return err
	}
	dispatcher, err := em.DispatcherScript()
	if err != nil {
		return err
	}

	var errs []error
	for _, f := range []struct {
		path, content string
	}{
		{hookPath, hook},
		{cmdDispatcherPath(root), dispatcher},
	} {
		r, werr := rcfile.WriteManaged(f.path, f.content)
		if werr != nil {
			errs = append(errs, werr)
			continue
		}
		res.Files = append(res.Files, fileChange(r))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// The fragment embeds the hook path; refresh it in case the root
	// moved.
	if _, err := s.autoRunSet(cmdAutoRunFragment(hookPath)); err != nil {
		return fmt.Errorf("update cmd.exe AutoRun: %w", err)
	}
	return nil
}

// tcshHookPath is where init writes the tcsh hook; the startup snippet
// sources it from there.
func tcshHookPath(root string) string {
	return filepath.Join(root, "etc", "profile.d", "whelk.csh")
}

// cmdHookPath is the cmd.exe hook script loaded through AutoRun.
func cmdHookPath(root string) string {
	return filepath.Join(root, "condabin", "whelk_hook.bat")
}

// cmdDispatcherPath is the batch dispatcher the DOSKEY macro invokes.
func cmdDispatcherPath(root string) string {
	return filepath.Join(root, "condabin", "whelk.bat")
}

// cmdAutoRunFragment guards the hook invocation so a deleted
// installation cannot break new cmd sessions.
func cmdAutoRunFragment(hookPath string) string {
	return fmt.Sprintf(`if exist "%s" "%s"`, hookPath, hookPath)
}
