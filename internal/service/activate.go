package service

import (
	"context"

	"github.com/whelk-sh/whelk/internal/prefix"
	"github.com/whelk-sh/whelk/internal/shell"
)

// HookRequest contains parameters for printing the shell hook.
type HookRequest struct {
	// Shell is the dialect name; empty triggers detection.
	Shell string
}

// HookResult contains the hook source for the resolved dialect.
type HookResult struct {
	Dialect shell.Dialect
	Source  string
}

// Hook returns the dialect's hook source: the function and alias
// definitions a shell evaluates once per session. No files are
// touched; shells that avoid rc-file injection source this directly.
func (s *ShellService) Hook(ctx context.Context, req HookRequest) (*HookResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := s.resolveDialect(ctx, req.Shell)
	if err != nil {
		return nil, err
	}
	em, err := shell.NewEmitter(d, s.settings.ExePath, s.settings.RootPrefix)
	if err != nil {
		return nil, err
	}
	source, err := em.Hook()
	if err != nil {
		return nil, err
	}
	return &HookResult{Dialect: d, Source: source}, nil
}

// ActivateRequest contains parameters for emitting activation code.
type ActivateRequest struct {
	// Shell is the dialect name; empty triggers detection.
	Shell string
	// Prefix selects the environment: empty or "base" for the root,
	// a name for <root>/envs/<name>, or an explicit path.
	Prefix string
	// Stack keeps the current environment's PATH entries underneath
	// the new ones instead of removing them.
	Stack bool
}

// ActivateResult contains the emitted activation code.
type ActivateResult struct {
	Dialect shell.Dialect
	// Prefix is the resolved absolute environment path.
	Prefix string
	// Stacked is the effective stacking decision after the auto-stack
	// policy was applied.
	Stacked bool
	Source  string
}

// Activate emits the shell code that pushes the environment onto the
// activation stack of the calling shell. The environment need not
// exist yet; activation only computes where its directories would be.
func (s *ShellService) Activate(ctx context.Context, req ActivateRequest) (*ActivateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := s.resolveDialect(ctx, req.Shell)
	if err != nil {
		return nil, err
	}
	target, err := prefix.Resolve(s.settings.RootPrefix, req.Prefix)
	if err != nil {
		return nil, err
	}
	em, err := shell.NewEmitter(d, s.settings.ExePath, s.settings.RootPrefix)
	if err != nil {
		return nil, err
	}

	st := s.readState()
	stack := req.Stack
	if !stack && st.Depth < s.settings.AutoStack {
		stack = true
	}

	t := s.activator().Activate(st, target, stack)
	return &ActivateResult{
		Dialect: d,
		Prefix:  target,
		Stacked: stack,
		Source:  em.Render(t),
	}, nil
}

// DeactivateRequest contains parameters for emitting deactivation code.
type DeactivateRequest struct {
	// Shell is the dialect name; empty triggers detection.
	Shell string
}

// DeactivateResult contains the emitted deactivation code.
type DeactivateResult struct {
	Dialect shell.Dialect
	Source  string
}

// Deactivate emits the shell code that pops the top activation frame
// and restores the previous one. With nothing active the emitted code
// is empty, a no-op for the shell.
func (s *ShellService) Deactivate(ctx context.Context, req DeactivateRequest) (*DeactivateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := s.resolveDialect(ctx, req.Shell)
	if err != nil {
		return nil, err
	}
	em, err := shell.NewEmitter(d, s.settings.ExePath, s.settings.RootPrefix)
	if err != nil {
		return nil, err
	}

	t := s.activator().Deactivate(s.readState())
	return &DeactivateResult{Dialect: d, Source: em.Render(t)}, nil
}

// ReactivateRequest contains parameters for emitting reactivation code.
type ReactivateRequest struct {
	// Shell is the dialect name; empty triggers detection.
	Shell string
}

// ReactivateResult contains the emitted reactivation code.
type ReactivateResult struct {
	Dialect shell.Dialect
	Source  string
}

// Reactivate emits the shell code that re-applies the current top
// frame's display variables, picking up renamed environments or
// changed prompt settings without touching PATH.
func (s *ShellService) Reactivate(ctx context.Context, req ReactivateRequest) (*ReactivateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := s.resolveDialect(ctx, req.Shell)
	if err != nil {
		return nil, err
	}
	em, err := shell.NewEmitter(d, s.settings.ExePath, s.settings.RootPrefix)
	if err != nil {
		return nil, err
	}

	t := s.activator().Reactivate(s.readState())
	return &ReactivateResult{Dialect: d, Source: em.Render(t)}, nil
}
