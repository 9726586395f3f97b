package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/whelk-sh/whelk/internal/config"
	"github.com/whelk-sh/whelk/internal/platform"
	"github.com/whelk-sh/whelk/internal/prefix"
	"github.com/whelk-sh/whelk/internal/service"
)

var (
	shellName  string
	prefixPath string
	envName    string
	stackEnv   bool

	// shellSvc is assembled once per invocation by the shell group's
	// PersistentPreRunE.
	shellSvc *service.ShellService
)

var shellCmd = &cobra.Command{
	Use:   "shell [prefix]",
	Short: "Manage shell integration and emit activation code",
	Long: `The shell command family keeps whelk wired into your shell. init and
deinit manage a marked block in your startup files, hook and the
activate commands print shell source for your shell to eval, and a
bare 'whelk shell' spawns a subshell with the environment already
active.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbosity)
		log.Debug().Str("command", cmd.Name()).Msg("command started")

		svc, err := buildShellService(cmd.Context())
		if err != nil {
			return err
		}
		shellSvc = svc
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := shellSvc.Launch(cmd.Context(), service.LaunchRequest{
			Shell:  shellName,
			Prefix: envRef(prefixPath, envName, args),
		})
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

var shellInitCmd = &cobra.Command{
	Use:   "init [prefix]",
	Short: "Install shell integration into your startup files",
	Long: `init writes a marked block into the startup files of the chosen shell
(or the detected one) so that new sessions pick up the whelk hook.
Running it again is harmless; a block left by an older install is
replaced in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Init(cmd.Context(), service.InitRequest{
			Shell:  shellName,
			Prefix: envRef(prefixPath, envName, args),
		})
		if res != nil {
			changed := res.AutoRunChanged
			for _, f := range res.Files {
				switch {
				case f.Created:
					fmt.Printf("✓ Added shell integration to %s\n", f.Path)
				case f.Changed:
					fmt.Printf("✓ Updated shell integration in %s\n", f.Path)
				default:
					fmt.Printf("✓ Shell integration already present in %s\n", f.Path)
				}
				if f.Backup != "" {
					fmt.Printf("  Backup saved to: %s\n", f.Backup)
				}
				changed = changed || f.Changed
			}
			if res.AutoRunChanged {
				fmt.Println("✓ Registered the cmd.exe AutoRun hook")
			}
			if res.ConfigPath != "" {
				fmt.Printf("✓ Wrote a starter config to %s\n", res.ConfigPath)
			}
			if err == nil && changed {
				fmt.Println()
				fmt.Println("Restart your shell for the changes to take effect.")
			}
		}
		return err
	},
}

var shellDeinitCmd = &cobra.Command{
	Use:   "deinit [prefix]",
	Short: "Remove shell integration from your startup files",
	Long: `deinit removes the marked block that init added to your startup files,
restoring the surrounding content byte for byte. Files whelk never
touched are left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Deinit(cmd.Context(), service.DeinitRequest{
			Shell:  shellName,
			Prefix: envRef(prefixPath, envName, args),
		})
		if res != nil {
			for _, f := range res.Files {
				if f.Changed {
					fmt.Printf("✓ Removed shell integration from %s\n", f.Path)
				} else {
					fmt.Printf("  No shell integration found in %s\n", f.Path)
				}
				if f.Backup != "" {
					fmt.Printf("  Backup saved to: %s\n", f.Backup)
				}
			}
			if res.AutoRunChanged {
				fmt.Println("✓ Unregistered the cmd.exe AutoRun hook")
			}
		}
		return err
	},
}

var shellReinitCmd = &cobra.Command{
	Use:   "reinit [prefix]",
	Short: "Refresh shell integration across all shells",
	Long: `reinit rewrites every marked block already present on this machine,
across all supported shells, so the blocks point at the current binary
and root prefix. Run it after upgrading or moving an installation.
Files without a block are left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Reinit(cmd.Context(), service.ReinitRequest{
			Prefix: envRef(prefixPath, envName, args),
		})
		if res != nil {
			for _, f := range res.Files {
				if f.Changed {
					fmt.Printf("✓ Refreshed shell integration in %s\n", f.Path)
				} else {
					fmt.Printf("✓ Shell integration in %s is already current\n", f.Path)
				}
			}
			if len(res.Files) == 0 {
				fmt.Println("No shell integration found to refresh")
			}
		}
		return err
	},
}

var shellHookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Print the hook source for a shell",
	Long: `hook prints the function and alias definitions a shell session
evaluates once to get the whelk wrapper. The startup block installed
by init does this automatically; use hook directly for sessions
without it, e.g. 'eval "$(whelk shell hook --shell bash)"'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Hook(cmd.Context(), service.HookRequest{Shell: shellName})
		if err != nil {
			return err
		}
		fmt.Print(res.Source)
		return nil
	},
}

var shellActivateCmd = &cobra.Command{
	Use:   "activate [prefix]",
	Short: "Print code that activates an environment",
	Long: `activate prints the shell code that puts an environment's executables
on PATH and records the activation frame in shell variables. The
wrapper installed by the hook evals this output; without the wrapper,
eval it yourself.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Activate(cmd.Context(), service.ActivateRequest{
			Shell:  shellName,
			Prefix: envRef(prefixPath, envName, args),
			Stack:  stackEnv,
		})
		if err != nil {
			return err
		}
		log.Debug().Str("prefix", res.Prefix).Bool("stacked", res.Stacked).Msg("activation emitted")
		fmt.Print(res.Source)
		return nil
	},
}

var shellReactivateCmd = &cobra.Command{
	Use:   "reactivate",
	Short: "Print code that refreshes the active environment",
	Long: `reactivate prints the shell code that re-applies the display variables
of the innermost active environment, picking up renames or changed
prompt settings. PATH is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Reactivate(cmd.Context(), service.ReactivateRequest{Shell: shellName})
		if err != nil {
			return err
		}
		fmt.Print(res.Source)
		return nil
	},
}

var shellDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Print code that deactivates the active environment",
	Long: `deactivate prints the shell code that pops the innermost activation
frame and restores the previous one. With nothing active the output is
empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := shellSvc.Deactivate(cmd.Context(), service.DeactivateRequest{Shell: shellName})
		if err != nil {
			return err
		}
		fmt.Print(res.Source)
		return nil
	},
}

var shellLongPathCmd = &cobra.Command{
	Use:   "enable_long_path_support",
	Short: "Enable NTFS long path support (Windows)",
	Long: `enable_long_path_support flips the Windows registry policy that lifts
the 260 character path limit. It needs a console with administrator
rights and does nothing on other platforms.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applies, err := shellSvc.EnableLongPaths(cmd.Context())
		if err != nil {
			return err
		}
		if !applies {
			fmt.Println("Long path support is a Windows setting, nothing to do here")
			return nil
		}
		fmt.Println("✓ Long path support enabled")
		return nil
	},
}

func init() {
	shellCmd.PersistentFlags().StringVarP(&shellName, "shell", "s", "",
		"shell dialect (bash, zsh, dash, posix, fish, tcsh, xonsh, cmd.exe, powershell); detected when omitted")

	for _, c := range []*cobra.Command{shellCmd, shellInitCmd, shellDeinitCmd, shellReinitCmd, shellActivateCmd} {
		c.Flags().StringVarP(&prefixPath, "prefix", "p", "", "full path to the environment prefix")
		c.Flags().StringVarP(&envName, "name", "n", "", "name of an environment under the root prefix")
	}
	shellActivateCmd.Flags().BoolVar(&stackEnv, "stack", false,
		"keep the previous environment's PATH entries underneath the new ones")

	shellCmd.AddCommand(
		shellInitCmd,
		shellDeinitCmd,
		shellReinitCmd,
		shellHookCmd,
		shellActivateCmd,
		shellReactivateCmd,
		shellDeactivateCmd,
		shellLongPathCmd,
	)
}

// buildShellService loads the configuration and assembles the service
// every shell subcommand runs against. Settings carry no interactive
// options; shell operations never prompt.
func buildShellService(ctx context.Context) (*service.ShellService, error) {
	cfgPath := config.Locate()
	cfg, err := config.Load(ctx, platform.NewDetector(), cfgPath)
	if err != nil {
		return nil, err
	}
	root, err := prefix.Root(cfg.Options.RootPrefix)
	if err != nil {
		return nil, err
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate whelk binary: %w", err)
	}
	log.Debug().Str("config", cfgPath).Str("root", root).Msg("configuration loaded")

	settings := service.Settings{
		ExePath:      exe,
		RootPrefix:   root,
		ChangePrompt: cfg.Options.ChangePrompt,
		EnvPrompt:    cfg.Options.EnvPrompt,
		AutoStack:    cfg.Options.AutoStack,
		DefaultShell: cfg.Options.DefaultShell,
	}
	logger := log.With().Str("component", "shell").Logger()
	return service.NewShellService(settings, service.RealClock{}, logger), nil
}

// envRef picks the environment reference from the prefix flags and the
// positional argument. An explicit --prefix wins over --name, which
// wins over the positional form.
func envRef(prefixVal, nameVal string, args []string) string {
	if prefixVal != "" {
		return prefixVal
	}
	if nameVal != "" {
		return nameVal
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
