package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/secrethub/ansible-secrethub/internal/installer"
	"github.com/secrethub/ansible-secrethub/internal/platform"
	"github.com/secrethub/ansible-secrethub/internal/tui"
	"github.com/secrethub/ansible-secrethub/internal/tui/components"
)

type installOptions struct {
	Version    string
	InstallDir string
	Plain      bool
}

func newInstallCmd(root *rootFlags) *cobra.Command {
	opts := installOptions{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the SecretHub CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desired := installer.DesiredState{
				Version:    opts.Version,
				InstallDir: opts.InstallDir,
			}
			return runConvergence(root, opts.Plain, desired, convergeView{
				title:    "install",
				expected: 4,
				summary:  installSummary,
			})
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "latest", "Version to install")
	cmd.Flags().StringVar(&opts.InstallDir, "install-dir", "", "Installation directory (default per platform)")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Plain log output instead of the progress view")

	return cmd
}

func newUninstallCmd(root *rootFlags) *cobra.Command {
	opts := installOptions{}

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the SecretHub CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desired := installer.DesiredState{
				InstallDir: opts.InstallDir,
				Presence:   installer.Absent,
			}
			return runConvergence(root, opts.Plain, desired, convergeView{
				title:    "uninstall",
				expected: 2,
				summary:  uninstallSummary,
			})
		},
	}

	cmd.Flags().StringVar(&opts.InstallDir, "install-dir", "", "Installation directory (default per platform)")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Plain log output instead of the progress view")

	return cmd
}

func installSummary(result *installer.ConvergenceResult) string {
	if result.Changed {
		return fmt.Sprintf("installed version %s at %s", result.Version, result.BinPath)
	}
	return fmt.Sprintf("already installed at version %s", result.Version)
}

func uninstallSummary(result *installer.ConvergenceResult) string {
	if result.Changed {
		return fmt.Sprintf("removed the CLI from %s", result.InstallDir)
	}
	return "not installed"
}

// convergeView describes how a convergence run presents itself.
type convergeView struct {
	title    string
	expected int
	summary  func(*installer.ConvergenceResult) string
}

func runConvergence(root *rootFlags, plain bool, desired installer.DesiredState, view convergeView) error {
	profile, err := platform.Detect()
	if err != nil {
		return err
	}

	interactive := !plain && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		return convergePlain(root, profile, desired, view)
	}
	return convergeInteractive(profile, desired, view)
}

func convergePlain(root *rootFlags, profile platform.Profile, desired installer.DesiredState, view convergeView) error {
	log := newRunnerLogger(root.verbose)
	inst := installer.New(installer.Options{
		Profile: profile,
		Logger:  log,
		OnPhase: func(p installer.Phase) { log.Info(components.Label(p)) },
	})

	result, err := inst.Converge(context.Background(), desired)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, view.summary(result))
	return nil
}

func convergeInteractive(profile platform.Profile, desired installer.DesiredState, view convergeView) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(tui.NewModel(view.title, view.expected))

	inst := installer.New(installer.Options{
		Profile: profile,
		OnPhase: func(p installer.Phase) { program.Send(tui.PhaseMsg{Phase: p}) },
	})

	go func() {
		result, err := inst.Converge(ctx, desired)
		if err != nil {
			program.Send(tui.DoneMsg{Err: err})
			return
		}
		program.Send(tui.DoneMsg{Message: view.summary(result)})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok {
		if m.Cancelled() {
			return fmt.Errorf("cancelled")
		}
		return m.Err()
	}
	return nil
}
