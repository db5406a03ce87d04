// Package installer converges the presence or absence of the SecretHub CLI
// binary on the local system. Every run probes the current state first and
// performs the minimal action that satisfies the desired state, so repeated
// runs with the same input report no change.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/secrethub/ansible-secrethub/internal/logger"
	"github.com/secrethub/ansible-secrethub/internal/platform"
	"github.com/secrethub/ansible-secrethub/internal/release"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

// Options configures an Installer.
type Options struct {
	Profile platform.Profile
	// Index resolves versions and fetches artifacts. Defaults to the real
	// upstream endpoints.
	Index *release.Index
	// Executor runs version probes. Defaults to the real SystemExecutor.
	Executor secrethub.CommandExecutor
	Logger   *logger.Logger
	// OnPhase, when set, is called as Converge enters each phase.
	OnPhase func(Phase)
}

// Installer converges CLI installations.
type Installer struct {
	profile  platform.Profile
	index    *release.Index
	executor secrethub.CommandExecutor
	logger   *logger.Logger
	onPhase  func(Phase)
}

// New builds an Installer from Options.
func New(opts Options) *Installer {
	index := opts.Index
	if index == nil {
		index = release.NewIndex(release.Options{Logger: opts.Logger})
	}
	executor := opts.Executor
	if executor == nil {
		executor = &secrethub.SystemExecutor{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Installer{
		profile:  opts.Profile,
		index:    index,
		executor: executor,
		logger:   log.WithComponent("installer"),
		onPhase:  opts.OnPhase,
	}
}

func (i *Installer) notify(p Phase) {
	if i.onPhase != nil {
		i.onPhase(p)
	}
}

// Observe probes the install directory for the CLI binary and its version.
// It never mutates anything.
func (i *Installer) Observe(ctx context.Context, installDir string) (ObservedState, error) {
	binPath := i.profile.BinPath(installDir)
	observed := ObservedState{Path: binPath}

	if _, err := os.Stat(binPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return observed, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return observed, secrethuberrors.NewPermissionError(binPath, err)
		}
		return observed, fmt.Errorf("probing %s: %w", binPath, err)
	}

	observed.Installed = true

	version, err := secrethub.BinaryVersion(ctx, i.executor, binPath)
	if err != nil {
		// The binary exists but will not say what it is. Treat it as
		// unknown state so a present run replaces it explicitly.
		i.logger.WithFields(map[string]any{"bin": binPath}).Debug("installed binary failed its version probe")
		return observed, nil
	}

	observed.Version = version
	observed.ExecutableValid = true
	return observed, nil
}

// Evaluate reports what Converge would do for the desired state, without
// touching the filesystem. Resolving "latest" still reads from the release
// index.
func (i *Installer) Evaluate(ctx context.Context, desired DesiredState) (*Evaluation, error) {
	installDir := i.resolveInstallDir(desired)

	observed, err := i.Observe(ctx, installDir)
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{Observed: observed, InstallDir: installDir}

	switch desired.Presence {
	case Absent:
		if !observed.Installed {
			ev.Message = "not installed"
			return ev, nil
		}
		ev.RequiresAction = true
		if observed.Version != "" {
			ev.Message = fmt.Sprintf("would remove version %s", observed.Version)
		} else {
			ev.Message = "would remove binary of unknown version"
		}
		return ev, nil

	case Present, "":
		target, err := i.resolveVersion(ctx, desired.Version)
		if err != nil {
			return nil, err
		}
		ev.TargetVersion = target

		switch {
		case observed.Installed && observed.ExecutableValid && observed.Version == target:
			ev.Message = fmt.Sprintf("already installed at version %s", target)
		case observed.Installed && !observed.ExecutableValid:
			ev.RequiresAction = true
			ev.Message = fmt.Sprintf("installed binary is in an unknown state, would reinstall version %s", target)
		case observed.Installed:
			ev.RequiresAction = true
			ev.Message = fmt.Sprintf("version %s installed, would install version %s", observed.Version, target)
		default:
			ev.RequiresAction = true
			ev.Message = fmt.Sprintf("would install version %s", target)
		}
		return ev, nil

	default:
		return nil, secrethuberrors.NewConfigurationError("state", fmt.Sprintf("unknown state %q", desired.Presence), nil)
	}
}

// Converge brings the system to the desired state and reports the outcome.
func (i *Installer) Converge(ctx context.Context, desired DesiredState) (*ConvergenceResult, error) {
	i.notify(PhaseResolve)

	ev, err := i.Evaluate(ctx, desired)
	if err != nil {
		return nil, err
	}

	result := &ConvergenceResult{
		BinPath:    ev.Observed.Path,
		InstallDir: ev.InstallDir,
		Version:    ev.Observed.Version,
	}

	if !ev.RequiresAction {
		i.logger.WithFields(map[string]any{"bin": result.BinPath}).Debug(ev.Message)
		return result, nil
	}

	if desired.Presence == Absent {
		i.notify(PhaseRemove)
		if err := i.remove(ev.Observed.Path, ev.InstallDir); err != nil {
			return nil, err
		}
		result.Version = ""
		result.Changed = true
		i.logger.WithFields(map[string]any{"bin": result.BinPath}).Info("binary removed")
		return result, nil
	}

	if err := i.install(ctx, ev.TargetVersion, ev.Observed.Path); err != nil {
		return nil, err
	}
	result.Version = ev.TargetVersion
	result.Changed = true
	i.logger.WithFields(map[string]any{
		"bin":     result.BinPath,
		"version": result.Version,
	}).Info("binary installed")
	return result, nil
}

func (i *Installer) resolveInstallDir(desired DesiredState) string {
	if desired.InstallDir != "" {
		return desired.InstallDir
	}
	return i.profile.DefaultInstallDir
}

func (i *Installer) resolveVersion(ctx context.Context, version string) (string, error) {
	if version == "" || version == "latest" {
		return i.index.LatestVersion(ctx)
	}
	return secrethub.NormalizeVersion(version), nil
}

// install fetches, verifies and atomically places the binary. A previously
// installed binary stays untouched until the staged replacement has passed
// its checks.
func (i *Installer) install(ctx context.Context, version, binPath string) error {
	binDir := filepath.Dir(binPath)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return secrethuberrors.NewPermissionError(binDir, err)
		}
		return fmt.Errorf("creating %s: %w", binDir, err)
	}

	downloadDir, err := os.MkdirTemp("", "secrethub-cli-")
	if err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(downloadDir)

	i.notify(PhaseDownload)
	archivePath, err := i.index.DownloadArtifact(ctx, version, i.profile, downloadDir)
	if err != nil {
		return err
	}

	i.notify(PhaseVerify)
	if err := i.index.VerifyArtifact(ctx, version, i.profile, archivePath); err != nil {
		return err
	}

	i.notify(PhaseInstall)

	// Stage inside the destination directory so the final rename cannot
	// cross filesystems.
	staging := filepath.Join(binDir, "."+platform.BinaryBaseName+"-staging"+i.profile.BinarySuffix)
	if err := release.ExtractBinary(archivePath, i.profile, staging); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return secrethuberrors.NewPermissionError(binDir, err)
		}
		return err
	}

	probed, err := secrethub.BinaryVersion(ctx, i.executor, staging)
	if err != nil {
		os.Remove(staging)
		return secrethuberrors.NewVerificationError(i.profile.ArtifactName(version), "extracted binary failed its version probe", err)
	}
	if probed != version {
		os.Remove(staging)
		return secrethuberrors.NewVerificationError(i.profile.ArtifactName(version),
			fmt.Sprintf("extracted binary reports version %s, want %s", probed, version), nil)
	}

	if err := os.Rename(staging, binPath); err != nil {
		os.Remove(staging)
		if errors.Is(err, fs.ErrPermission) {
			return secrethuberrors.NewPermissionError(binPath, err)
		}
		return fmt.Errorf("placing binary: %w", err)
	}
	return nil
}

// remove deletes the binary and cleans up the bin/ and install directories
// when they end up empty. Non-empty directories stay.
func (i *Installer) remove(binPath, installDir string) error {
	if err := os.Remove(binPath); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return secrethuberrors.NewPermissionError(binPath, err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", binPath, err)
		}
	}

	// os.Remove refuses to delete non-empty directories, which is exactly
	// the wanted behavior here.
	_ = os.Remove(filepath.Dir(binPath))
	_ = os.Remove(installDir)
	return nil
}
