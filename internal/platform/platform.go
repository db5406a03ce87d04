// Package platform resolves everything that varies per operating system and
// architecture: the default installation directory, the binary name and the
// naming of upstream release artifacts. All platform conditionals in the
// collection live behind Profile.
package platform

import (
	"fmt"
	"path/filepath"
	"runtime"

	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

const (
	// BinaryBaseName is the name of the CLI binary without a platform suffix.
	BinaryBaseName = "secrethub"

	defaultInstallDirPosix   = "/usr/local/secrethub"
	defaultInstallDirWindows = `C:/Program Files/SecretHub`
)

// Profile captures the platform-dependent facts for one target system.
type Profile struct {
	// OS and Arch are the Go identifiers (GOOS/GOARCH) the profile was
	// built for.
	OS   string
	Arch string

	// DefaultInstallDir is where the CLI lands when no install_dir is given.
	DefaultInstallDir string

	// BinarySuffix is appended to the binary name (".exe" on Windows).
	BinarySuffix string

	// ArchiveExt is the release archive format for this platform.
	ArchiveExt string

	// ReleaseOS and ReleaseArch are the names used in release artifact
	// file names.
	ReleaseOS   string
	ReleaseArch string
}

// Detect builds the profile for the system the process runs on.
func Detect() (Profile, error) {
	return For(runtime.GOOS, runtime.GOARCH)
}

// For builds the profile for an arbitrary target. It fails with a
// PlatformUnsupportedError when no release artifact exists for the
// combination.
func For(goos, goarch string) (Profile, error) {
	releaseOS, err := mapReleaseOS(goos)
	if err != nil {
		return Profile{}, secrethuberrors.NewPlatformUnsupportedError(goos, goarch)
	}

	releaseArch, err := mapReleaseArch(goarch)
	if err != nil {
		return Profile{}, secrethuberrors.NewPlatformUnsupportedError(goos, goarch)
	}

	p := Profile{
		OS:                goos,
		Arch:              goarch,
		DefaultInstallDir: defaultInstallDirPosix,
		BinarySuffix:      "",
		ArchiveExt:        "tar.gz",
		ReleaseOS:         releaseOS,
		ReleaseArch:       releaseArch,
	}
	if goos == "windows" {
		p.DefaultInstallDir = defaultInstallDirWindows
		p.BinarySuffix = ".exe"
		p.ArchiveExt = "zip"
	}
	return p, nil
}

func mapReleaseOS(goos string) (string, error) {
	switch goos {
	case "linux", "darwin", "windows":
		return goos, nil
	default:
		return "", fmt.Errorf("no release published for OS %q", goos)
	}
}

func mapReleaseArch(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return "amd64", nil
	case "386":
		return "x86", nil
	default:
		return "", fmt.Errorf("no release published for architecture %q", goarch)
	}
}

// BinaryName returns the CLI binary file name for this platform.
func (p Profile) BinaryName() string {
	return BinaryBaseName + p.BinarySuffix
}

// BinPath returns the path of the CLI binary inside an install directory.
// The binary always lives in a bin/ subdirectory so the directory can be
// added to PATH.
func (p Profile) BinPath(installDir string) string {
	return filepath.Join(installDir, "bin", p.BinaryName())
}

// DefaultBinPath returns the binary path under the default install directory.
func (p Profile) DefaultBinPath() string {
	return p.BinPath(p.DefaultInstallDir)
}

// ArtifactName returns the release archive file name for the given version.
// The version is given without the tag prefix ("0.44.0").
func (p Profile) ArtifactName(version string) string {
	return fmt.Sprintf("%s-v%s-%s-%s.%s", BinaryBaseName, version, p.ReleaseOS, p.ReleaseArch, p.ArchiveExt)
}

// ChecksumsName returns the checksums file name published with the given
// release version.
func (p Profile) ChecksumsName(version string) string {
	return fmt.Sprintf("%s-v%s-checksums.txt", BinaryBaseName, version)
}

// IsWindows reports whether the profile targets Windows.
func (p Profile) IsWindows() bool {
	return p.OS == "windows"
}
