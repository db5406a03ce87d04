package installer

// Presence is the desired install state of the CLI binary.
type Presence string

// Phase names one stage of a convergence run, for progress reporting.
type Phase string

const (
	// PhaseResolve covers probing the installed binary and resolving the
	// target version.
	PhaseResolve Phase = "resolve"
	// PhaseDownload covers fetching the release archive.
	PhaseDownload Phase = "download"
	// PhaseVerify covers the checksum comparison.
	PhaseVerify Phase = "verify"
	// PhaseInstall covers extraction and placement of the binary.
	PhaseInstall Phase = "install"
	// PhaseRemove covers deleting the binary on absent runs.
	PhaseRemove Phase = "remove"
)

const (
	// Present means the CLI must be installed at the target version.
	Present Presence = "present"
	// Absent means the CLI must not be installed.
	Absent Presence = "absent"
)

// DesiredState describes the installation a caller wants. It is immutable
// for the duration of one convergence run.
type DesiredState struct {
	// Version is an exact version ("0.44.0", "v0.44.0") or "latest".
	// Empty means "latest". Ignored when Presence is Absent.
	Version string
	// InstallDir overrides the platform default installation directory.
	InstallDir string
	// Presence selects between install and removal. Empty means Present.
	Presence Presence
}

// ObservedState is what a probe of the target system found.
type ObservedState struct {
	// Installed reports whether a binary exists at Path.
	Installed bool
	// Path is the probed binary location.
	Path string
	// Version is the version the binary reported, empty when unknown.
	Version string
	// ExecutableValid reports whether the binary answered its version
	// probe. An installed binary with ExecutableValid false is in an
	// unknown state and gets reinstalled rather than trusted.
	ExecutableValid bool
}

// Evaluation reports what a convergence run would do, without doing it.
type Evaluation struct {
	Observed       ObservedState
	InstallDir     string
	TargetVersion  string
	RequiresAction bool
	Message        string
}

// ConvergenceResult is the outcome of one convergence run.
type ConvergenceResult struct {
	BinPath    string
	InstallDir string
	Version    string
	Changed    bool
}
