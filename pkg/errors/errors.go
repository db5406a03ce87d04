package errors

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a bad or missing module parameter.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigurationError constructs a ConfigurationError.
func NewConfigurationError(field, message string, err error) error {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NetworkError reports a failure to reach or fetch from the release
// distribution.
type NetworkError struct {
	URL string
	Err error
}

// NewNetworkError constructs a NetworkError.
func NewNetworkError(url string, err error) error {
	return &NetworkError{URL: url, Err: err}
}

func (e *NetworkError) Error() string {
	if e == nil {
		return ""
	}
	if e.URL != "" {
		return fmt.Sprintf("network error: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PlatformUnsupportedError reports an OS or architecture with no published
// release artifact.
type PlatformUnsupportedError struct {
	OS   string
	Arch string
}

// NewPlatformUnsupportedError constructs a PlatformUnsupportedError.
func NewPlatformUnsupportedError(os, arch string) error {
	return &PlatformUnsupportedError{OS: os, Arch: arch}
}

func (e *PlatformUnsupportedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unsupported platform: %s/%s", e.OS, e.Arch)
}

// PermissionError reports a filesystem or process operation denied to the
// current user.
type PermissionError struct {
	Path string
	Err  error
}

// NewPermissionError constructs a PermissionError.
func NewPermissionError(path string, err error) error {
	return &PermissionError{Path: path, Err: err}
}

func (e *PermissionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("permission denied: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("permission denied: %s", e.Path)
}

// Unwrap exposes the underlying error.
func (e *PermissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExternalProcessError reports a non-zero exit from the invoked CLI binary,
// with whatever it wrote to stderr.
type ExternalProcessError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

// NewExternalProcessError constructs an ExternalProcessError.
func NewExternalProcessError(cmd string, exitCode int, stderr string, err error) error {
	return &ExternalProcessError{Cmd: cmd, ExitCode: exitCode, Stderr: strings.TrimSpace(stderr), Err: err}
}

func (e *ExternalProcessError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Cmd, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Cmd, e.ExitCode)
}

// Unwrap exposes the underlying error.
func (e *ExternalProcessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// VerificationError reports a downloaded artifact that failed checksum or
// executable validation.
type VerificationError struct {
	Path    string
	Message string
	Err     error
}

// NewVerificationError constructs a VerificationError.
func NewVerificationError(path, message string, err error) error {
	return &VerificationError{Path: path, Message: message, Err: err}
}

func (e *VerificationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("verification failed: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("verification failed: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *VerificationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
