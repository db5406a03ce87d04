package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigurationErrorNamesField(t *testing.T) {
	t.Parallel()

	err := NewConfigurationError("path", "is required", nil)

	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	require.Equal(t, "path", configErr.Field)
	require.Contains(t, err.Error(), "path")
	require.Contains(t, err.Error(), "is required")
}

func TestNetworkErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("connection refused")
	err := NewNetworkError("https://example.com/release.tar.gz", underlying)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, "https://example.com/release.tar.gz", netErr.URL)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "connection refused")
}

func TestPlatformUnsupportedErrorIncludesTriple(t *testing.T) {
	t.Parallel()

	err := NewPlatformUnsupportedError("plan9", "arm64")

	var platErr *PlatformUnsupportedError
	require.ErrorAs(t, err, &platErr)
	require.Equal(t, "plan9", platErr.OS)
	require.Equal(t, "arm64", platErr.Arch)
	require.Equal(t, "unsupported platform: plan9/arm64", err.Error())
}

func TestPermissionErrorIncludesPath(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("operation not permitted")
	err := NewPermissionError("/usr/local/secrethub/bin", underlying)

	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)
	require.Equal(t, "/usr/local/secrethub/bin", permErr.Path)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestExternalProcessErrorCapturesStderr(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("exit status 1")
	err := NewExternalProcessError("secrethub read", 1, "error: secret not found\n", underlying)

	var procErr *ExternalProcessError
	require.ErrorAs(t, err, &procErr)
	require.Equal(t, 1, procErr.ExitCode)
	require.Equal(t, "error: secret not found", procErr.Stderr)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "exited with status 1")
}

func TestVerificationErrorIncludesArtifact(t *testing.T) {
	t.Parallel()

	err := NewVerificationError("secrethub-v0.44.0-linux-amd64.tar.gz", "checksum mismatch", nil)

	var verifyErr *VerificationError
	require.ErrorAs(t, err, &verifyErr)
	require.Equal(t, "secrethub-v0.44.0-linux-amd64.tar.gz", verifyErr.Path)
	require.Contains(t, err.Error(), "checksum mismatch")
}
