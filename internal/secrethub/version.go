package secrethub

import (
	"context"
	"fmt"
	"strings"
)

// BinaryVersion runs `<binPath> --version` through the executor and returns
// the normalized version string. The CLI has historically printed its version
// to stderr, so stdout is preferred and stderr is the fallback.
func BinaryVersion(ctx context.Context, executor CommandExecutor, binPath string) (string, error) {
	stdout, stderr, err := executor.Execute(ctx, Command{
		Name: binPath,
		Args: []string{"--version"},
	})
	if err != nil {
		return "", fmt.Errorf("probing %s: %w", binPath, err)
	}
	return parseVersionOutput(stdout, stderr)
}

// parseVersionOutput extracts a bare version ("0.44.0") from the probe
// output. Output that does not look like a single version token is treated
// as unparseable so callers can handle the binary as being in an unknown
// state.
func parseVersionOutput(stdout, stderr []byte) (string, error) {
	out := strings.TrimSpace(string(stdout))
	if out == "" {
		out = strings.TrimSpace(string(stderr))
	}
	if out == "" {
		return "", fmt.Errorf("version probe produced no output")
	}
	if strings.ContainsAny(out, " \t\n") {
		return "", fmt.Errorf("unrecognized version output %q", out)
	}
	return NormalizeVersion(out), nil
}

// NormalizeVersion strips the release tag prefix so versions from tags
// ("v0.44.0"), probe output and module parameters compare equal.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
