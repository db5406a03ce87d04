package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/secrethub/ansible-secrethub/internal/platform"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

// DownloadArtifact streams the release archive for a version and platform
// into destDir and returns its path. The archive is written to a temporary
// file first and renamed once complete, so destDir never holds a partial
// artifact under the final name.
func (i *Index) DownloadArtifact(ctx context.Context, version string, p platform.Profile, destDir string) (string, error) {
	url := i.ArtifactURL(version, p)

	resp, err := i.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	destPath := filepath.Join(destDir, p.ArtifactName(version))
	tmpPath := destPath + ".tmp"

	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return "", secrethuberrors.NewNetworkError(url, fmt.Errorf("streaming artifact: %w", err))
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing download file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("finalizing download: %w", err)
	}

	i.logger.WithFields(map[string]any{"artifact": p.ArtifactName(version)}).Debug("artifact downloaded")
	return destPath, nil
}
