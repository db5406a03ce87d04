package release

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/secrethub/ansible-secrethub/internal/platform"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

// VerifyArtifact checks a downloaded archive against the checksums file
// published with the release. A checksum mismatch or a missing entry is a
// VerificationError; failure to fetch the checksums file is a NetworkError.
func (i *Index) VerifyArtifact(ctx context.Context, version string, p platform.Profile, archivePath string) error {
	url := i.ChecksumsURL(version, p)

	resp, err := i.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	checksums, err := io.ReadAll(resp.Body)
	if err != nil {
		return secrethuberrors.NewNetworkError(url, fmt.Errorf("reading checksums: %w", err))
	}

	artifactName := p.ArtifactName(version)
	expected, err := findChecksum(checksums, artifactName)
	if err != nil {
		return secrethuberrors.NewVerificationError(artifactName, err.Error(), err)
	}

	actual, err := fileSHA256(archivePath)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", archivePath, err)
	}

	if !strings.EqualFold(expected, actual) {
		return secrethuberrors.NewVerificationError(artifactName,
			fmt.Sprintf("checksum mismatch: expected %s, got %s", expected, actual), nil)
	}

	i.logger.WithFields(map[string]any{"artifact": artifactName}).Debug("checksum verified")
	return nil
}

// findChecksum locates the hash for a file in checksums data of the common
// "<hex>  <name>" line format. Entries may carry directory prefixes, so the
// base name matches as a fallback.
func findChecksum(data []byte, name string) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		hash, entry := fields[0], fields[1]
		entry = strings.TrimPrefix(entry, "*")
		if entry == name || filepath.Base(entry) == name {
			return hash, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading checksums: %w", err)
	}
	return "", fmt.Errorf("no checksum entry for %s", name)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
