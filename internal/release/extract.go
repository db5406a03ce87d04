package release

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/secrethub/ansible-secrethub/internal/platform"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

// ExtractBinary pulls the CLI binary out of a release archive and writes it
// to destPath with executable permissions. Only the named binary entry is
// ever written; archive entry names never reach the filesystem, so hostile
// paths inside an archive cannot escape the destination.
func ExtractBinary(archivePath string, p platform.Profile, destPath string) error {
	if strings.HasSuffix(archivePath, ".zip") {
		return extractBinaryZip(archivePath, p.BinaryName(), destPath)
	}
	return extractBinaryTarGz(archivePath, p.BinaryName(), destPath)
}

func extractBinaryTarGz(archivePath, binaryName, destPath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return secrethuberrors.NewVerificationError(filepath.Base(archivePath), "not a gzip archive", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return secrethuberrors.NewVerificationError(filepath.Base(archivePath), "corrupt tar archive", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if filepath.Base(header.Name) != binaryName {
			continue
		}
		return writeBinary(destPath, tr)
	}

	return secrethuberrors.NewVerificationError(filepath.Base(archivePath),
		fmt.Sprintf("archive does not contain %s", binaryName), nil)
}

func extractBinaryZip(archivePath, binaryName, destPath string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return secrethuberrors.NewVerificationError(filepath.Base(archivePath), "not a zip archive", err)
	}
	defer r.Close()

	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if filepath.Base(entry.Name) != binaryName {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return secrethuberrors.NewVerificationError(filepath.Base(archivePath), "corrupt zip archive", err)
		}
		defer rc.Close()
		return writeBinary(destPath, rc)
	}

	return secrethuberrors.NewVerificationError(filepath.Base(archivePath),
		fmt.Sprintf("archive does not contain %s", binaryName), nil)
}

func writeBinary(destPath string, src io.Reader) error {
	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("writing %s: %w", destPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("closing %s: %w", destPath, err)
	}
	return nil
}
