package release_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/secrethub/ansible-secrethub/internal/platform"
	"github.com/secrethub/ansible-secrethub/internal/release"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
	"github.com/secrethub/ansible-secrethub/tests/testutil"
)

func linuxProfile(t *testing.T) platform.Profile {
	t.Helper()
	p, err := platform.For("linux", "amd64")
	require.NoError(t, err)
	return p
}

func serverIndex(rs *testutil.ReleaseServer) *release.Index {
	return release.NewIndex(release.Options{
		APIBaseURL:      rs.URL,
		DownloadBaseURL: rs.URL,
	})
}

func TestLatestVersionStripsTagPrefix(t *testing.T) {
	t.Parallel()

	rs := testutil.NewReleaseServer(t)
	rs.SetLatest("0.44.0")

	version, err := serverIndex(rs).LatestVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.44.0", version)
}

func TestLatestVersionUnavailable(t *testing.T) {
	t.Parallel()

	rs := testutil.NewReleaseServer(t)

	_, err := serverIndex(rs).LatestVersion(context.Background())
	require.Error(t, err)

	var netErr *secrethuberrors.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestArtifactURLLayout(t *testing.T) {
	t.Parallel()

	idx := release.NewIndex(release.Options{})
	p := linuxProfile(t)

	require.Equal(t,
		"https://github.com/secrethub/secrethub-cli/releases/download/v0.44.0/secrethub-v0.44.0-linux-amd64.tar.gz",
		idx.ArtifactURL("0.44.0", p))
	require.Equal(t,
		"https://github.com/secrethub/secrethub-cli/releases/download/v0.44.0/secrethub-v0.44.0-checksums.txt",
		idx.ChecksumsURL("0.44.0", p))
}

func TestDownloadArtifact(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	rs := testutil.NewReleaseServer(t)
	rs.AddRelease(t, "0.44.0", p, testutil.FakeCLIScript("0.44.0"))

	destDir := t.TempDir()
	path, err := serverIndex(rs).DownloadArtifact(context.Background(), "0.44.0", p, destDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(destDir, p.ArtifactName("0.44.0")), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "temporary download file must not survive")
}

func TestDownloadArtifactMissingRelease(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	rs := testutil.NewReleaseServer(t)

	destDir := t.TempDir()
	_, err := serverIndex(rs).DownloadArtifact(context.Background(), "9.9.9", p, destDir)
	require.Error(t, err)

	var netErr *secrethuberrors.NetworkError
	require.ErrorAs(t, err, &netErr)

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	require.Empty(t, entries, "failed download must leave nothing behind")
}

func TestVerifyArtifact(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	rs := testutil.NewReleaseServer(t)
	rs.AddRelease(t, "0.44.0", p, testutil.FakeCLIScript("0.44.0"))

	idx := serverIndex(rs)
	destDir := t.TempDir()
	path, err := idx.DownloadArtifact(context.Background(), "0.44.0", p, destDir)
	require.NoError(t, err)

	require.NoError(t, idx.VerifyArtifact(context.Background(), "0.44.0", p, path))
}

func TestVerifyArtifactChecksumMismatch(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	rs := testutil.NewReleaseServer(t)
	rs.AddRelease(t, "0.44.0", p, testutil.FakeCLIScript("0.44.0"))
	rs.AddFile("0.44.0", p.ChecksumsName("0.44.0"),
		[]byte("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef  "+p.ArtifactName("0.44.0")+"\n"))

	idx := serverIndex(rs)
	destDir := t.TempDir()
	path, err := idx.DownloadArtifact(context.Background(), "0.44.0", p, destDir)
	require.NoError(t, err)

	err = idx.VerifyArtifact(context.Background(), "0.44.0", p, path)
	require.Error(t, err)

	var verifyErr *secrethuberrors.VerificationError
	require.ErrorAs(t, err, &verifyErr)
	require.Contains(t, err.Error(), "checksum mismatch")
}

func TestVerifyArtifactChecksumEntryMissing(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	rs := testutil.NewReleaseServer(t)
	rs.AddRelease(t, "0.44.0", p, testutil.FakeCLIScript("0.44.0"))
	rs.AddFile("0.44.0", p.ChecksumsName("0.44.0"), []byte("cafebabe  some-other-file.tar.gz\n"))

	idx := serverIndex(rs)
	destDir := t.TempDir()
	path, err := idx.DownloadArtifact(context.Background(), "0.44.0", p, destDir)
	require.NoError(t, err)

	err = idx.VerifyArtifact(context.Background(), "0.44.0", p, path)
	require.Error(t, err)

	var verifyErr *secrethuberrors.VerificationError
	require.ErrorAs(t, err, &verifyErr)
}

func TestVerifyArtifactChecksumsUnavailable(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	rs := testutil.NewReleaseServer(t)
	artifact := testutil.BuildTarGz(t, map[string][]byte{"bin/secrethub": testutil.FakeCLIScript("0.44.0")})
	rs.AddFile("0.44.0", p.ArtifactName("0.44.0"), artifact)

	idx := serverIndex(rs)
	destDir := t.TempDir()
	path, err := idx.DownloadArtifact(context.Background(), "0.44.0", p, destDir)
	require.NoError(t, err)

	err = idx.VerifyArtifact(context.Background(), "0.44.0", p, path)
	require.Error(t, err)

	var netErr *secrethuberrors.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestExtractBinaryTarGz(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	script := testutil.FakeCLIScript("0.44.0")
	archive := testutil.BuildTarGz(t, map[string][]byte{
		"bin/secrethub": script,
		"LICENSE":       []byte("license text"),
	})

	dir := t.TempDir()
	archivePath := filepath.Join(dir, p.ArtifactName("0.44.0"))
	require.NoError(t, os.WriteFile(archivePath, archive, 0o644))

	destPath := filepath.Join(dir, "secrethub")
	require.NoError(t, release.ExtractBinary(archivePath, p, destPath))

	content, err := os.ReadFile(destPath)
	require.NoError(t, err)
	require.Equal(t, script, content)

	info, err := os.Stat(destPath)
	require.NoError(t, err)
	require.NotZero(t, info.Mode().Perm()&0o111, "extracted binary must be executable")
}

func TestExtractBinaryZip(t *testing.T) {
	t.Parallel()

	p, err := platform.For("windows", "amd64")
	require.NoError(t, err)

	script := testutil.FakeCLIScript("0.44.0")
	archive := testutil.BuildZip(t, map[string][]byte{"bin/secrethub.exe": script})

	dir := t.TempDir()
	archivePath := filepath.Join(dir, p.ArtifactName("0.44.0"))
	require.NoError(t, os.WriteFile(archivePath, archive, 0o644))

	destPath := filepath.Join(dir, "secrethub.exe")
	require.NoError(t, release.ExtractBinary(archivePath, p, destPath))

	content, err := os.ReadFile(destPath)
	require.NoError(t, err)
	require.Equal(t, script, content)
}

func TestExtractBinaryMissingFromArchive(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	archive := testutil.BuildTarGz(t, map[string][]byte{"LICENSE": []byte("license text")})

	dir := t.TempDir()
	archivePath := filepath.Join(dir, p.ArtifactName("0.44.0"))
	require.NoError(t, os.WriteFile(archivePath, archive, 0o644))

	err := release.ExtractBinary(archivePath, p, filepath.Join(dir, "secrethub"))
	require.Error(t, err)

	var verifyErr *secrethuberrors.VerificationError
	require.ErrorAs(t, err, &verifyErr)
}

func TestExtractBinaryCorruptArchive(t *testing.T) {
	t.Parallel()

	p := linuxProfile(t)
	dir := t.TempDir()
	archivePath := filepath.Join(dir, p.ArtifactName("0.44.0"))
	require.NoError(t, os.WriteFile(archivePath, []byte("not an archive"), 0o644))

	err := release.ExtractBinary(archivePath, p, filepath.Join(dir, "secrethub"))
	require.Error(t, err)

	var verifyErr *secrethuberrors.VerificationError
	require.ErrorAs(t, err, &verifyErr)
}
