package testutil

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/secrethub/ansible-secrethub/internal/platform"
)

// FakeCLIScript returns a shell script that stands in for the real CLI
// binary in tests. Like the real CLI, it reports its version on stderr.
func FakeCLIScript(version string) []byte {
	return []byte(fmt.Sprintf("#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then\n  echo %q >&2\n  exit 0\nfi\nexit 1\n", version))
}

// BuildTarGz packs the given files into a tar.gz archive. Files whose name
// ends in the CLI binary name get executable permissions.
func BuildTarGz(t testing.TB, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		header := &tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("writing tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("writing tar entry: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

// BuildZip packs the given files into a zip archive.
func BuildZip(t testing.TB, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry: %v", err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("writing zip entry: %v", err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buf.Bytes()
}

// ChecksumLine renders one checksums file line for the given content.
func ChecksumLine(content []byte, name string) string {
	return fmt.Sprintf("%x  %s", sha256.Sum256(content), name)
}

// ReleaseServer is an httptest server that mimics the upstream release
// distribution: a latest-release index endpoint and per-version artifact
// downloads.
type ReleaseServer struct {
	*httptest.Server

	mu     sync.Mutex
	latest string
	files  map[string]map[string][]byte
	status map[string]int
}

// NewReleaseServer starts a fake release distribution, closed automatically
// when the test finishes.
func NewReleaseServer(t testing.TB) *ReleaseServer {
	t.Helper()

	rs := &ReleaseServer{
		files:  make(map[string]map[string][]byte),
		status: make(map[string]int),
	}
	rs.Server = httptest.NewServer(http.HandlerFunc(rs.handle))
	t.Cleanup(rs.Close)
	return rs
}

// SetLatest sets the version the latest-release endpoint reports.
func (rs *ReleaseServer) SetLatest(version string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.latest = version
}

// AddRelease publishes a release: an archive holding bin/<binary> with the
// given content, plus a checksums file covering it.
func (rs *ReleaseServer) AddRelease(t testing.TB, version string, p platform.Profile, binary []byte) {
	t.Helper()

	entry := "bin/" + p.BinaryName()
	var archive []byte
	if p.ArchiveExt == "zip" {
		archive = BuildZip(t, map[string][]byte{entry: binary})
	} else {
		archive = BuildTarGz(t, map[string][]byte{entry: binary})
	}

	artifactName := p.ArtifactName(version)
	rs.AddFile(version, artifactName, archive)
	rs.AddFile(version, p.ChecksumsName(version), []byte(ChecksumLine(archive, artifactName)+"\n"))
}

// AddFile publishes one raw file under a release version.
func (rs *ReleaseServer) AddFile(version, name string, content []byte) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.files[version] == nil {
		rs.files[version] = make(map[string][]byte)
	}
	rs.files[version][name] = content
}

// FailWith makes the given request path return an HTTP status instead of
// content.
func (rs *ReleaseServer) FailWith(path string, status int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status[path] = status
}

func (rs *ReleaseServer) handle(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if status, ok := rs.status[r.URL.Path]; ok {
		w.WriteHeader(status)
		return
	}

	if r.URL.Path == "/repos/secrethub/secrethub-cli/releases/latest" {
		if rs.latest == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"tag_name": "v%s"}`, rs.latest)
		return
	}

	const prefix = "/secrethub/secrethub-cli/releases/download/"
	if strings.HasPrefix(r.URL.Path, prefix) {
		rest := strings.TrimPrefix(r.URL.Path, prefix)
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		version := strings.TrimPrefix(parts[0], "v")
		content, ok := rs.files[version][parts[1]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(content)
		return
	}

	w.WriteHeader(http.StatusNotFound)
}
