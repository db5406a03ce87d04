// Package release talks to the upstream distribution of the SecretHub CLI:
// resolving the newest published version, downloading release artifacts and
// verifying them against the published checksums. Nothing here retries; a
// single fetch failure surfaces as a single error.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/secrethub/ansible-secrethub/internal/logger"
	"github.com/secrethub/ansible-secrethub/internal/platform"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

const (
	defaultAPIBaseURL      = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"

	releaseRepo = "secrethub/secrethub-cli"
)

// Options configures an Index. Zero values select the real upstream
// endpoints; tests point the base URLs at a local server.
type Options struct {
	APIBaseURL      string
	DownloadBaseURL string
	HTTPClient      *http.Client
	Logger          *logger.Logger
}

// Index resolves versions and artifacts of the published CLI releases.
type Index struct {
	apiBaseURL      string
	downloadBaseURL string
	client          *http.Client
	logger          *logger.Logger
}

// NewIndex builds an Index from Options.
func NewIndex(opts Options) *Index {
	idx := &Index{
		apiBaseURL:      strings.TrimSuffix(opts.APIBaseURL, "/"),
		downloadBaseURL: strings.TrimSuffix(opts.DownloadBaseURL, "/"),
		client:          opts.HTTPClient,
		logger:          opts.Logger,
	}
	if idx.apiBaseURL == "" {
		idx.apiBaseURL = defaultAPIBaseURL
	}
	if idx.downloadBaseURL == "" {
		idx.downloadBaseURL = defaultDownloadBaseURL
	}
	if idx.client == nil {
		idx.client = http.DefaultClient
	}
	if idx.logger == nil {
		idx.logger = logger.Nop()
	}
	idx.logger = idx.logger.WithComponent("release-index")
	return idx
}

// LatestVersion queries the release index for the newest published version
// and returns it without the tag prefix.
func (i *Index) LatestVersion(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", i.apiBaseURL, releaseRepo)

	resp, err := i.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", secrethuberrors.NewNetworkError(url, fmt.Errorf("decoding release index response: %w", err))
	}
	if payload.TagName == "" {
		return "", secrethuberrors.NewNetworkError(url, fmt.Errorf("release index response carries no tag name"))
	}

	version := strings.TrimPrefix(payload.TagName, "v")
	i.logger.WithFields(map[string]any{"version": version}).Debug("resolved latest version")
	return version, nil
}

// ArtifactURL returns the download location of the release archive for a
// version and platform. The version is given without the tag prefix.
func (i *Index) ArtifactURL(version string, p platform.Profile) string {
	return fmt.Sprintf("%s/%s/releases/download/v%s/%s", i.downloadBaseURL, releaseRepo, version, p.ArtifactName(version))
}

// ChecksumsURL returns the download location of the checksums file published
// with a release.
func (i *Index) ChecksumsURL(version string, p platform.Profile) string {
	return fmt.Sprintf("%s/%s/releases/download/v%s/%s", i.downloadBaseURL, releaseRepo, version, p.ChecksumsName(version))
}

// get performs one HTTP request and maps transport failures and non-200
// responses onto NetworkError.
func (i *Index) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, secrethuberrors.NewNetworkError(url, err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, secrethuberrors.NewNetworkError(url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, secrethuberrors.NewNetworkError(url, fmt.Errorf("unexpected status %s", resp.Status))
	}
	return resp, nil
}
