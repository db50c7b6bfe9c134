package fetcher

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/quantmind-br/composefetch-go/internal/cache"
	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// ArchiveFetcher downloads the branch tarball and extracts the one requested
// path from it while streaming. Useful where raw-content access is disabled
// but repository archives are not.
type ArchiveFetcher struct {
	httpClient   *http.Client
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
	refreshCache bool
}

// ArchiveFetcherOptions contains options for creating an ArchiveFetcher
type ArchiveFetcherOptions struct {
	Timeout      time.Duration
	Cache        domain.Cache
	EnableCache  bool
	CacheTTL     time.Duration
	RefreshCache bool
}

// NewArchiveFetcher creates a new archive-based file fetcher
func NewArchiveFetcher(opts ArchiveFetcherOptions) *ArchiveFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	return &ArchiveFetcher{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache && opts.Cache != nil,
		cacheTTL:     opts.CacheTTL,
		refreshCache: opts.RefreshCache,
	}
}

// Ensure ArchiveFetcher implements domain.FileFetcher
var _ domain.FileFetcher = (*ArchiveFetcher)(nil)

// Name returns the transport name
func (f *ArchiveFetcher) Name() string {
	return "archive"
}

// ArchiveURL returns the tarball address for the locator's branch
func ArchiveURL(loc domain.FileLocator) string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/refs/heads/%s.tar.gz",
		loc.Project, loc.Repository, loc.Branch)
}

// Fetch downloads the branch archive and returns the bytes of the requested path
func (f *ArchiveFetcher) Fetch(ctx context.Context, loc domain.FileLocator) ([]byte, error) {
	cacheKey := cache.ArchiveKey(ArchiveURL(loc) + "#" + loc.Path)

	if f.cacheEnabled && !f.refreshCache {
		if data, err := f.cache.Get(ctx, cacheKey); err == nil {
			return data, nil
		}
	}

	data, err := f.download(ctx, loc)
	if err != nil {
		return nil, err
	}

	if f.cacheEnabled {
		_ = f.cache.Set(ctx, cacheKey, data, f.cacheTTL)
	}

	return data, nil
}

func (f *ArchiveFetcher) download(ctx context.Context, loc domain.FileLocator) ([]byte, error) {
	archiveURL := ArchiveURL(loc)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, err
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: archiveURL, Err: fmt.Errorf("download request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		inner := error(fmt.Errorf("HTTP %d", resp.StatusCode))
		if resp.StatusCode == http.StatusNotFound {
			inner = domain.ErrFileNotFound
		}
		return nil, &domain.FetchError{URL: archiveURL, StatusCode: resp.StatusCode, Err: inner}
	}

	data, err := extractPath(resp.Body, loc.Path)
	if err != nil {
		return nil, &domain.FetchError{URL: archiveURL, Err: err}
	}
	return data, nil
}

// extractPath streams the tarball and returns the bytes of the entry whose
// path (with the leading repo-branch directory stripped) matches wanted.
func extractPath(r io.Reader, wanted string) ([]byte, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip reader failed: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tar read failed: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		// Archive entries are prefixed with "<repo>-<branch>/".
		relativePath := stripFirstComponent(header.Name)
		if relativePath != wanted {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("tar entry read failed: %w", err)
		}
		return data, nil
	}

	return nil, domain.ErrFileNotFound
}

// Close releases transport resources
func (f *ArchiveFetcher) Close() error {
	f.httpClient.CloseIdleConnections()
	return nil
}

func stripFirstComponent(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return ""
}
