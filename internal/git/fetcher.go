package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// Fetcher retrieves files by shallow-cloning the repository branch. Slowest of
// the transports but works against any git host, not just GitHub raw content.
type Fetcher struct {
	client Client
}

// NewFetcher creates a git-based file fetcher
func NewFetcher(client Client) *Fetcher {
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{client: client}
}

// Ensure Fetcher implements domain.FileFetcher
var _ domain.FileFetcher = (*Fetcher)(nil)

// Name returns the transport name
func (f *Fetcher) Name() string {
	return "git"
}

// CloneURL returns the HTTPS clone address for the locator's repository
func CloneURL(loc domain.FileLocator) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", loc.Project, loc.Repository)
}

// Fetch clones the branch at depth 1 into a temp dir and reads the requested path
func (f *Fetcher) Fetch(ctx context.Context, loc domain.FileLocator) ([]byte, error) {
	// The path must stay inside the checkout.
	if !filepath.IsLocal(filepath.FromSlash(loc.Path)) {
		return nil, &domain.FetchError{
			URL: CloneURL(loc),
			Err: fmt.Errorf("path escapes repository: %s", loc.Path),
		}
	}

	tmpDir, err := os.MkdirTemp("", "composefetch-git-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cloneURL := CloneURL(loc)

	cloneOpts := &git.CloneOptions{
		URL:           cloneURL,
		ReferenceName: plumbing.NewBranchReferenceName(loc.Branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      nil,
	}

	// Use HTTPS auth if available
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: token,
		}
	}

	if _, err := f.client.PlainCloneContext(ctx, tmpDir, false, cloneOpts); err != nil {
		return nil, &domain.FetchError{
			URL: cloneURL,
			Err: fmt.Errorf("clone failed: %w", err),
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, filepath.FromSlash(loc.Path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.FetchError{URL: cloneURL, Err: domain.ErrFileNotFound}
		}
		return nil, &domain.FetchError{URL: cloneURL, Err: err}
	}

	return data, nil
}

// Close releases transport resources
func (f *Fetcher) Close() error {
	return nil
}
