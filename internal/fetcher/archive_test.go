package fetcher

import (
	"archive/tar"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/composefetch-go/internal/cache"
	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// buildTarball creates an in-memory gzipped tarball with the given entries,
// all under a leading "repo-branch/" directory like GitHub archives.
func buildTarball(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "repo-master/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}))

	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     "repo-master/" + name,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	return buf.Bytes()
}

func TestExtractPath_FindsEntry(t *testing.T) {
	tarball := buildTarball(t, map[string]string{
		"README.md":                  "hello",
		"compose/docker-compose.yml": "version: \"3\"\n",
	})

	data, err := extractPath(bytes.NewReader(tarball), "compose/docker-compose.yml")
	require.NoError(t, err)
	assert.Equal(t, "version: \"3\"\n", string(data))
}

func TestExtractPath_MissingEntry(t *testing.T) {
	tarball := buildTarball(t, map[string]string{"README.md": "hello"})

	_, err := extractPath(bytes.NewReader(tarball), "docker-compose.yml")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestExtractPath_NotGzip(t *testing.T) {
	_, err := extractPath(bytes.NewReader([]byte("plain text")), "any")
	assert.Error(t, err)
}

func TestStripFirstComponent(t *testing.T) {
	assert.Equal(t, "docker-compose.yml", stripFirstComponent("repo-master/docker-compose.yml"))
	assert.Equal(t, "a/b/c.yml", stripFirstComponent("repo-master/a/b/c.yml"))
	assert.Equal(t, "", stripFirstComponent("no-separator"))
}

func TestArchiveURL(t *testing.T) {
	loc := domain.FileLocator{
		Project:    "someuser",
		Repository: "nginx-demo",
		Branch:     "dev",
		Path:       "compose/docker-compose.yml",
	}
	assert.Equal(t,
		"https://github.com/someuser/nginx-demo/archive/refs/heads/dev.tar.gz",
		ArchiveURL(loc))
}

func TestNewArchiveFetcher_Defaults(t *testing.T) {
	f := NewArchiveFetcher(ArchiveFetcherOptions{})
	assert.Equal(t, "archive", f.Name())
	assert.False(t, f.cacheEnabled)
	assert.NoError(t, f.Close())
}

func TestArchiveFetcher_Fetch_CacheHitUsesArchiveKey(t *testing.T) {
	contentCache, err := cache.NewBadgerCache(cache.Options{InMemory: true})
	require.NoError(t, err)
	defer contentCache.Close()

	loc := domain.FileLocator{
		Project:    "org",
		Repository: "repo",
		Branch:     "master",
		Path:       "docker-compose.yml",
	}
	cached := []byte("version: \"3\"\nservices: {}\n")
	key := cache.ArchiveKey(ArchiveURL(loc) + "#" + loc.Path)
	require.NoError(t, contentCache.Set(context.Background(), key, cached, time.Hour))

	f := NewArchiveFetcher(ArchiveFetcherOptions{
		Cache:       contentCache,
		EnableCache: true,
		CacheTTL:    time.Hour,
	})
	defer f.Close()

	// Served from cache, no archive download happens.
	data, err := f.Fetch(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, cached, data)

	// The same address under the file prefix is a different entry.
	_, err = contentCache.Get(context.Background(), cache.FileKey(ArchiveURL(loc)+"#"+loc.Path))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestNewArchiveFetcher_CacheRequiresBackend(t *testing.T) {
	f := NewArchiveFetcher(ArchiveFetcherOptions{
		EnableCache: true,
		CacheTTL:    time.Hour,
	})
	assert.False(t, f.cacheEnabled)
}
