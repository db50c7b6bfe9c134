package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/composefetch-go/internal/cache"
	"github.com/quantmind-br/composefetch-go/internal/domain"
)

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "http", c.Name())
	assert.Contains(t, c.userAgent, "composefetch/")
	assert.False(t, c.cacheEnabled)
}

func TestNewClient_CustomUserAgent(t *testing.T) {
	c, err := NewClient(ClientOptions{UserAgent: "custom-agent/1.0"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "custom-agent/1.0", c.userAgent)
}

func TestClient_Fetch_CacheHit(t *testing.T) {
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
	require.NoError(t, contentCache.Set(context.Background(), cache.FileKey(loc.RawURL()), cached, time.Hour))

	c, err := NewClient(ClientOptions{
		Cache:       contentCache,
		EnableCache: true,
		CacheTTL:    time.Hour,
	})
	require.NoError(t, err)
	defer c.Close()

	// Served from cache, no request leaves the process.
	data, err := c.Fetch(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, cached, data)
}

func TestDefaultClientOptions(t *testing.T) {
	opts := DefaultClientOptions()
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 3, opts.MaxRetries)
}
