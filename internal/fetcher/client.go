package fetcher

import (
	"context"
	"fmt"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/quantmind-br/composefetch-go/internal/cache"
	"github.com/quantmind-br/composefetch-go/internal/domain"
	"github.com/quantmind-br/composefetch-go/pkg/version"
)

// Client fetches raw files over HTTPS using tls-client. It is the default
// transport: one GET against the raw-content address of the locator.
type Client struct {
	tlsClient    tls_client.HttpClient
	userAgent    string
	retrier      *Retrier
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
	refreshCache bool
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout      time.Duration
	MaxRetries   int
	UserAgent    string
	Cache        domain.Cache
	EnableCache  bool
	CacheTTL     time.Duration
	RefreshCache bool
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// NewClient creates a new HTTP file fetcher
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithNotFollowRedirects(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "composefetch/" + version.Short()
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	})

	return &Client{
		tlsClient:    tlsClient,
		userAgent:    userAgent,
		retrier:      retrier,
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache && opts.Cache != nil,
		cacheTTL:     opts.CacheTTL,
		refreshCache: opts.RefreshCache,
	}, nil
}

// Ensure Client implements domain.FileFetcher
var _ domain.FileFetcher = (*Client)(nil)

// Name returns the transport name
func (c *Client) Name() string {
	return "http"
}

// Fetch retrieves the raw bytes of the file identified by the locator
func (c *Client) Fetch(ctx context.Context, loc domain.FileLocator) ([]byte, error) {
	url := loc.RawURL()
	cacheKey := cache.FileKey(url)

	if c.cacheEnabled && !c.refreshCache {
		if data, err := c.cache.Get(ctx, cacheKey); err == nil {
			return data, nil
		}
	}

	data, err := RetryWithValue(ctx, c.retrier, func() ([]byte, error) {
		return c.doRequest(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled {
		_ = c.cache.Set(ctx, cacheKey, data, c.cacheTTL)
	}

	return data, nil
}

func (c *Client) doRequest(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain, application/x-yaml, */*")

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        &domain.FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)},
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		inner := error(fmt.Errorf("HTTP %d", resp.StatusCode))
		if resp.StatusCode == 404 {
			inner = domain.ErrFileNotFound
		}
		return nil, &domain.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        inner,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// Close releases client resources
func (c *Client) Close() error {
	// The TLS client has no Close; kept for interface compliance.
	return nil
}
