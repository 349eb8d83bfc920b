package feed

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/jurko22/xml-import/internal/util"

	"go.uber.org/zap"
)

// Fetcher downloads the remote feed document over HTTP.
type Fetcher struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// FetcherOptions configures the transport used for feed downloads.
// InsecureTLS skips certificate validation for this fetcher only; it is never
// a process-wide setting.
type FetcherOptions struct {
	Timeout     time.Duration
	InsecureTLS bool
}

// NewFetcher creates a new feed fetcher
func NewFetcher(url string, opts FetcherOptions) *Fetcher {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	if opts.InsecureTLS {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Fetcher{
		url:    url,
		client: client,
		logger: util.GetLogger(),
	}
}

// Fetch downloads and parses the feed document. Any transport failure or
// non-2xx response is fatal for the run.
func (f *Fetcher) Fetch(ctx context.Context) (*Shop, error) {
	ctx, span := util.StartSpan(ctx, "Fetcher.Fetch")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed fetch returned status %d", resp.StatusCode)
	}

	shop, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Feed fetched",
		zap.String("url", f.url),
		zap.Int("items", len(shop.Items)))

	return shop, nil
}
