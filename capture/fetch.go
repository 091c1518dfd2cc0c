package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// MaxBody caps how much of a response is read.
const MaxBody = 10 << 20

// Fetcher captures pages with a single HTTP GET and resolves styles
// statically. It takes no screenshot.
type Fetcher struct {
	client       *http.Client
	ua           string
	rootSelector string
	logger       *slog.Logger
}

// FetchOption configures a Fetcher.
type FetchOption func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) FetchOption { return func(f *Fetcher) { f.client = c } }

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetchOption { return func(f *Fetcher) { f.ua = ua } }

// WithRootSelector restricts extraction to the first match of a selector.
func WithRootSelector(sel string) FetchOption { return func(f *Fetcher) { f.rootSelector = sel } }

// WithFetchLogger sets the logger.
func WithFetchLogger(l *slog.Logger) FetchOption { return func(f *Fetcher) { f.logger = l } }

// NewFetcher returns a Fetcher with a 30s client timeout.
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		ua:     "Mozilla/5.0 (compatible; uxrefactor/1.0)",
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Capture implements Capturer.
func (f *Fetcher) Capture(ctx context.Context, pageURL string) (*Result, error) {
	body, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return f.resolve(pageURL, body)
}

func (f *Fetcher) resolve(pageURL string, body []byte) (*Result, error) {
	res, err := FromHTML(pageURL, string(body), f.rootSelector)
	if err != nil {
		return nil, err
	}
	res.Level = LevelHTTP
	return res, nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	if err := checkURL(pageURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &CaptureError{Op: "fetch", URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &CaptureError{Op: "fetch", URL: pageURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &CaptureError{Op: "fetch", URL: pageURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return nil, &CaptureError{Op: "fetch", URL: pageURL, Err: err}
	}
	f.logger.Debug("capture: fetched", "url", pageURL, "status", resp.StatusCode, "size", len(body))
	return body, nil
}
