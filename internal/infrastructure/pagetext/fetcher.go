package pagetext

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/bidwriter/backend/internal/domain"
	"github.com/chromedp/chromedp"
)

const (
	defaultFetchTimeout = 45 * time.Second
	defaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// FetcherConfig holds configuration for the headless browser fetcher
type FetcherConfig struct {
	Timeout    time.Duration
	ChromePath string
	UserAgent  string
}

// Fetcher loads listing pages in headless Chrome and returns their visible text.
// Marketplace project pages render client-side, so a plain HTTP GET is not enough.
type Fetcher struct {
	timeout   time.Duration
	allocOpts []chromedp.ExecAllocatorOption
}

// NewFetcher creates a page fetcher. Each Fetch starts its own browser.
func NewFetcher(config FetcherConfig) *Fetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if config.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(config.ChromePath))
	}

	return &Fetcher{timeout: timeout, allocOpts: opts}
}

// Fetch navigates to pageURL and returns document.body.innerText
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := validatePageURL(pageURL); err != nil {
		return "", err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocOpts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	log.Printf("[FETCHER] Loading %s", pageURL)

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.body.innerText`, &text),
	)
	if err != nil {
		log.Printf("[FETCHER] Failed to load %s: %v", pageURL, err)
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	log.Printf("[FETCHER] Loaded %s (%d bytes of text)", pageURL, len(text))
	return text, nil
}

// validatePageURL accepts absolute http(s) URLs only
func validatePageURL(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("%w: invalid url: %v", domain.ErrInvalidRequest, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", domain.ErrInvalidRequest)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: url has no host", domain.ErrInvalidRequest)
	}
	return nil
}
