// Package webfetch retrieves rendered HTML pages through a headless
// browser, used for hosts that gate plain HTTP clients behind bot checks.
package webfetch

import (
	"context"
	"time"

	"github.com/naozine/nz-html-fetch/pkg/htmlfetch"
)

// Client fetches web pages.
type Client struct {
	fetcher *htmlfetch.Fetcher
}

// Options configure client creation.
type Options struct {
	Stealth     bool   // evade bot detection (default: true)
	Proxy       string // proxy address
	BrowserPath string // browser binary path
}

// NewClient creates a client and starts the browser.
func NewClient(opts *Options) (*Client, error) {
	var fetcherOpts []htmlfetch.Option

	if opts != nil {
		if opts.BrowserPath != "" {
			fetcherOpts = append(fetcherOpts, htmlfetch.WithBrowserPath(opts.BrowserPath))
		}
		if opts.Proxy != "" {
			fetcherOpts = append(fetcherOpts, htmlfetch.WithProxy(opts.Proxy))
		}
		fetcherOpts = append(fetcherOpts, htmlfetch.WithStealth(opts.Stealth))
	} else {
		fetcherOpts = append(fetcherOpts, htmlfetch.WithStealth(true))
	}

	fetcher := htmlfetch.New(fetcherOpts...)
	if err := fetcher.Start(); err != nil {
		return nil, err
	}

	return &Client{fetcher: fetcher}, nil
}

// Close shuts down the browser.
func (c *Client) Close() error {
	if c.fetcher != nil {
		return c.fetcher.Close()
	}
	return nil
}

// FetchHTML fetches the rendered HTML for a URL. The selector, when not
// empty, is waited for before the page is captured.
func (c *Client) FetchHTML(ctx context.Context, url, selector string) (string, error) {
	var fetchOpts []htmlfetch.FetchOption
	if selector != "" {
		fetchOpts = append(fetchOpts, htmlfetch.WithSelector(selector, 30*time.Second))
	}

	result, err := c.fetcher.Fetch(ctx, url, fetchOpts...)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}
