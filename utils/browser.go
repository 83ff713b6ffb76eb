package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"shop-automation/internal/types"
)

// BrowserClient drives a single Chrome tab. It is the only browser handle of
// a run and is passed explicitly to every component that needs the page.
type BrowserClient struct {
	config *types.Config
	logger types.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

var _ types.Driver = (*BrowserClient)(nil)

// NewBrowserClient launches Chrome and opens the tab used for the whole run
func NewBrowserClient(config *types.Config, logger types.Logger) (*BrowserClient, error) {
	// Suppress chromedp debug logging
	log.SetOutput(io.Discard)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(config.WindowWidth, config.WindowHeight),
		chromedp.UserAgent(config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser immediately so launch failures surface here
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, &types.DriverError{Op: "launch", Err: fmt.Errorf("%w (is Google Chrome or Chromium installed?)", err)}
	}

	logger.Debugf("Browser started (headless=%v)", config.Headless)
	return &BrowserClient{
		config:      config,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// run executes actions on the tab while honouring the caller's ctx
func (b *BrowserClient) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url in the tab
func (b *BrowserClient) Navigate(ctx context.Context, url string) error {
	b.logger.Debugf("Navigating to %s", url)
	if err := b.run(ctx, chromedp.Navigate(url)); err != nil {
		return &types.DriverError{Op: "navigate", Target: url, Err: err}
	}
	return nil
}

// Reload reloads the current page
func (b *BrowserClient) Reload(ctx context.Context) error {
	if err := b.run(ctx, chromedp.Reload()); err != nil {
		return &types.DriverError{Op: "reload", Err: err}
	}
	return nil
}

// Evaluate executes JavaScript code on the page
func (b *BrowserClient) Evaluate(ctx context.Context, script string, res interface{}) error {
	if err := b.run(ctx, chromedp.Evaluate(script, res)); err != nil {
		return &types.DriverError{Op: "evaluate", Err: err}
	}
	return nil
}

// HTML retrieves the HTML content of the current page
func (b *BrowserClient) HTML(ctx context.Context) (string, error) {
	var html string
	if err := b.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &types.DriverError{Op: "read page", Err: err}
	}
	b.logger.Debugf("Read page content (%d bytes)", len(html))
	return html, nil
}

// WaitVisible waits for a specific element to appear on the page
func (b *BrowserClient) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := b.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return &types.DriverError{Op: "wait for", Target: selector, Err: err}
	}
	return nil
}

// Cookies returns the cookies of the current browser context
func (b *BrowserClient) Cookies(ctx context.Context) ([]types.SessionCookie, error) {
	var cookies []*network.Cookie
	err := b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, &types.DriverError{Op: "get cookies", Err: err}
	}

	result := make([]types.SessionCookie, 0, len(cookies))
	for _, c := range cookies {
		result = append(result, fromNetworkCookie(c))
	}
	return result, nil
}

// SetCookies injects cookies into the browser context
func (b *BrowserClient) SetCookies(ctx context.Context, cookies []types.SessionCookie) error {
	for _, c := range cookies {
		params := toSetCookieParams(c)
		err := b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			return params.Do(ctx)
		}))
		if err != nil {
			return &types.DriverError{Op: "set cookie", Target: c.Name, Err: err}
		}
	}
	return nil
}

// Close shuts the tab and the browser process down
func (b *BrowserClient) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

func fromNetworkCookie(c *network.Cookie) types.SessionCookie {
	cookie := types.SessionCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		SameSite: types.SameSite(c.SameSite.String()),
	}
	if !c.Session && c.Expires > 0 {
		sec := int64(c.Expires)
		nsec := int64((c.Expires - float64(sec)) * float64(time.Second))
		expires := time.Unix(sec, nsec).UTC()
		cookie.Expires = &expires
	}
	return cookie
}

func toSetCookieParams(c types.SessionCookie) *network.SetCookieParams {
	params := network.SetCookie(c.Name, c.Value).
		WithDomain(c.Domain).
		WithPath(c.Path).
		WithSecure(c.Secure).
		WithHTTPOnly(c.HTTPOnly)
	if c.SameSite != "" {
		params = params.WithSameSite(network.CookieSameSite(c.SameSite))
	}
	if c.Expires != nil {
		expires := cdp.TimeSinceEpoch(*c.Expires)
		params = params.WithExpires(&expires)
	}
	return params
}
