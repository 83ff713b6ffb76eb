package adapters

import (
	"context"
	"fmt"
	"strings"

	"shop-automation/internal/probe"
	"shop-automation/internal/types"
	"shop-automation/utils"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter provides common functionality for storefront adapters.
// It owns no browser state of its own: every page operation goes through the
// driver handed in by the caller.
type BaseAdapter struct {
	config *types.Config // Configuration settings (base URL, settle delays, etc.)
	logger types.Logger  // Structured logging interface
	driver types.Driver  // The single browser tab of the run
}

// NewBaseAdapter creates a new base adapter working against driver
func NewBaseAdapter(config *types.Config, logger types.Logger, driver types.Driver) *BaseAdapter {
	return &BaseAdapter{
		config: config,
		logger: logger,
		driver: driver,
	}
}

// Page reads the current DOM from the browser and parses it.
// Every probe works on such a snapshot rather than on the live page.
func (b *BaseAdapter) Page(ctx context.Context) (*goquery.Document, error) {
	html, err := b.driver.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return b.ParseHTML(html)
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Open navigates to url and waits the settle delay
func (b *BaseAdapter) Open(ctx context.Context, url string) error {
	if err := b.driver.Navigate(ctx, url); err != nil {
		return err
	}
	return utils.Sleep(ctx, b.config.SettleDelay)
}

// Click clicks the element identified by target. It returns false if the
// element vanished between the snapshot and the click.
func (b *BaseAdapter) Click(ctx context.Context, target probe.Target) (bool, error) {
	var clicked bool
	if err := b.driver.Evaluate(ctx, target.ClickScript(), &clicked); err != nil {
		return false, err
	}
	return clicked, nil
}

// AbsoluteURL prefixes relative paths with the storefront origin
func (b *BaseAdapter) AbsoluteURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := strings.TrimRight(b.config.BaseURL, "/")
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}

// ExtractText returns the trimmed text of the first element matching selector within s
func (b *BaseAdapter) ExtractText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// ExtractAttribute returns an attribute of the first element matching selector within s
func (b *BaseAdapter) ExtractAttribute(s *goquery.Selection, selector string, attribute string) string {
	value, _ := s.Find(selector).First().Attr(attribute)
	return strings.TrimSpace(value)
}

// Config returns the config field of the BaseAdapter
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}
