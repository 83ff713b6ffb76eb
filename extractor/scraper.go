// Package extractor drives batch product scraping into the record database.
package extractor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"shop-automation/adapters"
	"shop-automation/internal/records"
	"shop-automation/internal/types"
	"shop-automation/utils"
)

// Status is the outcome of scraping one product name
type Status int

const (
	Scraped Status = iota
	Skipped
	Empty
	Failed
)

func (s Status) String() string {
	switch s {
	case Scraped:
		return "scraped"
	case Skipped:
		return "skipped"
	case Empty:
		return "no products"
	default:
		return "failed"
	}
}

// Result reports what happened to one product name
type Result struct {
	Name     string
	Status   Status
	Products int
	Path     string
	Err      error
}

// Scraper searches the storefront for product names and saves the top results
type Scraper struct {
	adapter *adapters.SuperValuAdapter
	store   *records.Store
	config  *types.Config
	logger  types.Logger
}

// NewScraper creates a scraper working on driver's tab and writing to store
func NewScraper(config *types.Config, logger types.Logger, driver types.Driver, store *records.Store) *Scraper {
	return &Scraper{
		adapter: adapters.NewSuperValuAdapter(config, logger, driver),
		store:   store,
		config:  config,
		logger:  logger,
	}
}

// ScrapeAll processes names in order. A failure on one name is recorded in
// its result and never stops the batch; only a cancelled ctx ends it early.
func (s *Scraper) ScrapeAll(ctx context.Context, names []string) []Result {
	startTime := time.Now()
	s.logger.Infof("Starting scrape of %d products", len(names))

	results := make([]Result, 0, len(names))
	for i, name := range names {
		if ctx.Err() != nil {
			s.logger.Warnf("Scrape interrupted after %d/%d products", i, len(names))
			break
		}
		s.logger.Infof("Processing product %d/%d: %s", i+1, len(names), name)
		result := s.scrapeOne(ctx, name)
		switch result.Status {
		case Failed:
			s.logger.Errorf("Failed to scrape %s: %v", name, result.Err)
		case Empty:
			s.logger.Warnf("No products found for %s", name)
		}
		results = append(results, result)
	}

	s.logger.Infof("Scrape completed in %v", time.Since(startTime))
	return results
}

func (s *Scraper) scrapeOne(ctx context.Context, name string) Result {
	result := Result{Name: name, Path: s.store.Path(name)}

	if s.store.Exists(name) {
		s.logger.Infof("Skipping %s - already exists", name)
		result.Status = Skipped
		return result
	}

	products, err := s.adapter.ScrapeSearch(ctx, name)
	if err != nil {
		result.Status = Failed
		result.Err = err
		return result
	}
	if len(products) == 0 {
		result.Status = Empty
		result.Err = fmt.Errorf("%s: %w", name, types.ErrNoProducts)
		s.inspect(ctx)
		return result
	}

	path, err := s.store.Save(name, products)
	if err != nil {
		result.Status = Failed
		result.Err = err
		return result
	}
	s.logger.Infof("Saved %d products to %s", len(products), path)
	result.Status = Scraped
	result.Products = len(products)
	result.Path = path
	return result
}

// inspect leaves a visible browser on an empty results page for a while so
// the selectors can be checked by eye.
func (s *Scraper) inspect(ctx context.Context) {
	if s.config.Headless || s.config.InspectDelay <= 0 {
		return
	}
	s.logger.Infof("Keeping browser open %v for inspection...", s.config.InspectDelay)
	_ = utils.Sleep(ctx, s.config.InspectDelay)
}

// Summarize counts results per status
func Summarize(results []Result) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// ReadNames reads product names one per line, trimming whitespace and
// ignoring blank lines.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product names: %w", err)
	}
	return names, nil
}
