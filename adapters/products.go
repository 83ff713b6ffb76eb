package adapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"shop-automation/internal/types"
	"shop-automation/utils"

	"github.com/PuerkitoBio/goquery"
)

const (
	productCardSelector  = `article[data-testid*="ProductCardWrapper"]`
	productTitleSelector = `.ProductCardTitle--1ln1u3g, [data-testid*="ProductNameTestId"]`
	ariaTitleSelector    = `.AriaProductTitle--1axj7ma p`
	productLinkSelector  = `a.ProductCardHiddenLink--v3c62m, a[href*="/product/"]`
	productPriceSelector = `.ProductCardPrice--1sznkcp, [data-testid="productCardPricing-div-testId"] span`
	unitPriceSelector    = `.ProductCardPriceInfo--18y10ci`

	accessibilityText = "Open product description"
)

var (
	// e.g. "(1 kg)", "(250 g)", "(6 Piece)", "(500 ml)"
	quantitySuffix = regexp.MustCompile(`\s*\(([^)]+)\)$`)
	ariaNamePrefix = regexp.MustCompile(`^([^,€]+)`)
)

// SplitQuantity separates a trailing parenthesised quantity from a product name
func SplitQuantity(fullName string) (string, *string) {
	fullName = strings.TrimSpace(fullName)
	m := quantitySuffix.FindStringSubmatchIndex(fullName)
	if m == nil {
		return fullName, nil
	}
	quantity := fullName[m[2]:m[3]]
	return strings.TrimSpace(fullName[:m[0]]), &quantity
}

// ExtractProducts reads up to MaxResults product cards from a search results page.
// Cards are truncated first and incomplete ones dropped afterwards, so fewer
// records than MaxResults may come back even when more cards exist.
func (s *SuperValuAdapter) ExtractProducts(doc *goquery.Document) []types.ProductRecord {
	cards := doc.Find(productCardSelector)
	s.logger.Debugf("Found %d product cards", cards.Length())

	limit := s.config.MaxResults
	if limit <= 0 || limit > types.MaxSearchResults {
		limit = types.MaxSearchResults
	}
	if limit > cards.Length() {
		limit = cards.Length()
	}

	var products []types.ProductRecord
	cards.Slice(0, limit).Each(func(i int, card *goquery.Selection) {
		product, ok := s.extractCard(card)
		if !ok {
			s.logger.Debugf("Skipping incomplete product card %d", i+1)
			return
		}
		products = append(products, product)
		s.logger.Debugf("Added product: %s (%s) - %s", product.Name, quantityText(product.Quantity), product.Price)
	})
	return products
}

func (s *SuperValuAdapter) extractCard(card *goquery.Selection) (types.ProductRecord, bool) {
	fullName := strings.TrimSpace(strings.Replace(s.ExtractText(card, productTitleSelector), accessibilityText, "", 1))
	if fullName == "" {
		if m := ariaNamePrefix.FindStringSubmatch(s.ExtractText(card, ariaTitleSelector)); m != nil {
			fullName = strings.TrimSpace(m[1])
		}
	}
	name, quantity := SplitQuantity(fullName)

	product := types.ProductRecord{
		Name:     name,
		URL:      s.AbsoluteURL(s.ExtractAttribute(card, productLinkSelector, "href")),
		Price:    s.ExtractText(card, productPriceSelector),
		Quantity: quantity,
	}
	product.PricePerUnit = s.ExtractText(card, unitPriceSelector)
	if product.PricePerUnit == "" {
		product.PricePerUnit = product.Price
	}

	if product.Name == "" || (product.URL == "" && product.Price == "") {
		return types.ProductRecord{}, false
	}
	return product, true
}

// ScrapeSearch searches the storefront for query and extracts the top results
func (s *SuperValuAdapter) ScrapeSearch(ctx context.Context, query string) ([]types.ProductRecord, error) {
	searchURL := s.SearchURL(query)
	s.logger.Infof("Navigating to: %s", searchURL)
	if err := s.Open(ctx, searchURL); err != nil {
		return nil, fmt.Errorf("failed to open search page: %w", err)
	}

	if err := s.DismissCookieConsent(ctx); err != nil {
		return nil, err
	}

	// The cards render asynchronously; a timeout here just means an empty page
	if err := s.driver.WaitVisible(ctx, productCardSelector, s.config.ProductWait); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debugf("Product cards did not appear: %v", err)
	}
	if err := utils.Sleep(ctx, s.config.ConsentDelay); err != nil {
		return nil, err
	}

	doc, err := s.Page(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	products := s.ExtractProducts(doc)
	s.logger.Infof("Found %d products", len(products))
	return products, nil
}

func quantityText(q *string) string {
	if q == nil {
		return "no quantity"
	}
	return *q
}
