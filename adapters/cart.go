package adapters

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shop-automation/internal/probe"
	"shop-automation/internal/types"
	"shop-automation/utils"

	"github.com/PuerkitoBio/goquery"
)

// cartDecision is what the add-control probe concluded about a product page
type cartDecision struct {
	Outcome types.CartOutcome
	// Click is set when the outcome requires pressing a button
	Click *probe.Target
}

var addToCartSelectors = []string{
	`button[aria-label*="Add to Trolley"]`,
	`button[aria-label*="Add to Cart"]`,
	`button[data-testid*="addToCart"]`,
	`button[class*="AddToCart"]`,
}

const outOfStockSelector = `[class*="out-of-stock"], [class*="OutOfStock"], [aria-label*="Out of stock"]`

// addControl scans the matches of selector in document order. A disabled
// control carries no decision, so scanning continues past it.
func addControl(selector string) probe.Strategy[cartDecision] {
	return probe.StrategyFunc[cartDecision](func(doc *goquery.Document) (cartDecision, bool) {
		var decision cartDecision
		found := false
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if probe.Disabled(s) {
				return true
			}
			label := probe.Label(s)
			switch {
			case strings.Contains(label, "add"):
				decision = cartDecision{Outcome: types.Added, Click: &probe.Target{Selector: selector, Index: i}}
			case strings.Contains(label, "update"), strings.Contains(label, "quantity"):
				decision = cartDecision{Outcome: types.AlreadyInCart}
			default:
				return true
			}
			found = true
			return false
		})
		return decision, found
	})
}

var cartProbe = func() probe.Chain[cartDecision] {
	var strategies []probe.Strategy[cartDecision]
	for _, selector := range addToCartSelectors {
		strategies = append(strategies, addControl(selector))
	}
	// Buttons labelled only by their text
	strategies = append(strategies, probe.StrategyFunc[cartDecision](func(doc *goquery.Document) (cartDecision, bool) {
		target, ok := probe.FirstMatch("button", func(s *goquery.Selection) bool {
			label := probe.Label(s)
			return !probe.Disabled(s) && (strings.Contains(label, "add to trolley") || strings.Contains(label, "add to cart"))
		}).Probe(doc)
		if !ok {
			return cartDecision{}, false
		}
		return cartDecision{Outcome: types.Added, Click: &target}, true
	}))
	strategies = append(strategies, probe.Present(outOfStockSelector, cartDecision{Outcome: types.OutOfStock}))
	return probe.Chain[cartDecision]{
		Name:       "add to cart",
		Strategies: strategies,
		Fallback:   cartDecision{Outcome: types.NotFound},
	}
}()

// ProductURL normalises a shopping list link. ok is false for links that are
// neither absolute nor rooted at the storefront.
func (s *SuperValuAdapter) ProductURL(link string) (string, bool) {
	link = strings.TrimSpace(link)
	switch {
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link, true
	case strings.HasPrefix(link, "/"):
		return s.AbsoluteURL(link), true
	default:
		return "", false
	}
}

// TryAddToCart opens a product page and puts one unit in the cart
func (s *SuperValuAdapter) TryAddToCart(ctx context.Context, link string) (types.CartOutcome, error) {
	productURL, ok := s.ProductURL(link)
	if !ok {
		s.logger.Warnf("Invalid URL format: %s", link)
		return types.NotFound, nil
	}

	if err := s.Open(ctx, productURL); err != nil {
		return types.NotFound, fmt.Errorf("failed to open product page: %w", err)
	}

	doc, err := s.Page(ctx)
	if err != nil {
		return types.NotFound, fmt.Errorf("failed to read product page: %w", err)
	}

	decision, _ := cartProbe.Run(doc)
	if decision.Click != nil {
		clicked, err := s.Click(ctx, *decision.Click)
		if err != nil {
			return types.NotFound, fmt.Errorf("failed to click add to cart: %w", err)
		}
		if !clicked {
			return types.NotFound, nil
		}
		if err := utils.Sleep(ctx, s.config.AddedDelay); err != nil {
			return types.NotFound, err
		}
	}

	s.logger.Debugf("Add to cart outcome for %s: %s", productURL, decision.Outcome)
	return decision.Outcome, nil
}

// CartLine is one product row of the cart page
type CartLine struct {
	Name     string
	Price    string
	Quantity string
}

// CartSummary is what the cart page shows after a run. It is for display
// only; the shopping run's own accounting is authoritative.
type CartSummary struct {
	ItemCount int
	Subtotal  string
	Items     []CartLine
}

// ErrCartUnreadable means the cart page could not be read at all
var ErrCartUnreadable = errors.New("cart page unreadable")

const (
	cartCountSelector    = `[class*="cart-count"], [class*="CartCount"], [aria-label*="items in cart"]`
	cartSubtotalSelector = `[class*="subtotal"], [class*="Subtotal"], [class*="total-price"]`
	cartItemSelector     = `[class*="cart-item"], [class*="CartItem"], article[data-testid*="cart"]`
	cartNameSelector     = `h3, h4, [class*="product-name"], [class*="ProductName"]`
	cartPriceSelector    = `[class*="price"], [class*="Price"]`
)

var firstNumber = regexp.MustCompile(`\d+`)

// ParseCartSummary extracts the cart overview from a cart page snapshot
func (s *SuperValuAdapter) ParseCartSummary(doc *goquery.Document) *CartSummary {
	summary := &CartSummary{}

	if m := firstNumber.FindString(doc.Find(cartCountSelector).First().Text()); m != "" {
		summary.ItemCount, _ = strconv.Atoi(m)
	}
	summary.Subtotal = strings.TrimSpace(doc.Find(cartSubtotalSelector).First().Text())

	doc.Find(cartItemSelector).Each(func(i int, item *goquery.Selection) {
		// Nested matches (e.g. "cart-item-name") belong to their enclosing row
		if item.ParentsFiltered(cartItemSelector).Length() > 0 {
			return
		}
		name := s.ExtractText(item, cartNameSelector)
		if name == "" {
			return
		}
		summary.Items = append(summary.Items, CartLine{
			Name:     name,
			Price:    s.ExtractText(item, cartPriceSelector),
			Quantity: cartQuantity(item),
		})
	})
	return summary
}

func cartQuantity(item *goquery.Selection) string {
	if input := item.Find(`input[type="number"]`).First(); input.Length() > 0 {
		if v, ok := input.Attr("value"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if text := strings.TrimSpace(item.Find(`[class*="quantity"], select`).First().Text()); text != "" {
		return text
	}
	return "1"
}

// ReadCartSummary opens the cart page and parses it
func (s *SuperValuAdapter) ReadCartSummary(ctx context.Context) (*CartSummary, error) {
	if err := s.Open(ctx, s.CartURL()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUnreadable, err)
	}
	doc, err := s.Page(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUnreadable, err)
	}
	return s.ParseCartSummary(doc), nil
}
