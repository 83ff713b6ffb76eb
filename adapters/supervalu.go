package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"shop-automation/internal/probe"
	"shop-automation/internal/types"
	"shop-automation/utils"

	"github.com/PuerkitoBio/goquery"
)

// SiteKey namespaces persisted records and the session file
const SiteKey = "supervalu"

// SuperValuAdapter handles page interaction for shop.supervalu.ie
type SuperValuAdapter struct {
	*BaseAdapter
}

// NewSuperValuAdapter creates a new SuperValu adapter
func NewSuperValuAdapter(config *types.Config, logger types.Logger, driver types.Driver) *SuperValuAdapter {
	return &SuperValuAdapter{
		BaseAdapter: NewBaseAdapter(config, logger, driver),
	}
}

// GetStoreName returns the store name
func (s *SuperValuAdapter) GetStoreName() string {
	return SiteKey
}

// HomeURL is the storefront landing page
func (s *SuperValuAdapter) HomeURL() string {
	return strings.TrimRight(s.config.BaseURL, "/")
}

// LoginURL is the account sign-in page
func (s *SuperValuAdapter) LoginURL() string {
	return s.HomeURL() + "/login"
}

// CartURL is the cart page
func (s *SuperValuAdapter) CartURL() string {
	return s.HomeURL() + "/cart"
}

// SearchURL is the delivery search results page for query
func (s *SuperValuAdapter) SearchURL(query string) string {
	// QueryEscape encodes a literal '+' as %2B, so this only touches spaces
	q := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return s.HomeURL() + "/sm/delivery/rsid/404/results?q=" + q
}

var acceptCookieSelectors = []string{
	`button[id*="accept"]`,
	`button[class*="accept"]`,
	`button[aria-label*="Accept"]`,
	`#onetrust-accept-btn-handler`,
	`.onetrust-close-btn-handler`,
	`[aria-label="Accept cookies"]`,
}

var consentProbe = func() probe.Chain[probe.Target] {
	var strategies []probe.Strategy[probe.Target]
	for _, selector := range acceptCookieSelectors {
		strategies = append(strategies, probe.FirstMatch(selector, func(sel *goquery.Selection) bool {
			return strings.Contains(probe.Label(sel), "accept")
		}))
	}
	// Fall back to any button by its text
	strategies = append(strategies, probe.FirstMatch("button", func(sel *goquery.Selection) bool {
		label := probe.Label(sel)
		return strings.Contains(label, "accept all") || strings.Contains(label, "accept cookies")
	}))
	return probe.Chain[probe.Target]{Name: "cookie consent", Strategies: strategies}
}()

// DismissCookieConsent clicks the cookie banner's accept button if one is shown.
// A missing banner is not an error.
func (s *SuperValuAdapter) DismissCookieConsent(ctx context.Context) error {
	s.logger.Debug("Handling cookie consent...")
	doc, err := s.Page(ctx)
	if err != nil {
		return err
	}
	if target, ok := consentProbe.Run(doc); ok {
		clicked, err := s.Click(ctx, target)
		if err != nil {
			s.logger.Warnf("Failed to click cookie consent button: %v", err)
		} else if clicked {
			s.logger.Debugf("Accepted cookies using selector: %s", target.Selector)
		}
	}
	return utils.Sleep(ctx, s.config.ConsentDelay)
}

// loginProbe decides whether the page belongs to a signed-in session.
// A visible sign-in control is authoritative; an inconclusive page counts as
// signed out so a stale session is re-authenticated rather than trusted.
var loginProbe = probe.Chain[bool]{
	Name: "login state",
	Strategies: []probe.Strategy[bool]{
		probe.Present(`button[aria-label*="Sign in"], a[href*="login"]`, false),
		probe.Present(`button[aria-label*="Log out"], a[href*="logout"]`, true),
		probe.Present(`[class*="user"], [class*="account"], [aria-label*="Account"]`, true),
	},
	Fallback: false,
}

// IsLoggedIn runs the login verification probe against the current page
func (s *SuperValuAdapter) IsLoggedIn(ctx context.Context) (bool, error) {
	doc, err := s.Page(ctx)
	if err != nil {
		return false, err
	}
	loggedIn, matched := loginProbe.Run(doc)
	if !matched {
		s.logger.Debug("Login state inconclusive, assuming logged out")
	}
	return loggedIn, nil
}

// SubmitLogin fills the sign-in form on the current page and submits it
func (s *SuperValuAdapter) SubmitLogin(ctx context.Context, creds types.Credentials) error {
	script := fmt.Sprintf(`(() => {
		const fill = (input, value) => {
			if (!input) return false;
			input.value = value;
			input.dispatchEvent(new Event('input', { bubbles: true }));
			input.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		};
		const email = fill(document.querySelector('input[type="email"], input[name="email"], input[id*="email"], input[placeholder*="email"]'), %s);
		const password = fill(document.querySelector('input[type="password"], input[name="password"], input[id*="password"]'), %s);
		setTimeout(() => {
			const submit = document.querySelector('button[type="submit"], button[class*="login"], button[aria-label*="Sign in"], button[aria-label*="Log in"]');
			if (submit) submit.click();
		}, 500);
		return email && password;
	})()`, probe.JSString(creds.Email), probe.JSString(creds.Password))

	var filled bool
	if err := s.driver.Evaluate(ctx, script, &filled); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	if !filled {
		s.logger.Warn("Login form fields not found on page")
	}
	return nil
}
