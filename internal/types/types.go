package types

import (
	"context"
	"time"
)

// SameSite mirrors the browser's cookie SameSite attribute
type SameSite string

const (
	SameSiteStrict SameSite = "Strict"
	SameSiteLax    SameSite = "Lax"
	SameSiteNone   SameSite = "None"
)

// SessionCookie is one cookie of an authenticated browser session.
// A cookie is identified by (Name, Domain, Path) within a set.
type SessionCookie struct {
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Domain   string     `json:"domain"`
	Path     string     `json:"path"`
	Expires  *time.Time `json:"expires,omitempty"`
	Secure   bool       `json:"secure"`
	HTTPOnly bool       `json:"http_only"`
	SameSite SameSite   `json:"same_site,omitempty"`
}

// Key returns the identity of the cookie inside a cookie set
func (c SessionCookie) Key() string {
	return c.Name + "|" + c.Domain + "|" + c.Path
}

// ShoppingListItem is one line of a shopping list
type ShoppingListItem struct {
	Name        string
	Amount      string
	PrimaryLink string
	BackupLink  string
}

// HasUsableLink reports whether any link of the item can be attempted
func (i ShoppingListItem) HasUsableLink() bool {
	return i.PrimaryLink != "" || i.BackupLink != ""
}

// ProductRecord represents a product captured from a search results page
type ProductRecord struct {
	Name         string  `yaml:"name" json:"name"`
	URL          string  `yaml:"url" json:"url"`
	Price        string  `yaml:"price" json:"price"`
	PricePerUnit string  `yaml:"price_per_unit" json:"price_per_unit"`
	Quantity     *string `yaml:"quantity,omitempty" json:"quantity,omitempty"`
}

// CartOutcome is the result of a single add-to-cart attempt
type CartOutcome int

const (
	NotFound CartOutcome = iota
	Added
	AlreadyInCart
	OutOfStock
)

func (o CartOutcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyInCart:
		return "already in cart"
	case OutOfStock:
		return "out of stock"
	default:
		return "not found"
	}
}

// Succeeded reports whether the product ended up in the cart
func (o CartOutcome) Succeeded() bool {
	return o == Added || o == AlreadyInCart
}

// MaxSearchResults caps the product options kept per search
const MaxSearchResults = 3

// Config holds the configuration for the shop automation
type Config struct {
	BaseURL      string
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int

	// Settle delays give the page time to render before the DOM is read.
	SettleDelay      time.Duration
	ConsentDelay     time.Duration
	LoginSettleDelay time.Duration
	AddedDelay       time.Duration
	ItemDelay        time.Duration
	InspectDelay     time.Duration
	ProductWait      time.Duration

	MaxResults int
	DBPath     string
	DataDir    string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://shop.supervalu.ie",
		Headless:         true,
		UserAgent:        "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		WindowWidth:      1920,
		WindowHeight:     1080,
		SettleDelay:      3 * time.Second,
		ConsentDelay:     2 * time.Second,
		LoginSettleDelay: 5 * time.Second,
		AddedDelay:       1 * time.Second,
		ItemDelay:        2 * time.Second,
		InspectDelay:     15 * time.Second,
		ProductWait:      10 * time.Second,
		MaxResults:       MaxSearchResults,
		DBPath:           "../config/db",
	}
}

// Credentials are the storefront account details used for automated login
type Credentials struct {
	Email    string
	Password string
}

// Empty reports whether either half of the credentials is missing
func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}

// Driver is the single browser tab every component works against.
// Calls are strictly sequential; implementations need not be goroutine safe.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	// Evaluate runs script in the page and decodes its result into res (may be nil)
	Evaluate(ctx context.Context, script string, res interface{}) error
	// HTML returns the current serialized DOM
	HTML(ctx context.Context) (string, error)
	// WaitVisible blocks until selector is visible or timeout elapses
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Cookies(ctx context.Context) ([]SessionCookie, error)
	SetCookies(ctx context.Context, cookies []SessionCookie) error
	Close()
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
