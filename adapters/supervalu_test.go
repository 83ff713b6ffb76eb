package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shop-automation/internal/testutil"
	"shop-automation/internal/types"
)

func TestSuperValuAdapter_URLs(t *testing.T) {
	adapter := newTestAdapter(testutil.NewFakeDriver(nil))

	assert.Equal(t, SiteKey, adapter.GetStoreName())
	assert.Equal(t, "https://shop.supervalu.ie/login", adapter.LoginURL())
	assert.Equal(t, "https://shop.supervalu.ie/cart", adapter.CartURL())
	assert.Equal(t,
		"https://shop.supervalu.ie/sm/delivery/rsid/404/results?q=salt%20%26%20vinegar%20crisps%2B",
		adapter.SearchURL("salt & vinegar crisps+"))
}

func TestIsLoggedIn(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		expected bool
	}{
		{"sign in link wins", `<a href="/login">Sign in</a><a href="/logout">Log out</a>`, false},
		{"log out button", `<button aria-label="Log out of SuperValu">Log out</button>`, true},
		{"account menu", `<div aria-label="Account menu"></div>`, true},
		{"inconclusive page", `<h1>Welcome</h1>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := testutil.NewFakeDriver(nil)
			driver.PageFunc = func(*testutil.FakeDriver) string {
				return "<html><body>" + tt.page + "</body></html>"
			}
			adapter := newTestAdapter(driver)

			loggedIn, err := adapter.IsLoggedIn(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, loggedIn)
		})
	}
}

func TestDismissCookieConsent(t *testing.T) {
	driver := testutil.NewFakeDriver(nil)
	driver.PageFunc = func(*testutil.FakeDriver) string {
		return `<html><body>
			<button id="accept-hidden">Settings</button>
			<button id="onetrust-accept-btn-handler">Accept All Cookies</button>
		</body></html>`
	}
	adapter := newTestAdapter(driver)

	require.NoError(t, adapter.DismissCookieConsent(context.Background()))

	require.Len(t, driver.Scripts, 1)
	assert.Contains(t, driver.Scripts[0], `document.querySelectorAll("button[id*=\"accept\"]")[1]`)
}

func TestDismissCookieConsent_NoBanner(t *testing.T) {
	driver := testutil.NewFakeDriver(nil)
	driver.PageFunc = func(*testutil.FakeDriver) string { return `<html><body><button>Search</button></body></html>` }
	adapter := newTestAdapter(driver)

	require.NoError(t, adapter.DismissCookieConsent(context.Background()))
	assert.Empty(t, driver.Scripts)
}

func TestSubmitLogin_EscapesCredentials(t *testing.T) {
	driver := testutil.NewFakeDriver(nil)
	adapter := newTestAdapter(driver)

	err := adapter.SubmitLogin(context.Background(), types.Credentials{Email: "o'brien@example.ie", Password: `p"w'd`})

	require.NoError(t, err)
	require.Len(t, driver.Scripts, 1)
	assert.Contains(t, driver.Scripts[0], `"o'brien@example.ie"`)
	assert.Contains(t, driver.Scripts[0], `"p\"w'd"`)
}
