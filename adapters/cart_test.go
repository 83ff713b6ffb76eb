package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shop-automation/internal/testutil"
	"shop-automation/internal/types"
)

func productPage(body string) string {
	return `<html><body><main>` + body + `</main></body></html>`
}

func TestTryAddToCart_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		expected types.CartOutcome
		clicks   bool
	}{
		{
			name:     "enabled add button",
			page:     productPage(`<button aria-label="Add to Trolley">Add</button>`),
			expected: types.Added,
			clicks:   true,
		},
		{
			name:     "already in cart",
			page:     productPage(`<button data-testid="addToCartButton">Update quantity</button>`),
			expected: types.AlreadyInCart,
		},
		{
			name: "disabled control is skipped",
			page: productPage(`
				<button aria-label="Add to Trolley" disabled>Add</button>
				<button class="AddToCartButton">Add to trolley</button>`),
			expected: types.Added,
			clicks:   true,
		},
		{
			name:     "out of stock",
			page:     productPage(`<button aria-label="Add to Trolley" disabled>Add</button><div class="ProductOutOfStock">Out of stock</div>`),
			expected: types.OutOfStock,
		},
		{
			name:     "text-only button",
			page:     productPage(`<button>Add to Cart</button>`),
			expected: types.Added,
			clicks:   true,
		},
		{
			name:     "nothing recognisable",
			page:     productPage(`<h1>Product</h1>`),
			expected: types.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := testBaseURL + "/product/item-1"
			driver := testutil.NewFakeDriver(map[string]string{url: tt.page})
			adapter := newTestAdapter(driver)

			outcome, err := adapter.TryAddToCart(context.Background(), "/product/item-1")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, outcome)
			assert.Equal(t, []string{url}, driver.Navigations)
			if tt.clicks {
				require.Len(t, driver.Scripts, 1)
				assert.Contains(t, driver.Scripts[0], "el.click()")
			} else {
				assert.Empty(t, driver.Scripts)
			}
		})
	}
}

func TestTryAddToCart_ClicksTheEnabledControl(t *testing.T) {
	url := testBaseURL + "/product/item-1"
	driver := testutil.NewFakeDriver(map[string]string{url: productPage(`
		<button aria-label="Add to Trolley" disabled>Add</button>
		<button aria-label="Add to Trolley">Add</button>`)})
	adapter := newTestAdapter(driver)

	outcome, err := adapter.TryAddToCart(context.Background(), url)

	require.NoError(t, err)
	assert.Equal(t, types.Added, outcome)
	require.Len(t, driver.Scripts, 1)
	assert.Contains(t, driver.Scripts[0], `)[1]`)
}

func TestTryAddToCart_ClickTargetVanished(t *testing.T) {
	url := testBaseURL + "/product/item-1"
	driver := testutil.NewFakeDriver(map[string]string{url: productPage(`<button aria-label="Add to Trolley">Add</button>`)})
	driver.OnEvaluate = func(d *testutil.FakeDriver, script string) (interface{}, error) {
		return false, nil
	}
	adapter := newTestAdapter(driver)

	outcome, err := adapter.TryAddToCart(context.Background(), url)

	require.NoError(t, err)
	assert.Equal(t, types.NotFound, outcome)
}

func TestTryAddToCart_InvalidLink(t *testing.T) {
	driver := testutil.NewFakeDriver(nil)
	adapter := newTestAdapter(driver)

	outcome, err := adapter.TryAddToCart(context.Background(), "product/no-leading-slash")

	require.NoError(t, err)
	assert.Equal(t, types.NotFound, outcome)
	assert.Empty(t, driver.Navigations)
}

func TestTryAddToCart_NavigationError(t *testing.T) {
	url := testBaseURL + "/product/item-1"
	driver := testutil.NewFakeDriver(nil)
	driver.NavigateErr[url] = errors.New("net::ERR_CONNECTION_RESET")
	adapter := newTestAdapter(driver)

	_, err := adapter.TryAddToCart(context.Background(), url)

	var driverErr *types.DriverError
	require.ErrorAs(t, err, &driverErr)
	assert.Equal(t, "navigate", driverErr.Op)
}

func TestProductURL(t *testing.T) {
	adapter := newTestAdapter(testutil.NewFakeDriver(nil))

	url, ok := adapter.ProductURL("https://shop.supervalu.ie/product/x")
	assert.True(t, ok)
	assert.Equal(t, "https://shop.supervalu.ie/product/x", url)

	url, ok = adapter.ProductURL("/product/y")
	assert.True(t, ok)
	assert.Equal(t, "https://shop.supervalu.ie/product/y", url)

	_, ok = adapter.ProductURL("www.example.com/z")
	assert.False(t, ok)
}

func TestParseCartSummary(t *testing.T) {
	adapter := newTestAdapter(testutil.NewFakeDriver(nil))
	doc, err := adapter.ParseHTML(`<html><body>
		<span class="HeaderCartCount">3 items</span>
		<div class="CartSubtotal">€12.48</div>
		<div class="CartItem">
			<h3>Organic Bananas</h3>
			<span class="CartItemPrice">€1.99</span>
			<input type="number" value="2">
		</div>
		<div class="CartItem">
			<div class="CartItemProductName"><h4>Free Range Eggs</h4></div>
			<span class="Price">€3.29</span>
		</div>
	</body></html>`)
	require.NoError(t, err)

	summary := adapter.ParseCartSummary(doc)

	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, "€12.48", summary.Subtotal)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, CartLine{Name: "Organic Bananas", Price: "€1.99", Quantity: "2"}, summary.Items[0])
	assert.Equal(t, "Free Range Eggs", summary.Items[1].Name)
	assert.Equal(t, "1", summary.Items[1].Quantity)
}

func TestReadCartSummary_Unreadable(t *testing.T) {
	driver := testutil.NewFakeDriver(nil)
	adapter := newTestAdapter(driver)
	driver.NavigateErr[adapter.CartURL()] = errors.New("timeout")

	_, err := adapter.ReadCartSummary(context.Background())

	assert.ErrorIs(t, err, ErrCartUnreadable)
	assert.True(t, strings.Contains(err.Error(), "timeout"))
}
