package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mfiorim/boutique-concierge/internal/config"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrProductNotFound is returned when a product reference resolves to zero
// or more than one catalog entry.
var ErrProductNotFound = errors.New("product not found")

// The boutique's checkout form requires a full shipping and card identity.
// This is a demo storefront; the canned values are the ones its own load
// generator uses.
var checkoutForm = url.Values{
	"email":                        {"test@example.com"},
	"street_address":               {"1600 Amphitheatre Parkway"},
	"zip_code":                     {"94043"},
	"city":                         {"Mountain View"},
	"state":                        {"CA"},
	"country":                      {"United States"},
	"credit_card_number":           {"4432801561520454"},
	"credit_card_expiration_month": {"01"},
	"credit_card_expiration_year":  {"2026"},
	"credit_card_cvv":              {"123"},
}

// Client proxies the external storefront's HTML surface: product listing,
// cart and checkout. Each order flow runs on its own cookie jar so the
// storefront's shop_session-id stays consistent from cart to checkout.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient creates a storefront client
func NewClient(cfg config.StorefrontConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// ListProducts discovers product ids on the homepage and fetches each
// product page for name, price and description.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, c.client, "/")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch homepage: %w", err)
	}

	ids := extractProductIDs(body)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no products found on storefront homepage")
	}

	var products []domain.Product
	for _, id := range ids {
		page, err := c.get(ctx, c.client, "/product/"+id)
		if err != nil {
			log.Warn().Err(err).Str("product_id", id).Msg("skipping product page")
			continue
		}
		product, err := parseProductPage(id, page)
		if err != nil {
			log.Warn().Err(err).Str("product_id", id).Msg("skipping unparseable product page")
			continue
		}
		products = append(products, product)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("no parseable products on storefront")
	}
	return products, nil
}

// GetProduct resolves a free-text product name against the live listing.
func (c *Client) GetProduct(ctx context.Context, name string) (domain.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	listing := domain.Listing{Products: products, FetchedAt: time.Now()}
	product, ok := listing.FindByName(name)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}
	return product, nil
}

// PlaceOrder runs the storefront's browse-to-checkout form flow: add the
// product to the cart, then submit checkout on the same cookie session, and
// scrape the confirmation page for order id, tracking id and total.
func (c *Client) PlaceOrder(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	flow := &http.Client{Timeout: c.timeout, Jar: jar}

	cartForm := url.Values{
		"product_id": {productID},
		"quantity":   {strconv.Itoa(quantity)},
	}
	if _, err := c.postForm(ctx, flow, "/cart", cartForm); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	body, err := c.postForm(ctx, flow, "/cart/checkout", checkoutForm)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	confirmation, err := parseConfirmationPage(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse checkout confirmation: %w", err)
	}

	log.Info().
		Str("order_id", confirmation.OrderID).
		Str("tracking_id", confirmation.TrackingID).
		Float64("total_paid", confirmation.TotalPaid).
		Msg("storefront order placed")

	return &domain.Order{
		ID:         confirmation.OrderID,
		TrackingID: confirmation.TrackingID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalUSD:   confirmation.TotalPaid,
		Status:     domain.OrderPending,
		CreatedAt:  time.Now(),
	}, nil
}

// Ping checks storefront reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.client, "/")
	return err
}

func (c *Client) get(ctx context.Context, client *http.Client, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(client, req)
}

func (c *Client) postForm(ctx context.Context, client *http.Client, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(client, req)
}

func (c *Client) do(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storefront returned status %d for %s", resp.StatusCode, req.URL.Path)
	}

	return string(body), nil
}
