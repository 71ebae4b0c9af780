package storefront

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/mfiorim/boutique-concierge/internal/domain"
)

// The storefront renders HTML, not JSON, so the needed fields are pulled out
// by pattern matching on the markup. The patterns mirror the boutique's page
// structure: product anchors on the homepage, h2 name + $price + description
// paragraph on product pages, and a labeled confirmation block after checkout.
var (
	productLinkRe = regexp.MustCompile(`href="/product/([A-Z0-9]+)"`)
	headingRe     = regexp.MustCompile(`<h2[^>]*>([^<]+)</h2>`)
	priceRe       = regexp.MustCompile(`\$(\d+\.?\d*)`)
	paragraphRe   = regexp.MustCompile(`<p[^>]*>((?s).*?)</p>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)

	confirmationRe = regexp.MustCompile(`Confirmation #\s*</div>\s*<div[^>]*>\s*([a-f0-9-]+)`)
	trackingRe     = regexp.MustCompile(`Tracking #\s*</div>\s*<div[^>]*>\s*([A-Z0-9-]+)`)
	totalPaidRe    = regexp.MustCompile(`Total Paid\s*</div>\s*<div[^>]*>\s*\$([0-9.]+)`)

	recommendationsRe = regexp.MustCompile(`(?s)<section[^>]*class="[^"]*recommendations[^"]*"[^>]*>.*?</section>`)
)

// extractProductIDs pulls unique product ids from homepage markup, ignoring
// the "You May Also Like" recommendations block.
func extractProductIDs(body string) []string {
	body = recommendationsRe.ReplaceAllString(body, "")

	seen := make(map[string]bool)
	var ids []string
	for _, m := range productLinkRe.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// parseProductPage extracts name, price and description from a product page.
func parseProductPage(id, body string) (domain.Product, error) {
	var name string
	for _, m := range headingRe.FindAllStringSubmatch(body, -1) {
		candidate := strings.TrimSpace(html.UnescapeString(m[1]))
		if candidate == "" || candidate == "You May Also Like" {
			continue
		}
		name = candidate
		break
	}
	if name == "" {
		return domain.Product{}, fmt.Errorf("no product name in page for %s", id)
	}

	priceMatch := priceRe.FindStringSubmatch(body)
	if priceMatch == nil {
		return domain.Product{}, fmt.Errorf("no price in page for %s", id)
	}
	price, err := strconv.ParseFloat(priceMatch[1], 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("bad price %q for %s: %w", priceMatch[1], id, err)
	}

	// First paragraph without a dollar amount is the description.
	var description string
	for _, m := range paragraphRe.FindAllStringSubmatch(body, -1) {
		text := strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(m[1], "")))
		if text == "" || strings.Contains(text, "$") {
			continue
		}
		description = text
		break
	}

	return domain.Product{
		ID:          id,
		Name:        name,
		PriceUSD:    price,
		Description: description,
	}, nil
}

// checkout holds the fields scraped from the order confirmation page.
type checkout struct {
	OrderID    string
	TrackingID string
	TotalPaid  float64
}

// parseConfirmationPage extracts order id, tracking id and total from the
// checkout confirmation markup.
func parseConfirmationPage(body string) (checkout, error) {
	m := confirmationRe.FindStringSubmatch(body)
	if m == nil {
		return checkout{}, fmt.Errorf("no order confirmation in checkout response")
	}
	result := checkout{OrderID: strings.TrimSpace(m[1])}

	if m := trackingRe.FindStringSubmatch(body); m != nil {
		result.TrackingID = strings.TrimSpace(m[1])
	}
	if m := totalPaidRe.FindStringSubmatch(body); m != nil {
		if total, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.TotalPaid = total
		}
	}

	return result, nil
}
