package domain

import (
	"strings"
	"time"
)

// Product is a catalog item mirrored from the storefront. It is fetched on
// demand; the listing may be held briefly in a cache to resolve follow-up
// references, but individual products carry no local lifecycle.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PriceUSD    float64 `json:"price_usd"`
	Description string  `json:"description,omitempty"`
}

// Listing is a point-in-time snapshot of the storefront catalog.
type Listing struct {
	Products  []Product `json:"products"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FindByName resolves a free-text product reference against the listing using
// case-insensitive substring matching. A single match wins; zero or multiple
// matches return false so the caller can answer "not found" instead of guessing.
func (l Listing) FindByName(name string) (Product, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Product{}, false
	}

	var found Product
	matches := 0
	for _, p := range l.Products {
		lower := strings.ToLower(p.Name)
		if lower == needle {
			return p, true
		}
		if strings.Contains(lower, needle) {
			found = p
			matches++
		}
	}

	if matches == 1 {
		return found, true
	}
	return Product{}, false
}

// FindByID looks a product up by its storefront id.
func (l Listing) FindByID(id string) (Product, bool) {
	for _, p := range l.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
