package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/rs/zerolog/log"
)

// Catalog is the storefront surface the conversation needs: a product
// listing and a checkout flow.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	PlaceOrder(ctx context.Context, productID string, quantity int) (*domain.Order, error)
}

// PaymentNegotiator settles the payment for a placed order.
type PaymentNegotiator interface {
	Negotiate(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)
}

// ListingCache holds a recent catalog snapshot. All methods are best-effort;
// a nil listing from Get means a miss and the caller fetches live. GetStale
// ignores freshness and serves as the fallback when the live fetch fails.
type ListingCache interface {
	Get(ctx context.Context) (*domain.Listing, error)
	GetStale(ctx context.Context) (*domain.Listing, error)
	Set(ctx context.Context, listing *domain.Listing) error
}

// Canned replies. Backend failures never surface raw errors to the user;
// they become an apology and the turn leaves no partial order behind.
const (
	replyClarify = "I can list the products in the store, describe one, place an order, or check on your last order. What would you like to do?"

	replyStoreDown = "Sorry, I couldn't reach the store just now. Please try again in a moment."

	replyPaymentDown = "Sorry, the payment step didn't go through, so nothing was ordered. Please try again in a moment."

	replyNeedProduct = "Which product do you mean? Ask me to list products if you'd like to see what's available."

	replyNeedQuantity = "How many would you like? I need a quantity of at least one."

	replyNoOrder = "You haven't placed an order in this conversation yet."
)

// TurnResult is what one conversation turn produced.
type TurnResult struct {
	SessionID uuid.UUID     `json:"session_id"`
	Reply     string        `json:"reply"`
	Intent    domain.Intent `json:"intent"`
	Order     *domain.Order `json:"order,omitempty"`
}

// ConversationService drives the whole turn: load session, ground the
// extractor in the live catalog, dispatch on the extracted action, and
// record the exchange. It is the only component that mutates sessions.
type ConversationService struct {
	store     domain.SessionStore
	extractor Extractor
	catalog   Catalog
	payments  PaymentNegotiator
	cache     ListingCache
	currency  string
	method    string
}

// NewConversationService creates the orchestrator. cache may be nil, in
// which case every turn fetches the listing live.
func NewConversationService(store domain.SessionStore, extractor Extractor, catalog Catalog, payments PaymentNegotiator, cache ListingCache, currency, method string) *ConversationService {
	return &ConversationService{
		store:     store,
		extractor: extractor,
		catalog:   catalog,
		payments:  payments,
		cache:     cache,
		currency:  currency,
		method:    method,
	}
}

// HandleTurn processes one utterance and always comes back with a reply.
// Backend and extraction failures degrade to apologies or clarification
// requests; the only state a failed turn leaves behind is its history entry.
func (s *ConversationService) HandleTurn(ctx context.Context, sessionID uuid.UUID, utterance string) *TurnResult {
	sess := s.loadOrCreate(ctx, sessionID)

	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return s.finishTurn(ctx, sess, utterance, domain.Unknown(), replyClarify, nil)
	}

	listing := s.listing(ctx)

	var products []domain.Product
	if listing != nil {
		products = listing.Products
	}
	intent := s.extractor.Extract(ctx, utterance, sess.Turns, products)

	var (
		reply string
		order *domain.Order
	)
	switch intent.Action {
	case domain.ActionListProducts:
		reply = s.listProducts(listing)
	case domain.ActionDescribeProduct:
		reply = s.describeProduct(sess, listing, intent)
	case domain.ActionPlaceOrder:
		reply, order = s.placeOrder(ctx, sess, listing, intent)
	case domain.ActionCheckOrder:
		reply = s.checkOrder(sess)
	default:
		reply = replyClarify
	}

	return s.finishTurn(ctx, sess, utterance, intent, reply, order)
}

// History returns the retained turns for a session.
func (s *ConversationService) History(ctx context.Context, sessionID uuid.UUID) ([]domain.Turn, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Turns, nil
}

// EndSession discards a session's state.
func (s *ConversationService) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.store.Delete(ctx, sessionID)
}

// Listing exposes the current catalog snapshot, cache-first.
func (s *ConversationService) Listing(ctx context.Context) (*domain.Listing, error) {
	if listing := s.listing(ctx); listing != nil {
		return listing, nil
	}
	return nil, fmt.Errorf("storefront catalog unavailable")
}

func (s *ConversationService) loadOrCreate(ctx context.Context, id uuid.UUID) *domain.Session {
	sess, err := s.store.Get(ctx, id)
	if err == nil {
		return sess
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		// Continuity is best-effort; a broken store costs context, not the turn.
		log.Warn().Err(err).Str("session_id", id.String()).Msg("failed to load session, starting fresh")
	}
	return domain.NewSession(id)
}

// listing returns the catalog snapshot, trying the cache first and caching
// live fetches. Returns nil when the storefront is unreachable.
func (s *ConversationService) listing(ctx context.Context) *domain.Listing {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		} else if cached != nil {
			return cached
		}
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch storefront catalog")
		return s.staleListing(ctx)
	}

	listing := &domain.Listing{Products: products, FetchedAt: time.Now()}
	if s.cache != nil {
		if err := s.cache.Set(ctx, listing); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return listing
}

// staleListing serves the last known catalog snapshot when the storefront is
// unreachable.
func (s *ConversationService) staleListing(ctx context.Context) *domain.Listing {
	if s.cache == nil {
		return nil
	}

	stale, err := s.cache.GetStale(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("stale catalog cache read failed")
		return nil
	}
	if stale != nil {
		log.Warn().Time("fetched_at", stale.FetchedAt).Msg("storefront down, serving stale catalog listing")
	}
	return stale
}

func (s *ConversationService) listProducts(listing *domain.Listing) string {
	if listing == nil {
		return replyStoreDown
	}

	var b strings.Builder
	b.WriteString("Here's what's in stock today:\n")
	for _, p := range listing.Products {
		fmt.Fprintf(&b, "- %s ($%.2f)\n", p.Name, p.PriceUSD)
	}
	b.WriteString("Ask me about any of them, or tell me what you'd like to buy.")
	return b.String()
}

func (s *ConversationService) describeProduct(sess *domain.Session, listing *domain.Listing, intent domain.Intent) string {
	if listing == nil {
		return replyStoreDown
	}

	ref := s.resolveProductRef(sess, intent)
	if ref == "" {
		return replyNeedProduct
	}

	product, ok := listing.FindByName(ref)
	if !ok {
		return fmt.Sprintf("I couldn't find %q in the catalog. Ask me to list products to see what's available.", ref)
	}

	sess.LastProduct = &product
	if product.Description == "" {
		return fmt.Sprintf("%s costs $%.2f.", product.Name, product.PriceUSD)
	}
	return fmt.Sprintf("%s ($%.2f): %s", product.Name, product.PriceUSD, product.Description)
}

func (s *ConversationService) placeOrder(ctx context.Context, sess *domain.Session, listing *domain.Listing, intent domain.Intent) (string, *domain.Order) {
	// Validation failures are answered before any backend is touched.
	if intent.Quantity <= 0 {
		return replyNeedQuantity, nil
	}
	ref := s.resolveProductRef(sess, intent)
	if ref == "" {
		return replyNeedProduct, nil
	}
	if listing == nil {
		return replyStoreDown, nil
	}

	product, ok := listing.FindByName(ref)
	if !ok {
		return fmt.Sprintf("I couldn't find %q in the catalog, so I didn't order anything. Ask me to list products to see what's available.", ref), nil
	}

	order, err := s.catalog.PlaceOrder(ctx, product.ID, intent.Quantity)
	if err != nil {
		log.Error().Err(err).Str("product_id", product.ID).Msg("checkout failed")
		return replyStoreDown, nil
	}
	// The confirmation page carries no product name and sometimes no total.
	if order.ProductName == "" {
		order.ProductName = product.Name
	}
	if order.TotalUSD <= 0 {
		order.TotalUSD = product.PriceUSD * float64(intent.Quantity)
	}

	result, err := s.payments.Negotiate(ctx, domain.PaymentRequest{
		OrderID:  order.ID,
		Amount:   order.TotalUSD,
		Currency: s.currency,
		Method:   s.method,
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("payment negotiation failed")
		return replyPaymentDown, nil
	}

	order.Settle(result)
	sess.LastProduct = &product
	sess.LastOrder = order

	if order.Status == domain.OrderDeclined {
		reason := result.Reason
		if reason == "" {
			reason = "the payment was declined"
		}
		return fmt.Sprintf("I placed the order for %d x %s, but %s. Nothing was charged.", order.Quantity, order.ProductName, reason), order
	}

	reply := fmt.Sprintf("Done! I ordered %d x %s for a total of $%.2f. Payment approved (transaction %s).",
		order.Quantity, order.ProductName, order.TotalUSD, order.TransactionID)
	if order.TrackingID != "" {
		reply += fmt.Sprintf(" Your tracking number is %s.", order.TrackingID)
	}
	return reply, order
}

func (s *ConversationService) checkOrder(sess *domain.Session) string {
	order := sess.LastOrder
	if order == nil {
		return replyNoOrder
	}

	switch order.Status {
	case domain.OrderApproved:
		reply := fmt.Sprintf("Your order for %d x %s ($%.2f) is confirmed and paid (transaction %s).",
			order.Quantity, order.ProductName, order.TotalUSD, order.TransactionID)
		if order.TrackingID != "" {
			reply += fmt.Sprintf(" Tracking number: %s.", order.TrackingID)
		}
		return reply
	case domain.OrderDeclined:
		return fmt.Sprintf("Your last order for %d x %s was declined at payment. Nothing was charged.",
			order.Quantity, order.ProductName)
	default:
		return fmt.Sprintf("Your order for %d x %s is still pending payment.", order.Quantity, order.ProductName)
	}
}

// resolveProductRef prefers the extractor's product argument and falls back
// to the product most recently discussed in this session.
func (s *ConversationService) resolveProductRef(sess *domain.Session, intent domain.Intent) string {
	if ref := strings.TrimSpace(intent.Product); ref != "" {
		return ref
	}
	if sess.LastProduct != nil {
		return sess.LastProduct.Name
	}
	return ""
}

func (s *ConversationService) finishTurn(ctx context.Context, sess *domain.Session, utterance string, intent domain.Intent, reply string, order *domain.Order) *TurnResult {
	sess.AppendTurn(domain.Turn{
		Utterance: utterance,
		Intent:    intent,
		Reply:     reply,
		CreatedAt: time.Now(),
	})

	if err := s.store.Save(ctx, sess); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("failed to save session")
	}

	return &TurnResult{
		SessionID: sess.ID,
		Reply:     reply,
		Intent:    intent,
		Order:     order,
	}
}
