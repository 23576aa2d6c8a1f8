package market

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"dealyard.app/market/common/id"
	"dealyard.app/market/internal/events"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/strategy"
)

// RegisterUser creates a participant. The personality tag is validated
// against the role's catalog here so a bad tag never reaches a session.
func (m *Market) RegisterUser(ctx context.Context, name string, role model.Role, personality model.Personality, budget model.BudgetRange) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrInvalidName
	}
	if err := strategy.Validate(role, personality); err != nil {
		return 0, err
	}

	user := &model.User{
		ID:            id.New(),
		Name:          name,
		Role:          role,
		Personality:   personality,
		Budget:        budget,
		RiskTolerance: strategy.DefaultRiskTolerance(role, personality),
		CreatedAt:     m.now(),
	}

	m.mu.Lock()
	m.users[user.ID] = user
	m.mu.Unlock()

	slog.InfoContext(ctx, "user registered",
		"user_id", user.ID,
		"name", user.Name,
		"role", user.Role,
		"personality", user.Personality)
	m.publish(ctx, events.Event{Type: events.TypeUserRegistered, UserID: user.ID})

	return user.ID, nil
}

// CreateListing puts an item on the market. Only sellers may list, and
// the floor price must not exceed the asking price.
func (m *Market) CreateListing(ctx context.Context, sellerID int64, item model.Item, askingPrice, floorPrice float64, duration time.Duration) (int64, error) {
	if askingPrice <= 0 || floorPrice <= 0 || floorPrice > askingPrice {
		return 0, ErrInvalidPrice
	}
	if duration <= 0 {
		duration = m.cfg.DefaultListingDuration
	}

	m.mu.Lock()
	seller, ok := m.users[sellerID]
	if !ok {
		m.mu.Unlock()
		return 0, ErrNotFound
	}
	if seller.Role != model.RoleSeller {
		m.mu.Unlock()
		return 0, ErrRoleMismatch
	}

	listing := &model.Listing{
		ID:                 id.New(),
		SellerID:           sellerID,
		Item:               item,
		AskingPrice:        askingPrice,
		FloorPrice:         floorPrice,
		Status:             model.ListingStatusActive,
		ExpiresAt:          m.now().Add(duration),
		InterestedBuyers:   make(map[int64]struct{}),
		ActiveNegotiations: make(map[int64]int64),
		CreatedAt:          m.now(),
	}
	m.listings[listing.ID] = listing
	m.mu.Unlock()

	slog.InfoContext(ctx, "listing created",
		"listing_id", listing.ID,
		"seller_id", sellerID,
		"item", item.Name,
		"asking_price", askingPrice,
		"expires_at", listing.ExpiresAt)
	m.publish(ctx, events.Event{
		Type:      events.TypeListingCreated,
		ListingID: listing.ID,
		SellerID:  sellerID,
		Price:     askingPrice,
	})

	return listing.ID, nil
}

// ExpressInterest adds a buyer to a listing's interest set. It is a
// no-op returning false when the user is not a buyer, the listing is
// not active, or the buyer already has an open negotiation on it.
// Adding twice is idempotent.
func (m *Market) ExpressInterest(ctx context.Context, buyerID, listingID int64) bool {
	m.mu.Lock()
	buyer, userOK := m.users[buyerID]
	listing, listingOK := m.listings[listingID]
	if !userOK || !listingOK {
		m.mu.Unlock()
		return false
	}
	if buyer.Role != model.RoleBuyer {
		m.mu.Unlock()
		return false
	}
	if listing.Status != model.ListingStatusActive {
		m.mu.Unlock()
		return false
	}
	if _, negotiating := listing.ActiveNegotiations[buyerID]; negotiating {
		m.mu.Unlock()
		return false
	}
	listing.InterestedBuyers[buyerID] = struct{}{}
	m.mu.Unlock()

	slog.DebugContext(ctx, "interest expressed", "buyer_id", buyerID, "listing_id", listingID)
	m.publish(ctx, events.Event{
		Type:      events.TypeInterestExpressed,
		ListingID: listingID,
		BuyerID:   buyerID,
	})
	return true
}

// GetUser returns a copy of the user record.
func (m *Market) GetUser(ctx context.Context, userID int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return *user, nil
}

// GetListing returns a snapshot of one listing.
func (m *Market) GetListing(ctx context.Context, listingID int64) (model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[listingID]
	if !ok {
		return model.Listing{}, ErrNotFound
	}
	return listing.Snapshot(), nil
}

// ActiveListings returns snapshots of all listings currently on market,
// newest first.
func (m *Market) ActiveListings(ctx context.Context) []model.Listing {
	m.mu.Lock()
	out := make([]model.Listing, 0)
	for _, listing := range m.listings {
		if listing.Status == model.ListingStatusActive {
			out = append(out, listing.Snapshot())
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// GetSession returns a snapshot of one negotiation session.
func (m *Market) GetSession(ctx context.Context, sessionID int64) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return session.Snapshot(), nil
}

// UserNegotiations returns snapshots of every session the user is a
// party to, newest first. Terminal sessions are retained for polling.
func (m *Market) UserNegotiations(ctx context.Context, userID int64) []model.Session {
	m.mu.Lock()
	out := make([]model.Session, 0)
	for _, session := range m.sessions {
		if session.BuyerID == userID || session.SellerID == userID {
			out = append(out, session.Snapshot())
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// PendingDealsForUser returns the deals awaiting the user's confirmation.
func (m *Market) PendingDealsForUser(ctx context.Context, userID int64) []model.Deal {
	m.mu.Lock()
	out := make([]model.Deal, 0)
	for _, deal := range m.deals {
		if deal.IsParty(userID) {
			out = append(out, *deal)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
