package handler_test

import (
	"context"
	"time"

	"dealyard.app/market/internal/model"
)

type mockEngine struct {
	registerUserFn        func(ctx context.Context, name string, role model.Role, personality model.Personality, budget model.BudgetRange) (int64, error)
	getUserFn             func(ctx context.Context, userID int64) (model.User, error)
	createListingFn       func(ctx context.Context, sellerID int64, item model.Item, askingPrice, floorPrice float64, duration time.Duration) (int64, error)
	getListingFn          func(ctx context.Context, listingID int64) (model.Listing, error)
	activeListingsFn      func(ctx context.Context) []model.Listing
	expressInterestFn     func(ctx context.Context, buyerID, listingID int64) bool
	startNegotiationFn    func(ctx context.Context, buyerID, listingID int64) (int64, error)
	getSessionFn          func(ctx context.Context, sessionID int64) (model.Session, error)
	userNegotiationsFn    func(ctx context.Context, userID int64) []model.Session
	pendingDealsForUserFn func(ctx context.Context, userID int64) []model.Deal
	confirmDealFn         func(ctx context.Context, userID, dealID int64, accept bool) error
}

func (m *mockEngine) RegisterUser(ctx context.Context, name string, role model.Role, personality model.Personality, budget model.BudgetRange) (int64, error) {
	if m.registerUserFn != nil {
		return m.registerUserFn(ctx, name, role, personality, budget)
	}
	return 0, nil
}

func (m *mockEngine) GetUser(ctx context.Context, userID int64) (model.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return model.User{}, nil
}

func (m *mockEngine) CreateListing(ctx context.Context, sellerID int64, item model.Item, askingPrice, floorPrice float64, duration time.Duration) (int64, error) {
	if m.createListingFn != nil {
		return m.createListingFn(ctx, sellerID, item, askingPrice, floorPrice, duration)
	}
	return 0, nil
}

func (m *mockEngine) GetListing(ctx context.Context, listingID int64) (model.Listing, error) {
	if m.getListingFn != nil {
		return m.getListingFn(ctx, listingID)
	}
	return model.Listing{}, nil
}

func (m *mockEngine) ActiveListings(ctx context.Context) []model.Listing {
	if m.activeListingsFn != nil {
		return m.activeListingsFn(ctx)
	}
	return nil
}

func (m *mockEngine) ExpressInterest(ctx context.Context, buyerID, listingID int64) bool {
	if m.expressInterestFn != nil {
		return m.expressInterestFn(ctx, buyerID, listingID)
	}
	return false
}

func (m *mockEngine) StartNegotiation(ctx context.Context, buyerID, listingID int64) (int64, error) {
	if m.startNegotiationFn != nil {
		return m.startNegotiationFn(ctx, buyerID, listingID)
	}
	return 0, nil
}

func (m *mockEngine) GetSession(ctx context.Context, sessionID int64) (model.Session, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, sessionID)
	}
	return model.Session{}, nil
}

func (m *mockEngine) UserNegotiations(ctx context.Context, userID int64) []model.Session {
	if m.userNegotiationsFn != nil {
		return m.userNegotiationsFn(ctx, userID)
	}
	return nil
}

func (m *mockEngine) PendingDealsForUser(ctx context.Context, userID int64) []model.Deal {
	if m.pendingDealsForUserFn != nil {
		return m.pendingDealsForUserFn(ctx, userID)
	}
	return nil
}

func (m *mockEngine) ConfirmDeal(ctx context.Context, userID, dealID int64, accept bool) error {
	if m.confirmDealFn != nil {
		return m.confirmDealFn(ctx, userID, dealID, accept)
	}
	return nil
}
