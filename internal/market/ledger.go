package market

import (
	"context"
	"log/slog"

	"dealyard.app/market/common/id"
	"dealyard.app/market/internal/events"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/phrase"
)

// openDealLocked records a tentative agreement and takes the listing off
// market pending confirmation. The winning buyer's negotiation slot stays
// registered until the deal finalizes or cancels, blocking a duplicate
// session for the same pair in the meantime. Caller holds the lock.
func (m *Market) openDealLocked(session *model.Session, listing *model.Listing) *model.Deal {
	deal := &model.Deal{
		ID:          id.New(),
		SessionID:   session.ID,
		ListingID:   listing.ID,
		BuyerID:     session.BuyerID,
		SellerID:    session.SellerID,
		AgreedPrice: session.FinalPrice,
		CreatedAt:   m.now(),
		ExpiresAt:   m.now().Add(m.cfg.DealConfirmWindow),
	}
	m.deals[deal.ID] = deal
	listing.Status = model.ListingStatusPendingConfirmation
	return deal
}

// announceDeal publishes the pending-deal event and, when a composer is
// configured, fills in the deal announcement asynchronously. The session
// outcome never waits on the language model.
func (m *Market) announceDeal(ctx context.Context, deal *model.Deal) {
	m.publish(ctx, events.Event{
		Type:      events.TypeDealPending,
		DealID:    deal.ID,
		ListingID: deal.ListingID,
		SessionID: deal.SessionID,
		BuyerID:   deal.BuyerID,
		SellerID:  deal.SellerID,
		Price:     deal.AgreedPrice,
	})

	if m.composer == nil {
		return
	}

	m.mu.Lock()
	listing, ok := m.listings[deal.ListingID]
	if !ok {
		m.mu.Unlock()
		return
	}
	session := m.sessions[deal.SessionID]
	rounds := 0
	if session != nil {
		rounds = session.Round
	}
	ann := phrase.Announcement{
		ItemName:    listing.Item.Name,
		AgreedPrice: deal.AgreedPrice,
		AskingPrice: listing.AskingPrice,
		Rounds:      rounds,
	}
	if buyer, ok := m.users[deal.BuyerID]; ok {
		ann.BuyerName = buyer.Name
	}
	if seller, ok := m.users[deal.SellerID]; ok {
		ann.SellerName = seller.Name
	}
	dealID := deal.ID
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		text, err := m.composer.ComposeDealAnnouncement(ctx, ann)
		if err != nil {
			slog.WarnContext(ctx, "deal announcement composition failed", "deal_id", dealID, "error", err)
			return
		}
		m.mu.Lock()
		if d, ok := m.deals[dealID]; ok {
			d.Announcement = text
		}
		m.mu.Unlock()
	}()
}

// ConfirmDeal records one party's verdict on a pending deal. Repeating a
// confirmation is idempotent. The second confirmation finalizes the sale;
// a single rejection cancels the deal and returns the listing to market.
func (m *Market) ConfirmDeal(ctx context.Context, userID, dealID int64, accept bool) error {
	m.mu.Lock()
	deal, ok := m.deals[dealID]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	if !deal.IsParty(userID) {
		m.mu.Unlock()
		return ErrNotParty
	}

	if !accept {
		m.cancelDealLocked(deal)
		m.mu.Unlock()

		slog.InfoContext(ctx, "deal rejected",
			"deal_id", dealID,
			"user_id", userID,
			"listing_id", deal.ListingID)
		m.publish(ctx, events.Event{
			Type:      events.TypeDealCancelled,
			DealID:    dealID,
			ListingID: deal.ListingID,
			UserID:    userID,
			Reason:    "rejected",
		})
		return nil
	}

	if userID == deal.BuyerID {
		deal.BuyerConfirmed = true
	} else {
		deal.SellerConfirmed = true
	}
	if !deal.Confirmed() {
		m.mu.Unlock()
		slog.InfoContext(ctx, "deal confirmation recorded", "deal_id", dealID, "user_id", userID)
		return nil
	}

	sale := m.finalizeDealLocked(deal)
	m.mu.Unlock()

	slog.InfoContext(ctx, "deal finalized",
		"deal_id", dealID,
		"listing_id", sale.ListingID,
		"price", sale.Price)
	m.publish(ctx, events.Event{
		Type:      events.TypeDealFinalized,
		DealID:    dealID,
		ListingID: sale.ListingID,
		BuyerID:   sale.BuyerID,
		SellerID:  sale.SellerID,
		Price:     sale.Price,
	})
	m.recordSale(ctx, sale)

	return nil
}

// finalizeDealLocked marks the listing SOLD, closes every losing session
// still in flight, and removes the deal from the pending set. Caller
// holds the lock.
func (m *Market) finalizeDealLocked(deal *model.Deal) SaleRecord {
	sale := SaleRecord{
		DealID:   deal.ID,
		BuyerID:  deal.BuyerID,
		SellerID: deal.SellerID,
		Price:    deal.AgreedPrice,
		SoldAt:   m.now(),
	}

	listing, ok := m.listings[deal.ListingID]
	if ok {
		sale.ListingID = listing.ID
		sale.ItemName = listing.Item.Name
		listing.Status = model.ListingStatusSold
		m.closeCompetitorsLocked(listing, deal.SessionID)
	}
	delete(m.deals, deal.ID)

	// At most one deal can pend per listing, but a sold listing must not
	// leave any other deal behind.
	for id, other := range m.deals {
		if other.ListingID == deal.ListingID {
			delete(m.deals, id)
		}
	}

	return sale
}

// closeCompetitorsLocked flips every other session on a just-sold listing
// to NO_DEAL and clears the listing's negotiation slots. Sessions already
// terminal are only retired from live accounting; retirement is
// idempotent with the session's own worker.
func (m *Market) closeCompetitorsLocked(listing *model.Listing, winnerSessionID int64) {
	for buyerID, sessionID := range listing.ActiveNegotiations {
		if sessionID != winnerSessionID {
			if session, ok := m.sessions[sessionID]; ok && session.Result == model.SessionInProgress {
				session.Result = model.SessionNoDeal
				session.ClosedReason = "listing sold to another buyer"
				session.LastActivity = m.now()
			}
			m.retireLocked(sessionID)
		}
		delete(listing.ActiveNegotiations, buyerID)
	}
}

// cancelDealLocked removes a pending deal and returns the listing to
// market. The buyer's slot is freed so either side may negotiate the
// listing again. Caller holds the lock.
func (m *Market) cancelDealLocked(deal *model.Deal) {
	delete(m.deals, deal.ID)

	listing, ok := m.listings[deal.ListingID]
	if !ok {
		return
	}
	if listing.Status == model.ListingStatusPendingConfirmation {
		listing.Status = model.ListingStatusActive
	}
	if sid, exists := listing.ActiveNegotiations[deal.BuyerID]; exists && sid == deal.SessionID {
		delete(listing.ActiveNegotiations, deal.BuyerID)
	}
}

// recordSale archives a finalized sale. Best-effort: failures are logged
// and never revert the in-memory state.
func (m *Market) recordSale(ctx context.Context, sale SaleRecord) {
	if m.sales == nil {
		return
	}
	if err := m.sales.RecordSale(ctx, sale); err != nil {
		slog.ErrorContext(ctx, "sale archive write failed", "deal_id", sale.DealID, "error", err)
	}
}
