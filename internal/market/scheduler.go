package market

import (
	"context"
	"log/slog"
	"time"

	"dealyard.app/market/common/id"
	"dealyard.app/market/common/logger"
	"dealyard.app/market/internal/events"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/strategy"
)

// StartNegotiation admits one buyer-vs-seller session for a listing and
// hands it to a worker goroutine. All preconditions — capacity, listing
// status, no existing session for this (buyer, listing) pair — are
// checked and the session registered inside one critical section, so
// concurrent callers cannot double-book the pair.
//
// Capacity rejection is admission control: the caller gets an explicit
// error, nothing is queued.
func (m *Market) StartNegotiation(ctx context.Context, buyerID, listingID int64) (int64, error) {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return 0, ErrMarketClosed
	}
	if len(m.liveSet) >= m.cfg.MaxConcurrentNegotiations {
		m.mu.Unlock()
		return 0, ErrCapacityExceeded
	}

	buyer, ok := m.users[buyerID]
	if !ok {
		m.mu.Unlock()
		return 0, ErrNotFound
	}
	if buyer.Role != model.RoleBuyer {
		m.mu.Unlock()
		return 0, ErrRoleMismatch
	}
	listing, ok := m.listings[listingID]
	if !ok {
		m.mu.Unlock()
		return 0, ErrNotFound
	}
	if listing.Status != model.ListingStatusActive {
		m.mu.Unlock()
		return 0, ErrListingUnavailable
	}
	if _, exists := listing.ActiveNegotiations[buyerID]; exists {
		m.mu.Unlock()
		return 0, ErrDuplicateNegotiation
	}
	seller := m.users[listing.SellerID]

	// Strategies are single-use: built fresh per session from the
	// personality catalog and this listing's prices.
	buyerStrat, err := strategy.ForBuyer(buyer.Personality, buyer.Budget.Max, listing.AskingPrice)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}
	sellerStrat, err := strategy.ForSeller(seller.Personality, listing.FloorPrice, listing.AskingPrice)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}

	session := &model.Session{
		ID:           id.New(),
		ListingID:    listingID,
		BuyerID:      buyerID,
		SellerID:     listing.SellerID,
		MaxRounds:    m.cfg.MaxRounds,
		Result:       model.SessionInProgress,
		CreatedAt:    m.now(),
		LastActivity: m.now(),
	}

	m.sessions[session.ID] = session
	listing.ActiveNegotiations[buyerID] = session.ID
	m.liveSet[session.ID] = struct{}{}
	asking := listing.AskingPrice
	m.wg.Add(1)
	m.mu.Unlock()

	// The worker outlives the caller's request context.
	wctx := logger.WithLogFields(context.Background(), logger.LogFields{
		SessionID: logger.Ptr(session.ID),
		ListingID: logger.Ptr(listingID),
		BuyerID:   logger.Ptr(buyerID),
		SellerID:  logger.Ptr(session.SellerID),
		Component: "market.scheduler",
	})
	go m.runSession(wctx, session.ID, buyerStrat, sellerStrat, asking)

	slog.InfoContext(ctx, "negotiation started",
		"session_id", session.ID,
		"listing_id", listingID,
		"buyer_id", buyerID,
		"seller_id", session.SellerID)
	m.publish(ctx, events.Event{
		Type:      events.TypeNegotiationStarted,
		SessionID: session.ID,
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  session.SellerID,
	})

	return session.ID, nil
}

// runSession drives one session to a terminal state. The round loop
// holds the market lock only while computing and recording a single
// offer; between rounds the worker yields so a fast-converging session
// cannot monopolize the pool.
func (m *Market) runSession(ctx context.Context, sessionID int64, buyer, seller strategy.Strategy, askingPrice float64) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in negotiation session", "panic", r)
			m.failSession(ctx, sessionID)
		}
	}()

	for {
		m.mu.Lock()
		session, ok := m.sessions[sessionID]
		if !ok {
			m.mu.Unlock()
			return
		}
		if session.IsComplete() {
			m.mu.Unlock()
			break
		}
		m.executeRound(session, buyer, seller, askingPrice)
		session.LastActivity = m.now()
		done := session.IsComplete()
		m.mu.Unlock()

		if done {
			break
		}
		if m.cfg.RoundDelay > 0 {
			time.Sleep(m.cfg.RoundDelay)
		}
	}

	m.finishSession(ctx, sessionID)
}

// finishSession reconciles a completed session against the listing.
// Agreement hands off to the confirmation ledger only while the listing
// is still ACTIVE; if a competing deal moved it to PENDING_CONFIRMATION
// (or it expired) in the meantime, the agreement is downgraded to
// NO_DEAL and the buyer's slot freed.
func (m *Market) finishSession(ctx context.Context, sessionID int64) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return
	}

	listing := m.listings[session.ListingID]

	var deal *model.Deal
	switch {
	case session.Result == model.SessionDealAccepted:
		if listing != nil && listing.Status == model.ListingStatusActive {
			deal = m.openDealLocked(session, listing)
		} else {
			session.Result = model.SessionNoDeal
			session.ClosedReason = "listing no longer available"
			m.dropNegotiationSlotLocked(session)
		}
	case session.Result == model.SessionInProgress:
		// Round exhaustion without agreement.
		session.Result = model.SessionNoDeal
		m.dropNegotiationSlotLocked(session)
	default:
		// Already closed externally (competing sale, failure path);
		// accounting is done, nothing to reconcile.
	}
	m.retireLocked(sessionID)

	result := session.Result
	finalPrice := session.FinalPrice
	rounds := session.Round
	m.mu.Unlock()

	slog.InfoContext(ctx, "negotiation completed",
		"result", result,
		"rounds", rounds,
		"final_price", finalPrice)
	m.publish(ctx, events.Event{
		Type:      events.TypeNegotiationCompleted,
		SessionID: sessionID,
		Result:    string(result),
		Price:     finalPrice,
	})

	if deal != nil {
		m.announceDeal(ctx, deal)
	}
}

// failSession converts an internal failure into a NO_DEAL terminal
// state so the pool and the shared maps stay consistent.
func (m *Market) failSession(ctx context.Context, sessionID int64) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if ok && session.Result != model.SessionNoDeal {
		session.Result = model.SessionNoDeal
		session.ClosedReason = "internal failure"
		m.dropNegotiationSlotLocked(session)
	}
	m.retireLocked(sessionID)
	m.mu.Unlock()

	slog.WarnContext(ctx, "negotiation failed internally", "session_id", sessionID)
}

// dropNegotiationSlotLocked frees the buyer's slot on the listing so
// the listing remains open to that buyer's competitors (and, after a
// cancelled deal, to the buyer again).
func (m *Market) dropNegotiationSlotLocked(session *model.Session) {
	if listing, ok := m.listings[session.ListingID]; ok {
		if sid, exists := listing.ActiveNegotiations[session.BuyerID]; exists && sid == session.ID {
			delete(listing.ActiveNegotiations, session.BuyerID)
		}
	}
}
