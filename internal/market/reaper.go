package market

import (
	"context"
	"log/slog"
	"time"

	"dealyard.app/market/internal/events"
	"dealyard.app/market/internal/model"
)

// Reaper periodically sweeps the market for listings past their expiry
// and deals whose confirmation window lapsed. One reaper per market.
type Reaper struct {
	market   *Market
	interval time.Duration

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReaper(market *Market, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reaper{
		market:    market,
		interval:  interval,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps on a fixed interval until Stop is called or the context is
// cancelled. Blocks; callers run it in a goroutine.
func (r *Reaper) Run(ctx context.Context) {
	defer close(r.stoppedCh)

	slog.InfoContext(ctx, "reaper started", "interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.market.ReapOnce(ctx)
		case <-r.stopCh:
			slog.InfoContext(ctx, "reaper stopped")
			return
		case <-ctx.Done():
			slog.InfoContext(ctx, "reaper context cancelled")
			return
		}
	}
}

// Stop signals the loop to exit and waits for the in-flight sweep.
func (r *Reaper) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReapOnce performs a single sweep: active listings past their expiry
// move to EXPIRED, and pending deals past their confirmation window are
// cancelled, returning their listing to market. Exposed for tests and
// for an eager sweep at startup.
func (m *Market) ReapOnce(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	var expiredListings []int64
	for _, listing := range m.listings {
		if listing.Status == model.ListingStatusActive && now.After(listing.ExpiresAt) {
			listing.Status = model.ListingStatusExpired
			expiredListings = append(expiredListings, listing.ID)
		}
	}

	var expiredDeals []*model.Deal
	for _, deal := range m.deals {
		if now.After(deal.ExpiresAt) {
			expiredDeals = append(expiredDeals, deal)
		}
	}
	for _, deal := range expiredDeals {
		m.cancelDealLocked(deal)
	}
	m.mu.Unlock()

	for _, listingID := range expiredListings {
		slog.InfoContext(ctx, "listing expired", "listing_id", listingID)
		m.publish(ctx, events.Event{
			Type:      events.TypeListingExpired,
			ListingID: listingID,
		})
	}
	for _, deal := range expiredDeals {
		slog.InfoContext(ctx, "deal confirmation window expired", "deal_id", deal.ID, "listing_id", deal.ListingID)
		m.publish(ctx, events.Event{
			Type:      events.TypeDealCancelled,
			DealID:    deal.ID,
			ListingID: deal.ListingID,
			Reason:    "confirmation window expired",
		})
	}
}
