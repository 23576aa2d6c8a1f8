// Package market implements the negotiation orchestration engine:
// the user/listing directory, the bounded scheduler that runs buyer
// agents against seller agents, the deal-confirmation ledger, and the
// reaper that expires stale listings and deals.
//
// All shared state (users, listings, sessions, deals) lives behind one
// mutex owned by Market. Checks and the registrations that depend on
// them always execute inside a single critical section, so two callers
// can never double-book the same buyer on the same listing.
package market

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dealyard.app/market/internal/events"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/phrase"
)

// SaleRecord is handed to the archive when a deal finalizes.
type SaleRecord struct {
	DealID    int64
	ListingID int64
	BuyerID   int64
	SellerID  int64
	ItemName  string
	Price     float64
	SoldAt    time.Time
}

// SaleRecorder persists finalized sales. Best-effort: a recording
// failure is logged and never blocks or reverts the sale.
type SaleRecorder interface {
	RecordSale(ctx context.Context, sale SaleRecord) error
}

type Config struct {
	MaxConcurrentNegotiations int
	MaxRounds                 int
	RoundDelay                time.Duration
	DefaultListingDuration    time.Duration
	DealConfirmWindow         time.Duration

	// Optional collaborators. Nil disables the concern.
	Publisher events.Publisher
	Sales     SaleRecorder
	Composer  phrase.Composer
}

type Market struct {
	cfg Config

	mu       sync.Mutex
	users    map[int64]*model.User
	listings map[int64]*model.Listing
	sessions map[int64]*model.Session
	deals    map[int64]*model.Deal

	// liveSet holds sessions admitted but not yet retired; its size is
	// the capacity check. Retirement is idempotent so a session closed
	// by a competing sale and by its own worker is counted once.
	liveSet map[int64]struct{}
	closed  bool
	wg      sync.WaitGroup

	publisher events.Publisher
	sales     SaleRecorder
	composer  phrase.Composer

	now func() time.Time
}

func New(cfg Config) *Market {
	if cfg.MaxConcurrentNegotiations <= 0 {
		cfg.MaxConcurrentNegotiations = 100
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 8
	}
	if cfg.DefaultListingDuration <= 0 {
		cfg.DefaultListingDuration = 7 * 24 * time.Hour
	}
	if cfg.DealConfirmWindow == 0 {
		cfg.DealConfirmWindow = 24 * time.Hour
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}

	return &Market{
		cfg:       cfg,
		users:     make(map[int64]*model.User),
		listings:  make(map[int64]*model.Listing),
		sessions:  make(map[int64]*model.Session),
		deals:     make(map[int64]*model.Deal),
		liveSet:   make(map[int64]struct{}),
		publisher: publisher,
		sales:     cfg.Sales,
		composer:  cfg.Composer,
		now:       time.Now,
	}
}

// Shutdown stops admitting new negotiations and waits for in-flight
// session workers to reach a terminal state, up to the context deadline.
func (m *Market) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Market) publish(ctx context.Context, ev events.Event) {
	if err := m.publisher.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "event publish failed", "type", ev.Type, "error", err)
	}
}

// retireLocked removes a session from live accounting. Idempotent.
func (m *Market) retireLocked(sessionID int64) {
	delete(m.liveSet, sessionID)
}
