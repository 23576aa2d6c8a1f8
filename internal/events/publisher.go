// Package events publishes marketplace lifecycle events to a Redis
// stream for dashboards and audit consumers. Publishing is fire-and-
// forget from the engine's point of view; the market never blocks on it.
package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Type string

const (
	TypeUserRegistered       Type = "user.registered"
	TypeListingCreated       Type = "listing.created"
	TypeListingExpired       Type = "listing.expired"
	TypeInterestExpressed    Type = "interest.expressed"
	TypeNegotiationStarted   Type = "negotiation.started"
	TypeNegotiationCompleted Type = "negotiation.completed"
	TypeDealPending          Type = "deal.pending"
	TypeDealFinalized        Type = "deal.finalized"
	TypeDealCancelled        Type = "deal.cancelled"
)

// Event carries the identifiers relevant to one lifecycle transition.
// Zero-valued fields are omitted from the stream entry.
type Event struct {
	Type      Type
	UserID    int64
	ListingID int64
	SessionID int64
	DealID    int64
	BuyerID   int64
	SellerID  int64
	Price     float64
	Result    string
	Reason    string
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type redisPublisher struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisPublisher(client *redis.Client, stream string, logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisPublisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, ev Event) error {
	fields := map[string]any{
		"type": string(ev.Type),
	}
	addInt := func(key string, v int64) {
		if v != 0 {
			fields[key] = v
		}
	}
	addInt("user_id", ev.UserID)
	addInt("listing_id", ev.ListingID)
	addInt("session_id", ev.SessionID)
	addInt("deal_id", ev.DealID)
	addInt("buyer_id", ev.BuyerID)
	addInt("seller_id", ev.SellerID)
	if ev.Price != 0 {
		fields["price"] = ev.Price
	}
	if ev.Result != "" {
		fields["result"] = ev.Result
	}
	if ev.Reason != "" {
		fields["reason"] = ev.Reason
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.DebugContext(ctx, "published market event", "type", ev.Type, "stream", p.stream)
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops everything, used when
// no Redis endpoint is configured and in tests.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
