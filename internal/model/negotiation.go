package model

import "time"

type SessionResult string

const (
	SessionInProgress   SessionResult = "in_progress"
	SessionDealAccepted SessionResult = "deal_accepted"
	SessionNoDeal       SessionResult = "no_deal"
)

// Offer is one priced proposal inside a session. Round numbers are
// 1-based and strictly increasing within a session.
type Offer struct {
	Price   float64 `json:"price"`
	Message string  `json:"message"`
	Round   int     `json:"round"`
	Author  Role    `json:"author"`
}

// Session is one buyer's negotiation over one listing. It is created by
// the scheduler and mutated only by the worker driving it (or by the
// market when a competing sale closes it); all access goes through the
// market lock.
type Session struct {
	ID           int64         `json:"id"`
	ListingID    int64         `json:"listing_id"`
	BuyerID      int64         `json:"buyer_id"`
	SellerID     int64         `json:"seller_id"`
	Round        int           `json:"round"`
	MaxRounds    int           `json:"max_rounds"`
	Offers       []Offer       `json:"offers"`
	Result       SessionResult `json:"result"`
	FinalPrice   float64       `json:"final_price,omitempty"`
	ClosedReason string        `json:"closed_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
}

// AddOffer appends an offer and advances the round counter by exactly one.
func (s *Session) AddOffer(o Offer) {
	s.Offers = append(s.Offers, o)
	s.Round++
}

// LastOffer returns the most recent offer, or nil before the opening bid.
func (s *Session) LastOffer() *Offer {
	if len(s.Offers) == 0 {
		return nil
	}
	return &s.Offers[len(s.Offers)-1]
}

// LastOfferBy returns the most recent offer authored by the given role.
func (s *Session) LastOfferBy(role Role) *Offer {
	for i := len(s.Offers) - 1; i >= 0; i-- {
		if s.Offers[i].Author == role {
			return &s.Offers[i]
		}
	}
	return nil
}

// IsComplete reports whether the session reached a terminal state:
// an explicit result, or round exhaustion.
func (s *Session) IsComplete() bool {
	return s.Result != SessionInProgress || s.Round >= s.MaxRounds
}

// Snapshot returns a copy safe to hand outside the market lock.
func (s *Session) Snapshot() Session {
	cp := *s
	cp.Offers = make([]Offer, len(s.Offers))
	copy(cp.Offers, s.Offers)
	return cp
}
