package model

import "time"

type ListingStatus string

const (
	ListingStatusActive              ListingStatus = "active"
	ListingStatusPendingConfirmation ListingStatus = "pending_confirmation"
	ListingStatusSold                ListingStatus = "sold"
	ListingStatusExpired             ListingStatus = "expired"
	ListingStatusCancelled           ListingStatus = "cancelled"
)

type ItemCategory string

const (
	ItemCategoryCouch       ItemCategory = "couch"
	ItemCategoryDiningTable ItemCategory = "dining_table"
	ItemCategoryBookshelf   ItemCategory = "bookshelf"
	ItemCategoryOther       ItemCategory = "other"
)

type Item struct {
	Name        string       `json:"name"`
	Category    ItemCategory `json:"category"`
	Condition   string       `json:"condition"`
	Description string       `json:"description"`
}

// Listing is a seller's item on the market. FloorPrice is known only to
// the seller side and is never rendered in buyer-facing responses.
//
// A buyer with a live negotiation occupies a slot in ActiveNegotiations;
// the listing status itself stays ACTIVE while sessions run. The maps are
// owned by the market's lock and must never escape by reference.
type Listing struct {
	ID                 int64              `json:"id"`
	SellerID           int64              `json:"seller_id"`
	Item               Item               `json:"item"`
	AskingPrice        float64            `json:"asking_price"`
	FloorPrice         float64            `json:"floor_price"`
	Status             ListingStatus      `json:"status"`
	ExpiresAt          time.Time          `json:"expires_at"`
	InterestedBuyers   map[int64]struct{} `json:"-"`
	ActiveNegotiations map[int64]int64    `json:"-"` // buyer id -> session id
	CreatedAt          time.Time          `json:"created_at"`
}

// Snapshot returns a copy safe to hand outside the market lock.
func (l *Listing) Snapshot() Listing {
	cp := *l
	cp.InterestedBuyers = make(map[int64]struct{}, len(l.InterestedBuyers))
	for k := range l.InterestedBuyers {
		cp.InterestedBuyers[k] = struct{}{}
	}
	cp.ActiveNegotiations = make(map[int64]int64, len(l.ActiveNegotiations))
	for k, v := range l.ActiveNegotiations {
		cp.ActiveNegotiations[k] = v
	}
	return cp
}
