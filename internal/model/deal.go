package model

import "time"

// Deal is a tentative agreement awaiting explicit confirmation from both
// parties. It finalizes only when both flags are true; a single rejection
// or expiry cancels it and returns the listing to market.
type Deal struct {
	ID              int64     `json:"id"`
	SessionID       int64     `json:"session_id"`
	ListingID       int64     `json:"listing_id"`
	BuyerID         int64     `json:"buyer_id"`
	SellerID        int64     `json:"seller_id"`
	AgreedPrice     float64   `json:"agreed_price"`
	BuyerConfirmed  bool      `json:"buyer_confirmed"`
	SellerConfirmed bool      `json:"seller_confirmed"`
	Announcement    string    `json:"announcement,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func (d *Deal) IsParty(userID int64) bool {
	return userID == d.BuyerID || userID == d.SellerID
}

func (d *Deal) Confirmed() bool {
	return d.BuyerConfirmed && d.SellerConfirmed
}
