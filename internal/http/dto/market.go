package dto

import (
	"time"

	"dealyard.app/market/internal/model"
)

type RegisterUserRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Role        string  `json:"role" binding:"required,oneof=buyer seller"`
	Personality string  `json:"personality" binding:"required,min=1,max=64"`
	BudgetMin   float64 `json:"budget_min" binding:"omitempty,gte=0"`
	BudgetMax   float64 `json:"budget_max" binding:"omitempty,gte=0"`
}

type UserResponse struct {
	ID            int64     `json:"id,string"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Personality   string    `json:"personality"`
	BudgetMin     float64   `json:"budget_min,omitempty"`
	BudgetMax     float64   `json:"budget_max,omitempty"`
	RiskTolerance float64   `json:"risk_tolerance"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Role:          string(u.Role),
		Personality:   string(u.Personality),
		BudgetMin:     u.Budget.Min,
		BudgetMax:     u.Budget.Max,
		RiskTolerance: u.RiskTolerance,
		CreatedAt:     u.CreatedAt,
	}
}

type CreateListingRequest struct {
	SellerID      int64   `json:"seller_id,string" binding:"required"`
	ItemName      string  `json:"item_name" binding:"required,min=1,max=255"`
	Category      string  `json:"category" binding:"required,oneof=couch dining_table bookshelf other"`
	Condition     string  `json:"condition" binding:"omitempty,max=64"`
	Description   string  `json:"description" binding:"omitempty,max=2048"`
	AskingPrice   float64 `json:"asking_price" binding:"required,gt=0"`
	FloorPrice    float64 `json:"floor_price" binding:"required,gt=0"`
	DurationHours int     `json:"duration_hours" binding:"omitempty,gte=1"`
}

// ListingResponse deliberately omits the floor price; buyers polling the
// market must not see the seller's walk-away bound.
type ListingResponse struct {
	ID          int64     `json:"id,string"`
	SellerID    int64     `json:"seller_id,string"`
	ItemName    string    `json:"item_name"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition,omitempty"`
	Description string    `json:"description,omitempty"`
	AskingPrice float64   `json:"asking_price"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToListingResponse(l model.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		ItemName:    l.Item.Name,
		Category:    string(l.Item.Category),
		Condition:   l.Item.Condition,
		Description: l.Item.Description,
		AskingPrice: l.AskingPrice,
		Status:      string(l.Status),
		ExpiresAt:   l.ExpiresAt,
		CreatedAt:   l.CreatedAt,
	}
}

func ToListingResponses(listings []model.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, ToListingResponse(l))
	}
	return out
}

type StartNegotiationRequest struct {
	BuyerID   int64 `json:"buyer_id,string" binding:"required"`
	ListingID int64 `json:"listing_id,string" binding:"required"`
}

type ExpressInterestRequest struct {
	BuyerID int64 `json:"buyer_id,string" binding:"required"`
}

type OfferResponse struct {
	Price   float64 `json:"price"`
	Message string  `json:"message"`
	Round   int     `json:"round"`
	Author  string  `json:"author"`
}

type SessionResponse struct {
	ID           int64           `json:"id,string"`
	ListingID    int64           `json:"listing_id,string"`
	BuyerID      int64           `json:"buyer_id,string"`
	SellerID     int64           `json:"seller_id,string"`
	Round        int             `json:"round"`
	MaxRounds    int             `json:"max_rounds"`
	Offers       []OfferResponse `json:"offers"`
	Result       string          `json:"result"`
	FinalPrice   float64         `json:"final_price,omitempty"`
	ClosedReason string          `json:"closed_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
}

func ToSessionResponse(s model.Session) SessionResponse {
	offers := make([]OfferResponse, 0, len(s.Offers))
	for _, o := range s.Offers {
		offers = append(offers, OfferResponse{
			Price:   o.Price,
			Message: o.Message,
			Round:   o.Round,
			Author:  string(o.Author),
		})
	}
	return SessionResponse{
		ID:           s.ID,
		ListingID:    s.ListingID,
		BuyerID:      s.BuyerID,
		SellerID:     s.SellerID,
		Round:        s.Round,
		MaxRounds:    s.MaxRounds,
		Offers:       offers,
		Result:       string(s.Result),
		FinalPrice:   s.FinalPrice,
		ClosedReason: s.ClosedReason,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
	}
}

func ToSessionResponses(sessions []model.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToSessionResponse(s))
	}
	return out
}

type ConfirmDealRequest struct {
	UserID int64 `json:"user_id,string" binding:"required"`
	Accept *bool `json:"accept" binding:"required"`
}

type DealResponse struct {
	ID              int64     `json:"id,string"`
	SessionID       int64     `json:"session_id,string"`
	ListingID       int64     `json:"listing_id,string"`
	BuyerID         int64     `json:"buyer_id,string"`
	SellerID        int64     `json:"seller_id,string"`
	AgreedPrice     float64   `json:"agreed_price"`
	BuyerConfirmed  bool      `json:"buyer_confirmed"`
	SellerConfirmed bool      `json:"seller_confirmed"`
	Announcement    string    `json:"announcement,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func ToDealResponse(d model.Deal) DealResponse {
	return DealResponse{
		ID:              d.ID,
		SessionID:       d.SessionID,
		ListingID:       d.ListingID,
		BuyerID:         d.BuyerID,
		SellerID:        d.SellerID,
		AgreedPrice:     d.AgreedPrice,
		BuyerConfirmed:  d.BuyerConfirmed,
		SellerConfirmed: d.SellerConfirmed,
		Announcement:    d.Announcement,
		CreatedAt:       d.CreatedAt,
		ExpiresAt:       d.ExpiresAt,
	}
}

func ToDealResponses(deals []model.Deal) []DealResponse {
	out := make([]DealResponse, 0, len(deals))
	for _, d := range deals {
		out = append(out, ToDealResponse(d))
	}
	return out
}

type PersonalitiesResponse struct {
	Buyer  []string `json:"buyer"`
	Seller []string `json:"seller"`
}
