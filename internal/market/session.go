package market

import (
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/phrase"
	"dealyard.app/market/internal/strategy"
)

// Protocol constants for the alternating-offer game. The buyer opens
// low and concedes upward, the seller holds its floor, and both stay
// inside their walk-away bounds until the acceptance bands cross or
// rounds run out.
const (
	openingBidRatio  = 0.6  // buyer's opening bid as a fraction of asking
	buyerConcession  = 1.10 // buyer raises the seller's last counter by 10%
	sellerConcession = 1.15 // seller raises the buyer's last offer by 15%
)

// executeRound advances the session by one move. Even rounds belong to
// the buyer, odd rounds to the seller; an offer is evaluated by the
// opposing side the moment it is placed, so acceptance lands in the
// same round as the offer that triggered it. Caller holds the market
// lock.
func (m *Market) executeRound(s *model.Session, buyer, seller strategy.Strategy, askingPrice float64) {
	if s.Round%2 == 0 {
		m.buyerMove(s, buyer, seller, askingPrice)
	} else {
		m.sellerMove(s, buyer, seller, askingPrice)
	}
}

func (m *Market) buyerMove(s *model.Session, buyer, seller strategy.Strategy, askingPrice float64) {
	standing := s.LastOfferBy(model.RoleSeller)

	walkAway := buyer.WalkAwayPrice(askingPrice)
	var price float64
	if standing == nil {
		price = askingPrice * openingBidRatio
	} else {
		price = standing.Price * buyerConcession
	}
	price = min(price, walkAway)

	s.AddOffer(model.Offer{
		Price:   price,
		Message: phrase.BuyerOfferMessage(price, standing == nil),
		Round:   s.Round + 1,
		Author:  model.RoleBuyer,
	})

	if seller.ShouldAccept(price, askingPrice) {
		s.Result = model.SessionDealAccepted
		s.FinalPrice = price
		s.ClosedReason = "seller accepted buyer's offer"
	}
}

func (m *Market) sellerMove(s *model.Session, buyer, seller strategy.Strategy, askingPrice float64) {
	standing := s.LastOfferBy(model.RoleBuyer)
	if standing == nil {
		// Sellers never move first; parity guarantees a buyer offer exists.
		return
	}

	// Re-check the buyer's standing offer before countering. A deal that
	// became acceptable is taken outright rather than countered away.
	if seller.ShouldAccept(standing.Price, askingPrice) {
		s.Result = model.SessionDealAccepted
		s.FinalPrice = standing.Price
		s.ClosedReason = "seller accepted buyer's offer"
		return
	}

	price := max(standing.Price*sellerConcession, seller.WalkAwayPrice(askingPrice))

	s.AddOffer(model.Offer{
		Price:   price,
		Message: phrase.SellerCounterMessage(price),
		Round:   s.Round + 1,
		Author:  model.RoleSeller,
	})

	if buyer.ShouldAccept(price, askingPrice) {
		s.Result = model.SessionDealAccepted
		s.FinalPrice = price
		s.ClosedReason = "buyer accepted seller's counter"
	}
}
