// Package strategy holds the agent decision functions consumed by
// negotiation sessions: accept/reject thresholds and walk-away prices,
// derived from a closed catalog of personalities. Strategies are pure —
// no I/O, no shared state — and are built fresh for each session.
package strategy

import (
	"errors"

	"dealyard.app/market/internal/model"
)

var ErrUnknownPersonality = errors.New("unknown personality for role")

// Strategy answers the two questions a session asks of a party.
// referencePrice is always the listing's asking price.
type Strategy interface {
	ShouldAccept(offerPrice, referencePrice float64) bool
	WalkAwayPrice(referencePrice float64) float64
}

// Buyers accept a counter-offer that lands within 10% of their target;
// sellers accept an offer within 10% under theirs. Both bands come from
// the original marketplace agents and give the converging sequences
// room to cross before rounds run out.
const (
	buyerAcceptSlack  = 1.1
	sellerAcceptSlack = 0.9
)

type buyerStrategy struct {
	walkAwayRatio float64 // fraction of asking the buyer will pay at most
	targetRatio   float64 // fraction of asking the buyer wants to pay
}

func (b buyerStrategy) ShouldAccept(offerPrice, referencePrice float64) bool {
	return offerPrice <= referencePrice*b.targetRatio*buyerAcceptSlack
}

func (b buyerStrategy) WalkAwayPrice(referencePrice float64) float64 {
	return referencePrice * b.walkAwayRatio
}

type sellerStrategy struct {
	minimumRatio float64 // floor price as a fraction of asking
	targetRatio  float64 // fraction of asking the seller wants to get
}

func (s sellerStrategy) ShouldAccept(offerPrice, referencePrice float64) bool {
	return offerPrice >= referencePrice*s.targetRatio*sellerAcceptSlack
}

func (s sellerStrategy) WalkAwayPrice(referencePrice float64) float64 {
	return referencePrice * s.minimumRatio
}

// ForBuyer builds a single-use buyer strategy. The personality's budget
// multiplier is capped by the user's own maximum budget, so the agent
// never bids past what the human authorized.
func ForBuyer(p model.Personality, budgetMax, askingPrice float64) (Strategy, error) {
	profile, ok := buyerProfiles[p]
	if !ok {
		return nil, ErrUnknownPersonality
	}

	ratio := profile.BudgetMultiplier
	if budgetMax > 0 && askingPrice > 0 {
		maxSpend := min(budgetMax, askingPrice*ratio)
		ratio = maxSpend / askingPrice
	}

	return buyerStrategy{
		walkAwayRatio: ratio,
		targetRatio:   profile.TargetRatio,
	}, nil
}

// ForSeller builds a single-use seller strategy. The walk-away price is
// the listing's floor, expressed as a ratio of asking; the acceptance
// target comes from the personality.
func ForSeller(p model.Personality, floorPrice, askingPrice float64) (Strategy, error) {
	profile, ok := sellerProfiles[p]
	if !ok {
		return nil, ErrUnknownPersonality
	}

	minimumRatio := profile.MinimumMultiplier
	if askingPrice > 0 && floorPrice > 0 {
		minimumRatio = floorPrice / askingPrice
	}

	return sellerStrategy{
		minimumRatio: minimumRatio,
		targetRatio:  profile.TargetRatio,
	}, nil
}

// Validate fails fast on a personality tag outside the role's catalog.
// Called at registration so a bad tag never reaches a live session.
func Validate(role model.Role, p model.Personality) error {
	switch role {
	case model.RoleBuyer:
		if _, ok := buyerProfiles[p]; !ok {
			return ErrUnknownPersonality
		}
	case model.RoleSeller:
		if _, ok := sellerProfiles[p]; !ok {
			return ErrUnknownPersonality
		}
	default:
		return ErrUnknownPersonality
	}
	return nil
}

// DefaultRiskTolerance returns the personality's risk profile, used to
// seed the user record at registration.
func DefaultRiskTolerance(role model.Role, p model.Personality) float64 {
	switch role {
	case model.RoleBuyer:
		if profile, ok := buyerProfiles[p]; ok {
			return profile.RiskTolerance
		}
	case model.RoleSeller:
		if profile, ok := sellerProfiles[p]; ok {
			return profile.RiskTolerance
		}
	}
	return 0.5
}
