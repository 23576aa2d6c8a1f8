package strategy

import "dealyard.app/market/internal/model"

// BuyerProfile parameterizes a buyer personality. BudgetMultiplier is
// the ceiling (fraction of asking) the agent will ever pay, TargetRatio
// the price it is actually hunting for.
type BuyerProfile struct {
	BudgetMultiplier float64
	TargetRatio      float64
	RiskTolerance    float64
}

// SellerProfile parameterizes a seller personality. MinimumMultiplier is
// the default floor when a listing carries none.
type SellerProfile struct {
	MinimumMultiplier float64
	TargetRatio       float64
	RiskTolerance     float64
}

var buyerProfiles = map[model.Personality]BuyerProfile{
	model.PersonalityBargainHunter: {BudgetMultiplier: 0.70, TargetRatio: 0.55, RiskTolerance: 0.3},
	model.PersonalityFairDeal:      {BudgetMultiplier: 0.80, TargetRatio: 0.70, RiskTolerance: 0.6},
	model.PersonalityQuickCash:     {BudgetMultiplier: 0.85, TargetRatio: 0.75, RiskTolerance: 0.8},
	model.PersonalityPremium:       {BudgetMultiplier: 0.95, TargetRatio: 0.85, RiskTolerance: 0.4},
	model.PersonalityStudent:       {BudgetMultiplier: 0.60, TargetRatio: 0.45, RiskTolerance: 0.7},
}

var sellerProfiles = map[model.Personality]SellerProfile{
	model.PersonalityAggressive: {MinimumMultiplier: 0.75, TargetRatio: 0.95, RiskTolerance: 0.3},
	model.PersonalityFlexible:   {MinimumMultiplier: 0.65, TargetRatio: 0.80, RiskTolerance: 0.7},
	model.PersonalityQuickSale:  {MinimumMultiplier: 0.55, TargetRatio: 0.70, RiskTolerance: 0.8},
	model.PersonalityWhiteGlove: {MinimumMultiplier: 0.80, TargetRatio: 0.90, RiskTolerance: 0.2},
}

// BuyerPersonalities lists the valid buyer tags, for API validation hints.
func BuyerPersonalities() []model.Personality {
	out := make([]model.Personality, 0, len(buyerProfiles))
	for p := range buyerProfiles {
		out = append(out, p)
	}
	return out
}

// SellerPersonalities lists the valid seller tags.
func SellerPersonalities() []model.Personality {
	out := make([]model.Personality, 0, len(sellerProfiles))
	for p := range sellerProfiles {
		out = append(out, p)
	}
	return out
}
