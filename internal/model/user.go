package model

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Personality selects the decision profile an agent negotiates with.
// The set is closed; registration rejects tags outside the catalog.
type Personality string

const (
	// Buyer personalities.
	PersonalityBargainHunter Personality = "bargain_hunter"
	PersonalityFairDeal      Personality = "fair_deal"
	PersonalityQuickCash     Personality = "quick_cash"
	PersonalityPremium       Personality = "premium"
	PersonalityStudent       Personality = "student"

	// Seller personalities.
	PersonalityAggressive Personality = "aggressive"
	PersonalityFlexible   Personality = "flexible"
	PersonalityQuickSale  Personality = "quick_sale"
	PersonalityWhiteGlove Personality = "white_glove"
)

// BudgetRange bounds what a buyer's agent may spend. Only Max
// participates in pricing; Min is informational on the profile.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type User struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Role          Role        `json:"role"`
	Personality   Personality `json:"personality"`
	Budget        BudgetRange `json:"budget"`
	RiskTolerance float64     `json:"risk_tolerance"`
	CreatedAt     time.Time   `json:"created_at"`
}
