// Command simulate runs a scripted marketplace session in-process:
// a handful of buyers and sellers, a few listings, concurrent
// negotiations, and dual confirmation of whatever deals emerge.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"dealyard.app/market/common/id"
	"dealyard.app/market/internal/market"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/phrase"
)

func main() {
	ctx := context.Background()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := id.Init(1); err != nil {
		fmt.Fprintln(os.Stderr, "id init:", err)
		os.Exit(1)
	}

	engine := market.New(market.Config{
		MaxConcurrentNegotiations: 10,
		MaxRounds:                 8,
		RoundDelay:                20 * time.Millisecond,
		Composer:                  phrase.NewTemplateComposer(),
	})

	sellerA := mustRegister(ctx, engine, "Maya", model.RoleSeller, model.PersonalityQuickSale, model.BudgetRange{})
	sellerB := mustRegister(ctx, engine, "Tom", model.RoleSeller, model.PersonalityAggressive, model.BudgetRange{})
	buyerA := mustRegister(ctx, engine, "Priya", model.RoleBuyer, model.PersonalityQuickCash, model.BudgetRange{Max: 900})
	buyerB := mustRegister(ctx, engine, "Dan", model.RoleBuyer, model.PersonalityBargainHunter, model.BudgetRange{Max: 700})
	buyerC := mustRegister(ctx, engine, "Lena", model.RoleBuyer, model.PersonalityStudent, model.BudgetRange{Max: 400})

	couch := mustList(ctx, engine, sellerA, model.Item{
		Name: "Mid-century leather couch", Category: model.ItemCategoryCouch, Condition: "good",
	}, 800, 500)
	table := mustList(ctx, engine, sellerB, model.Item{
		Name: "Oak dining table", Category: model.ItemCategoryDiningTable, Condition: "like new",
	}, 600, 450)

	engine.ExpressInterest(ctx, buyerA, couch)
	engine.ExpressInterest(ctx, buyerB, couch)
	engine.ExpressInterest(ctx, buyerC, table)

	sessions := make(map[string]int64)
	for _, attempt := range []struct {
		label   string
		buyer   int64
		listing int64
	}{
		{"Priya vs couch", buyerA, couch},
		{"Dan vs couch", buyerB, couch},
		{"Lena vs table", buyerC, table},
	} {
		sessionID, err := engine.StartNegotiation(ctx, attempt.buyer, attempt.listing)
		if err != nil {
			fmt.Printf("%-16s could not start: %v\n", attempt.label, err)
			continue
		}
		sessions[attempt.label] = sessionID
	}

	waitForSessions(ctx, engine, sessions)

	for label, sessionID := range sessions {
		session, err := engine.GetSession(ctx, sessionID)
		if err != nil {
			continue
		}
		fmt.Printf("%-16s result=%s rounds=%d", label, session.Result, session.Round)
		if session.Result == model.SessionDealAccepted {
			fmt.Printf(" price=$%.2f", session.FinalPrice)
		} else if session.ClosedReason != "" {
			fmt.Printf(" (%s)", session.ClosedReason)
		}
		fmt.Println()
	}

	confirmAll(ctx, engine, []int64{buyerA, buyerB, buyerC, sellerA, sellerB})

	for _, listingID := range []int64{couch, table} {
		listing, err := engine.GetListing(ctx, listingID)
		if err != nil {
			continue
		}
		fmt.Printf("listing %-28s status=%s\n", listing.Item.Name, listing.Status)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := engine.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", err)
	}
}

func mustRegister(ctx context.Context, engine *market.Market, name string, role model.Role, p model.Personality, budget model.BudgetRange) int64 {
	userID, err := engine.RegisterUser(ctx, name, role, p, budget)
	if err != nil {
		fmt.Fprintln(os.Stderr, "register:", err)
		os.Exit(1)
	}
	return userID
}

func mustList(ctx context.Context, engine *market.Market, sellerID int64, item model.Item, asking, floor float64) int64 {
	listingID, err := engine.CreateListing(ctx, sellerID, item, asking, floor, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	return listingID
}

// waitForSessions polls until every session reaches a terminal state.
func waitForSessions(ctx context.Context, engine *market.Market, sessions map[string]int64) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		done := true
		for _, sessionID := range sessions {
			session, err := engine.GetSession(ctx, sessionID)
			if err != nil {
				continue
			}
			if session.Result == model.SessionInProgress && session.Round < session.MaxRounds {
				done = false
				break
			}
		}
		if done {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// confirmAll has every user accept every pending deal they are party to.
func confirmAll(ctx context.Context, engine *market.Market, userIDs []int64) {
	for _, userID := range userIDs {
		for _, deal := range engine.PendingDealsForUser(ctx, userID) {
			if err := engine.ConfirmDeal(ctx, userID, deal.ID, true); err != nil {
				continue
			}
		}
	}
}
