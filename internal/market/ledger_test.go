package market

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealyard.app/market/common/id"
	"dealyard.app/market/internal/model"
)

var _ = Describe("Deal ledger", func() {
	var (
		ctx       context.Context
		m         *Market
		sellerID  int64
		buyerID   int64
		listingID int64
	)

	register := func(name string, role model.Role, p model.Personality) int64 {
		userID, err := m.RegisterUser(ctx, name, role, p, model.BudgetRange{})
		Expect(err).NotTo(HaveOccurred())
		return userID
	}

	list := func(asking, floor float64) int64 {
		created, err := m.CreateListing(ctx, sellerID, model.Item{
			Name:     "oak bookshelf",
			Category: model.ItemCategoryBookshelf,
		}, asking, floor, 0)
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	negotiateToDeal := func(buyer int64) model.Deal {
		_, err := m.StartNegotiation(ctx, buyer, listingID)
		Expect(err).NotTo(HaveOccurred())

		var deals []model.Deal
		Eventually(func() int {
			deals = m.PendingDealsForUser(ctx, buyer)
			return len(deals)
		}).WithTimeout(2 * time.Second).Should(Equal(1))
		return deals[0]
	}

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())
		m = New(Config{})
		sellerID = register("seller", model.RoleSeller, model.PersonalityQuickSale)
		buyerID = register("buyer", model.RoleBuyer, model.PersonalityQuickCash)
		listingID = list(800, 500)
	})

	Describe("confirming", func() {
		It("records a single confirmation without finalizing", func() {
			deal := negotiateToDeal(buyerID)

			Expect(m.ConfirmDeal(ctx, buyerID, deal.ID, true)).To(Succeed())

			listing, err := m.GetListing(ctx, listingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Status).To(Equal(model.ListingStatusPendingConfirmation))

			deals := m.PendingDealsForUser(ctx, buyerID)
			Expect(deals).To(HaveLen(1))
			Expect(deals[0].BuyerConfirmed).To(BeTrue())
			Expect(deals[0].SellerConfirmed).To(BeFalse())
		})

		It("treats a repeated confirmation as a no-op", func() {
			deal := negotiateToDeal(buyerID)

			Expect(m.ConfirmDeal(ctx, buyerID, deal.ID, true)).To(Succeed())
			Expect(m.ConfirmDeal(ctx, buyerID, deal.ID, true)).To(Succeed())

			deals := m.PendingDealsForUser(ctx, buyerID)
			Expect(deals).To(HaveLen(1))
			Expect(deals[0].SellerConfirmed).To(BeFalse())
		})

		It("finalizes the sale on dual confirmation", func() {
			deal := negotiateToDeal(buyerID)

			Expect(m.ConfirmDeal(ctx, buyerID, deal.ID, true)).To(Succeed())
			Expect(m.ConfirmDeal(ctx, sellerID, deal.ID, true)).To(Succeed())

			listing, err := m.GetListing(ctx, listingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Status).To(Equal(model.ListingStatusSold))

			Expect(m.PendingDealsForUser(ctx, buyerID)).To(BeEmpty())
			Expect(m.PendingDealsForUser(ctx, sellerID)).To(BeEmpty())

			Expect(m.ConfirmDeal(ctx, buyerID, deal.ID, true)).To(MatchError(ErrNotFound))

			// A sold listing takes no further negotiations.
			_, err = m.StartNegotiation(ctx, buyerID, listingID)
			Expect(err).To(MatchError(ErrListingUnavailable))
		})

		It("returns the listing to market on rejection", func() {
			deal := negotiateToDeal(buyerID)

			Expect(m.ConfirmDeal(ctx, sellerID, deal.ID, false)).To(Succeed())

			listing, err := m.GetListing(ctx, listingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Status).To(Equal(model.ListingStatusActive))
			Expect(m.PendingDealsForUser(ctx, buyerID)).To(BeEmpty())

			// The same pair may negotiate again.
			_, err = m.StartNegotiation(ctx, buyerID, listingID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects confirmation from a non-party", func() {
			deal := negotiateToDeal(buyerID)
			stranger := register("stranger", model.RoleBuyer, model.PersonalityFairDeal)

			Expect(m.ConfirmDeal(ctx, stranger, deal.ID, true)).To(MatchError(ErrNotParty))
			Expect(m.ConfirmDeal(ctx, buyerID, 424242, true)).To(MatchError(ErrNotFound))
		})
	})

	Describe("competing sessions", func() {
		It("closes the losing session when the sale finalizes", func() {
			m = New(Config{RoundDelay: 50 * time.Millisecond})
			sellerID = register("seller", model.RoleSeller, model.PersonalityQuickSale)
			listingID = list(800, 500)
			winner := register("winner", model.RoleBuyer, model.PersonalityPremium)
			loser, err := m.RegisterUser(ctx, "loser", model.RoleBuyer, model.PersonalityStudent, model.BudgetRange{Max: 300})
			Expect(err).NotTo(HaveOccurred())

			loserSession, err := m.StartNegotiation(ctx, loser, listingID)
			Expect(err).NotTo(HaveOccurred())
			deal := negotiateToDeal(winner)

			Expect(m.ConfirmDeal(ctx, winner, deal.ID, true)).To(Succeed())
			Expect(m.ConfirmDeal(ctx, sellerID, deal.ID, true)).To(Succeed())

			Eventually(func() model.SessionResult {
				session, err := m.GetSession(ctx, loserSession)
				Expect(err).NotTo(HaveOccurred())
				return session.Result
			}).WithTimeout(2 * time.Second).Should(Equal(model.SessionNoDeal))

			session, err := m.GetSession(ctx, loserSession)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.ClosedReason).To(Equal("listing sold to another buyer"))
		})
	})

	Describe("reaping", func() {
		It("cancels a deal whose confirmation window lapsed", func() {
			m = New(Config{DealConfirmWindow: -time.Hour})
			sellerID = register("seller", model.RoleSeller, model.PersonalityQuickSale)
			buyerID = register("buyer", model.RoleBuyer, model.PersonalityQuickCash)
			listingID = list(800, 500)

			negotiateToDeal(buyerID)
			m.ReapOnce(ctx)

			Expect(m.PendingDealsForUser(ctx, buyerID)).To(BeEmpty())
			listing, err := m.GetListing(ctx, listingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Status).To(Equal(model.ListingStatusActive))
		})

		It("expires listings past their window", func() {
			m.mu.Lock()
			m.listings[listingID].ExpiresAt = time.Now().Add(-time.Minute)
			m.mu.Unlock()

			m.ReapOnce(ctx)

			listing, err := m.GetListing(ctx, listingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Status).To(Equal(model.ListingStatusExpired))
			Expect(m.ActiveListings(ctx)).To(BeEmpty())

			_, err = m.StartNegotiation(ctx, buyerID, listingID)
			Expect(err).To(MatchError(ErrListingUnavailable))
		})
	})
})
