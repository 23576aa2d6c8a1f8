package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealyard.app/market/internal/http/handler"
	"dealyard.app/market/internal/market"
	"dealyard.app/market/internal/model"
)

var _ = Describe("NegotiationHandler", func() {
	var (
		router *gin.Engine
		engine *mockEngine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		engine = &mockEngine{}
		h := handler.NewNegotiationHandler(engine)
		router.POST("/negotiations", h.Start)
		router.GET("/negotiations/:id", h.Get)
		router.GET("/users/:id/negotiations", h.ListForUser)
	})

	Describe("Start", func() {
		It("returns 202 with the session id", func() {
			engine.startNegotiationFn = func(_ context.Context, buyerID, listingID int64) (int64, error) {
				Expect(buyerID).To(Equal(int64(7)))
				Expect(listingID).To(Equal(int64(11)))
				return 99, nil
			}

			w := doJSON(router, http.MethodPost, "/negotiations", map[string]any{
				"buyer_id":   "7",
				"listing_id": "11",
			})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["session_id"]).To(Equal("99"))
		})

		It("returns 409 when the buyer already negotiates the listing", func() {
			engine.startNegotiationFn = func(context.Context, int64, int64) (int64, error) {
				return 0, market.ErrDuplicateNegotiation
			}

			w := doJSON(router, http.MethodPost, "/negotiations", map[string]any{
				"buyer_id":   "7",
				"listing_id": "11",
			})

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 503 when the pool is full", func() {
			engine.startNegotiationFn = func(context.Context, int64, int64) (int64, error) {
				return 0, market.ErrCapacityExceeded
			}

			w := doJSON(router, http.MethodPost, "/negotiations", map[string]any{
				"buyer_id":   "7",
				"listing_id": "11",
			})

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("returns 400 when the listing id is missing", func() {
			w := doJSON(router, http.MethodPost, "/negotiations", map[string]any{
				"buyer_id": "7",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Get", func() {
		It("returns the session with its offers", func() {
			engine.getSessionFn = func(_ context.Context, sessionID int64) (model.Session, error) {
				return model.Session{
					ID: sessionID, Round: 2, MaxRounds: 8,
					Result:     model.SessionDealAccepted,
					FinalPrice: 552,
					Offers: []model.Offer{
						{Price: 480, Round: 1, Author: model.RoleBuyer, Message: "I can offer $480.00"},
						{Price: 552, Round: 2, Author: model.RoleSeller, Message: "I could consider $552.00"},
					},
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/negotiations/99", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["result"]).To(Equal("deal_accepted"))
			Expect(resp["offers"]).To(HaveLen(2))
		})

		It("returns 404 for an unknown session", func() {
			engine.getSessionFn = func(context.Context, int64) (model.Session, error) {
				return model.Session{}, market.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/negotiations/99", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})

var _ = Describe("DealHandler", func() {
	var (
		router *gin.Engine
		engine *mockEngine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		engine = &mockEngine{}
		h := handler.NewDealHandler(engine)
		router.POST("/deals/:id/confirm", h.Confirm)
		router.GET("/users/:id/deals", h.ListPendingForUser)
	})

	Describe("Confirm", func() {
		It("passes the verdict through", func() {
			var gotAccept bool
			engine.confirmDealFn = func(_ context.Context, userID, dealID int64, accept bool) error {
				Expect(userID).To(Equal(int64(7)))
				Expect(dealID).To(Equal(int64(55)))
				gotAccept = accept
				return nil
			}

			w := doJSON(router, http.MethodPost, "/deals/55/confirm", map[string]any{
				"user_id": "7",
				"accept":  false,
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotAccept).To(BeFalse())
		})

		It("returns 400 when accept is absent", func() {
			w := doJSON(router, http.MethodPost, "/deals/55/confirm", map[string]any{
				"user_id": "7",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 403 for a non-party", func() {
			engine.confirmDealFn = func(context.Context, int64, int64, bool) error {
				return market.ErrNotParty
			}

			w := doJSON(router, http.MethodPost, "/deals/55/confirm", map[string]any{
				"user_id": "7",
				"accept":  true,
			})

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("ListPendingForUser", func() {
		It("returns the user's pending deals", func() {
			engine.pendingDealsForUserFn = func(_ context.Context, userID int64) []model.Deal {
				return []model.Deal{{ID: 55, BuyerID: userID, AgreedPrice: 552}}
			}

			req := httptest.NewRequest(http.MethodGet, "/users/7/deals", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Deals []map[string]any `json:"deals"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Deals).To(HaveLen(1))
			Expect(resp.Deals[0]["agreed_price"]).To(Equal(552.0))
		})
	})
})
