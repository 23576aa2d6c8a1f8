package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealyard.app/market/internal/http/handler"
	"dealyard.app/market/internal/market"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/strategy"
)

var _ = Describe("DirectoryHandler", func() {
	var (
		router *gin.Engine
		engine *mockEngine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		engine = &mockEngine{}
		h := handler.NewDirectoryHandler(engine)
		router.POST("/users", h.RegisterUser)
		router.POST("/listings", h.CreateListing)
		router.GET("/listings", h.ListActive)
		router.GET("/listings/:id", h.GetListing)
		router.POST("/listings/:id/interest", h.ExpressInterest)
	})

	Describe("RegisterUser", func() {
		It("returns 201 with the created user", func() {
			engine.registerUserFn = func(_ context.Context, name string, role model.Role, p model.Personality, budget model.BudgetRange) (int64, error) {
				Expect(name).To(Equal("Priya"))
				Expect(role).To(Equal(model.RoleBuyer))
				Expect(budget.Max).To(Equal(900.0))
				return 7, nil
			}
			engine.getUserFn = func(_ context.Context, userID int64) (model.User, error) {
				return model.User{ID: userID, Name: "Priya", Role: model.RoleBuyer, Personality: model.PersonalityQuickCash}, nil
			}

			w := doJSON(router, http.MethodPost, "/users", map[string]any{
				"name":        "Priya",
				"role":        "buyer",
				"personality": "quick_cash",
				"budget_max":  900,
			})

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("7"))
		})

		It("returns 400 on an unknown personality", func() {
			engine.registerUserFn = func(context.Context, string, model.Role, model.Personality, model.BudgetRange) (int64, error) {
				return 0, strategy.ErrUnknownPersonality
			}

			w := doJSON(router, http.MethodPost, "/users", map[string]any{
				"name":        "Priya",
				"role":        "buyer",
				"personality": "haggler",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 on an invalid role", func() {
			w := doJSON(router, http.MethodPost, "/users", map[string]any{
				"name":        "Priya",
				"role":        "broker",
				"personality": "quick_cash",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("CreateListing", func() {
		It("returns 201 and hides the floor price", func() {
			engine.createListingFn = func(_ context.Context, sellerID int64, item model.Item, asking, floor float64, _ time.Duration) (int64, error) {
				Expect(sellerID).To(Equal(int64(3)))
				Expect(item.Category).To(Equal(model.ItemCategoryCouch))
				Expect(floor).To(Equal(500.0))
				return 11, nil
			}
			engine.getListingFn = func(_ context.Context, listingID int64) (model.Listing, error) {
				return model.Listing{
					ID: listingID, SellerID: 3,
					Item:        model.Item{Name: "couch", Category: model.ItemCategoryCouch},
					AskingPrice: 800, FloorPrice: 500,
					Status: model.ListingStatusActive,
				}, nil
			}

			w := doJSON(router, http.MethodPost, "/listings", map[string]any{
				"seller_id":    "3",
				"item_name":    "couch",
				"category":     "couch",
				"asking_price": 800,
				"floor_price":  500,
			})

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).NotTo(HaveKey("floor_price"))
			Expect(resp["asking_price"]).To(Equal(800.0))
		})

		It("returns 400 on an unknown category", func() {
			w := doJSON(router, http.MethodPost, "/listings", map[string]any{
				"seller_id":    "3",
				"item_name":    "couch",
				"category":     "spaceship",
				"asking_price": 800,
				"floor_price":  500,
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GetListing", func() {
		It("returns 404 for an unknown listing", func() {
			engine.getListingFn = func(context.Context, int64) (model.Listing, error) {
				return model.Listing{}, market.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/listings/42", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/listings/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ExpressInterest", func() {
		It("reports whether interest registered", func() {
			engine.expressInterestFn = func(_ context.Context, buyerID, listingID int64) bool {
				Expect(buyerID).To(Equal(int64(7)))
				Expect(listingID).To(Equal(int64(11)))
				return true
			}

			w := doJSON(router, http.MethodPost, "/listings/11/interest", map[string]any{
				"buyer_id": "7",
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["registered"]).To(BeTrue())
		})
	})
})

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
