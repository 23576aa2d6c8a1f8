package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dealyard.app/market/internal/market"
	"dealyard.app/market/internal/model"
)

// Engine is the slice of the market the HTTP layer depends on. Handlers
// are tested against a mock of this interface.
type Engine interface {
	RegisterUser(ctx context.Context, name string, role model.Role, personality model.Personality, budget model.BudgetRange) (int64, error)
	GetUser(ctx context.Context, userID int64) (model.User, error)
	CreateListing(ctx context.Context, sellerID int64, item model.Item, askingPrice, floorPrice float64, duration time.Duration) (int64, error)
	GetListing(ctx context.Context, listingID int64) (model.Listing, error)
	ActiveListings(ctx context.Context) []model.Listing
	ExpressInterest(ctx context.Context, buyerID, listingID int64) bool
	StartNegotiation(ctx context.Context, buyerID, listingID int64) (int64, error)
	GetSession(ctx context.Context, sessionID int64) (model.Session, error)
	UserNegotiations(ctx context.Context, userID int64) []model.Session
	PendingDealsForUser(ctx context.Context, userID int64) []model.Deal
	ConfirmDeal(ctx context.Context, userID, dealID int64, accept bool) error
}

// writeEngineError maps engine sentinels onto HTTP statuses.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, market.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, market.ErrNotParty):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, market.ErrDuplicateNegotiation),
		errors.Is(err, market.ErrListingUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, market.ErrCapacityExceeded),
		errors.Is(err, market.ErrMarketClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		// Validation sentinels (role, name, price, personality).
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// strconvID renders IDs as strings, matching the id,string convention
// of the response DTOs.
func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
