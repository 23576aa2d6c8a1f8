package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dealyard.app/market/internal/http/dto"
	"dealyard.app/market/internal/model"
	"dealyard.app/market/internal/strategy"
)

// DirectoryHandler serves user and listing endpoints.
type DirectoryHandler struct {
	engine Engine
}

func NewDirectoryHandler(engine Engine) *DirectoryHandler {
	return &DirectoryHandler{engine: engine}
}

func (h *DirectoryHandler) RegisterUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.engine.RegisterUser(ctx, req.Name,
		model.Role(req.Role),
		model.Personality(req.Personality),
		model.BudgetRange{Min: req.BudgetMin, Max: req.BudgetMax})
	if err != nil {
		writeEngineError(c, err)
		return
	}

	user, err := h.engine.GetUser(ctx, userID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *DirectoryHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.engine.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *DirectoryHandler) Personalities(c *gin.Context) {
	resp := dto.PersonalitiesResponse{}
	for _, p := range strategy.BuyerPersonalities() {
		resp.Buyer = append(resp.Buyer, string(p))
	}
	for _, p := range strategy.SellerPersonalities() {
		resp.Seller = append(resp.Seller, string(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DirectoryHandler) CreateListing(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := model.Item{
		Name:        req.ItemName,
		Category:    model.ItemCategory(req.Category),
		Condition:   req.Condition,
		Description: req.Description,
	}
	listingID, err := h.engine.CreateListing(ctx, req.SellerID, item,
		req.AskingPrice, req.FloorPrice,
		time.Duration(req.DurationHours)*time.Hour)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	listing, err := h.engine.GetListing(ctx, listingID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

func (h *DirectoryHandler) GetListing(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.engine.GetListing(c.Request.Context(), listingID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *DirectoryHandler) ListActive(c *gin.Context) {
	listings := h.engine.ActiveListings(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"listings": dto.ToListingResponses(listings)})
}

func (h *DirectoryHandler) ExpressInterest(c *gin.Context) {
	ctx := c.Request.Context()

	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ExpressInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registered := h.engine.ExpressInterest(ctx, req.BuyerID, listingID)
	c.JSON(http.StatusOK, gin.H{"registered": registered})
}
