package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealyard.app/market/internal/http/dto"
)

// DealHandler serves the dual-confirmation endpoints.
type DealHandler struct {
	engine Engine
}

func NewDealHandler(engine Engine) *DealHandler {
	return &DealHandler{engine: engine}
}

func (h *DealHandler) Confirm(c *gin.Context) {
	ctx := c.Request.Context()

	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ConfirmDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.engine.ConfirmDeal(ctx, req.UserID, dealID, *req.Accept); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func (h *DealHandler) ListPendingForUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	deals := h.engine.PendingDealsForUser(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"deals": dto.ToDealResponses(deals)})
}
