package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealyard.app/market/internal/http/dto"
)

// NegotiationHandler serves session start and polling endpoints.
// Negotiations run asynchronously; the start endpoint returns the
// session ID immediately and clients poll for the outcome.
type NegotiationHandler struct {
	engine Engine
}

func NewNegotiationHandler(engine Engine) *NegotiationHandler {
	return &NegotiationHandler{engine: engine}
}

func (h *NegotiationHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StartNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, err := h.engine.StartNegotiation(ctx, req.BuyerID, req.ListingID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"session_id": strconvID(sessionID)})
}

func (h *NegotiationHandler) Get(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	session, err := h.engine.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *NegotiationHandler) ListForUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	sessions := h.engine.UserNegotiations(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"negotiations": dto.ToSessionResponses(sessions)})
}
