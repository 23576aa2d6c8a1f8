package router

import (
	"github.com/gin-gonic/gin"

	"dealyard.app/market/internal/http/handler"
)

// SetupRoutes wires every market endpoint onto the engine.
func SetupRoutes(router *gin.Engine, engine handler.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	directoryHandler := handler.NewDirectoryHandler(engine)
	negotiationHandler := handler.NewNegotiationHandler(engine)
	dealHandler := handler.NewDealHandler(engine)

	v1 := router.Group("/api/v1")
	{
		UserRouter(v1.Group("/users"), directoryHandler, negotiationHandler, dealHandler)
		ListingRouter(v1.Group("/listings"), directoryHandler)
		NegotiationRouter(v1.Group("/negotiations"), negotiationHandler)
		DealRouter(v1.Group("/deals"), dealHandler)

		v1.GET("/personalities", directoryHandler.Personalities)
	}
}
