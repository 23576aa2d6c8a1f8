package router

import (
	"github.com/gin-gonic/gin"

	"dealyard.app/market/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, d *handler.DirectoryHandler, n *handler.NegotiationHandler, deals *handler.DealHandler) {
	rg.POST("", d.RegisterUser)
	rg.GET("/:id", d.GetUser)
	rg.GET("/:id/negotiations", n.ListForUser)
	rg.GET("/:id/deals", deals.ListPendingForUser)
}

func ListingRouter(rg *gin.RouterGroup, d *handler.DirectoryHandler) {
	rg.POST("", d.CreateListing)
	rg.GET("", d.ListActive)
	rg.GET("/:id", d.GetListing)
	rg.POST("/:id/interest", d.ExpressInterest)
}

func NegotiationRouter(rg *gin.RouterGroup, n *handler.NegotiationHandler) {
	rg.POST("", n.Start)
	rg.GET("/:id", n.Get)
}

func DealRouter(rg *gin.RouterGroup, deals *handler.DealHandler) {
	rg.POST("/:id/confirm", deals.Confirm)
}
