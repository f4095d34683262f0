package server

import (
	"player-auction/internal/auth"
	"player-auction/internal/broadcast"
	handler "player-auction/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. hub may be nil,
// in which case no websocket feed is served.
func SetupRouter(service handler.BiddingServiceInterface, authn *auth.Authenticator, hub *broadcast.Hub) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware)

	biddingHandler := handler.NewBiddingHandler(service)
	requireAuth := AuthMiddleware(authn)

	router.GET("/healthz", biddingHandler.HealthHandler)
	router.GET("/stats", biddingHandler.StatsHandler)
	if hub != nil {
		router.GET("/ws", gin.WrapF(hub.ServeWS))
	}

	items := router.Group("/items")
	{
		items.GET("", biddingHandler.ListItemsHandler)
		items.GET("/available", biddingHandler.ListAvailableItemsHandler)
		items.GET("/:item_id", biddingHandler.GetItemHandler)

		items.POST("", requireAuth, biddingHandler.CreateItemHandler)
		items.DELETE("/:item_id", requireAuth, biddingHandler.DeleteItemHandler)
		items.POST("/:item_id/start", requireAuth, biddingHandler.StartLotHandler)
		items.POST("/:item_id/bids", requireAuth, biddingHandler.RecordBidHandler)
		items.POST("/:item_id/settle", requireAuth, biddingHandler.SettleLotHandler)
	}

	enrollment := router.Group("/enrollment")
	{
		enrollment.POST("", requireAuth, biddingHandler.OpenEnrollmentHandler)
		enrollment.POST("/items", biddingHandler.SelfEnrollHandler)
	}

	teams := router.Group("/teams")
	{
		teams.GET("", biddingHandler.ListTeamsHandler)
		teams.POST("", requireAuth, biddingHandler.CreateTeamHandler)
		teams.DELETE("/:team_id", requireAuth, biddingHandler.DeleteTeamHandler)
		teams.GET("/mine/items", requireAuth, biddingHandler.MyRosterHandler)
	}

	admin := router.Group("/admin", requireAuth)
	{
		admin.PUT("/settings", biddingHandler.UpdateSettingsHandler)
	}

	return router
}
