package restapi

import (
	"github.com/gin-gonic/gin"
)

// RegisterTrackerRoutes registers the host-facing routes on the given
// engine. Middleware (CORS, logging, recovery) is wired by the caller.
func RegisterTrackerRoutes(router *gin.Engine, handler *TrackerHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/prices", handler.GetPricesHandler)
		v1.GET("/wallets", handler.GetWalletsHandler)
		v1.GET("/health", handler.GetHealthHandler)
		v1.GET("/meta/currencies", handler.GetCurrenciesHandler)
	}
}
