package controller

import (
	"net/http"
	"time"

	"shipment-tracking-service/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. allowedOrigins feeds CORS for the public
// tracking page; "*" allows any origin.
func NewRouter(ctl *ShipmentController, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(ctl.Logger),
		middleware.Metrics(ctl.Metrics),
		cors.New(corsConfig(allowedOrigins)),
	)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(ctl.Metrics.Handler()))

	// public
	r.GET("/tracking/:orderNumber", ctl.Track)
	r.POST("/admin/login", ctl.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(ctl.Auth), middleware.AdminOnly())
	admin.GET("/shipments", ctl.ListShipments)
	admin.POST("/shipments", ctl.CreateShipment)
	admin.PATCH("/shipments/:id", ctl.UpdateShipment)
	admin.DELETE("/shipments/:id", ctl.DeleteShipment)

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}
