package http

import (
	"github.com/dmitrijs2005/itemkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the router dependencies.
type RouterConfig struct {
	Items  ItemService
	Health Pinger
	Logger logging.Logger
}

// NewRouter wires every endpoint.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))

	items := NewItemsController(cfg.Items)
	router.GET("/items.json", items.List)
	router.GET("/items/:id", items.Get)
	router.PUT("/items/:id", items.Update)
	router.POST("/items", items.Create)
	router.POST("/items/validate", items.Validate)

	health := NewHealthController(cfg.Health, cfg.Logger)
	router.GET("/health", health.Status)

	return router
}
