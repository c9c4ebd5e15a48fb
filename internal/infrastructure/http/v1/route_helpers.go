package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler is the route surface every catalog handler
// provides.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetActive(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard CRUD routes for a
// catalog group.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.POST("/:id/active", handler.SetActive)
}
