package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
)

type catalogHandler struct {
	catalog dto.CatalogResponse
}

func registerCatalogRoutes(rg *gin.RouterGroup, catalog domain.Catalog) {
	h := &catalogHandler{catalog: dto.ToCatalogResponse(catalog)}
	rg.GET("/catalog", h.getCatalog)
}

// getCatalog godoc
// @Summary Get the status and category catalog
// @Description Lists the statuses, categories and workflow of every record kind.
// @Tags catalog
// @Produce  json
// @Success 200 {object} dto.CatalogResponse
// @Security BearerAuth
// @Router /catalog [get]
func (h *catalogHandler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}
