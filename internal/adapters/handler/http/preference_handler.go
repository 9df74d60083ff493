package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-goals/internal/core/services"
)

type PreferenceHandler struct {
	svc *services.PreferenceService
}

func NewPreferenceHandler(svc *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// Either field may be omitted to keep its stored value.
type updateSortRequest struct {
	Type  *string `json:"type" binding:"omitempty,oneof=created-at completed-at deadline difficulty title"`
	Order *string `json:"order" binding:"omitempty,oneof=asc desc"`
}

func (h *PreferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	{
		prefs.GET("/sort", h.GetSort)
		prefs.PUT("/sort", h.UpdateSort)
	}
}

// GetSort godoc
// @Summary Stored goal list ordering
// @Tags preferences
// @Produce json
// @Success 200 {object} domain.SortSpec
// @Router /preferences/sort [get]
func (h *PreferenceHandler) GetSort(c *gin.Context) {
	spec, err := h.svc.SortSpec(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// UpdateSort godoc
// @Summary Change the goal list ordering
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body updateSortRequest true "New ordering"
// @Success 200 {object} domain.SortSpec
// @Failure 400 {object} errorResponse
// @Router /preferences/sort [put]
func (h *PreferenceHandler) UpdateSort(c *gin.Context) {
	var req updateSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec, err := h.svc.UpdateSortSpec(c.Request.Context(), services.UpdateSortInput{
		Key:   req.Type,
		Order: req.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, spec)
}
