package handler

import (
	"github.com/gin-gonic/gin"

	appadvisor "github.com/wareline/backend/internal/application/advisor"
)

// AdvisorHandler exposes the reorder advisor
type AdvisorHandler struct {
	BaseHandler
	advisor *appadvisor.ReorderService
}

// NewAdvisorHandler creates a new AdvisorHandler
func NewAdvisorHandler(advisor *appadvisor.ReorderService) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor}
}

// Advise handles GET /advisor/reorders. Results are cached; pass refresh=true
// to bypass the cache.
func (h *AdvisorHandler) Advise(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}

	refresh := c.Query("refresh") == "true"
	advice, err := h.advisor.Advise(c.Request.Context(), org, refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advice)
}
