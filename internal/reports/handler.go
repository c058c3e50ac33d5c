package reports

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/internal/procurement"
)

// Handler exposes the landing dashboard.
type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/dashboard")
	group.Use(auth.RequireAuth(h.authService))
	{
		group.GET("/summary", h.summary)
		group.GET("/snapshots/:entity", h.snapshots)
	}
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		if errors.Is(err, procurement.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) snapshots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	out, err := h.service.RecentSnapshots(c.Request.Context(), c.Param("entity"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": out})
}
