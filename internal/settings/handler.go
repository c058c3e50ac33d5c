package settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
)

// Handler exposes the firm master. Reads feed the firm dropdowns; writes
// are admin only.
type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/firms")
	group.Use(auth.RequireAuth(h.authService))
	{
		group.GET("", h.list)
		group.POST("", auth.RequirePermission(auth.PermAdmin), h.create)
		group.PUT("/:id/active", auth.RequirePermission(auth.PermAdmin), h.setActive)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	firm, err := h.service.CreateFirm(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrReservedName) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, firm)
}

func (h *Handler) list(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "true"))
	firms, err := h.service.ListFirms(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"firms": firms})
}

func (h *Handler) setActive(c *gin.Context) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SetFirmActive(c.Request.Context(), c.Param("id"), body.Active); err != nil {
		if errors.Is(err, ErrFirmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
