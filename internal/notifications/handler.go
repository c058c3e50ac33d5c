package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"procurehub/store-portal/store-portal-backend/internal/auth"
)

// Handler exposes the bell menu and the live websocket feed.
type Handler struct {
	service     *Service
	manager     *Manager
	authService *auth.Service
}

func NewHandler(service *Service, manager *Manager, authService *auth.Service) *Handler {
	return &Handler{service: service, manager: manager, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/notifications")
	group.Use(auth.RequireAuth(h.authService))
	{
		group.GET("", h.list)
		group.POST("/:id/read", h.markRead)
		group.GET("/ws", h.connect)
	}
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := h.service.List(c.Request.Context(), auth.CurrentUser(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

func (h *Handler) markRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *Handler) connect(c *gin.Context) {
	user := auth.CurrentUser(c)
	if _, err := h.manager.HandleConnection(c.Writer, c.Request, user.UserID, user.FirmScope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
