package indents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
)

type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	indents := rg.Group("/indents", auth.RequireAuth(h.authService), auth.RequirePermission(auth.PermIndentView))
	{
		indents.POST("", h.Create)
		indents.GET("", h.List)
		indents.GET("/:indentNo", h.Get)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateIndentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	indent, err := h.service.Create(c.Request.Context(), auth.CurrentUser(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, indent)
}

func (h *Handler) List(c *gin.Context) {
	indents, err := h.service.List(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"indents": indents, "count": len(indents)})
}

func (h *Handler) Get(c *gin.Context) {
	indent, err := h.service.Get(c.Request.Context(), auth.CurrentUser(c), c.Param("indentNo"))
	if errors.Is(err, ErrIndentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "indent not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, indent)
}
