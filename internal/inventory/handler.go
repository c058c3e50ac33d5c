package inventory

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
)

// Handler exposes the stock register and its exports.
type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/stock")
	group.Use(auth.RequireAuth(h.authService), auth.RequirePermission(auth.PermStockView))
	{
		group.GET("", h.listLevels)
		group.GET("/movements", h.listMovements)
		group.GET("/export.csv", h.exportCSV)
		group.GET("/export.xlsx", h.exportXLSX)
	}
}

func (h *Handler) listLevels(c *gin.Context) {
	levels, err := h.service.ListLevels(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": levels})
}

func (h *Handler) listMovements(c *gin.Context) {
	movements, err := h.service.ListMovements(c.Request.Context(), auth.CurrentUser(c), c.Query("item"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

func (h *Handler) exportCSV(c *gin.Context) {
	levels, err := h.service.ListLevels(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := WriteStockCSV(&buf, levels); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=stock.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) exportXLSX(c *gin.Context) {
	levels, err := h.service.ListLevels(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc, err := WriteStockXLSX(levels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=stock.xlsx")
	c.DataFromReader(http.StatusOK, -1,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc, nil)
}
