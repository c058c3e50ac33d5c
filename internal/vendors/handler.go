package vendors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
)

// Handler exposes vendor, quotation and purchase order endpoints.
type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/vendors")
	group.Use(auth.RequireAuth(h.authService))
	{
		group.GET("", auth.RequirePermission(auth.PermPOView), h.listVendors)
		group.POST("", auth.RequirePermission(auth.PermPOAction), h.createVendor)
		group.POST("/quotations", auth.RequirePermission(auth.PermPOAction), h.addQuotation)
		group.GET("/quotations/:indentNo", auth.RequirePermission(auth.PermPOView), h.compare)
	}

	pos := rg.Group("/purchase-orders")
	pos.Use(auth.RequireAuth(h.authService))
	{
		pos.GET("", auth.RequirePermission(auth.PermPOView), h.listPOs)
		pos.POST("", auth.RequirePermission(auth.PermPOAction), h.createPO)
		pos.GET("/:poNo/pdf", auth.RequirePermission(auth.PermPOView), h.renderPO)
	}
}

func (h *Handler) createVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vendor, err := h.service.CreateVendor(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *Handler) listVendors(c *gin.Context) {
	out, err := h.service.ListVendors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": out})
}

func (h *Handler) addQuotation(c *gin.Context) {
	var req AddQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quote, err := h.service.AddQuotation(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrVendorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func (h *Handler) compare(c *gin.Context) {
	cmp, err := h.service.Compare(c.Request.Context(), c.Param("indentNo"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (h *Handler) createPO(c *gin.Context) {
	var req CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	po, err := h.service.CreatePurchaseOrder(c.Request.Context(), auth.CurrentUser(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFirmRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrVendorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *Handler) listPOs(c *gin.Context) {
	out, err := h.service.ListPOs(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase_orders": out})
}

func (h *Handler) renderPO(c *gin.Context) {
	poNo := c.Param("poNo")
	doc, err := h.service.RenderPO(c.Request.Context(), auth.CurrentUser(c), poNo)
	if err != nil {
		if errors.Is(err, ErrPONotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", poNo))
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, nil)
}
