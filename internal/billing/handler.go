package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
)

// Handler exposes bill and payment endpoints.
type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/bills")
	group.Use(auth.RequireAuth(h.authService))
	{
		group.GET("", auth.RequirePermission(auth.PermBillView), h.listBills)
		group.GET("/:billNo", auth.RequirePermission(auth.PermBillView), h.getBill)
		group.POST("", auth.RequirePermission(auth.PermBillView), h.recordBill)
		group.POST("/payments", auth.RequirePermission(auth.PermPaymentAction), h.recordPayment)
	}
}

func (h *Handler) recordBill(c *gin.Context) {
	var req RecordBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bill, err := h.service.RecordBill(c.Request.Context(), auth.CurrentUser(c), req)
	if err != nil {
		if errors.Is(err, ErrFirmRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *Handler) recordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := h.service.RecordPayment(c.Request.Context(), auth.CurrentUser(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBillNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrOverpayment):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) listBills(c *gin.Context) {
	bills, err := h.service.ListBills(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

func (h *Handler) getBill(c *gin.Context) {
	bill, err := h.service.GetBill(c.Request.Context(), auth.CurrentUser(c), c.Param("billNo"))
	if err != nil {
		if errors.Is(err, ErrBillNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bill)
}
