package procurement

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	board := rg.Group("/board", auth.RequireAuth(h.authService))
	{
		board.GET("/:entity/pending", h.Pending)
		board.GET("/:entity/history", h.History)
		board.GET("/:entity/counts", h.PendingCounts)
		board.GET("/:entity/records/:key", h.Get)
		board.POST("/:entity/records/:key/stages/:stage/complete", h.Complete)
	}
}

func (h *Handler) entity(c *gin.Context) staging.EntityType {
	return staging.EntityType(c.Param("entity"))
}

func (h *Handler) stage(c *gin.Context) (int, bool) {
	raw := c.Param("stage")
	if raw == "" {
		raw = c.DefaultQuery("stage", "1")
	}
	stage, err := strconv.Atoi(raw)
	if err != nil || stage < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stage must be a positive integer"})
		return 0, false
	}
	return stage, true
}

func (h *Handler) Pending(c *gin.Context) {
	stage, ok := h.stage(c)
	if !ok {
		return
	}
	records, err := h.service.Pending(c.Request.Context(), auth.CurrentUser(c), h.entity(c), stage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

func (h *Handler) History(c *gin.Context) {
	stage, ok := h.stage(c)
	if !ok {
		return
	}
	records, err := h.service.History(c.Request.Context(), auth.CurrentUser(c), h.entity(c), stage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

func (h *Handler) PendingCounts(c *gin.Context) {
	counts, err := h.service.PendingCounts(c.Request.Context(), auth.CurrentUser(c), h.entity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": counts})
}

func (h *Handler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), auth.CurrentUser(c), h.entity(c), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Complete accepts either JSON ({status, remarks, values}) or multipart
// form data with an optional "file" part for stages that take an
// attachment.
func (h *Handler) Complete(c *gin.Context) {
	stage, ok := h.stage(c)
	if !ok {
		return
	}
	entity := h.entity(c)

	input, ok := h.parseInput(c, entity, stage)
	if !ok {
		return
	}

	record, err := h.service.Complete(c.Request.Context(), auth.CurrentUser(c), entity, stage, c.Param("key"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) parseInput(c *gin.Context, entity staging.EntityType, stage int) (staging.StageInput, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var body struct {
			Status  string         `json:"status"`
			Remarks string         `json:"remarks"`
			Values  map[string]any `json:"values"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return staging.StageInput{}, false
		}
		return staging.StageInput{Status: body.Status, Remarks: body.Remarks, Values: body.Values}, true
	}

	input := staging.StageInput{
		Status:  c.PostForm("status"),
		Remarks: c.PostForm("remarks"),
		Values:  map[string]any{},
	}

	if def, terr := h.service.Registry().Stage(entity, stage); terr == nil {
		for _, in := range def.Inputs {
			if v := c.PostForm(in.Name); v != "" {
				input.Values[in.Name] = v
			}
		}
	}

	file, err := c.FormFile("file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return staging.StageInput{}, false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return staging.StageInput{}, false
		}
		input.Attachment = &staging.Attachment{
			Name:        file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Data:        data,
		}
	}
	return input, true
}

// respondError maps service failures onto HTTP statuses. Transition
// errors carry their code in the body so the UI can branch on it.
func respondError(c *gin.Context, err error) {
	var terr *staging.TransitionError
	if errors.As(err, &terr) {
		status := http.StatusInternalServerError
		switch terr.Code {
		case staging.CodeNotEligible, staging.CodeAlreadyCompleted:
			status = http.StatusConflict
		case staging.CodeValidationFailed:
			status = http.StatusUnprocessableEntity
		case staging.CodeUnknownEntity, staging.CodeUnknownStage:
			status = http.StatusNotFound
		case staging.CodeAttachmentUploadFailed:
			status = http.StatusBadGateway
		case staging.CodePersistenceTimeout:
			status = http.StatusGatewayTimeout
		}
		body := gin.H{"error": terr.Message, "code": terr.Code}
		if len(terr.Fields) > 0 {
			body["fields"] = terr.Fields
		}
		c.JSON(status, body)
		return
	}

	switch {
	case errors.Is(err, ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, ErrNotVisible), errors.Is(err, ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
