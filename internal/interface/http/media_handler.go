package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/pkg/response"
)

type MediaHandler struct {
	Svc            *application.MediaService
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewMediaHandler(svc *application.MediaService, logger *logrus.Logger, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type createMediaRequest struct {
	DogReportID string `json:"dogReportId" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
	Mime        string `json:"mime" binding:"required"`
}

type updateMediaRequest struct {
	URL  *string `json:"url" binding:"omitempty,url"`
	Mime *string `json:"mime" binding:"omitempty,min=1"`
}

type uploadMediaForm struct {
	DogReportID string `form:"dogReportId" binding:"required"`
}

func (h *MediaHandler) ListByReport(c *gin.Context) {
	list, err := h.Svc.ListByReport(c.Request.Context(), c.Param("reportId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

func (h *MediaHandler) Get(c *gin.Context) {
	m, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, m)
}

func (h *MediaHandler) Create(c *gin.Context) {
	var req createMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.Svc.Create(c.Request.Context(), principal(c), application.CreateMediaInput{
		DogReportID: req.DogReportID,
		URL:         req.URL,
		Mime:        req.Mime,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, m)
}

// Upload accepts multipart form data with a dogReportId field and a file part.
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	var form uploadMediaForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		bindError(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.ValidationError(c, "invalid payload", map[string]string{"file": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer f.Close()

	m, err := h.Svc.Upload(c.Request.Context(), principal(c), application.UploadMediaInput{
		DogReportID: form.DogReportID,
		Filename:    fh.Filename,
		Mime:        fh.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		if errors.Is(err, application.ErrStorageUnavailable) {
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, m)
}

func (h *MediaHandler) Update(c *gin.Context) {
	var req updateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.Svc.Update(c.Request.Context(), principal(c), c.Param("id"), application.UpdateMediaInput{
		URL:  req.URL,
		Mime: req.Mime,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, m)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
