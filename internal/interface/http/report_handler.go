package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/pkg/response"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

type createReportRequest struct {
	Location       *pointRequest `json:"location" binding:"required"`
	Count          *int          `json:"count" binding:"omitempty,gte=0"`
	Aggressiveness *int          `json:"aggressiveness" binding:"omitempty,gte=0"`
}

type updateReportRequest struct {
	Location       *pointRequest `json:"location" binding:"omitempty"`
	Count          *int          `json:"count" binding:"omitempty,gte=0"`
	Aggressiveness *int          `json:"aggressiveness" binding:"omitempty,gte=0"`
	Status         *string       `json:"status" binding:"omitempty,report_status"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,report_status"`
}

type nearbyQuery struct {
	X      *float64 `form:"x" binding:"required,longitude"`
	Y      *float64 `form:"y" binding:"required,latitude"`
	Radius float64  `form:"radius" binding:"omitempty,gt=0"`
}

func (h *ReportHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

func (h *ReportHandler) ListMine(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), principal(c).UserID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

func (h *ReportHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	list, err := h.Svc.Nearby(c.Request.Context(), entity.Point{X: *q.X, Y: *q.Y}, q.Radius)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

func (h *ReportHandler) Get(c *gin.Context) {
	r, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), principal(c), application.CreateReportInput{
		Location:       req.Location.toPoint(),
		Count:          req.Count,
		Aggressiveness: req.Aggressiveness,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, r)
}

func (h *ReportHandler) Update(c *gin.Context) {
	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in := application.UpdateReportInput{
		Location:       req.Location.toPoint(),
		Count:          req.Count,
		Aggressiveness: req.Aggressiveness,
	}
	if req.Status != nil {
		s := entity.ReportStatus(*req.Status)
		in.Status = &s
	}
	r, err := h.Svc.Update(c.Request.Context(), principal(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Svc.UpdateStatus(c.Request.Context(), principal(c), c.Param("id"), entity.ReportStatus(req.Status))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
