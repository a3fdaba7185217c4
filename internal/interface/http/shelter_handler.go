package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/pkg/response"
)

type ShelterHandler struct {
	Svc    *application.ShelterService
	Logger *logrus.Logger
}

func NewShelterHandler(svc *application.ShelterService, logger *logrus.Logger) *ShelterHandler {
	return &ShelterHandler{Svc: svc, Logger: logger}
}

type createShelterRequest struct {
	Name     string        `json:"name" binding:"required,max=200"`
	Location *pointRequest `json:"location" binding:"required"`
}

type updateShelterRequest struct {
	Name     *string       `json:"name" binding:"omitempty,min=1,max=200"`
	Location *pointRequest `json:"location" binding:"omitempty"`
}

type createShelterResponse struct {
	*entity.Shelter
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (h *ShelterHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

func (h *ShelterHandler) Get(c *gin.Context) {
	sh, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, sh)
}

// Create returns the shelter with the promoted caller and a token carrying
// the shelter role.
func (h *ShelterHandler) Create(c *gin.Context) {
	var req createShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), principal(c), application.CreateShelterInput{
		Name:     req.Name,
		Location: req.Location.toPoint(),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, createShelterResponse{
		Shelter:   out.Shelter,
		User:      out.Owner,
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
	})
}

func (h *ShelterHandler) Update(c *gin.Context) {
	var req updateShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	sh, err := h.Svc.Update(c.Request.Context(), principal(c), c.Param("id"), application.UpdateShelterInput{
		Name:     req.Name,
		Location: req.Location.toPoint(),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, sh)
}

func (h *ShelterHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
