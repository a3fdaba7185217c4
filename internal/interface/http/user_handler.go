package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// Me returns the caller's stored profile, which reflects role changes the
// token may not yet carry.
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), principal(c).UserID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Svc.UpdateName(c.Request.Context(), principal(c).UserID, req.Name)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principal(c).UserID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}
