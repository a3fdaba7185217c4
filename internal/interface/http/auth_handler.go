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

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Password  string `json:"password" binding:"required,pwd"`
	Type      string `json:"type" binding:"omitempty,user_type"`
	ShelterID string `json:"shelterId" binding:"omitempty,uuid"`
}

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func toAuthResponse(res *application.AuthResult) authResponse {
	return authResponse{User: res.User, Token: res.Token, ExpiresAt: res.ExpiresAt}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:      req.Name,
		Password:  req.Password,
		Type:      entity.Role(req.Type),
		ShelterID: req.ShelterID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, toAuthResponse(res))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, toAuthResponse(res))
}
