package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/internal/interface/middleware"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
	"github.com/oksasatya/pawpatrol/pkg/response"
	"github.com/oksasatya/pawpatrol/pkg/validation"
)

// writeError maps application errors onto HTTP statuses. Anything it does
// not recognise is logged and reported as a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, detail(err, application.ErrValidation))
	case errors.Is(err, application.ErrNameTaken):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, application.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, detail(err, application.ErrNotFound))
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
			"path":       c.FullPath(),
		})
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}

// detail strips the sentinel prefix added by the application layer.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func bindError(c *gin.Context, err error) {
	response.ValidationError(c, "invalid payload", validation.ToDetails(err))
}

func principal(c *gin.Context) application.Principal {
	return application.PrincipalFromClaims(middleware.ClaimsFrom(c))
}
