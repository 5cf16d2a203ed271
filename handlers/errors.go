package handlers

import (
	"net/http"

	"metro/apperrors"
	"metro/middleware"
	"metro/models"
	"metro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:                  http.StatusNotFound,
	apperrors.KindForbidden:                 http.StatusForbidden,
	apperrors.KindInvalidState:              http.StatusConflict,
	apperrors.KindValidationFailed:          http.StatusBadRequest,
	apperrors.KindPaymentVerificationFailed: http.StatusPaymentRequired,
	apperrors.KindExternalServiceFailure:    http.StatusBadGateway,
	apperrors.KindConflict:                  http.StatusConflict,
	apperrors.KindInternal:                  http.StatusInternalServerError,
}

// respondError writes err as a structured error. Internal details never reach the client.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	code := apperrors.CodeOf(err)

	if status >= http.StatusInternalServerError {
		getLogger(c).Error("request failed", zap.String("code", code), zap.Error(err))
		if kind == apperrors.KindInternal {
			utils.JSONError(c, status, string(apperrors.KindInternal), "Internal server error")
			return
		}
	}
	utils.JSONError(c, status, code, apperrors.MessageOf(err))
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{
		Error:   "Invalid request payload",
		Code:    string(apperrors.KindValidationFailed),
		Details: err.Error(),
	})
}

// actorOf returns the authenticated actor; routes are registered behind JWTAuthMiddleware.
func actorOf(c *gin.Context) models.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}
