package handler

import (
	"errors"
	"net/http"

	"campusnet/internal/services"
	"campusnet/internal/transport/httpdto"
	campusnet_errors "campusnet/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, campusnet_errors.ErrInvalidInput
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, campusnet_errors.ErrInvalidInput
	}
	return id, nil
}

// respondError maps the service error taxonomy onto HTTP. Anything outside
// the known sentinels is an operation failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, campusnet_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
	case errors.Is(err, campusnet_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, campusnet_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("access denied", "ACCESS_DENIED"))
	case errors.Is(err, campusnet_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, campusnet_errors.ErrPinLimitReached):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "PIN_LIMIT_REACHED"))
	case errors.Is(err, campusnet_errors.ErrAlreadyExists), errors.Is(err, campusnet_errors.ErrConflict):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "CONFLICT"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("operation failed", "OPERATION_FAILED"))
	}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return uuid.Nil, false
	}
	return userID, true
}
