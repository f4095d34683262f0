package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/models"
	"player-auction/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w: %v", biddingerrors.ErrInvalidRequest, err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	var reason *biddingerrors.Reason
	errors.As(err, &reason)
	message := func(kind error) string {
		if reason != nil {
			return reason.Msg
		}
		return kind.Error()
	}

	switch {
	case errors.Is(err, biddingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, message(biddingerrors.ErrUnauthorized)
	case errors.Is(err, biddingerrors.ErrForbidden):
		return http.StatusForbidden, message(biddingerrors.ErrForbidden)
	case errors.Is(err, biddingerrors.ErrNotFound):
		return http.StatusNotFound, message(biddingerrors.ErrNotFound)
	case errors.Is(err, biddingerrors.ErrConflict):
		return http.StatusConflict, message(biddingerrors.ErrConflict)
	case errors.Is(err, biddingerrors.ErrInsufficientFunds):
		return http.StatusConflict, message(biddingerrors.ErrInsufficientFunds)
	case errors.Is(err, biddingerrors.ErrInvalidState):
		return http.StatusUnprocessableEntity, message(biddingerrors.ErrInvalidState)
	case errors.Is(err, biddingerrors.ErrValidation):
		return http.StatusBadRequest, message(biddingerrors.ErrValidation)
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error envelope and logs the failure
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	fields["reason"] = biddingerrors.Code(err)
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

const callerKey = "auction.caller"

// SetCaller stores the authenticated caller on the request context
func SetCaller(c *gin.Context, caller models.Caller) {
	c.Set(callerKey, caller)
}

// CallerFrom returns the caller stored by SetCaller
func CallerFrom(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}
