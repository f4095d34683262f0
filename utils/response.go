package utils

import (
	"player-auction/internal/biddingerrors"

	"github.com/gin-gonic/gin"
)

// JSONResponse writes the success envelope
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError writes the error envelope. reason is the machine-checkable code
// clients switch on; error is the human readable chain.
func JSONError(c *gin.Context, status int, err error, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
		"reason":  biddingerrors.Code(err),
	})
}
