package server

import (
	"time"

	"player-auction/internal/auth"
	"player-auction/services/bidding/helpers"
	"player-auction/utils"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware tags each request with an id and logs it with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = utils.GenerateID()
	}
	c.Header(requestIDHeader, requestID)

	c.Next()

	fields := map[string]any{
		"request_id": requestID,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
	}
	if caller, ok := helpers.CallerFrom(c); ok {
		fields["user_id"] = caller.ID
	}
	utils.Info("HTTP Request", fields)
}

// AuthMiddleware resolves the bearer token into a caller. Requests without a
// valid token are rejected with 401.
func AuthMiddleware(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := authn.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			helpers.RespondError(c, "AuthMiddleware", err, map[string]any{"path": c.Request.URL.Path})
			return
		}
		helpers.SetCaller(c, caller)
		c.Next()
	}
}
