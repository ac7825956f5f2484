package respond

import (
	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/telemetry"
)

// FailureResponse is the standardized failure envelope.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error sends a standardized failure response and logs it.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, FailureResponse{
		Success: false,
		Message: message,
	})
}
