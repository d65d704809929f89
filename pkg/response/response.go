package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper for non-list endpoints.
// List endpoints write a bare JSON array instead.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Error(c *gin.Context, status int, message string, err any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{Success: false, Message: message, Error: err})
}

// AbortError writes the error envelope and stops the handler chain.
// Used by middleware.
func AbortError(c *gin.Context, status int, message string, err any) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Error: err})
}
