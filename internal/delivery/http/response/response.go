package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON sends data as the bare response body. The browser client reads
// records and arrays directly, so successful responses carry no envelope.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion

	c.JSON(code, ErrorBody{
		Error:     message,
		RequestID: idStr,
	})
}
