package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes data as the bare response body. The page scripts and
// the Go client decode entities directly, so there is no envelope here.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondProblem writes the {"error","message"} body used by the weather endpoints.
func RespondProblem(c *gin.Context, code int, title, message string) {
	c.JSON(code, gin.H{
		"error":   title,
		"message": message,
	})
}
