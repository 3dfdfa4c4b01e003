package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Response standard console response structure
type Response struct {
	Code      int               `json:"code"`
	Message   string            `json:"message"`
	Data      interface{}       `json:"data,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// SuccessResponse returns success response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// ErrorResponse returns error response
func ErrorResponse(c *gin.Context, httpCode int, message string) {
	c.AbortWithStatusJSON(httpCode, Response{
		Code:      httpCode,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

// APIErrorResponse renders a backend call failure
func APIErrorResponse(c *gin.Context, err error) {
	status := HTTPStatus(err)
	resp := Response{
		Code:      status,
		Message:   err.Error(),
		Timestamp: time.Now().Unix(),
	}
	if apiErr, ok := AsAPIError(err); ok {
		resp.Message = apiErr.Message
		resp.Fields = apiErr.Fields
		if apiErr.Code != 0 {
			resp.Code = apiErr.Code
		}
	}
	c.AbortWithStatusJSON(status, resp)
}
