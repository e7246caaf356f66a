// Package envelope writes the {id, code, data, message} body every /api
// response uses, including middleware rejections.
package envelope

import (
	"net/http"

	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// Response is the API envelope. ID is the request id assigned by the
// RequestID middleware, empty when it did not run.
type Response struct {
	ID      string `json:"id"`
	Code    int    `json:"code"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// OK writes a 200 envelope carrying data
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		ID:      logger.RequestID(c.Request.Context()),
		Code:    http.StatusOK,
		Data:    data,
		Message: "ok",
	})
}

// Abort stops the chain with an error envelope
func Abort(c *gin.Context, code int, message string) {
	AbortWithData(c, code, message, nil)
}

// AbortWithData stops the chain with an error envelope that also carries data,
// e.g. retry hints.
func AbortWithData(c *gin.Context, code int, message string, data any) {
	c.AbortWithStatusJSON(code, Response{
		ID:      logger.RequestID(c.Request.Context()),
		Code:    code,
		Data:    data,
		Message: message,
	})
}
