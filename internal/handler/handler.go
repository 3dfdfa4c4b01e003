package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopadmin/internal/middleware"
	"shopadmin/pkg/log"
	"shopadmin/pkg/utils"
)

// apiError renders a backend call failure with its mapped status
func apiError(c *gin.Context, err error) {
	_ = c.Error(err)

	entry := log.WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"request_id": middleware.GetRequestID(c),
		"status":     utils.HTTPStatus(err),
	}).WithError(err)
	if utils.IsNetworkError(err) {
		entry.Warn("Backend call failed")
	} else {
		entry.Debug("Backend call rejected")
	}

	utils.APIErrorResponse(c, err)
}

// bindJSON decodes the request body, answering 400 on malformed JSON.
// Field rules are checked by the API layer, which answers 422.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON that accepts an empty body
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
