// Package controllers holds the gin handlers. Each controller receives its dependencies
// through its constructor.
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorMessage writes the plain {message} error shape the public pages display as-is
func errorMessage(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"message": err.Error()})
}

// bindJSON decodes and validates the request body. An empty body is reported as such
// rather than as a bare EOF.
func bindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	return nil
}

func success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
