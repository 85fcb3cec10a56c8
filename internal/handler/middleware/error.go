package middleware

import (
	"log/slog"
	"net/http"

	"autoshop/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the JSON error envelope for requests that ended without
// a body: a public error recorded by httperr, or a bare error status such as an
// unmatched route.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		// the most recent public error wins
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}

		status := c.Writer.Status()
		switch {
		case status == http.StatusOK && len(c.Errors) > 0:
			status = http.StatusInternalServerError
		case status < http.StatusBadRequest:
			return
		}
		msg := http.StatusText(status)
		if status >= http.StatusInternalServerError {
			msg = "Internal server error"
		}
		c.JSON(status, httperr.New(status, msg, nil))
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c))

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httperr.New(http.StatusInternalServerError, "Internal server error", nil))
			}
		}()
		c.Next()
	}
}
