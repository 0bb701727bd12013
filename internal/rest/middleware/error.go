package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
)

// ErrorHandler renders the last error attached with c.Error as JSON.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.WithContext(c.Request.Context()).Errorw("request failed", "error", err, "path", c.Request.URL.Path)
		}
		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
