package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/pkg/apperror"
	"go-procurement-backend/pkg/logger"
)

// ErrorHandler translates errors pushed onto the gin context into the JSON
// envelope. Internal detail reaches the client only outside production.
func ErrorHandler(echoDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == http.StatusInternalServerError {
				logger.Log.Error("request failed",
					"method", c.Request.Method,
					"path", c.FullPath(),
					"error", appErr.Err,
				)
				var detail interface{}
				if echoDetail && appErr.Err != nil {
					detail = appErr.Err.Error()
				}
				response.Error(c, appErr.Code, appErr.Message, detail)
				return
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		var detail interface{}
		if echoDetail {
			detail = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", detail)
	}
}
