package middleware

import (
	"errors"
	"net/http"

	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		ctx := c.Request.Context()

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.ErrorContext(ctx, appErr.Message,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.ErrorContext(ctx, "unhandled error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "Erreur interne du serveur")
	}
}
