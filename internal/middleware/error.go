package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors attached to the
// Gin context (c.Error) into JSON error responses, unless a handler already
// wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		WriteError(c, c.Errors.Last().Err)
	}
}

// WriteError writes a consistent JSON error response. AppErrors are returned
// with their code and message; unexpected errors are logged and reported as a
// generic internal error so details never reach the client.
func WriteError(c *gin.Context, err error) {
	requestID := c.GetString(requestIDKey)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", requestID,
			)
		}
		c.AbortWithStatusJSON(appErr.StatusCode, errorBody(appErr.Code, appErr.Message))
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", requestID,
	)
	c.AbortWithStatusJSON(apperrors.ErrInternalServer.StatusCode,
		errorBody(apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message))
}

func errorBody(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
