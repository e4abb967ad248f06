package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Errors that are not an AppError are logged
// and reported as internal errors without exposing their text.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error(c.Request.Context(), "Unhandled request error", zap.Error(err))
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
