package httpapi

import (
	"errors"
	"net/http"
	postEntity "timelium/internal/core/post"
	userEntity "timelium/internal/core/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps domain errors to status codes; anything unknown is a 500
// and gets logged.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, postEntity.ErrNotFound):
		status, msg = http.StatusNotFound, "post not found"
	case errors.Is(err, userEntity.ErrNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, postEntity.ErrAuthorNotFound):
		status, msg = http.StatusNotFound, "author not found"
	case errors.Is(err, postEntity.ErrInvalidActor):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, postEntity.ErrUnauthorized):
		status, msg = http.StatusForbidden, "not allowed"
	case errors.Is(err, postEntity.ErrEmptyContent),
		errors.Is(err, postEntity.ErrContentTooLong),
		errors.Is(err, userEntity.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, userEntity.ErrUsernameTaken):
		status, msg = http.StatusConflict, "username already taken"
	default:
		logger.Error("❌ Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
