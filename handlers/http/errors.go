package httpHandler

import (
	"errors"
	"log"
	"net/http"

	"finance-server/usecases"

	"github.com/gin-gonic/gin"
)

// statusFor maps a use-case error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecases.ErrValidation), errors.Is(err, usecases.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, usecases.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, usecases.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecases.ErrConfig):
		return http.StatusInternalServerError
	}
	return 0
}

// respondError writes {"msg": ...} with the mapped status. Unknown errors
// are logged and reported generically.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == 0 {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
		return
	}
	if errors.Is(err, usecases.ErrConfig) {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"msg": err.Error()})
}
