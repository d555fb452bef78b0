package handlers

import (
	"errors"
	"net/http"

	"smartbin/internal/service"

	"github.com/gin-gonic/gin"
)

const genericServerError = "internal server error"

// statusForError maps the domain error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrBinNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateBin),
		errors.Is(err, service.ErrInvalidBin),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrInvalidUser):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrUserDeactivated),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the structured JSON error for err. Store-level failures
// become a 500 whose detail is only exposed in development mode.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusForError(err)

	if code == http.StatusInternalServerError {
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		msg := genericServerError
		if h.env == EnvDevelopment {
			msg = err.Error()
		}
		c.JSON(code, gin.H{"error": msg})
		return
	}

	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Infow(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// recoverToJSON is the top-level panic handler: 500 JSON, generic message in
// production, panic detail in development.
func (h *Handler) recoverToJSON(c *gin.Context, recovered any) {
	if h.log != nil {
		h.log.Errorw("handler_panic", "panic", recovered, "path", c.Request.URL.Path)
	}
	msg := genericServerError
	if h.env == EnvDevelopment {
		if s, ok := recovered.(string); ok {
			msg = s
		} else if err, ok := recovered.(error); ok {
			msg = err.Error()
		}
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (h *Handler) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
}
