package handlers

import (
	"errors"
	"net/http"

	"zurich_todo/internal/logger"
	"zurich_todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respond writes the uniform success envelope.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// respondError writes the uniform failure envelope.
func respondError(c *gin.Context, status int, message string, details any) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message, "details": details},
	})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Storage errors are logged with detail and surfaced with a safe message.
func respondServiceError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, "Validation error", ve.Details)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundMsg, nil)
	default:
		logger.Error(failMsg, "error", err, "path", c.FullPath())
		respondError(c, http.StatusInternalServerError, failMsg, nil)
	}
}

// parseID reads a uuid path parameter, answering 400 itself on garbage.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Validation error",
			[]gin.H{{"field": "id", "message": "must be a valid UUID"}})
		return uuid.Nil, false
	}
	return id, true
}
