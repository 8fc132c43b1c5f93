package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindReference:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Internal errors are logged and
// reported without detail.
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		logger.WithContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"params", c.Params,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(statusFor(de.Kind), gin.H{"message": de.Message})
}

// bindJSON decodes the request body into v, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return false
	}
	return true
}
