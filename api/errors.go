package api

import (
	"errors"
	"net/http"

	"tambola/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Kind    service.ErrorKind `json:"kind"`
	Message string            `json:"message"`
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindState, service.KindConflict:
		return http.StatusConflict
	case service.KindGeneration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Underlying causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = service.PersistenceError(err, "internal error")
	}

	status := statusForKind(svcErr.Kind)
	fields := log.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"kind":   svcErr.Kind,
		"status": status,
	}
	if svcErr.Err != nil {
		fields["error"] = svcErr.Err
	}
	if status >= http.StatusInternalServerError {
		log.WithFields(fields).Error(svcErr.Message)
	} else {
		log.WithFields(fields).Debug(svcErr.Message)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Kind: svcErr.Kind, Message: svcErr.Message}})
}
