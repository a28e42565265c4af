// Package response writes the uniform JSON envelope for every HTTP outcome.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/logger"
)

// Envelope is the body of every response.
type Envelope struct {
	Code    int               `json:"code"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

const (
	successMessage  = "success"
	internalMessage = "Internal server error"
)

// Responder maps handler outcomes onto envelopes.
type Responder struct {
	log *zap.Logger
}

// NewResponder creates a Responder.
func NewResponder(log *zap.Logger) *Responder {
	return &Responder{log: log}
}

// OK writes a 200 envelope carrying data.
func (r *Responder) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Code:    http.StatusOK,
		Success: true,
		Message: successMessage,
		Data:    data,
	})
}

// Error classifies err and writes the matching envelope. Errors that are
// not *apperrors.Error are treated as unknown. Unknown errors are logged
// with their cause and answered with a generic message.
func (r *Responder) Error(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError(internalMessage, err)
	}

	status := StatusOf(appErr.Kind)
	env := Envelope{Code: status, Message: appErr.Message}

	switch appErr.Kind {
	case apperrors.KindValidation, apperrors.KindConflict:
		env.Errors = appErr.Fields
	case apperrors.KindAuth, apperrors.KindNotFound:
	case apperrors.KindUnknown:
		env.Message = internalMessage
		logger.WithContext(c.Request.Context(), r.log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, env)
}

// Write sends a bare failure envelope for outcomes outside the error
// taxonomy, such as throttling.
func Write(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Code: status, Message: message})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindAuth:
		return http.StatusUnauthorized
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
