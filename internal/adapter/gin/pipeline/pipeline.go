// Package pipeline runs every route through the same fixed stages:
// bind, validate, authenticate, handle, respond. The first failing stage
// ends the request.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"user-auth-service/internal/adapter/gin/middleware"
	"user-auth-service/internal/adapter/gin/response"
	apperrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/logger"
	"user-auth-service/pkg/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func init() {
	// numbers reach the payload as their literal text
	binding.EnableDecoderUseNumber = true
}

// Request is what a handler receives after the pipeline stages passed.
type Request struct {
	// Payload holds validated body fields and path parameters.
	Payload validation.Payload
	Query   url.Values
	// Identity is set only on routes that require auth.
	Identity *middleware.Identity
}

// Handler is a route body. The returned data becomes the envelope's data.
type Handler func(ctx context.Context, req Request) (any, error)

// Route declares one endpoint.
type Route struct {
	Schema      validation.Schema
	RequireAuth bool
	Handle      Handler
}

// Pipeline builds gin handlers from routes.
type Pipeline struct {
	validator *validation.Validator
	auth      *middleware.Authenticator
	responder *response.Responder
	log       *zap.Logger
}

// New creates a Pipeline.
func New(v *validation.Validator, auth *middleware.Authenticator, responder *response.Responder, log *zap.Logger) *Pipeline {
	return &Pipeline{validator: v, auth: auth, responder: responder, log: log}
}

// Responder returns the responder shared by every route.
func (p *Pipeline) Responder() *response.Responder {
	return p.responder
}

// Handle adapts route to gin.
func (p *Pipeline) Handle(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := bind(c)
		if err != nil {
			p.responder.Error(c, err)
			return
		}

		if len(route.Schema) > 0 {
			payload, err = p.validator.Validate(route.Schema, payload)
			if err != nil {
				logger.WithContext(c.Request.Context(), p.log).Debug("validation failed",
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
				p.responder.Error(c, err)
				return
			}
		}

		req := Request{Payload: payload, Query: c.Request.URL.Query()}
		ctx := c.Request.Context()

		if route.RequireAuth {
			identity, err := p.auth.Authenticate(c.Request)
			if err != nil {
				p.responder.Error(c, err)
				return
			}
			req.Identity = &identity
			ctx = logger.WithUserID(ctx, identity.UserID)
		}

		data, err := route.Handle(ctx, req)
		if err != nil {
			p.responder.Error(c, err)
			return
		}
		p.responder.OK(c, data)
	}
}

// NotFound answers unmatched routes through the responder.
func (p *Pipeline) NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		p.responder.Error(c, apperrors.NewNotFoundError("route",
			fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path)))
	}
}

// bind flattens the body and the path parameters into one payload. Path
// parameters win over body fields of the same name.
func bind(c *gin.Context) (validation.Payload, error) {
	payload := make(validation.Payload)

	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		switch c.ContentType() {
		case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
			if err := bindForm(c, payload); err != nil {
				return nil, err
			}
		default:
			if err := bindJSON(c, payload); err != nil {
				return nil, err
			}
		}
	}

	for _, param := range c.Params {
		payload[param.Key] = param.Value
	}
	return payload, nil
}

func bindForm(c *gin.Context, payload validation.Payload) error {
	var err error
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		err = c.Request.ParseMultipartForm(maxBodyBytes)
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		return apperrors.NewValidationError(map[string]string{"body": "Request body could not be parsed"})
	}

	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return nil
}

func bindJSON(c *gin.Context, payload validation.Payload) error {
	var raw map[string]any
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewValidationError(map[string]string{"body": "Request body must be a valid JSON object"})
	}

	failed := make(map[string]string)
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			payload[key] = v
		case json.Number:
			payload[key] = v.String()
		case bool:
			payload[key] = fmt.Sprint(v)
		default:
			failed[key] = fmt.Sprintf("%s must be a plain value", key)
		}
	}
	if len(failed) > 0 {
		return apperrors.NewValidationError(failed)
	}
	return nil
}
