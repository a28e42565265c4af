package handler

import (
	"context"

	"go.uber.org/zap"

	"user-auth-service/internal/adapter/gin/pipeline"
	"user-auth-service/internal/usecase/user"
	"user-auth-service/pkg/logger"
)

// AuthHandler serves registration, login and the current user.
type AuthHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc user.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(ctx context.Context, req pipeline.Request) (any, error) {
	logger.WithContext(ctx, h.log).Info("register request", zap.String("email", req.Payload.Get("email")))

	resp, err := h.uc.Register(ctx, user.RegisterRequest{
		Name:     req.Payload.Get("name"),
		Email:    req.Payload.Get("email"),
		Password: req.Payload.Get("password"),
	})
	if err != nil {
		return nil, err
	}
	return TokenResponse{Token: resp.Token}, nil
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(ctx context.Context, req pipeline.Request) (any, error) {
	resp, err := h.uc.Login(ctx, user.LoginRequest{
		Email:    req.Payload.Get("email"),
		Password: req.Payload.Get("password"),
	})
	if err != nil {
		return nil, err
	}
	return TokenResponse{Token: resp.Token}, nil
}

// Me handles GET /me. The route requires auth, so Identity is set.
func (h *AuthHandler) Me(ctx context.Context, req pipeline.Request) (any, error) {
	u, err := h.uc.Me(ctx, req.Identity.UserID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}
