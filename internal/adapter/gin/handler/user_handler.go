package handler

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"user-auth-service/internal/adapter/gin/pipeline"
	domain "user-auth-service/internal/domain/user"
	"user-auth-service/internal/usecase/user"
	"user-auth-service/pkg/logger"
)

// UserHandler handles the /user resource.
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// CreateUser handles POST /user
func (h *UserHandler) CreateUser(ctx context.Context, req pipeline.Request) (any, error) {
	u, err := h.uc.CreateUser(ctx, user.CreateUserRequest{
		Name:     req.Payload.Get("name"),
		Email:    req.Payload.Get("email"),
		Password: req.Payload.Get("password"),
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// GetUser handles GET /user/:id
func (h *UserHandler) GetUser(ctx context.Context, req pipeline.Request) (any, error) {
	id, err := pathID(req.Payload)
	if err != nil {
		return nil, err
	}

	u, err := h.uc.GetUser(ctx, user.GetUserRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// UpdateUser handles PATCH /user/:id. Only name is writable.
func (h *UserHandler) UpdateUser(ctx context.Context, req pipeline.Request) (any, error) {
	id, err := pathID(req.Payload)
	if err != nil {
		return nil, err
	}

	in := user.UpdateUserRequest{ID: id}
	if req.Payload.Has("name") {
		name := req.Payload.Get("name")
		in.Name = &name
	}

	u, err := h.uc.UpdateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// DeleteUser handles DELETE /user/:id
func (h *UserHandler) DeleteUser(ctx context.Context, req pipeline.Request) (any, error) {
	id, err := pathID(req.Payload)
	if err != nil {
		return nil, err
	}

	u, err := h.uc.DeleteUser(ctx, user.DeleteUserRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// ListUsers handles GET /user?page=N&order=asc|desc. A missing or bad page
// falls back to the first page.
func (h *UserHandler) ListUsers(ctx context.Context, req pipeline.Request) (any, error) {
	page, err := strconv.ParseInt(req.Query.Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	order := domain.ParseSortOrder(req.Query.Get("order"))

	logger.WithContext(ctx, h.log).Debug("list users request", zap.Int64("page", page), zap.String("order", string(order)))

	resp, err := h.uc.ListUsers(ctx, user.ListUsersRequest{Page: page, Order: order})
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		items[i] = toUserResponse(&resp.Users[i])
	}

	return ListUsersResponse{
		Items:      items,
		TotalCount: resp.Pagination.Total,
		Page:       resp.Pagination.Page,
		Limit:      resp.Pagination.Limit,
		TotalPages: resp.Pagination.TotalPages,
	}, nil
}
