package handler

import (
	"strconv"
	"time"

	"user-auth-service/internal/usecase/user"
	apperrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/validation"
)

// TokenResponse is the data of register and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public JSON view of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListUsersResponse is the data of GET /user.
type ListUsersResponse struct {
	Items      []UserResponse `json:"items"`
	TotalCount int64          `json:"totalCount"`
	Page       int64          `json:"page"`
	Limit      int64          `json:"limit"`
	TotalPages int64          `json:"totalPages"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// pathID reads the validated id parameter. Digits that overflow int64 are
// reported like any other invalid id.
func pathID(p validation.Payload) (int64, error) {
	id, err := strconv.ParseInt(p.Get("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(map[string]string{"id": idMessage})
	}
	return id, nil
}
