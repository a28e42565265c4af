package user

import (
	"time"

	domain "user-auth-service/internal/domain/user"
)

// RegisterRequest carries an already validated and normalized sign-up.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginRequest carries validated credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string
}

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserRequest represents a partial update. Nil fields are unchanged.
type UpdateUserRequest struct {
	ID   int64
	Name *string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// ListUsersRequest selects a page of users. The page size is fixed.
type ListUsersRequest struct {
	Page  int64
	Order domain.SortOrder
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users      []User
	Pagination *domain.Pagination
}

// User is the public view of a user. It has no credential field.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
