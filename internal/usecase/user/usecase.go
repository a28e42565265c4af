package user

import (
	"context"

	"go.uber.org/zap"

	"user-auth-service/internal/adapter/events"
	domain "user-auth-service/internal/domain/user"
	apperrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/logger"
)

// Repository defines the interface for user data access operations.
// Implementations report missing rows as NotFound and unique violations as
// Conflict; FindByEmail returns (nil, nil) for an unknown address.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string, projection domain.Projection) (*domain.User, error)
	Update(ctx context.Context, id int64, fields domain.UpdateFields) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, req domain.PageRequest) (*domain.Page, error)
}

// Hasher turns plaintext passwords into digests and checks them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

const emailInUseMessage = "E-mail already in use"

// usecase implements Usecase for registration, login and user management.
// It holds no per-request state.
type usecase struct {
	repo   Repository
	hasher Hasher
	tokens TokenIssuer
	events events.Publisher
	log    *zap.Logger
}

var _ Usecase = (*usecase)(nil)

// New creates a new instance of Usecase. A nil publisher disables events.
func New(r Repository, h Hasher, t TokenIssuer, p events.Publisher, log *zap.Logger) Usecase {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &usecase{repo: r, hasher: h, tokens: t, events: p, log: log}
}

// Register creates an account and returns a token for it.
func (uc *usecase) Register(ctx context.Context, in RegisterRequest) (*TokenResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("registering user", zap.String("email", in.Email))

	created, err := uc.create(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, events.NewUserEvent(events.UserRegistered, created.ID, created.Email))

	return uc.issue(ctx, created.ID)
}

// Login checks credentials and returns a fresh token. An unknown email is
// NotFound; a wrong password is an auth failure.
func (uc *usecase) Login(ctx context.Context, in LoginRequest) (*TokenResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.FindByEmail(ctx, in.Email, domain.CredentialProjection)
	if err != nil {
		log.Error("failed to look up user for login", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if u == nil {
		log.Warn("login for unknown email", zap.String("email", in.Email))
		return nil, apperrors.NewNotFoundError("user", "User with this e-mail not found")
	}

	if !uc.hasher.Verify(in.Password, u.PasswordHash) {
		log.Warn("password mismatch", zap.Int64("user_id", u.ID))
		return nil, apperrors.NewAuthError(apperrors.ReasonCredentialMismatch, "")
	}

	log.Info("user logged in", zap.Int64("user_id", u.ID))
	return uc.issue(ctx, u.ID)
}

// Me returns the profile of the authenticated user. A user deleted after the
// token was issued yields NotFound.
func (uc *usecase) Me(ctx context.Context, userID int64) (*User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		logger.WithContext(ctx, uc.log).Warn("failed to load current user", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// CreateUser creates a user without issuing a token.
func (uc *usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	logger.WithContext(ctx, uc.log).Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	created, err := uc.create(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, events.NewUserEvent(events.UserCreated, created.ID, created.Email))

	return toDTO(created), nil
}

// UpdateUser applies a partial update and returns the stored result.
func (uc *usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", in.ID))

	updated, err := uc.repo.Update(ctx, in.ID, domain.UpdateFields{Name: in.Name})
	if err != nil {
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	uc.publish(ctx, events.NewUserEvent(events.UserUpdated, updated.ID, updated.Email))

	return toDTO(updated), nil
}

// DeleteUser removes a user and returns its last state.
func (uc *usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	deleted, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	uc.publish(ctx, events.NewUserEvent(events.UserDeleted, deleted.ID, deleted.Email))

	return toDTO(deleted), nil
}

// GetUser retrieves a user by ID.
func (uc *usecase) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		logger.WithContext(ctx, uc.log).Warn("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// ListUsers returns one fixed-size page ordered by id plus the total count.
func (uc *usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	req := domain.PageRequest{Page: in.Page, Order: in.Order}.Normalize()

	log := logger.WithContext(ctx, uc.log)
	log.Info("listing users", zap.Int64("page", req.Page), zap.String("order", string(req.Order)))

	page, err := uc.repo.List(ctx, req)
	if err != nil {
		log.Error("failed to list users", zap.Int64("page", req.Page), zap.Error(err))
		return nil, err
	}

	users := make([]User, len(page.Items))
	for i := range page.Items {
		users[i] = *toDTO(&page.Items[i])
	}

	return &ListUsersResponse{
		Users:      users,
		Pagination: domain.NewPagination(page.Total, req.Page, req.Limit),
	}, nil
}

// create is shared by Register and CreateUser. The email pre-check only
// produces an early conflict; the unique index remains the authority.
func (uc *usecase) create(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.WithContext(ctx, uc.log)

	existing, err := uc.repo.FindByEmail(ctx, email, domain.PublicProjection)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		log.Warn("email already exists", zap.String("email", email), zap.Int64("existing_id", existing.ID))
		return nil, apperrors.NewConflictError("email", emailInUseMessage)
	}

	digest, err := uc.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	created, err := uc.repo.Create(ctx, &domain.User{Name: name, Email: email, PasswordHash: digest})
	if err != nil {
		log.Warn("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	log.Info("user created", zap.Int64("id", created.ID))
	return created, nil
}

func (uc *usecase) issue(ctx context.Context, userID int64) (*TokenResponse, error) {
	token, err := uc.tokens.Issue(userID)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to issue token", zap.Int64("user_id", userID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{Token: token}, nil
}

func (uc *usecase) publish(ctx context.Context, evt events.UserEvent) {
	if err := uc.events.Publish(ctx, evt); err != nil {
		logger.WithContext(ctx, uc.log).Warn("event not delivered",
			zap.String("type", string(evt.Type)),
			zap.Int64("user_id", evt.UserID),
			zap.Error(err),
		)
	}
}
