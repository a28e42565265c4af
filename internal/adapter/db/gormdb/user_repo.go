// Package gormdb persists users through GORM. The same code runs against
// PostgreSQL, MySQL and SQLite; only the dialector differs.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-auth-service/internal/domain/user"
	apperrors "user-auth-service/pkg/errors"
)

// UserRepo implements the user repository on top of GORM.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema maps the "Users" table.
type UserSchema struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:255;not null"`
	Email     string    `gorm:"column:email;size:255;not null;unique"`
	Password  string    `gorm:"column:password;size:255;not null"`
	CreatedAt time.Time `gorm:"column:createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "Users"
}

// publicColumns never includes the password digest.
var publicColumns = []string{"id", "name", "email", "createdAt", "updatedAt"}

func (m UserSchema) toDomain() *user.User {
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create inserts a user and returns its public projection. A duplicate email
// is reported as a conflict on the "email" field.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, apperrors.NewInternalError("user cannot be nil", nil)
	}

	model := UserSchema{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.PasswordHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("duplicate email on insert", zap.String("email", u.Email))
			return nil, apperrors.NewConflictError("email", "E-mail already in use")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	created := model.toDomain()
	created.PasswordHash = ""
	return created, nil
}

// FindByID returns the public projection of a user.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	model, err := findByID(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, r.translate(err, id, "failed to get user")
	}
	return model.toDomain(), nil
}

// FindByEmail looks a user up by exact email. A missing user yields (nil, nil).
// CredentialProjection also loads the password digest.
func (r *UserRepo) FindByEmail(ctx context.Context, email string, projection user.Projection) (*user.User, error) {
	q := r.db.WithContext(ctx)
	if projection != user.CredentialProjection {
		q = q.Select(publicColumns)
	}

	var model UserSchema
	if err := q.Where(clause.Eq{Column: clause.Column{Name: "email"}, Value: email}).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, apperrors.NewInternalError("failed to get user by email", err)
	}
	return model.toDomain(), nil
}

// Update applies fields to the user and returns the post-update row. An empty
// change set returns the current row untouched.
func (r *UserRepo) Update(ctx context.Context, id int64, fields user.UpdateFields) (*user.User, error) {
	var updated *UserSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if fields.Empty() {
			updated = current
			return nil
		}

		changes := make(map[string]any, 1)
		if fields.Name != nil {
			changes["name"] = *fields.Name
		}
		if err := tx.Model(&UserSchema{ID: id}).Updates(changes).Error; err != nil {
			return err
		}

		updated, err = findByID(tx, id)
		return err
	})
	if err != nil {
		return nil, r.translate(err, id, "failed to update user")
	}

	r.log.Info("user updated in db", zap.Int64("id", id))
	return updated.toDomain(), nil
}

// Delete removes the user and returns its last state.
func (r *UserRepo) Delete(ctx context.Context, id int64) (*user.User, error) {
	var snapshot *UserSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snapshot, err = findByID(tx, id)
		if err != nil {
			return err
		}
		return tx.Delete(&UserSchema{}, id).Error
	})
	if err != nil {
		return nil, r.translate(err, id, "failed to delete user")
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return snapshot.toDomain(), nil
}

// List returns one page of users ordered by id together with the total count.
func (r *UserRepo) List(ctx context.Context, req user.PageRequest) (*user.Page, error) {
	req = req.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to count users", err)
	}

	var models []UserSchema
	err := r.db.WithContext(ctx).
		Select(publicColumns).
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: "id"},
			Desc:   req.Order == user.SortDesc,
		}).
		Offset(int(req.Offset())).
		Limit(int(req.Limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list users", zap.Error(err), zap.Int64("page", req.Page))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	items := make([]user.User, 0, len(models))
	for _, m := range models {
		items = append(items, *m.toDomain())
	}

	r.log.Debug("users listed from db", zap.Int64("page", req.Page), zap.Int("count", len(items)), zap.Int64("total", total))
	return &user.Page{Items: items, Total: total}, nil
}

// Ping checks the underlying connection.
func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func findByID(db *gorm.DB, id int64) (*UserSchema, error) {
	var model UserSchema
	if err := db.Select(publicColumns).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *UserRepo) translate(err error, id int64, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Warn("user not found", zap.Int64("id", id))
		return apperrors.NewNotFoundError("user", fmt.Sprintf("user with id %d not found", id))
	}
	r.log.Error(msg, zap.Error(err), zap.Int64("id", id))
	return apperrors.NewInternalError(msg, err)
}
