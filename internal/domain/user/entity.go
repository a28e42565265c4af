package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID           int64     // ID is assigned by storage and never changes
	Name         string    // Name is the display name of the user
	Email        string    // Email is the normalized, unique email address
	PasswordHash string    // PasswordHash is only populated by credential lookups
	CreatedAt    time.Time // CreatedAt is set by storage on insert
	UpdatedAt    time.Time // UpdatedAt is set by storage on every write
}

// UpdateFields lists the columns a partial update may change. Nil fields are
// left untouched.
type UpdateFields struct {
	Name *string
}

// Empty reports whether the update changes nothing.
func (f UpdateFields) Empty() bool {
	return f.Name == nil
}

// Projection selects which columns a read returns.
type Projection int

const (
	// PublicProjection excludes the password hash. It is the default.
	PublicProjection Projection = iota
	// CredentialProjection includes the password hash, for the login path only.
	CredentialProjection
)
