// Package events publishes user lifecycle events. Publishing is best effort:
// a failed publish is logged by the caller and never fails the request.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a user lifecycle event. It doubles as the AMQP type header.
type Type string

const (
	UserRegistered Type = "user.registered"
	UserCreated    Type = "user.created"
	UserUpdated    Type = "user.updated"
	UserDeleted    Type = "user.deleted"
)

// UserEvent is the message body. It never carries credentials.
type UserEvent struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     int64     `json:"userId"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewUserEvent stamps a fresh event id and time.
func NewUserEvent(t Type, userID int64, email string) UserEvent {
	return UserEvent{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers user events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evt UserEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, UserEvent) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
