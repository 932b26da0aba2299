package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated            = "user.created"
	EventTypePasswordResetRequested = "password.reset_requested"
)

// UserCreatedEvent carries the generated password only when the account
// was created without one, so the welcome mail can deliver it.
type UserCreatedEvent struct {
	BaseEvent
	UserID            int64  `json:"user_id"`
	EID               string `json:"eid"`
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	GeneratedPassword string `json:"-"`
}

func NewUserCreatedEvent(userID int64, eid, email, firstName, generatedPassword string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"eid":     eid,
				"email":   email,
			},
		},
		UserID:            userID,
		EID:               eid,
		Email:             email,
		FirstName:         firstName,
		GeneratedPassword: generatedPassword,
	}
}

type PasswordResetRequestedEvent struct {
	BaseEvent
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewPasswordResetRequestedEvent(userID int64, email, firstName, token string, expiresAt time.Time) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordResetRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}
