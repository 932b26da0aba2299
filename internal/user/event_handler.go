package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/training-management/internal/core/events"
	"github.com/frahmantamala/training-management/internal/mailer"
)

type EventHandler struct {
	sender mailer.Sender
	logger *slog.Logger
}

func NewEventHandler(sender mailer.Sender, logger *slog.Logger) *EventHandler {
	return &EventHandler{sender: sender, logger: logger}
}

func (h *EventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeUserCreated, h.HandleUserCreated)
}

// HandleUserCreated sends the welcome mail, including the password when one was generated.
func (h *EventHandler) HandleUserCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.UserCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	msg, err := mailer.WelcomeMessage(e.Email, e.FirstName, e.EID, e.GeneratedPassword)
	if err != nil {
		return err
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send welcome email", "user_id", e.UserID, "error", err)
		return err
	}
	h.logger.Info("welcome email sent", "user_id", e.UserID)
	return nil
}
