package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/training-management/internal/core/events"
	"github.com/frahmantamala/training-management/internal/mailer"
)

type EventHandler struct {
	sender   mailer.Sender
	resetURL string
	logger   *slog.Logger
}

func NewEventHandler(sender mailer.Sender, resetURL string, logger *slog.Logger) *EventHandler {
	return &EventHandler{sender: sender, resetURL: resetURL, logger: logger}
}

func (h *EventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypePasswordResetRequested, h.HandlePasswordResetRequested)
}

func (h *EventHandler) HandlePasswordResetRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PasswordResetRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	link, err := resetLink(h.resetURL, e.Token)
	if err != nil {
		return err
	}

	msg, err := mailer.PasswordResetMessage(e.Email, e.FirstName, link, e.ExpiresAt)
	if err != nil {
		return err
	}

	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send password reset email", "user_id", e.UserID, "error", err)
		return err
	}
	return nil
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
